// internal/config/config.go
//
// This package handles configuration and the .magicsquare directory structure.
// The directory lives next to wherever magicsquare is started (or under
// --home / $MAGICSQUARE_HOME) and holds the settings file and the journal.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Dir is the name of the directory we create in the base directory
	Dir = ".magicsquare"

	// HomeEnv overrides the base directory when no --home flag is given
	HomeEnv = "MAGICSQUARE_HOME"

	configFileName        = "config.yaml"
	defaultCellWidth      = 6
	minCellWidth          = 3
	defaultRevealInterval = 40 * time.Millisecond
)

const defaultSettingsYAML = `# magicsquare configuration
version: 1

# Sizes offered by the interactive prompt. Every entry must be a positive odd number.
sizes: [3, 5, 7, 9]

# Width of one grid cell in terminal columns.
cell_width: 6

# Delay between numbers while the square is drawn. Use 0s to draw it at once.
reveal_interval: 40ms

palette:
  title: "#059669"
  border: "#1f2937"
  even_fill: "#e0f2f1"
  even_text: "#0e7490"
  odd_fill: "#fef2f2"
  odd_text: "#dc2626"
  muted: "#888888"
`

// Palette holds the colours used to draw the grid.
type Palette struct {
	Title    string `yaml:"title"`
	Border   string `yaml:"border"`
	EvenFill string `yaml:"even_fill"`
	EvenText string `yaml:"even_text"`
	OddFill  string `yaml:"odd_fill"`
	OddText  string `yaml:"odd_text"`
	Muted    string `yaml:"muted"`
}

// Settings models .magicsquare/config.yaml.
type Settings struct {
	Version        int     `yaml:"version"`
	Sizes          []int   `yaml:"sizes,flow"`
	CellWidth      int     `yaml:"cell_width"`
	RevealInterval string  `yaml:"reveal_interval"`
	LastSize       int     `yaml:"last_size,omitempty"`
	Palette        Palette `yaml:"palette"`
}

// Config holds the runtime configuration for magicsquare.
type Config struct {
	// BaseDir is the directory .magicsquare was created in
	BaseDir string

	// StateDir is BaseDir/.magicsquare
	StateDir string

	Settings Settings

	revealInterval time.Duration
}

// InitDir creates the .magicsquare directory structure in baseDir.
//
// Structure created:
// .magicsquare/
// ├── config.yaml  <- Settings (written with defaults on first run)
// └── logs/        <- Journal of interactive sessions
func InitDir(baseDir string) error {
	stateDir := filepath.Join(baseDir, Dir)
	if err := os.MkdirAll(filepath.Join(stateDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", stateDir, err)
	}
	return ensureSettingsFile(filepath.Join(stateDir, configFileName))
}

// ResolveBaseDir picks the base directory: the explicit flag value first,
// then $MAGICSQUARE_HOME, then the working directory.
func ResolveBaseDir(flagValue string) (string, error) {
	dir := strings.TrimSpace(flagValue)
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(HomeEnv))
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("config: working directory: %w", err)
		}
		dir = cwd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", dir, err)
	}
	return abs, nil
}

// NewConfig loads settings for baseDir. A missing config file yields defaults.
func NewConfig(baseDir string) (*Config, error) {
	cfg := &Config{
		BaseDir:  baseDir,
		StateDir: filepath.Join(baseDir, Dir),
		Settings: defaultSettings(),
	}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns the on-disk location of the settings file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.StateDir, configFileName)
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// JournalPath returns the file the interactive session journal is written to
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journey.log")
}

// Sizes returns the sizes offered by the interactive prompt.
func (c *Config) Sizes() []int {
	out := make([]int, len(c.Settings.Sizes))
	copy(out, c.Settings.Sizes)
	return out
}

// AllowsSize reports whether n is one of the configured sizes.
func (c *Config) AllowsSize(n int) bool {
	for _, size := range c.Settings.Sizes {
		if size == n {
			return true
		}
	}
	return false
}

// SizeChoices renders the configured sizes for prompts, e.g. "3, 5, 7, 9".
func (c *Config) SizeChoices() string {
	parts := make([]string, len(c.Settings.Sizes))
	for i, size := range c.Settings.Sizes {
		parts[i] = strconv.Itoa(size)
	}
	return strings.Join(parts, ", ")
}

// CellWidth returns the width of one grid cell in terminal columns.
func (c *Config) CellWidth() int {
	return c.Settings.CellWidth
}

// RevealInterval returns the delay between numbers while drawing.
func (c *Config) RevealInterval() time.Duration {
	return c.revealInterval
}

// Palette returns the grid colours.
func (c *Config) Palette() Palette {
	return c.Settings.Palette
}

// LastSize returns the most recently generated size, or the first configured
// size when nothing has been generated yet.
func (c *Config) LastSize() int {
	if c.Settings.LastSize > 0 {
		return c.Settings.LastSize
	}
	if len(c.Settings.Sizes) > 0 {
		return c.Settings.Sizes[0]
	}
	return 0
}

// SetLastSize records n as the most recent size and persists the settings so
// the prompt can offer it on the next launch.
func (c *Config) SetLastSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("config: last size must be positive, got %d", n)
	}
	c.Settings.LastSize = n
	return c.saveSettings()
}

func (c *Config) loadSettings() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c.applySettings(c.Settings)
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed Settings
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c.applySettings(parsed)
}

func (c *Config) applySettings(s Settings) error {
	s.applyDefaults()
	s.normalize()
	interval, err := s.validate()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Settings = s
	c.revealInterval = interval
	return nil
}

func defaultSettings() Settings {
	return Settings{
		Version:        1,
		Sizes:          []int{3, 5, 7, 9},
		CellWidth:      defaultCellWidth,
		RevealInterval: defaultRevealInterval.String(),
		Palette:        defaultPalette(),
	}
}

func defaultPalette() Palette {
	return Palette{
		Title:    "#059669",
		Border:   "#1f2937",
		EvenFill: "#e0f2f1",
		EvenText: "#0e7490",
		OddFill:  "#fef2f2",
		OddText:  "#dc2626",
		Muted:    "#888888",
	}
}

func (s *Settings) applyDefaults() {
	if s.Version == 0 {
		s.Version = 1
	}
	if s.Sizes == nil {
		s.Sizes = []int{3, 5, 7, 9}
	}
	if s.CellWidth == 0 {
		s.CellWidth = defaultCellWidth
	}
	if strings.TrimSpace(s.RevealInterval) == "" {
		s.RevealInterval = defaultRevealInterval.String()
	}
	defaults := defaultPalette()
	fill := func(value *string, fallback string) {
		if strings.TrimSpace(*value) == "" {
			*value = fallback
		}
	}
	fill(&s.Palette.Title, defaults.Title)
	fill(&s.Palette.Border, defaults.Border)
	fill(&s.Palette.EvenFill, defaults.EvenFill)
	fill(&s.Palette.EvenText, defaults.EvenText)
	fill(&s.Palette.OddFill, defaults.OddFill)
	fill(&s.Palette.OddText, defaults.OddText)
	fill(&s.Palette.Muted, defaults.Muted)
}

func (s *Settings) normalize() {
	seen := map[int]struct{}{}
	sizes := make([]int, 0, len(s.Sizes))
	for _, size := range s.Sizes {
		if _, ok := seen[size]; ok {
			continue
		}
		seen[size] = struct{}{}
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	s.Sizes = sizes
	s.RevealInterval = strings.TrimSpace(s.RevealInterval)
	s.Palette.Title = strings.TrimSpace(s.Palette.Title)
	s.Palette.Border = strings.TrimSpace(s.Palette.Border)
	s.Palette.EvenFill = strings.TrimSpace(s.Palette.EvenFill)
	s.Palette.EvenText = strings.TrimSpace(s.Palette.EvenText)
	s.Palette.OddFill = strings.TrimSpace(s.Palette.OddFill)
	s.Palette.OddText = strings.TrimSpace(s.Palette.OddText)
	s.Palette.Muted = strings.TrimSpace(s.Palette.Muted)
}

func (s *Settings) validate() (time.Duration, error) {
	if s.Version < 1 {
		return 0, fmt.Errorf("config version must be >= 1")
	}
	if len(s.Sizes) == 0 {
		return 0, fmt.Errorf("sizes must list at least one size")
	}
	for i, size := range s.Sizes {
		if size <= 0 || size%2 == 0 {
			return 0, fmt.Errorf("sizes[%d]: %d is not a positive odd number", i, size)
		}
	}
	if s.CellWidth < minCellWidth {
		return 0, fmt.Errorf("cell_width must be >= %d", minCellWidth)
	}
	if s.LastSize < 0 {
		return 0, fmt.Errorf("last_size must not be negative")
	}
	interval, err := time.ParseDuration(s.RevealInterval)
	if err != nil {
		return 0, fmt.Errorf("reveal_interval: %w", err)
	}
	if interval < 0 {
		return 0, fmt.Errorf("reveal_interval must not be negative")
	}
	return interval, nil
}

func ensureSettingsFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultSettingsYAML), 0o644)
}

func (c *Config) saveSettings() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Settings.applyDefaults()
	c.Settings.normalize()
	interval, err := c.Settings.validate()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.revealInterval = interval
	if err := os.MkdirAll(c.StateDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure state dir: %w", err)
	}
	data, err := yaml.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("config: encode settings: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write settings: %w", err)
	}
	return nil
}
