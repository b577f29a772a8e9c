// internal/tui/app.go
//
// This is the interactive front end for magicsquare.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The screens run prompt -> reveal -> grid. The reveal screen draws the
// numbers one at a time in the order the Siamese method placed them.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/kingrea/magicsquare/internal/config"
	"github.com/kingrea/magicsquare/internal/logbook"
	"github.com/kingrea/magicsquare/internal/prompt"
	"github.com/kingrea/magicsquare/internal/square"
)

// appState represents which "screen" we're on
type appState int

const (
	statePrompt appState = iota // Asking for a size
	stateReveal                 // Drawing numbers one by one
	stateGrid                   // Finished square on screen
)

const logPanelLines = 5

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithSessionID fixes the id written to the journal instead of a random one.
func WithSessionID(id string) AppOption {
	return func(a *App) {
		if strings.TrimSpace(id) != "" {
			a.sessionID = id
		}
	}
}

// WithRenderer overrides the lipgloss renderer used for the grid.
func WithRenderer(r *lipgloss.Renderer) AppOption {
	return func(a *App) {
		if r != nil {
			a.renderer = r
		}
	}
}

// revealTickMsg advances the reveal animation. seq ties the tick to the
// square it was scheduled for so ticks from an abandoned square are ignored.
type revealTickMsg struct {
	seq int
}

type keyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Skip   key.Binding
	Again  key.Binding
	Back   key.Binding
	Quit   key.Binding
	Abort  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit")),
		Skip:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("space", "draw all")),
		Again:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new size")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Abort:  key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state     appState
	config    *config.Config
	logbook   *logbook.Logbook
	sessionID string

	// UI components
	input    textinput.Model
	help     help.Model
	keys     keyMap
	renderer *lipgloss.Renderer
	grid     *GridRenderer

	square    square.Square
	revealed  int
	revealSeq int

	statusMsg string // Status message to display
	err       error  // Any error to display

	width  int
	height int
}

// NewApp creates a new App for the .magicsquare directory under baseDir.
func NewApp(baseDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(baseDir)
	if err != nil {
		return nil, err
	}

	input := textinput.New()
	input.Placeholder = cfg.SizeChoices()
	input.CharLimit = 6
	input.Width = 12
	input.Prompt = "n = "
	if last := cfg.LastSize(); last > 0 {
		input.SetValue(fmt.Sprint(last))
	}
	input.Focus()

	app := &App{
		state:     statePrompt,
		config:    cfg,
		sessionID: uuid.NewString(),
		input:     input,
		help:      help.New(),
		keys:      newKeyMap(),
		renderer:  lipgloss.DefaultRenderer(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.grid = NewGridRenderer(app.renderer, cfg.CellWidth(), cfg.Palette())

	lb, err := logbook.New(cfg.JournalPath())
	if err == nil {
		app.logbook = lb
		lb.SetSession(shortID(app.sessionID))
		lb.Info("Session opened · sizes %s", cfg.SizeChoices())
	}
	app.statusMsg = prompt.Question(cfg)
	return app, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case revealTickMsg:
		return a.advanceReveal(msg)

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Abort) {
			a.logInfo("Session closed")
			return a, tea.Quit
		}
		switch a.state {
		case statePrompt:
			switch {
			case key.Matches(msg, a.keys.Submit):
				return a.submitSize()
			case key.Matches(msg, a.keys.Cancel):
				a.logInfo("Prompt cancelled")
				return a, tea.Quit
			}
		case stateReveal:
			switch {
			case key.Matches(msg, a.keys.Skip):
				a.finishReveal()
				return a, nil
			case key.Matches(msg, a.keys.Back), key.Matches(msg, a.keys.Again):
				return a.returnToPrompt()
			case key.Matches(msg, a.keys.Quit):
				a.logInfo("Session closed")
				return a, tea.Quit
			}
			return a, nil
		case stateGrid:
			switch {
			case key.Matches(msg, a.keys.Back), key.Matches(msg, a.keys.Again):
				return a.returnToPrompt()
			case key.Matches(msg, a.keys.Quit):
				a.logInfo("Session closed")
				return a, tea.Quit
			}
			return a, nil
		}
	}

	if a.state == statePrompt {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// submitSize validates the prompt value and starts drawing a new square.
func (a *App) submitSize() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(a.input.Value())
	n, err := prompt.ParseSize(text)
	if err != nil {
		a.err = fmt.Errorf("%q is not a whole number", text)
		a.statusMsg = fmt.Sprintf("%q is not a whole number. %s", text, prompt.RejectMessage(a.config))
		a.logWarn("Prompt · rejected %q", text)
		return a, nil
	}
	if !a.config.AllowsSize(n) {
		a.err = fmt.Errorf("size %d is not offered", n)
		a.statusMsg = prompt.RejectMessage(a.config)
		a.logWarn("Prompt · size %d not offered", n)
		return a, nil
	}

	sq, err := square.Construct(n)
	if err != nil {
		a.err = err
		a.statusMsg = fmt.Sprintf("Cannot build square: %v", err)
		a.logError("Construct(%d) failed: %v", n, err)
		return a, nil
	}
	if err := a.config.SetLastSize(n); err != nil {
		a.logWarn("Saving last size failed: %v", err)
	}

	a.err = nil
	a.square = sq
	a.revealSeq++
	a.input.Blur()
	a.logInfo("Square n=%d generated · magic sum %d", n, sq.MagicSum())

	if a.config.RevealInterval() <= 0 {
		a.finishReveal()
		return a, nil
	}
	a.state = stateReveal
	a.revealed = 0
	a.statusMsg = fmt.Sprintf("Drawing the %dx%d square...", n, n)
	return a, a.scheduleReveal()
}

func (a *App) scheduleReveal() tea.Cmd {
	seq := a.revealSeq
	return tea.Tick(a.config.RevealInterval(), func(time.Time) tea.Msg {
		return revealTickMsg{seq: seq}
	})
}

func (a *App) advanceReveal(msg revealTickMsg) (tea.Model, tea.Cmd) {
	if a.state != stateReveal || msg.seq != a.revealSeq {
		return a, nil
	}
	a.revealed++
	total := a.square.Size() * a.square.Size()
	if a.revealed >= total {
		a.finishReveal()
		return a, nil
	}
	a.statusMsg = fmt.Sprintf("Placed %d of %d", a.revealed, total)
	return a, a.scheduleReveal()
}

func (a *App) finishReveal() {
	n := a.square.Size()
	a.state = stateGrid
	a.revealed = n * n
	a.statusMsg = fmt.Sprintf("Every row, column and diagonal sums to %d", a.square.MagicSum())
}

// returnToPrompt transitions back to the size prompt
func (a *App) returnToPrompt() (tea.Model, tea.Cmd) {
	a.state = statePrompt
	a.revealSeq++
	a.statusMsg = prompt.Question(a.config)
	return a, a.input.Focus()
}

// View renders the current state to a string.
func (a *App) View() string {
	header := a.renderer.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(a.config.Palette().Title)).
		MarginBottom(1).
		Render("⬡ MAGIC SQUARE")

	var content string
	switch a.state {
	case statePrompt:
		content = a.renderPrompt()
	case stateReveal, stateGrid:
		content = a.grid.Render(a.square, a.revealed)
	}

	sections := []string{header, content}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := a.renderer.NewStyle().
		Foreground(lipgloss.Color(a.config.Palette().Muted)).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer, a.help.ShortHelpView(a.bindings()))
	return strings.Join(sections, "\n")
}

func (a *App) renderPrompt() string {
	label := a.renderer.NewStyle().Bold(true).Render("Magic Square Size")
	box := a.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(a.config.Palette().Border)).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, label, a.input.View()))
	if a.err != nil {
		errLine := a.renderer.NewStyle().
			Foreground(lipgloss.Color(a.config.Palette().OddText)).
			Render(fmt.Sprintf("⚠ %v", a.err))
		return lipgloss.JoinVertical(lipgloss.Left, box, errLine)
	}
	return box
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := a.renderer.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s · %d entries", fileName, total))
	body := a.renderer.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return a.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) bindings() []key.Binding {
	switch a.state {
	case stateReveal:
		return []key.Binding{a.keys.Skip, a.keys.Again, a.keys.Back, a.keys.Quit}
	case stateGrid:
		return []key.Binding{a.keys.Again, a.keys.Back, a.keys.Quit}
	default:
		return []key.Binding{a.keys.Submit, a.keys.Cancel}
	}
}

