package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/magicsquare/internal/config"
	"github.com/kingrea/magicsquare/internal/prompt"
	"github.com/kingrea/magicsquare/internal/square"
)

// setupCLI points the global flags at a fresh home and restores them after.
func setupCLI(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()
	home := t.TempDir()
	homeDir = home
	printFormat, printColor, anySize = "text", false, false
	t.Cleanup(func() {
		homeDir = ""
		printFormat, printColor, anySize = "text", false, false
	})
	return home
}

func newTestCmd(stdin string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out, &errOut
}

func TestPrintCmdText(t *testing.T) {
	home := setupCLI(t)
	cmd, out, _ := newTestCmd("")

	require.NoError(t, runPrint(cmd, []string{"3"}))
	assert.Equal(t, "8 1 6\n3 5 7\n4 9 2\nMagic Sum: 15\n", out.String())

	_, err := os.Stat(filepath.Join(home, config.Dir, "config.yaml"))
	assert.NoError(t, err, "print should initialise the config directory")
}

func TestPrintCmdRejectsUnofferedSize(t *testing.T) {
	setupCLI(t)
	cmd, _, _ := newTestCmd("")

	err := runPrint(cmd, []string{"11"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please enter one of: 3, 5, 7, 9.")
}

func TestPrintCmdAnySize(t *testing.T) {
	setupCLI(t)
	anySize = true
	cmd, out, _ := newTestCmd("")

	require.NoError(t, runPrint(cmd, []string{"11"}))
	assert.Contains(t, out.String(), "Magic Sum: 671")

	err := runPrint(cmd, []string{"4"})
	assert.True(t, errors.Is(err, square.ErrInvalidSize), "got %v", err)
}

func TestPrintCmdYAML(t *testing.T) {
	setupCLI(t)
	printFormat = "yaml"
	cmd, out, _ := newTestCmd("")

	require.NoError(t, runPrint(cmd, []string{"3"}))
	var snap square.Snapshot
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &snap))
	assert.Equal(t, 3, snap.Size)
	assert.Equal(t, 15, snap.MagicSum)
	assert.Equal(t, [][]int{{8, 1, 6}, {3, 5, 7}, {4, 9, 2}}, snap.Rows)
	assert.Contains(t, out.String(), "magic_sum: 15")
}

func TestPrintCmdJSON(t *testing.T) {
	setupCLI(t)
	printFormat = "json"
	cmd, out, _ := newTestCmd("")

	require.NoError(t, runPrint(cmd, []string{"5"}))
	var snap square.Snapshot
	require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
	assert.Equal(t, 65, snap.MagicSum)
	assert.Len(t, snap.Rows, 5)
}

func TestPrintCmdColorGrid(t *testing.T) {
	setupCLI(t)
	printColor = true
	cmd, out, _ := newTestCmd("")

	require.NoError(t, runPrint(cmd, []string{"3"}))
	assert.Contains(t, out.String(), "The Magic Square (n=3)")
	assert.Contains(t, out.String(), "┌")
	assert.Contains(t, out.String(), "Magic Sum: 15")
}

func TestPrintCmdUnknownFormat(t *testing.T) {
	setupCLI(t)
	printFormat = "xml"
	cmd, _, _ := newTestCmd("")
	assert.Error(t, runPrint(cmd, []string{"3"}))
}

func TestPrintCmdPromptsUntilAllowed(t *testing.T) {
	setupCLI(t)
	cmd, out, errOut := newTestCmd("four\n4\n5\n")

	require.NoError(t, runPrint(cmd, nil))
	assert.Contains(t, out.String(), "Enter an odd number (choose one of 3, 5, 7, 9):")
	assert.Contains(t, out.String(), `"four" is not a whole number.`)
	assert.Contains(t, errOut.String(), "Please enter one of: 3, 5, 7, 9.")
	assert.Contains(t, out.String(), "Magic Sum: 65")
}

func TestPrintCmdPromptCancel(t *testing.T) {
	setupCLI(t)
	cmd, out, _ := newTestCmd("q\n")

	require.NoError(t, runPrint(cmd, nil))
	assert.NotContains(t, out.String(), "Magic Sum")
}

func TestVerifyCmdDefaultsToConfiguredSizes(t *testing.T) {
	setupCLI(t)
	cmd, out, _ := newTestCmd("")

	require.NoError(t, runVerify(cmd, nil))
	for _, want := range []string{"n=3   ok    magic sum 15", "n=9   ok    magic sum 369"} {
		assert.Contains(t, out.String(), want)
	}
}

func TestVerifyCmdReportsFailures(t *testing.T) {
	setupCLI(t)
	cmd, out, _ := newTestCmd("")

	err := runVerify(cmd, []string{"1", "6", "15"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 sizes failed")
	assert.Contains(t, out.String(), "n=6   FAIL")
	assert.Contains(t, out.String(), "n=15  ok")

	assert.Error(t, runVerify(cmd, []string{"x"}))
}

func TestVerifyCmdReportsOversizedSquares(t *testing.T) {
	setupCLI(t)
	cmd, out, _ := newTestCmd("")

	err := runVerify(cmd, []string{"999999999"})
	require.Error(t, err)
	assert.Contains(t, out.String(), "FAIL  square: size too large")

	anySize = true
	err = runPrint(cmd, []string{"3037000501"})
	assert.True(t, errors.Is(err, prompt.ErrNotANumber), "got %v", err)
}
