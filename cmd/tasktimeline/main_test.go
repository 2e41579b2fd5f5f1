package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVault(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	content := "# Week\n" +
		"Ship release -> _10-Mar-2024_ #Work\n" +
		"Buy milk -> _05-Mar-2024_ #Home\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "week.md"), []byte(content), 0644))
	return root
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func commonArgs(root string, asJSON bool) []string {
	return []string{
		"--config", filepath.Join(root, "missing.yaml"),
		"--root", root,
		"--today", "2024-03-05",
		"--json=" + strconv.FormatBool(asJSON),
	}
}

func TestScanCommand(t *testing.T) {
	root := newVault(t)

	out := execute(t, append([]string{"scan"}, commonArgs(root, false)...)...)
	assert.Contains(t, out, "#Home (1)")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "week:3")

	out = execute(t, append([]string{"scan"}, commonArgs(root, true)...)...)
	var result struct {
		Today  string `json:"today"`
		Groups []struct {
			Tag string `json:"tag"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "2024-03-05", result.Today)
	require.Len(t, result.Groups, 2)
	assert.Equal(t, "#Home", result.Groups[0].Tag)
}

func TestCalendarCommand(t *testing.T) {
	root := newVault(t)

	out := execute(t, append([]string{"calendar"}, commonArgs(root, false)...)...)
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "> 5")
}

func TestTagsCommands(t *testing.T) {
	root := newVault(t)

	execute(t, append([]string{"tags", "move", "#Work", "#Home"}, commonArgs(root, false)...)...)
	out := execute(t, append([]string{"tags", "color", "#Work", "#FF0000"}, commonArgs(root, false)...)...)
	assert.Contains(t, out, "#ff0000")
	assert.FileExists(t, filepath.Join(root, ".tasktimeline", "state.yaml"))

	out = execute(t, append([]string{"scan"}, commonArgs(root, false)...)...)
	assert.Less(t, bytes.Index([]byte(out), []byte("#Work")), bytes.Index([]byte(out), []byte("#Home")))

	out = execute(t, append([]string{"tags", "reset"}, commonArgs(root, true)...)...)
	var prefs struct {
		TagOrder []string `json:"tagOrder"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &prefs))
	assert.Empty(t, prefs.TagOrder)
}

func TestPresetsCommand(t *testing.T) {
	root := newVault(t)

	out := execute(t, append([]string{"presets"}, commonArgs(root, false)...)...)
	assert.Contains(t, out, "Checkbox Format")
}

func TestBadTodayFlag(t *testing.T) {
	root := newVault(t)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"scan", "--root", root, "--config", filepath.Join(root, "missing.yaml"), "--today", "05-Mar-2024"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	assert.Error(t, rootCmd.Execute())
}
