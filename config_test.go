package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodepad/internal/diagram"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfigFrom(t.TempDir())

	assert.True(t, cfg.StartMenu)
	assert.True(t, cfg.Confirmations)
	assert.Equal(t, "cell", cfg.Measure)
	assert.Equal(t, diagram.DefaultHistoryLimit, cfg.UndoLimit)
	assert.Empty(t, cfg.SaveDirectory)
	assert.Empty(t, cfg.Warnings())
}

func TestLoadConfig_RCFile(t *testing.T) {
	home := t.TempDir()
	writeFile(t, home, ".nodepadrc", `
# comment
savedir=~/charts
startmenu=false
confirmations = FALSE
min_width=10
undo_limit=25
not a setting
`)
	cfg := loadConfigFrom(home)

	assert.Equal(t, filepath.Join(home, "charts"), cfg.SaveDirectory)
	assert.False(t, cfg.StartMenu)
	assert.False(t, cfg.Confirmations)
	assert.Equal(t, 10.0, cfg.MinWidth)
	assert.Equal(t, 25, cfg.UndoLimit)
	assert.Empty(t, cfg.Warnings())
}

func TestLoadConfig_YAMLOverridesRC(t *testing.T) {
	home := t.TempDir()
	writeFile(t, home, ".nodepadrc", "undo_limit=25\nmeasure=cell\n")
	writeFile(t, home, ".nodepad.yaml", "undo_limit: 50\nlog_level: DEBUG\nstart_menu: false\n")

	cfg := loadConfigFrom(home)

	assert.Equal(t, 50, cfg.UndoLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.StartMenu)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	home := t.TempDir()
	writeFile(t, home, ".nodepadrc", `
measure=pixels
undo_limit=0
min_width=12
max_width=6
padding=wide
`)
	cfg := loadConfigFrom(home)

	assert.Equal(t, "cell", cfg.Measure)
	assert.Equal(t, diagram.DefaultHistoryLimit, cfg.UndoLimit)
	assert.Equal(t, 12.0, cfg.MinWidth)
	assert.Zero(t, cfg.MaxWidth)
	assert.Zero(t, cfg.Padding)
	assert.Len(t, cfg.Warnings(), 4)
}

func TestLoadConfig_BadYAMLWarns(t *testing.T) {
	home := t.TempDir()
	writeFile(t, home, ".nodepad.yaml", "undo_limit: [1, 2\n")

	cfg := loadConfigFrom(home)

	assert.Equal(t, diagram.DefaultHistoryLimit, cfg.UndoLimit)
	require.Len(t, cfg.Warnings(), 1)
	assert.Contains(t, cfg.Warnings()[0], ".nodepad.yaml")
}

func TestConfig_CellMetricsOverrides(t *testing.T) {
	cfg := defaultConfig()
	cfg.MinWidth = 12
	cfg.MaxWidth = 30
	cfg.FontSize = 20
	cfg.DoubleClickMs = 250

	m, err := cfg.Metrics("cell")
	require.NoError(t, err)

	def := diagram.CellMetrics()
	assert.Equal(t, 12.0, m.MinWidth)
	assert.Equal(t, 30.0, m.MaxWidth)
	assert.Equal(t, def.FontSize, m.FontSize, "cell grid keeps its font size")
	assert.Equal(t, def.Padding, m.Padding)
	assert.Equal(t, int64(250), m.DoubleClickMillis)
}

func TestConfig_MaxWidthRaisedToMinWidth(t *testing.T) {
	cfg := defaultConfig()
	cfg.MinWidth = 60

	m, err := cfg.Metrics("cell")
	require.NoError(t, err)
	assert.Equal(t, 60.0, m.MaxWidth)
}

func TestConfig_FontMetrics(t *testing.T) {
	cfg := defaultConfig()
	cfg.FontSize = 16
	cfg.Padding = 4

	m, err := cfg.Metrics("font")
	require.NoError(t, err)
	assert.Equal(t, 16.0, m.FontSize)
	assert.Equal(t, 4.0, m.Padding)
	assert.Equal(t, diagram.DefaultMetrics(nil).LineHeight, m.LineHeight)
	assert.Greater(t, m.Measurer.Width("WWW", m.FontSize), 0.0)
}

func TestConfig_GetSavePath(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, "a.json", cfg.GetSavePath("a.json"))

	dir := filepath.Join(t.TempDir(), "nested")
	cfg.SaveDirectory = dir
	assert.Equal(t, filepath.Join(dir, "a.json"), cfg.GetSavePath("a.json"))
	assert.DirExists(t, dir)
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "", expandPath("", "/home/u"))
	assert.Equal(t, filepath.Join("/home/u", "docs"), expandPath("~/docs", "/home/u"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path", "/home/u"))

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "rel"), expandPath("rel", "/home/u"))
}
