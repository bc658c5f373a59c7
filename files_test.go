package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodepad/internal/diagram"
)

func TestWithExt(t *testing.T) {
	assert.Equal(t, "a.json", withExt("a", chartExt))
	assert.Equal(t, "a.json", withExt("a.json", chartExt))
	assert.Equal(t, "A.JSON", withExt("A.JSON", chartExt))
	assert.Equal(t, "a.json.txt", withExt("a.json", exportExt))
}

func TestSaveAndOpenChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.json")

	src := diagram.New(diagram.CellMetrics())
	a := src.PlaceBox(0, 0, "first")
	b := src.PlaceBox(20, 4, "second\nline")
	require.NoError(t, src.Connect(a.ID, b.ID))
	require.True(t, src.Dirty())

	require.NoError(t, saveChart(src, path))
	assert.False(t, src.Dirty())

	dst := diagram.New(diagram.CellMetrics())
	require.NoError(t, openChart(dst, path))
	require.Equal(t, 2, dst.Len())
	assert.Equal(t, "first", dst.Boxes()[0].Text())
	assert.Equal(t, "second\nline", dst.Boxes()[1].Text())
	assert.Len(t, dst.Connections(), 1)
	assert.Equal(t, visualText(src), visualText(dst))
}

func TestOpenChart_NotJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	c := diagram.New(diagram.CellMetrics())
	c.PlaceBox(0, 0, "keep")

	err := openChart(c, path)
	require.ErrorIs(t, err, diagram.ErrInvalidDocument)
	assert.Contains(t, err.Error(), "broken.json")
	assert.Equal(t, 1, c.Len())
}

func TestOpenChart_Missing(t *testing.T) {
	err := openChart(diagram.New(diagram.CellMetrics()), filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestScanChartFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.JSON", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	cfg := defaultConfig()
	cfg.SaveDirectory = dir
	m := model{config: cfg}
	m.scanChartFiles()

	assert.Equal(t, []string{"a.JSON", "b.json"}, m.fileList)
	assert.Equal(t, 0, m.selectedFileIndex)
	assert.Equal(t, "a", m.filename)
}
