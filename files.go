package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"nodepad/internal/diagram"
)

// withExt appends ext unless name already ends with it.
func withExt(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name
	}
	return name + ext
}

func saveChart(c *diagram.Canvas, path string) error {
	data, err := c.Serialize()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	c.MarkSaved()
	return nil
}

// openChart loads path into c. A file that is not JSON leaves c untouched.
func openChart(c *diagram.Canvas, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := c.Deserialize(data); err != nil {
		return fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (m *model) saveCurrent(name string) error {
	path := m.config.GetSavePath(withExt(name, chartExt))
	if err := saveChart(m.getCanvas(), path); err != nil {
		m.log.Warn("save failed", zap.String("path", path), zap.Error(err))
		return err
	}
	if buf := m.getCurrentBuffer(); buf != nil {
		buf.filename = name
	}
	absPath, _ := filepath.Abs(path)
	m.successMessage = fmt.Sprintf("Saved to %s", absPath)
	m.errorMessage = ""
	m.log.Info("saved", zap.String("path", path), zap.Int("boxes", m.getCanvas().Len()))
	return nil
}

func (m *model) openFile(name string) error {
	path := m.config.GetSavePath(withExt(name, chartExt))
	canvas := m.newCanvas()
	if err := openChart(canvas, path); err != nil {
		m.log.Warn("open failed", zap.String("path", path), zap.Error(err))
		return err
	}
	if m.openInNewBuffer && !m.fromStartup {
		m.addNewBuffer(canvas, name)
	} else {
		buf := m.getCurrentBuffer()
		buf.canvas = canvas
		buf.filename = name
		buf.panX, buf.panY = 0, 0
	}
	m.successMessage = fmt.Sprintf("Opened %s", filepath.Base(path))
	m.errorMessage = ""
	return nil
}

func (m *model) scanChartFiles() {
	m.fileList = []string{}

	dir := m.config.SaveDirectory
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			m.selectedFileIndex = -1
			return
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		m.selectedFileIndex = -1
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), chartExt) {
			m.fileList = append(m.fileList, entry.Name())
		}
	}
	sort.Strings(m.fileList)

	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
		first := m.fileList[0]
		m.filename = first[:len(first)-len(chartExt)]
	} else {
		m.selectedFileIndex = -1
	}
}
