package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"nodepad/internal/diagram"
	"nodepad/internal/textlayout"
)

// Config is read from ~/.nodepadrc (key=value) and then ~/.nodepad.yaml,
// which wins when both set a key. Zero metric values keep the defaults of
// the chosen measure.
type Config struct {
	SaveDirectory string `yaml:"save_directory"`
	StartMenu     bool   `yaml:"start_menu"`
	Confirmations bool   `yaml:"confirmations"`

	Measure       string  `yaml:"measure" validate:"oneof=cell font"`
	FontSize      float64 `yaml:"font_size" validate:"gte=0"`
	LineHeight    float64 `yaml:"line_height" validate:"gte=0"`
	Padding       float64 `yaml:"padding" validate:"gte=0"`
	MinWidth      float64 `yaml:"min_width" validate:"gte=0"`
	MaxWidth      float64 `yaml:"max_width" validate:"omitempty,gtefield=MinWidth"`
	MinHeight     float64 `yaml:"min_height" validate:"gte=0"`
	UndoLimit     int     `yaml:"undo_limit" validate:"gte=1,lte=10000"`
	DoubleClickMs int64   `yaml:"double_click_ms" validate:"gte=0,lte=5000"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	warnings []string
}

var validate = validator.New()

func defaultConfig() *Config {
	return &Config{
		StartMenu:     true,
		Confirmations: true,
		Measure:       "cell",
		UndoLimit:     diagram.DefaultHistoryLimit,
		LogLevel:      "info",
	}
}

func loadConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig()
	}
	return loadConfigFrom(homeDir)
}

func loadConfigFrom(homeDir string) *Config {
	config := defaultConfig()

	if err := config.loadRC(filepath.Join(homeDir, ".nodepadrc")); err != nil && !errors.Is(err, os.ErrNotExist) {
		config.warn("read .nodepadrc: %v", err)
	}
	if err := config.loadYAML(filepath.Join(homeDir, ".nodepad.yaml")); err != nil && !errors.Is(err, os.ErrNotExist) {
		config.warn("read .nodepad.yaml: %v", err)
	}
	config.SaveDirectory = expandPath(config.SaveDirectory, homeDir)
	config.LogFile = expandPath(config.LogFile, homeDir)
	config.Measure = strings.ToLower(config.Measure)
	config.LogLevel = strings.ToLower(config.LogLevel)
	config.fixInvalid()
	return config
}

func (c *Config) loadRC(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			c.SaveDirectory = value
		case "startmenu", "start_menu":
			c.StartMenu = strings.ToLower(value) == "true"
		case "confirmations", "confirm":
			c.Confirmations = strings.ToLower(value) == "true"
		case "measure":
			c.Measure = value
		case "font_size":
			c.parseFloat(key, value, &c.FontSize)
		case "line_height":
			c.parseFloat(key, value, &c.LineHeight)
		case "padding":
			c.parseFloat(key, value, &c.Padding)
		case "min_width":
			c.parseFloat(key, value, &c.MinWidth)
		case "max_width":
			c.parseFloat(key, value, &c.MaxWidth)
		case "min_height":
			c.parseFloat(key, value, &c.MinHeight)
		case "undo_limit":
			if n, err := strconv.Atoi(value); err == nil {
				c.UndoLimit = n
			} else {
				c.warn("%s: %v", key, err)
			}
		case "double_click_ms":
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				c.DoubleClickMs = n
			} else {
				c.warn("%s: %v", key, err)
			}
		case "log_file":
			c.LogFile = value
		case "log_level":
			c.LogLevel = value
		}
	}
	return scanner.Err()
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) parseFloat(key, value string, dst *float64) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		c.warn("%s: %v", key, err)
		return
	}
	*dst = v
}

// fixInvalid resets every field that fails validation to its default.
func (c *Config) fixInvalid() {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	def := reflect.ValueOf(defaultConfig()).Elem()
	cur := reflect.ValueOf(c).Elem()
	for _, fe := range verrs {
		name := fe.StructField()
		c.warn("invalid %s %v (%s), using default", name, fe.Value(), fe.Tag())
		cur.FieldByName(name).Set(def.FieldByName(name))
	}
}

func (c *Config) warn(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// Warnings lists the problems found while loading.
func (c *Config) Warnings() []string {
	return c.warnings
}

// Metrics builds box metrics for the measure, applying any overrides. The
// cell measure keeps its one-cell font, line and padding since the terminal
// grid depends on them.
func (c *Config) Metrics(measure string) (diagram.Metrics, error) {
	var m diagram.Metrics
	switch measure {
	case "font":
		fm, err := textlayout.NewFontMeasurer()
		if err != nil {
			return m, err
		}
		m = diagram.DefaultMetrics(fm)
	default:
		m = diagram.CellMetrics()
	}
	override := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}
	if measure == "font" {
		override(&m.FontSize, c.FontSize)
		override(&m.LineHeight, c.LineHeight)
		override(&m.Padding, c.Padding)
	}
	override(&m.MinWidth, c.MinWidth)
	override(&m.MaxWidth, c.MaxWidth)
	override(&m.MinHeight, c.MinHeight)
	if c.DoubleClickMs > 0 {
		m.DoubleClickMillis = c.DoubleClickMs
	}
	if m.MaxWidth < m.MinWidth {
		m.MaxWidth = m.MinWidth
	}
	return m, nil
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}
