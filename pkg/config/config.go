// pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flowgen/flowgen/pkg/codegen"
)

// Config holds the tool-wide settings: which framework to generate for,
// how to format the output, where to reach the browser, and where the
// project under test lives.
type Config struct {
	Framework  string `yaml:"framework" json:"framework"`
	Mode       string `yaml:"mode" json:"mode"`
	IndentSize int    `yaml:"indent_size" json:"indent_size"`
	UseTabs    bool   `yaml:"use_tabs" json:"use_tabs"`
	QuoteStyle string `yaml:"quote_style" json:"quote_style"`

	CapturePort int    `yaml:"capture_port" json:"capture_port"`
	ListenAddr  string `yaml:"listen_addr" json:"listen_addr"`
	ProjectRoot string `yaml:"project_root" json:"project_root"`
	OutputDir   string `yaml:"output_dir" json:"output_dir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Framework:   codegen.FrameworkPlaywrightSync,
		Mode:        "flat",
		IndentSize:  4,
		QuoteStyle:  "double",
		CapturePort: 9222,
		ListenAddr:  ":8765",
		ProjectRoot: ".",
		OutputDir:   "generated",
	}
}

// Load reads a YAML configuration file, layering it over the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg.normalized(), nil
}

// Save writes the configuration as YAML, creating parent directories as
// needed.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// normalized fills unset fields back in from the defaults so a sparse
// file does not zero out formatting.
func (c Config) normalized() Config {
	d := Default()
	if c.Framework == "" {
		c.Framework = d.Framework
	}
	if c.Mode == "" {
		c.Mode = d.Mode
	}
	if c.IndentSize == 0 {
		c.IndentSize = d.IndentSize
	}
	if c.QuoteStyle == "" {
		c.QuoteStyle = d.QuoteStyle
	}
	if c.CapturePort == 0 {
		c.CapturePort = d.CapturePort
	}
	if c.ListenAddr == "" {
		c.ListenAddr = d.ListenAddr
	}
	if c.ProjectRoot == "" {
		c.ProjectRoot = d.ProjectRoot
	}
	if c.OutputDir == "" {
		c.OutputDir = d.OutputDir
	}
	return c
}

// Codegen converts the file-level settings into generation options.
func (c Config) Codegen() codegen.Options {
	return codegen.Options{
		Framework:    c.Framework,
		IndentSize:   c.IndentSize,
		UseTabs:      c.UseTabs,
		SingleQuotes: strings.EqualFold(c.QuoteStyle, "single"),
	}
}
