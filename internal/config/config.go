package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultDebounce is the quiet period before a pending comparison runs
const DefaultDebounce = 500 * time.Millisecond

// Config represents the complete configuration for jsoncmp
type Config struct {
	Debounce time.Duration `yaml:"debounce" validate:"gte=0"`
	Render   RenderConfig  `yaml:"render"`
	Format   FormatConfig  `yaml:"format"`
	Copy     CopyConfig    `yaml:"copy"`
	Patch    PatchConfig   `yaml:"patch"`
	Dev      DevConfig     `yaml:"dev"`
}

// RenderConfig controls how diff trees are printed
type RenderConfig struct {
	Color          bool `yaml:"color"`
	ShowSectionIDs bool `yaml:"show_section_ids"`
	Indent         int  `yaml:"indent" validate:"gte=0"`
}

// FormatConfig controls the format command
type FormatConfig struct {
	Indent   int  `yaml:"indent" validate:"gte=0"`
	SortKeys bool `yaml:"sort_keys"`
}

// CopyConfig controls copy and copy-all payloads
type CopyConfig struct {
	Clipboard bool `yaml:"clipboard"`
	Indent    int  `yaml:"indent" validate:"gte=0"`
}

// PatchConfig controls JSON Patch generation
type PatchConfig struct {
	Invertible bool `yaml:"invertible"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Debounce: DefaultDebounce,
		Render: RenderConfig{
			Color:          true,
			ShowSectionIDs: false,
			Indent:         2,
		},
		Format: FormatConfig{
			Indent:   2,
			SortKeys: false,
		},
		Copy: CopyConfig{
			Clipboard: false,
			Indent:    2,
		},
		Patch: PatchConfig{
			Invertible: false,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

var validate = newValidator()

// newValidator reports fields by their YAML names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate rejects values no command can work with
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fe := fieldErrs[0]
	name := strings.TrimPrefix(fe.Namespace(), "Config.")
	if fe.Tag() == "gte" {
		return fmt.Errorf("%s must not be negative, got %v", name, fe.Value())
	}
	return fmt.Errorf("%s is invalid (%s), got %v", name, fe.Tag(), fe.Value())
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsoncmp.yml", ".jsoncmp.yaml", "jsoncmp.yml", "jsoncmp.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Overrides holds values given on the command line. Zero values mean the
// flag was not set and the config file value is kept.
type Overrides struct {
	Debounce   time.Duration
	NoColor    bool
	ShowIDs    bool
	Indent     int
	SortKeys   bool
	Clipboard  bool
	Invertible bool
	Debug      bool
}

// Apply merges CLI overrides into the config
func (c *Config) Apply(o Overrides) {
	if o.Debounce > 0 {
		c.Debounce = o.Debounce
	}
	if o.NoColor {
		c.Render.Color = false
	}
	if o.ShowIDs {
		c.Render.ShowSectionIDs = true
	}
	if o.Indent > 0 {
		c.Format.Indent = o.Indent
	}
	if o.SortKeys {
		c.Format.SortKeys = true
	}
	if o.Clipboard {
		c.Copy.Clipboard = true
	}
	if o.Invertible {
		c.Patch.Invertible = true
	}
	if o.Debug {
		c.Dev.Debug = true
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI > config file > defaults
func LoadConfigWithCLI(configPath string, overrides Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	cfg.Apply(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
