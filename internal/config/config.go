package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/readmegen/internal/directive"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
)

// DefaultFile is the configuration file name used when -c is not given.
const DefaultFile = "readmegen.yaml"

// DefaultSeparator joins processed fragments: a horizontal rule between blank lines.
const DefaultSeparator = "\n---\n\n"

// Config represents the readmegen configuration.
//
// Relative paths are anchored to Dir, the directory holding the configuration
// file, never to the process working directory.
type Config struct {
	// BaseDir is the directory every directive path is resolved against.
	BaseDir string `yaml:"base_dir"`
	// Output is the assembled document, fully overwritten on each run.
	Output string `yaml:"output"`
	// Separator is placed between processed fragments. A nil value selects DefaultSeparator
	// so that an explicit empty string can still be configured.
	Separator *string `yaml:"separator,omitempty"`
	// Fragments lists the markdown inputs in document order.
	Fragments []string `yaml:"fragments"`
	// Directives lists the substitution passes in the order they run.
	Directives []DirectiveConfig `yaml:"directives,omitempty"`

	// Dir is the directory the configuration was loaded from.
	Dir string `yaml:"-"`
}

// DirectiveConfig describes one directive rule.
type DirectiveConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Wrapper  string   `yaml:"wrapper"`
	Language string   `yaml:"language,omitempty"`
	Summary  string   `yaml:"summary,omitempty"`
}

// Load reads, expands, defaults, resolves and validates the configuration at path.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "cannot resolve configuration path").
			Fatal().WithContext("path", path).Build()
	}
	dir := filepath.Dir(absPath)

	if err := loadEnvFiles(dir); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "cannot load environment file").
			Fatal().WithContext("dir", dir).Build()
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", absPath).Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			Fatal().WithContext("path", absPath).Build()
	}

	cfg, err := Parse(data, dir)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration anchored at dir. ${VAR} references in the
// document are expanded before decoding; unknown keys are rejected.
func Parse(data []byte, dir string) (*Config, error) {
	expanded := expandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").
			Fatal().Build()
	}

	cfg.Dir = dir
	cfg.applyDefaults()
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration that reproduces the guide's README build:
// the code and usage directives, a tsx fence tag and a horizontal-rule separator.
func Default(dir string) *Config {
	cfg := &Config{Dir: dir}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
	if c.Output == "" {
		c.Output = "README.md"
	}
	if c.Separator == nil {
		sep := DefaultSeparator
		c.Separator = &sep
	}
	if len(c.Directives) == 0 {
		c.Directives = defaultDirectives()
	}
}

func defaultDirectives() []DirectiveConfig {
	rules := directive.DefaultRules()
	out := make([]DirectiveConfig, 0, len(rules))
	for _, r := range rules {
		dc := DirectiveConfig{
			Name:     r.Name,
			Keywords: append([]string(nil), r.Keywords...),
			Wrapper:  string(r.Wrapper.Kind()),
			Language: directive.DefaultLanguage,
		}
		if ew, ok := r.Wrapper.(directive.ExpanderWrapper); ok {
			dc.Summary = ew.Summary
		}
		out = append(out, dc)
	}
	return out
}

func (c *Config) resolvePaths() {
	c.BaseDir = c.resolve(c.BaseDir)
	c.Output = c.resolve(c.Output)
	for i, f := range c.Fragments {
		c.Fragments[i] = c.resolve(f)
	}
}

// resolve anchors p to the configuration directory.
func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Dir, p)
}

// SeparatorValue returns the configured separator or DefaultSeparator.
func (c *Config) SeparatorValue() string {
	if c.Separator == nil {
		return DefaultSeparator
	}
	return *c.Separator
}

// Rules builds the directive rules in pass order.
func (c *Config) Rules() ([]directive.Rule, error) {
	rules := make([]directive.Rule, 0, len(c.Directives))
	for _, dc := range c.Directives {
		w, err := directive.NewWrapper(directive.WrapperKind(dc.Wrapper), dc.Language, dc.Summary)
		if err != nil {
			return nil, fmt.Errorf("directive %q: %w", dc.Name, err)
		}
		rules = append(rules, directive.Rule{Name: dc.Name, Keywords: dc.Keywords, Wrapper: w})
	}
	return rules, nil
}
