package config

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/readmegen/internal/directive"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
)

// Validate checks the configuration after defaults and path resolution.
func (c *Config) Validate() error {
	if len(c.Fragments) == 0 {
		return ferrors.ConfigError("at least one fragment must be configured").Build()
	}
	for i, f := range c.Fragments {
		if strings.TrimSpace(f) == "" || f == "." {
			return ferrors.ConfigError("fragment path is empty").WithContext("index", i).Build()
		}
		if filepath.Clean(f) == filepath.Clean(c.Output) {
			return ferrors.ConfigError("output would overwrite a fragment").WithContext("path", f).Build()
		}
	}

	rules, err := c.Rules()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid directive configuration").Fatal().Build()
	}
	if err := directive.ValidateRules(rules); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid directive configuration").Fatal().Build()
	}
	return nil
}
