package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
)

const initHeader = `# readmegen configuration.
# Relative paths are resolved against the directory holding this file.
# Directives inside fragments look like ::example='path/to/file.tsx':: and are
# resolved against base_dir. ${VAR} is replaced from the environment and .env;
# a bare $ is kept as written.
`

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	example := Default("")
	example.Fragments = []string{
		"docs/markdown/_intro.md",
		"docs/markdown/_toc.md",
		"docs/markdown/1_react.md",
		"docs/markdown/2_redux.md",
		"docs/markdown/5_faq.md",
	}

	var doc yaml.Node
	if err := doc.Encode(example); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// Block scalars drop the separator's leading newline on reload.
	quoteScalar(&doc, "separator")

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create config directory").
				Fatal().WithContext("path", dir).Build()
		}
	}
	if err := os.WriteFile(configPath, append([]byte(initHeader), data...), 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			Fatal().WithContext("path", configPath).Build()
	}
	return nil
}

// quoteScalar forces the top-level value under key into double-quoted style.
func quoteScalar(doc *yaml.Node, key string) {
	mapping := doc
	if mapping.Kind == yaml.DocumentNode && len(mapping.Content) > 0 {
		mapping = mapping.Content[0]
	}
	if mapping.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key && mapping.Content[i+1].Kind == yaml.ScalarNode {
			mapping.Content[i+1].Style = yaml.DoubleQuotedStyle
		}
	}
}
