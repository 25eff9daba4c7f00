package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/readmegen/internal/directive"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndAnchoring(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "fragments:\n  - docs/_intro.md\n  - /abs/body.md\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, dir, cfg.Dir)
	require.Equal(t, dir, cfg.BaseDir)
	require.Equal(t, filepath.Join(dir, "README.md"), cfg.Output)
	require.Equal(t, []string{filepath.Join(dir, "docs/_intro.md"), "/abs/body.md"}, cfg.Fragments)
	require.Equal(t, DefaultSeparator, cfg.SeparatorValue())

	rules, err := cfg.Rules()
	require.NoError(t, err)
	require.Equal(t, directive.DefaultRules(), rules)
}

func TestLoad_RelativeToConfigNotWorkingDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "generator")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	path := writeConfig(t, sub, "base_dir: src\noutput: ../README.md\nfragments: [../docs/a.md]\n")

	t.Chdir(t.TempDir())

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(sub, "src"), cfg.BaseDir)
	require.Equal(t, filepath.Join(dir, "README.md"), cfg.Output)
	require.Equal(t, filepath.Join(dir, "docs", "a.md"), cfg.Fragments[0])
}

func TestLoad_ExplicitEmptySeparator(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "separator: \"\"\nfragments: [a.md]\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, cfg.SeparatorValue())
}

func TestLoad_CustomDirectives(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `fragments: [a.md]
directives:
  - name: code
    keywords: [example]
    wrapper: code
    language: ts
  - name: usage
    keywords: [usage]
    wrapper: expander
    summary: SHOW USAGE
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	require.Len(t, rules, 2)
	require.Equal(t, directive.CodeWrapper{Language: "ts"}, rules[0].Wrapper)
	require.Equal(t, directive.ExpanderWrapper{Language: "tsx", Summary: "SHOW USAGE"}, rules[1].Wrapper)
}

func TestLoad_EnvExpansionFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("README_GUIDE_OUT=GUIDE.md\n"), 0o600))
	path := writeConfig(t, dir, "output: ${README_GUIDE_OUT}\nfragments: [a.md]\n")
	t.Cleanup(func() { _ = os.Unsetenv("README_GUIDE_OUT") })

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "GUIDE.md"), cfg.Output)
}

func TestParse_OnlyBracedReferencesExpand(t *testing.T) {
	t.Setenv("README_SUMMARY", "show example")
	data := []byte(`separator: "\n$$\n"
fragments: [a.md]
directives:
  - name: usage
    keywords: [usage]
    wrapper: expander
    summary: "Price $5 ${README_SUMMARY}"
`)

	cfg, err := Parse(data, t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "\n$$\n", cfg.SeparatorValue())
	require.Equal(t, "Price $5 show example", cfg.Directives[0].Summary)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "no fragments", body: "output: README.md\n", message: "at least one fragment"},
		{name: "empty document", body: "", message: "at least one fragment"},
		{name: "unknown key", body: "fragmentz: [a.md]\n", message: "failed to unmarshal"},
		{name: "output is fragment", body: "output: a.md\nfragments: [a.md]\n", message: "overwrite a fragment"},
		{
			name:    "shared keyword",
			body:    "fragments: [a.md]\ndirectives:\n  - {name: a, keywords: [x], wrapper: code}\n  - {name: b, keywords: [x], wrapper: expander}\n",
			message: "invalid directive configuration",
		},
		{
			name:    "unknown wrapper",
			body:    "fragments: [a.md]\ndirectives:\n  - {name: a, keywords: [x], wrapper: table}\n",
			message: "invalid directive configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			require.Error(t, err)
			require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig), "got %v", err)
			classified, _ := ferrors.AsClassified(err)
			require.Contains(t, classified.Message(), tt.message)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, "configuration file not found", classified.Message())
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", DefaultFile)

	require.NoError(t, Init(path, false))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `separator: "\n---\n\n"`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Fragments, 5)
	require.Equal(t, DefaultSeparator, cfg.SeparatorValue())
	require.Len(t, cfg.Directives, 2)

	err = Init(path, false)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	require.NoError(t, Init(path, true))
}
