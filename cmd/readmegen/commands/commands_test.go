package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/manifest"
)

const guideConfig = `base_dir: .
output: README.md
fragments:
  - intro.md
  - body.md
`

const wantReadme = "# Title\n\n---\n\nSee ```tsx\nconst a = 1;\n\n```\n"

// newGuide lays out a two-fragment project and returns its configuration path.
func newGuide(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "readmegen.yaml"), guideConfig)
	writeFile(t, filepath.Join(dir, "intro.md"), "# Title\n")
	writeFile(t, filepath.Join(dir, "body.md"), "See ::example='ex/a.tsx'::\n")
	writeFile(t, filepath.Join(dir, "ex", "a.tsx"), "const a = 1;\n")
	return filepath.Join(dir, "readmegen.yaml")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestBuild_DefaultCommand(t *testing.T) {
	cfgPath := newGuide(t)

	code, stdout, stderr := run(t, "-c", cfgPath)
	require.Equal(t, ferrors.ExitOK, code, stderr)
	require.Contains(t, stdout, "Wrote README.md (2 fragments, 1 includes)")

	got, err := os.ReadFile(filepath.Join(filepath.Dir(cfgPath), "README.md"))
	require.NoError(t, err)
	require.Equal(t, wantReadme, string(got))
	require.Contains(t, stderr, "Inlining file")
	require.Contains(t, stderr, "run_id=")
}

func TestBuild_Stdout(t *testing.T) {
	cfgPath := newGuide(t)

	code, stdout, stderr := run(t, "-c", cfgPath, "build", "--stdout")
	require.Equal(t, ferrors.ExitOK, code, stderr)
	require.Equal(t, wantReadme, stdout)
	require.NoFileExists(t, filepath.Join(filepath.Dir(cfgPath), "README.md"))
}

func TestBuild_OutputOverride(t *testing.T) {
	cfgPath := newGuide(t)
	target := filepath.Join(t.TempDir(), "out", "GUIDE.md")

	code, _, stderr := run(t, "-c", cfgPath, "build", "--output", target)
	require.Equal(t, ferrors.ExitOK, code, stderr)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, wantReadme, string(got))
	require.NoFileExists(t, filepath.Join(filepath.Dir(cfgPath), "README.md"))
}

func TestBuild_ManifestAndMetrics(t *testing.T) {
	cfgPath := newGuide(t)
	dir := filepath.Dir(cfgPath)
	manifestPath := filepath.Join(dir, "build", "manifest.json")
	metricsPath := filepath.Join(dir, "build", "readmegen.prom")

	code, _, stderr := run(t, "-c", cfgPath, "build", "--manifest", manifestPath, "--metrics-file", metricsPath)
	require.Equal(t, ferrors.ExitOK, code, stderr)

	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	m, err := manifest.FromJSON(data)
	require.NoError(t, err)
	require.True(t, m.Verify())
	require.Equal(t, "README.md", m.Output)
	require.Equal(t, manifest.Digest([]byte(wantReadme)), m.OutputHash)
	require.Len(t, m.FilterByKind(manifest.KindFragment), 2)
	includes := m.FilterByKind(manifest.KindInclude)
	require.Len(t, includes, 1)
	require.Equal(t, "ex/a.tsx", includes[0].Path)
	require.Equal(t, "body.md", includes[0].Fragment)
	require.Equal(t, "code", includes[0].Rule)

	metricsText, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	require.Contains(t, string(metricsText), "readmegen_fragments_processed_total 2")
	require.Contains(t, string(metricsText), `readmegen_directives_resolved_total{rule="code"} 1`)
	require.Contains(t, string(metricsText), `readmegen_build_outcomes_total{outcome="success"} 1`)
}

func TestBuild_MissingIncludeLeavesOutputUntouched(t *testing.T) {
	cfgPath := newGuide(t)
	dir := filepath.Dir(cfgPath)
	writeFile(t, filepath.Join(dir, "README.md"), "previous\n")
	writeFile(t, filepath.Join(dir, "body.md"), "See ::usage='ex/missing.tsx'::\n")

	code, _, stderr := run(t, "-c", cfgPath)
	require.Equal(t, ferrors.ExitBuildInput, code)
	require.Contains(t, stderr, "missing.tsx")

	got, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	require.Equal(t, "previous\n", string(got))
}

func TestBuild_MissingConfig(t *testing.T) {
	code, _, stderr := run(t, "-c", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Equal(t, ferrors.ExitConfig, code)
	require.Contains(t, stderr, "configuration file not found")
}

func TestBuild_UnknownFlag(t *testing.T) {
	code, _, stderr := run(t, "build", "--no-such-flag")
	require.Equal(t, ferrors.ExitUsage, code)
	require.Contains(t, stderr, "no-such-flag")
}

func TestExecute_VersionAndHelpReturnExitCode(t *testing.T) {
	code, stdout, _ := run(t, "--version")
	require.Equal(t, ferrors.ExitOK, code)
	require.Contains(t, stdout, "readmegen ")

	code, stdout, _ = run(t, "--help")
	require.Equal(t, ferrors.ExitOK, code)
	require.Contains(t, stdout, "Usage: readmegen")
}

func TestBuild_ConfigErrorNamesConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "readmegen.yaml")
	writeFile(t, cfgPath, "fragments: []\n")

	code, _, stderr := run(t, "-c", cfgPath)
	require.Equal(t, ferrors.ExitConfig, code)
	require.Contains(t, stderr, "at least one fragment must be configured")
	require.Contains(t, stderr, "path="+cfgPath)
}

func TestInitThenBuild_KeepsSeparator(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "readmegen.yaml")

	code, _, stderr := run(t, "-c", cfgPath, "init")
	require.Equal(t, ferrors.ExitOK, code, stderr)

	for i, name := range []string{"_intro.md", "_toc.md", "1_react.md", "2_redux.md", "5_faq.md"} {
		writeFile(t, filepath.Join(dir, "docs", "markdown", name), fmt.Sprintf("part %d\n", i))
	}

	code, stdout, stderr := run(t, "-c", cfgPath, "build", "--stdout")
	require.Equal(t, ferrors.ExitOK, code, stderr)
	require.Equal(t, "part 0\n\n---\n\npart 1\n\n---\n\npart 2\n\n---\n\npart 3\n\n---\n\npart 4\n", stdout)
}

func TestCheck(t *testing.T) {
	cfgPath := newGuide(t)
	readme := filepath.Join(filepath.Dir(cfgPath), "README.md")

	t.Run("missing output is stale", func(t *testing.T) {
		code, _, stderr := run(t, "-c", cfgPath, "check")
		require.Equal(t, ferrors.ExitStale, code)
		require.Contains(t, stderr, "output does not exist")
	})

	t.Run("fresh output passes", func(t *testing.T) {
		code, _, stderr := run(t, "-c", cfgPath, "build")
		require.Equal(t, ferrors.ExitOK, code, stderr)

		code, stdout, stderr := run(t, "-c", cfgPath, "check")
		require.Equal(t, ferrors.ExitOK, code, stderr)
		require.Contains(t, stdout, "README.md is up to date")
	})

	t.Run("edited output is stale with diff", func(t *testing.T) {
		writeFile(t, readme, "# Old title\n")

		code, stdout, _ := run(t, "-c", cfgPath, "check", "--diff")
		require.Equal(t, ferrors.ExitStale, code)
		require.Contains(t, stdout, "--- README.md (current)")
		require.Contains(t, stdout, "+++ README.md (assembled)")
		require.Contains(t, stdout, "-# Old title")
		require.Contains(t, stdout, "+# Title")

		got, err := os.ReadFile(readme)
		require.NoError(t, err)
		require.Equal(t, "# Old title\n", string(got), "check never writes")
	})
}

func TestCheck_StrayMarkerFromBrokenFence(t *testing.T) {
	cfgPath := newGuide(t)
	dir := filepath.Dir(cfgPath)
	writeFile(t, filepath.Join(dir, "body.md"), "See:\n\n::example='ex/a.tsx'::\n")
	// The inlined file closes the fence early, leaving its own directive text in prose.
	writeFile(t, filepath.Join(dir, "ex", "a.tsx"), "```\n\n::example='other.tsx':: here\n")

	code, _, stderr := run(t, "-c", cfgPath, "check")
	require.Equal(t, ferrors.ExitBuildInput, code)
	require.Contains(t, stderr, "unexpanded directives")
}

func TestDiscover(t *testing.T) {
	cfgPath := newGuide(t)

	code, stdout, stderr := run(t, "-c", cfgPath, "discover", "--outline")
	require.Equal(t, ferrors.ExitOK, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Equal(t, []string{
		"1. intro.md (0 includes)",
		"   # Title",
		"2. body.md (1 includes)",
		"   line 1  code     ex/a.tsx",
	}, lines)
	require.NoFileExists(t, filepath.Join(filepath.Dir(cfgPath), "README.md"))
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "readmegen.yaml")

	code, stdout, stderr := run(t, "-c", cfgPath, "init")
	require.Equal(t, ferrors.ExitOK, code, stderr)
	require.Contains(t, stdout, "initialized successfully")
	require.FileExists(t, cfgPath)

	code, _, stderr = run(t, "-c", cfgPath, "init")
	require.Equal(t, ferrors.ExitUsage, code)
	require.Contains(t, stderr, "already exists")

	code, _, stderr = run(t, "-c", cfgPath, "init", "--force")
	require.Equal(t, ferrors.ExitOK, code, stderr)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer

	t.Setenv("READMEGEN_LOG_LEVEL", "warn")
	logger := NewLogger(&buf, false, "json")
	logger.Info("hidden")
	logger.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger = NewLogger(&buf, true, "text")
	logger.Debug("debugging")
	require.Contains(t, buf.String(), "msg=debugging")
}
