package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/readmegen/internal/assembler"
	"git.home.luguber.info/inful/readmegen/internal/config"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/version"
)

// Global carries per-invocation state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	RunID  string
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"readmegen.yaml" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text|json)" enum:"text,json" default:"text"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" default:"1" help:"Assemble the document from its fragments (default)"`
	Check    CheckCmd    `cmd:"" help:"Verify the output is up to date without writing it"`
	Discover DiscoverCmd `cmd:"" help:"List fragments, directives and headings without writing"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	g.RunID = uuid.NewString()
	g.Logger = NewLogger(g.Stderr, c.Verbose, c.LogFormat).With(logfields.RunID(g.RunID))
	slog.SetDefault(g.Logger)
	return nil
}

// NewLogger builds the process logger. READMEGEN_LOG_LEVEL overrides the level
// unless --verbose is set.
func NewLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLogLevel(verbose)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(os.Getenv("READMEGEN_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// exitRequest carries the code kong asks to exit with after --help or --version.
type exitRequest int

// Execute parses args, runs the selected command and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) (code int) {
	var cli CLI
	global := &Global{Stdout: stdout, Stderr: stderr, Logger: slog.Default()}

	defer func() {
		if r := recover(); r != nil {
			req, ok := r.(exitRequest)
			if !ok {
				panic(r)
			}
			code = int(req)
		}
	}()

	parser, err := kong.New(&cli,
		kong.Exit(func(status int) { panic(exitRequest(status)) }),
		kong.Name("readmegen"),
		kong.Description("Assemble a README from ordered markdown fragments and inline example files."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)
	if err != nil {
		return ferrors.NewCLIErrorAdapter(false, global.Logger).Report(stderr, err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = io.WriteString(stderr, "Error: "+err.Error()+"\n")
		return ferrors.ExitUsage
	}

	adapter := ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger)
	if err := kctx.Run(&cli); err != nil {
		return adapter.Report(stderr, err)
	}
	return ferrors.ExitOK
}

// loadAssembly loads the configuration and converts it into an assembler run.
func loadAssembly(root *CLI) (*config.Config, assembler.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, assembler.Config{}, withConfigPath(err, root.Config)
	}
	rules, err := cfg.Rules()
	if err != nil {
		return nil, assembler.Config{}, err
	}
	return cfg, assembler.Config{
		Fragments: cfg.Fragments,
		BaseDir:   cfg.BaseDir,
		Output:    cfg.Output,
		Separator: cfg.SeparatorValue(),
		Rules:     rules,
	}, nil
}

// withConfigPath names the configuration file on classified errors that do not
// already carry a path.
func withConfigPath(err error, path string) error {
	classified, ok := ferrors.AsClassified(err)
	if !ok {
		return err
	}
	if _, has := classified.Context().Get("path"); has {
		return err
	}
	return classified.WithContext("path", path)
}
