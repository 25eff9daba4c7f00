package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"git.home.luguber.info/inful/readmegen/internal/assembler"
	"git.home.luguber.info/inful/readmegen/internal/directive"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/markdown"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Diff bool `help:"Print a unified diff when the output is out of date"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, run, err := loadAssembly(root)
	if err != nil {
		return err
	}

	asm := assembler.New(assembler.OSSource{}, assembler.WithLogger(g.Logger))
	res, err := asm.Render(context.Background(), run)
	if err != nil {
		return err
	}

	if markers := markdown.FindStrayMarkers(res.Document, directive.SentinelPattern(run.Rules)); len(markers) > 0 {
		for _, m := range markers {
			g.Logger.Warn("Unexpanded directive outside code", logfields.Output(run.Output), "line", m.Line, "text", m.Text)
		}
		return ferrors.DirectiveError("assembled document contains unexpanded directives").
			WithContext("path", run.Output).
			WithContext("line", markers[0].Line).
			WithContext("count", len(markers)).
			Build()
	}

	current, err := os.ReadFile(run.Output)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ferrors.FileSystemError("cannot read output").
			WithCause(err).WithContext("path", run.Output).Build()
	}

	rel, relErr := filepath.Rel(cfg.Dir, run.Output)
	if relErr != nil {
		rel = run.Output
	}

	if bytes.Equal(current, res.Document) && err == nil {
		_, _ = fmt.Fprintf(g.Stdout, "%s is up to date\n", rel)
		return nil
	}

	if c.Diff {
		text, diffErr := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(current)),
			B:        difflib.SplitLines(string(res.Document)),
			FromFile: rel + " (current)",
			ToFile:   rel + " (assembled)",
			Context:  3,
		})
		if diffErr != nil {
			return ferrors.InternalError("cannot compute diff").WithCause(diffErr).Build()
		}
		_, _ = fmt.Fprint(g.Stdout, text)
	}

	reason := "output is out of date"
	if err != nil {
		reason = "output does not exist"
	}
	return ferrors.StaleError(reason).WithContext("path", run.Output).Build()
}
