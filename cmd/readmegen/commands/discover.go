package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/readmegen/internal/assembler"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/markdown"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Outline bool `help:"Also print the heading outline of every fragment"`
}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	cfg, run, err := loadAssembly(root)
	if err != nil {
		return err
	}

	// Rendering resolves every directive, so discover fails on the same inputs build would.
	asm := assembler.New(assembler.OSSource{}, assembler.WithLogger(g.Logger))
	res, err := asm.Render(context.Background(), run)
	if err != nil {
		return err
	}

	rel := func(p string) string {
		if r, err := filepath.Rel(cfg.Dir, p); err == nil {
			return filepath.ToSlash(r)
		}
		return p
	}

	out := g.Stdout
	for i, f := range res.Fragments {
		_, _ = fmt.Fprintf(out, "%d. %s (%d includes)\n", i+1, rel(f.Path), len(f.Includes))
		for _, inc := range f.Includes {
			_, _ = fmt.Fprintf(out, "   line %d  %-8s %s\n", inc.Line, inc.Rule, rel(inc.Resolved))
		}
		if d.Outline {
			for _, h := range markdown.Outline(f.Content) {
				_, _ = fmt.Fprintf(out, "   %s %s\n", strings.Repeat("#", h.Level), h.Text)
			}
		}
	}

	g.Logger.Info("Discovery completed",
		logfields.Count(len(res.Fragments)),
		"includes", res.IncludeCount())
	return nil
}
