package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/readmegen/internal/assembler"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/manifest"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
	"git.home.luguber.info/inful/readmegen/internal/version"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Override the output path from the configuration" type:"path"`
	Stdout      bool   `help:"Print the document to stdout instead of writing the output file"`
	Manifest    string `help:"Write a JSON build manifest to this path" type:"path"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in textfile format to this path" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, run, err := loadAssembly(root)
	if err != nil {
		return err
	}
	if b.Output != "" {
		run.Output = b.Output
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prom.NewRegistry()
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if b.MetricsFile != "" {
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	g.Logger.Info("Starting README assembly",
		logfields.Config(root.Config),
		logfields.Count(len(run.Fragments)),
		logfields.Output(run.Output))
	start := time.Now()

	asm := assembler.New(assembler.OSSource{}, assembler.WithRecorder(recorder), assembler.WithLogger(g.Logger))
	var res *assembler.Result
	if b.Stdout {
		res, err = asm.Render(ctx, run)
		if err == nil {
			_, err = g.Stdout.Write(res.Document)
		}
	} else {
		res, err = asm.Assemble(ctx, run)
	}

	// Metrics are exported for failed runs too.
	if b.MetricsFile != "" {
		if merr := metrics.WriteTextfile(reg, b.MetricsFile); merr != nil {
			g.Logger.Warn("Failed to write metrics file", logfields.Path(b.MetricsFile), logfields.Error(merr))
		}
	}
	if err != nil {
		return err
	}

	if b.Manifest != "" {
		m := manifest.New(cfg.Dir, version.Version, run.Output, res.Document, manifestInputs(res))
		if err := m.Write(b.Manifest); err != nil {
			return ferrors.FileSystemError("cannot write manifest").
				WithCause(err).WithContext("path", b.Manifest).Build()
		}
		g.Logger.Info("Manifest written", logfields.Path(b.Manifest), logfields.Hash(m.Hash))
	}

	g.Logger.Info("Build completed",
		logfields.Count(res.IncludeCount()),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	if !b.Stdout {
		rel, relErr := filepath.Rel(cfg.Dir, run.Output)
		if relErr != nil {
			rel = run.Output
		}
		_, _ = fmt.Fprintf(g.Stdout, "Wrote %s (%d fragments, %d includes)\n", rel, len(res.Fragments), res.IncludeCount())
	}
	return nil
}

// manifestInputs lists fragments and their includes in consumption order.
func manifestInputs(res *assembler.Result) []manifest.Input {
	inputs := make([]manifest.Input, 0, len(res.Fragments)+res.IncludeCount())
	for _, f := range res.Fragments {
		inputs = append(inputs, manifest.Input{Kind: manifest.KindFragment, Path: f.Path, Content: f.Content})
		for _, inc := range f.Includes {
			inputs = append(inputs, manifest.Input{
				Kind:     manifest.KindInclude,
				Path:     inc.Resolved,
				Fragment: f.Path,
				Rule:     inc.Rule,
				Content:  inc.Content,
			})
		}
	}
	return inputs
}
