package assembler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/readmegen/internal/directive"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/markdown"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
)

// Config is the complete input of one run.
type Config struct {
	// Fragments are read and emitted in this order.
	Fragments []string
	// BaseDir anchors every directive path.
	BaseDir string
	// Output is replaced by the assembled document.
	Output string
	// Separator is placed between processed fragments.
	Separator string
	// Rules run in order over every fragment.
	Rules []directive.Rule
}

// Result is an assembled document and what went into it.
type Result struct {
	Document  []byte
	Fragments []Fragment
}

// Fragment is one processed input file.
type Fragment struct {
	Path     string
	Content  []byte
	Includes []Include
}

// Include is one resolved directive.
type Include struct {
	Rule     string
	Path     string // as written in the directive
	Resolved string // joined with the base directory
	Line     int
	Content  []byte
}

// IncludeCount returns the number of directives expanded across all fragments.
func (r *Result) IncludeCount() int {
	n := 0
	for _, f := range r.Fragments {
		n += len(f.Includes)
	}
	return n
}

// Assembler expands and joins fragments read from a Source.
type Assembler struct {
	src      Source
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *Assembler) {
		if r != nil {
			a.recorder = r
		}
	}
}

// WithLogger sets the logger used for per-directive trace lines.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Assembler. A nil src reads the local file system.
func New(src Source, opts ...Option) *Assembler {
	if src == nil {
		src = OSSource{}
	}
	a := &Assembler{
		src:      src,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble renders the document and writes it to cfg.Output.
// Nothing is written when rendering fails.
func (a *Assembler) Assemble(ctx context.Context, cfg Config) (*Result, error) {
	res, err := a.Render(ctx, cfg)
	if err != nil {
		a.recordFailure(err)
		return nil, err
	}
	if err := Write(cfg.Output, res.Document); err != nil {
		a.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return nil, err
	}
	a.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	a.logger.Info("Document written",
		logfields.Output(cfg.Output),
		logfields.Count(len(res.Fragments)),
		logfields.Bytes(len(res.Document)))
	return res, nil
}

// Render reads every fragment, expands its directives and joins the results in
// memory. It performs no writes.
func (a *Assembler) Render(ctx context.Context, cfg Config) (*Result, error) {
	start := time.Now()

	if len(cfg.Fragments) == 0 {
		return nil, classify(ErrNoFragments)
	}
	if err := directive.ValidateRules(cfg.Rules); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid directive rules").Fatal().Build()
	}

	// All fragments are loaded before any directive is resolved.
	fragments := make([]Fragment, len(cfg.Fragments))
	for i, path := range cfg.Fragments {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("assembly canceled: %w", err)
		}
		content, err := a.src.ReadFile(path)
		if err != nil {
			return nil, classify(&MissingFragmentError{Path: path, Err: err})
		}
		fragments[i] = Fragment{Path: path, Content: content}
	}

	parts := make([]string, len(fragments))
	for i := range fragments {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("assembly canceled: %w", err)
		}
		f := &fragments[i]
		out, includes, err := a.expand(f.Path, string(f.Content), cfg.Rules, cfg.BaseDir)
		if err != nil {
			return nil, classify(err)
		}
		f.Includes = includes
		parts[i] = out
		a.recorder.IncFragment()
	}

	doc := []byte(strings.Join(parts, cfg.Separator))
	a.recorder.SetOutputBytes(len(doc))
	a.recorder.ObserveAssembleDuration(time.Since(start))
	return &Result{Document: doc, Fragments: fragments}, nil
}

// ApplySubstitutionPass replaces every directive of rule in text with the wrapped
// content of its target, resolved against baseDir. Directives of other rules are
// left untouched.
func (a *Assembler) ApplySubstitutionPass(text string, rule directive.Rule, baseDir string) (string, []Include, error) {
	out, includes, err := a.expand("", text, []directive.Rule{rule}, baseDir)
	if err != nil {
		return "", nil, classify(err)
	}
	return out, includes, nil
}

// expand scans text for all rules, resolves every target, then applies all
// replacements against the original offsets.
func (a *Assembler) expand(fragment, text string, rules []directive.Rule, baseDir string) (string, []Include, error) {
	matches, err := directive.Plan(text, rules)
	if err != nil {
		var se *directive.SyntaxError
		if errors.As(err, &se) {
			return "", nil, &MalformedDirectiveError{Fragment: fragment, Line: se.Line, Column: se.Column, Token: se.Token, Err: err}
		}
		return "", nil, err
	}
	if len(matches) == 0 {
		return text, nil, nil
	}

	edits := make([]markdown.Edit, 0, len(matches))
	includes := make([]Include, 0, len(matches))
	for _, m := range matches {
		target := filepath.Join(baseDir, filepath.FromSlash(m.Path))
		line := strings.Count(text[:m.Start], "\n") + 1

		content, err := a.src.ReadFile(target)
		if err != nil {
			return "", nil, &MissingIncludeTargetError{Fragment: fragment, Line: line, Path: target, Err: err}
		}

		a.logger.Info("Inlining file",
			logfields.Path(target),
			logfields.Directive(m.Rule.Name),
			logfields.Fragment(fragment))
		a.recorder.IncDirective(m.Rule.Name)

		edits = append(edits, markdown.Edit{
			Start:       m.Start,
			End:         m.End,
			Replacement: []byte(m.Rule.Wrapper.Wrap(string(content))),
		})
		includes = append(includes, Include{
			Rule:     m.Rule.Name,
			Path:     m.Path,
			Resolved: target,
			Line:     line,
			Content:  content,
		})
	}

	out, err := markdown.ApplyEdits([]byte(text), edits)
	if err != nil {
		return "", nil, ferrors.InternalError("directive spans overlap").WithCause(err).Build()
	}
	return string(out), includes, nil
}

func (a *Assembler) recordFailure(err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		a.recorder.IncBuildOutcome(metrics.OutcomeCanceled)
		return
	}
	a.recorder.IncBuildOutcome(metrics.OutcomeFailed)
}
