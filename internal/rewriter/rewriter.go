package rewriter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"literal-localizer/internal/report"
	"literal-localizer/internal/substitute"
	"literal-localizer/internal/textutil"

	"github.com/rs/zerolog/log"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ErrInvalidUTF8 is returned for files whose content is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// Recorder receives one Change per file whose content the engine altered.
type Recorder interface {
	Record(report.Change)
}

// Rewriter runs the engine over single files and persists the result when it
// differs from what is on disk.
type Rewriter struct {
	engine   *substitute.Engine
	recorder Recorder
	dryRun   bool
	diff     io.Writer
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithRecorder reports every changed file to r.
func WithRecorder(r Recorder) Option {
	return func(rw *Rewriter) {
		rw.recorder = r
	}
}

// WithDryRun computes and reports changes without writing any file.
func WithDryRun(dryRun bool) Option {
	return func(rw *Rewriter) {
		rw.dryRun = dryRun
	}
}

// WithDiff writes a colored character diff of every changed file to w.
func WithDiff(w io.Writer) Option {
	return func(rw *Rewriter) {
		rw.diff = w
	}
}

// New creates a Rewriter around engine.
func New(engine *substitute.Engine, opts ...Option) *Rewriter {
	rw := &Rewriter{engine: engine}
	for _, opt := range opts {
		opt(rw)
	}
	return rw
}

// Process reads path, transforms it, and overwrites it only if the content
// changed. A file with no matching pattern is left untouched, metadata
// included.
func (rw *Rewriter) Process(path string) error {
	original, err := readFile(path)
	if err != nil {
		return err
	}

	transformed, hits := rw.engine.Trace(original)
	if transformed == original {
		log.Debug().Str("file", path).Msg("Unchanged")
		return nil
	}

	if !rw.dryRun {
		if err := writeFile(path, transformed); err != nil {
			return err
		}
	}

	change := report.Change{
		Path:       path,
		BeforeHash: textutil.Hash(original),
		AfterHash:  textutil.Hash(transformed),
		DryRun:     rw.dryRun,
	}
	for _, h := range hits {
		change.Replacements += h.Count
		change.Rules = append(change.Rules, h.Rule.Pattern)
	}

	log.Debug().
		Str("file", path).
		Int("replacements", change.Replacements).
		Bool("dry_run", rw.dryRun).
		Msg("Localized")

	if rw.recorder != nil {
		rw.recorder.Record(change)
	}
	if rw.diff != nil {
		rw.writeDiff(path, original, transformed)
	}
	return nil
}

func (rw *Rewriter) writeDiff(path, before, after string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))
	fmt.Fprintf(rw.diff, "--- %s\n%s\n", path, dmp.DiffPrettyText(diffs))
}

func readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("decode %s: %w", path, ErrInvalidUTF8)
	}
	return string(data), nil
}

// writeFile truncates and rewrites an existing file, keeping its mode.
func writeFile(path, content string) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("open %s for writing: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if _, err := io.WriteString(f, content); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
