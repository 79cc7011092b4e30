package scan

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"

	"literal-localizer/internal/rules"
	"literal-localizer/internal/textutil"
	"literal-localizer/internal/worker"

	"github.com/rs/zerolog/log"
)

// Finding is a source line that still contains a pattern of the table.
type Finding struct {
	Path    string
	Line    int
	Pattern string
	Text    string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %q in %s", f.Path, f.Line, f.Pattern, textutil.Truncate(f.Text, 120))
}

// Scanner reports untranslated literals without modifying any file.
type Scanner struct {
	patterns []string
	workers  int
}

// NewScanner creates a scanner for the source patterns of table.
func NewScanner(table *rules.Table, workers int) *Scanner {
	return &Scanner{
		patterns: table.Patterns(),
		workers:  workers,
	}
}

// Scan checks paths concurrently and returns findings sorted by path and
// line. The first read error is returned alongside the findings gathered
// from the other files.
func (s *Scanner) Scan(ctx context.Context, paths []string) ([]Finding, error) {
	pool := worker.NewPool(s.workers, func(ctx context.Context, path string) ([]Finding, error) {
		return s.scanFile(path)
	})

	var (
		findings []Finding
		firstErr error
	)
	for _, task := range pool.Execute(ctx, paths) {
		if task.Err != nil {
			if firstErr == nil {
				firstErr = task.Err
			}
			continue
		}
		findings = append(findings, task.Result...)
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		return findings[i].Line < findings[j].Line
	})

	log.Info().Int("files", len(paths)).Int("findings", len(findings)).Msg("Scan complete")
	return findings, firstErr
}

func (s *Scanner) scanFile(path string) ([]Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var findings []Finding
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if p, ok := textutil.FirstMatch(text, s.patterns); ok {
			findings = append(findings, Finding{Path: path, Line: line, Pattern: p, Text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return findings, nil
}
