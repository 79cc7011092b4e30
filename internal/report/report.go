package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Change describes one file whose content a pass altered.
type Change struct {
	Path         string   `json:"path"`
	Replacements int      `json:"replacements"`
	Rules        []string `json:"rules"`
	BeforeHash   string   `json:"before_hash"`
	AfterHash    string   `json:"after_hash"`
	DryRun       bool     `json:"dry_run,omitempty"`
}

// NewRunID returns an identifier for one pass.
func NewRunID() string {
	return uuid.NewString()
}

// Collector accumulates changes in the order they are recorded.
type Collector struct {
	mu      sync.Mutex
	changes []Change
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record appends c.
func (c *Collector) Record(change Change) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changes = append(c.changes, change)
}

// Changes returns a copy of everything recorded so far.
func (c *Collector) Changes() []Change {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Change(nil), c.changes...)
}

// Replacements sums the replacements across all changes.
func (c *Collector) Replacements() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ch := range c.changes {
		n += ch.Replacements
	}
	return n
}

// Export writes changes to outputPath, as JSON for a .json extension and as
// TSV otherwise.
func Export(outputPath string, changes []Change) error {
	if strings.EqualFold(filepath.Ext(outputPath), ".json") {
		return ExportJSON(outputPath, changes)
	}
	return ExportTSV(outputPath, changes)
}

// ExportTSV writes changes to a TSV file.
func ExportTSV(outputPath string, changes []Change) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create TSV file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "path\treplacements\trules\tbefore_hash\tafter_hash\tdry_run")

	for _, c := range changes {
		rules := make([]string, len(c.Rules))
		for i, r := range c.Rules {
			rules[i] = escapeTSV(r)
		}
		fmt.Fprintf(f, "%s\t%d\t%s\t%s\t%s\t%t\n",
			escapeTSV(c.Path),
			c.Replacements,
			strings.Join(rules, "|"),
			c.BeforeHash,
			c.AfterHash,
			c.DryRun,
		)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("flush TSV file: %w", err)
	}

	log.Info().Str("path", outputPath).Int("changes", len(changes)).Msg("Exported change report to TSV")
	return nil
}

// ExportJSON writes changes to a JSON file.
func ExportJSON(outputPath string, changes []Change) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer f.Close()

	if changes == nil {
		changes = []Change{}
	}

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(changes); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	log.Info().Str("path", outputPath).Int("changes", len(changes)).Msg("Exported change report to JSON")
	return nil
}

// escapeTSV replaces tabs and newlines in a string for TSV safety.
func escapeTSV(s string) string {
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}
