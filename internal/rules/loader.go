package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// File is the on-disk form of a rule table.
type File struct {
	SpecialCase *Rule  `yaml:"special_case,omitempty" json:"special_case,omitempty"`
	Rules       []Rule `yaml:"rules" json:"rules"`
}

// Set is a loaded table together with the token used by the legacy pre-pass.
type Set struct {
	Table       *Table
	SpecialCase Rule
}

// DefaultSet returns the built-in table and special case.
func DefaultSet() Set {
	return Set{Table: Default(), SpecialCase: SpecialCase}
}

// LoadFile reads a rule table from a .yaml, .yml or .json file. The file
// order is the application order. A missing special_case falls back to the
// built-in one. An explicit special_case whose pattern is not listed in rules
// is appended as the last rule, so the unified table translates it too.
func LoadFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read rules file: %w", err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".json":
		err = json.Unmarshal(data, &f)
	default:
		return Set{}, fmt.Errorf("unsupported rules file extension %q", ext)
	}
	if err != nil {
		return Set{}, fmt.Errorf("decode rules file %s: %w", path, err)
	}

	special := SpecialCase
	rs := f.Rules
	if f.SpecialCase != nil {
		special = *f.SpecialCase
		if special.Pattern != "" && !slices.ContainsFunc(rs, func(r Rule) bool { return r.Pattern == special.Pattern }) {
			rs = append(slices.Clip(rs), special)
		}
	}

	t, err := New(rs...)
	if err != nil {
		return Set{}, fmt.Errorf("validate rules file %s: %w", path, err)
	}
	if err := ValidateSpecialCase(special, t); err != nil {
		return Set{}, fmt.Errorf("validate rules file %s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("rules", t.Len()).Msg("Loaded rule table")
	return Set{Table: t, SpecialCase: special}, nil
}
