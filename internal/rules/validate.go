package rules

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyPattern     = errors.New("empty pattern")
	ErrDuplicatePattern = errors.New("duplicate pattern")
	ErrShadowed         = errors.New("rule shadowed by earlier, more general rule")
	ErrReintroduced     = errors.New("replacement reintroduces a source pattern")
)

// Validate checks the ordering contract of a table:
//
//   - every pattern is non-empty and unique;
//   - no earlier pattern is a substring of a later one when that changes
//     the outcome for the later pattern (more specific rules go first);
//   - no replacement contains any pattern, so a second pass is a no-op.
//
// All violations are reported together.
func Validate(t *Table) error {
	var errs []error
	seen := make(map[string]int, len(t.rules))

	for j, r := range t.rules {
		if r.Pattern == "" {
			errs = append(errs, fmt.Errorf("rule %d: %w", j, ErrEmptyPattern))
			continue
		}
		if i, dup := seen[r.Pattern]; dup {
			errs = append(errs, fmt.Errorf("rule %d %q (first at %d): %w", j, r.Pattern, i, ErrDuplicatePattern))
			continue
		}
		seen[r.Pattern] = j

		for i := 0; i < j; i++ {
			earlier := t.rules[i]
			if earlier.Pattern == "" || !strings.Contains(r.Pattern, earlier.Pattern) {
				continue
			}
			got := apply(r.Pattern, t.rules)
			want := apply(r.Replacement, t.rules[j+1:])
			if got != want {
				errs = append(errs, fmt.Errorf("rule %d %q consumed by rule %d %q (got %q, want %q): %w",
					j, r.Pattern, i, earlier.Pattern, got, want, ErrShadowed))
			}
			break
		}
	}

	for j, r := range t.rules {
		for _, other := range t.rules {
			if other.Pattern != "" && strings.Contains(r.Replacement, other.Pattern) {
				errs = append(errs, fmt.Errorf("rule %d replacement %q contains %q: %w",
					j, r.Replacement, other.Pattern, ErrReintroduced))
			}
		}
	}

	return errors.Join(errs...)
}

// ValidateSpecialCase applies the table checks to the pre-pass rule: its
// pattern is non-empty, a table rule with the same pattern agrees on the
// replacement, and its replacement contains no pattern.
func ValidateSpecialCase(special Rule, t *Table) error {
	if special.Pattern == "" {
		return fmt.Errorf("special case: %w", ErrEmptyPattern)
	}

	var errs []error
	if strings.Contains(special.Replacement, special.Pattern) {
		errs = append(errs, fmt.Errorf("special case replacement %q contains %q: %w",
			special.Replacement, special.Pattern, ErrReintroduced))
	}
	for j, r := range t.rules {
		if r.Pattern == special.Pattern && r.Replacement != special.Replacement {
			errs = append(errs, fmt.Errorf("special case %q -> %q disagrees with rule %d -> %q: %w",
				special.Pattern, special.Replacement, j, r.Replacement, ErrDuplicatePattern))
		}
		if r.Pattern != "" && r.Pattern != special.Pattern && strings.Contains(special.Replacement, r.Pattern) {
			errs = append(errs, fmt.Errorf("special case replacement %q contains %q: %w",
				special.Replacement, r.Pattern, ErrReintroduced))
		}
	}
	return errors.Join(errs...)
}
