package rules_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"literal-localizer/internal/rules"
)

func TestDefault_IsValid(t *testing.T) {
	tbl := rules.Default()
	require.NotNil(t, tbl)
	require.NoError(t, rules.Validate(tbl))
	assert.Equal(t, tbl.Len(), len(tbl.Patterns()))
}

func TestDefault_SpecificBeforeGeneral(t *testing.T) {
	patterns := rules.Default().Patterns()
	index := func(p string) int {
		for i, q := range patterns {
			if q == p {
				return i
			}
		}
		t.Fatalf("pattern %q not in table", p)
		return -1
	}

	assert.Less(t, index("Saída (Cores):"), index("Saída"))
	assert.Less(t, index("Coluna de Saída (Y)"), index("Saída"))
	assert.Less(t, index("Conexão de Saída"), index("Saída"))
	assert.Less(t, index("Adicionar Linha"), index("Adicionar"))
	assert.Less(t, index(`title="Deletar camada"`), index("Deletar"))
	assert.Less(t, index(`title="Deletar camada"`), index("camada"))
	assert.Less(t, index("neurônios"), index("neurônio"))
}

func TestDefault_NoReplacementContainsPattern(t *testing.T) {
	tbl := rules.Default()
	for _, r := range tbl.Rules() {
		for _, p := range tbl.Patterns() {
			assert.NotContains(t, r.Replacement, p, "replacement of %q", r.Pattern)
		}
	}
}

func TestTable_RulesReturnsCopy(t *testing.T) {
	tbl, err := rules.New(rules.Rule{Pattern: "Salvar", Replacement: "Save"})
	require.NoError(t, err)

	rs := tbl.Rules()
	rs[0].Replacement = "mutated"

	assert.Equal(t, "Save", tbl.At(0).Replacement)
}

func TestTable_AllStopsEarly(t *testing.T) {
	tbl, err := rules.New(
		rules.Rule{Pattern: "a", Replacement: "1"},
		rules.Rule{Pattern: "b", Replacement: "2"},
		rules.Rule{Pattern: "c", Replacement: "3"},
	)
	require.NoError(t, err)

	var seen []string
	for i, r := range tbl.All() {
		seen = append(seen, r.Pattern)
		if i == 1 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rules   []rules.Rule
		wantErr error
	}{
		{
			name: "specific_first",
			rules: []rules.Rule{
				{Pattern: "Saída (Cores):", Replacement: "Output (Colors):"},
				{Pattern: "Saída", Replacement: "Output"},
			},
		},
		{
			name: "general_first_diverges",
			rules: []rules.Rule{
				{Pattern: "Saída", Replacement: "Output"},
				{Pattern: "Saída (Cores):", Replacement: "Output (Colors):"},
			},
			wantErr: rules.ErrShadowed,
		},
		{
			name: "general_first_converges",
			rules: []rules.Rule{
				{Pattern: "neurônio", Replacement: "neuron"},
				{Pattern: "neurônios", Replacement: "neurons"},
			},
		},
		{
			name: "empty_pattern",
			rules: []rules.Rule{
				{Pattern: "", Replacement: "x"},
			},
			wantErr: rules.ErrEmptyPattern,
		},
		{
			name: "duplicate_pattern",
			rules: []rules.Rule{
				{Pattern: "Salvar", Replacement: "Save"},
				{Pattern: "Salvar", Replacement: "Store"},
			},
			wantErr: rules.ErrDuplicatePattern,
		},
		{
			name: "replacement_reintroduces_pattern",
			rules: []rules.Rule{
				{Pattern: "Mover", Replacement: "Mover agora"},
			},
			wantErr: rules.ErrReintroduced,
		},
		{
			name:  "empty_table",
			rules: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := rules.New(tt.rules...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, tbl)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.rules), tbl.Len())
		})
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	_, err := rules.New(
		rules.Rule{Pattern: "", Replacement: "x"},
		rules.Rule{Pattern: "Saída", Replacement: "Output"},
		rules.Rule{Pattern: "Coluna de Saída (Y)", Replacement: "Output Column (Y)"},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrEmptyPattern)
	assert.ErrorIs(t, err, rules.ErrShadowed)
}

func TestMustNew_PanicsOnInvalidTable(t *testing.T) {
	assert.Panics(t, func() {
		rules.MustNew(rules.Rule{Pattern: ""})
	})
}

func TestUnreachable(t *testing.T) {
	got := rules.Unreachable(rules.SpecialCase, rules.Default())

	var patterns []string
	for _, r := range got {
		patterns = append(patterns, r.Pattern)
	}
	assert.ElementsMatch(t, []string{"Conexão de Saída", "Saída (Cores):", "Coluna de Saída (Y)"}, patterns)

	assert.Empty(t, rules.Unreachable(rules.Rule{}, rules.Default()))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "rules.yaml")
		content := strings.Join([]string{
			"special_case:",
			"  pattern: Sair",
			"  replacement: Exit",
			"rules:",
			"  - pattern: \"Sair agora\"",
			"    replacement: \"Exit now\"",
			"  - pattern: Sair",
			"    replacement: Exit",
		}, "\n")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		set, err := rules.LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 2, set.Table.Len())
		assert.Equal(t, "Sair agora", set.Table.At(0).Pattern)
		assert.Equal(t, rules.Rule{Pattern: "Sair", Replacement: "Exit"}, set.SpecialCase)
	})

	t.Run("json_default_special_case", func(t *testing.T) {
		path := filepath.Join(dir, "rules.json")
		content := `{"rules":[{"pattern":"Salvar","replacement":"Save"}]}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		set, err := rules.LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, set.Table.Len())
		assert.Equal(t, rules.SpecialCase, set.SpecialCase)
	})

	t.Run("invalid_order", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yml")
		content := "rules:\n  - {pattern: \"Saída\", replacement: \"Output\"}\n  - {pattern: \"Saída (Cores):\", replacement: \"Output (Colors):\"}\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := rules.LoadFile(path)
		require.ErrorIs(t, err, rules.ErrShadowed)
	})

	t.Run("special_case_appended", func(t *testing.T) {
		path := filepath.Join(dir, "appended.yaml")
		content := "special_case: {pattern: Cancelar, replacement: Abort}\nrules:\n  - {pattern: Fechar, replacement: Close}\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		set, err := rules.LoadFile(path)
		require.NoError(t, err)
		require.Equal(t, 2, set.Table.Len())
		assert.Equal(t, rules.Rule{Pattern: "Cancelar", Replacement: "Abort"}, set.Table.At(1))
		assert.Equal(t, set.Table.At(1), set.SpecialCase)
	})

	t.Run("special_case_appended_after_specific_rules", func(t *testing.T) {
		path := filepath.Join(dir, "ordered.yaml")
		content := "special_case: {pattern: Sair, replacement: Exit}\nrules:\n  - {pattern: \"Sair agora\", replacement: \"Exit now\"}\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		set, err := rules.LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Sair agora", "Sair"}, set.Table.Patterns())
	})

	t.Run("special_case_invalid", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
			wantErr error
		}{
			{
				name:    "empty_pattern",
				content: "special_case: {pattern: \"\", replacement: Output}\nrules:\n  - {pattern: Salvar, replacement: Save}\n",
				wantErr: rules.ErrEmptyPattern,
			},
			{
				name:    "replacement_contains_pattern",
				content: "special_case: {pattern: Sair, replacement: \"Salvar e sair\"}\nrules:\n  - {pattern: Salvar, replacement: Save}\n",
				wantErr: rules.ErrReintroduced,
			},
			{
				name:    "disagrees_with_rule",
				content: "special_case: {pattern: Sair, replacement: Leave}\nrules:\n  - {pattern: Sair, replacement: Exit}\n",
				wantErr: rules.ErrDuplicatePattern,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "rules.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

				_, err := rules.LoadFile(path)
				require.ErrorIs(t, err, tt.wantErr)
			})
		}
	})

	t.Run("unsupported_extension", func(t *testing.T) {
		path := filepath.Join(dir, "rules.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

		_, err := rules.LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported")
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := rules.LoadFile(filepath.Join(dir, "nope.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestValidateSpecialCase(t *testing.T) {
	require.NoError(t, rules.ValidateSpecialCase(rules.SpecialCase, rules.Default()))

	tbl := rules.MustNew(rules.Rule{Pattern: "Salvar", Replacement: "Save"})
	tests := []struct {
		name    string
		special rules.Rule
		wantErr error
	}{
		{"valid", rules.Rule{Pattern: "Sair", Replacement: "Exit"}, nil},
		{"empty", rules.Rule{Replacement: "Exit"}, rules.ErrEmptyPattern},
		{"self", rules.Rule{Pattern: "Sair", Replacement: "Sair!"}, rules.ErrReintroduced},
		{"table_pattern", rules.Rule{Pattern: "Sair", Replacement: "Salvar"}, rules.ErrReintroduced},
		{"conflict", rules.Rule{Pattern: "Salvar", Replacement: "Store"}, rules.ErrDuplicatePattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.ValidateSpecialCase(tt.special, tbl)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
