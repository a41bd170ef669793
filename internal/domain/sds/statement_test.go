package sds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
)

func TestCategorizeByPrefix(t *testing.T) {
	tests := []struct {
		code string
		want Category
		ok   bool
	}{
		{"P101", CategoryGeneral, true},
		{"P210", CategoryPrevention, true},
		{"P301+P310", CategoryResponse, true},
		{" P403 ", CategoryStorage, true},
		{"P501", CategoryDisposal, true},
		{"X210", "", false},
		{"P610", "", false},
		{"P", "", false},
		{"P21O", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := CategorizeByPrefix(tt.code)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_FieldNameAndTitle(t *testing.T) {
	assert.Equal(t, "prevention_statements", CategoryPrevention.FieldName())
	assert.Equal(t, "Disposal", CategoryDisposal.Title())
	assert.Equal(t, "", Category("").Title())
}

func TestBulletize(t *testing.T) {
	t.Run("splits and trims", func(t *testing.T) {
		got := Bulletize(" H225: Highly flammable ; ;H304: May be fatal ", ";")
		assert.Equal(t, "• H225: Highly flammable\n• H304: May be fatal", got)
	})
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", Bulletize("", ";"))
		assert.Equal(t, "", Bulletize("  ;  ; ", ";"))
	})
	t.Run("idempotent", func(t *testing.T) {
		once := Bulletize("a;b", ";")
		assert.Equal(t, once, Bulletize(once, ";"))
	})
	t.Run("custom delimiter", func(t *testing.T) {
		assert.Equal(t, "• water\n• foam", Bulletize("water,foam", ","))
	})
}

func TestSplitStatements(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitStatements(" a ;; b ", ";"))
	assert.Empty(t, SplitStatements("", ";"))
}

func TestPrecautionarySet_AddDeduplicates(t *testing.T) {
	set := NewPrecautionarySet()
	set.Add(CategoryPrevention, StatementCode{Prefix: 'P', Number: "210", Description: "Keep away from heat."})
	set.Add(CategoryPrevention, StatementCode{Prefix: 'P', Number: "210", Description: "again"})
	set.Add(CategoryPrevention, StatementCode{Prefix: 'P', Number: "233", Description: "Keep container tightly closed."})

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, "P210: Keep away from heat.; P233: Keep container tightly closed.", set.Statements(CategoryPrevention))
	assert.Equal(t, "", set.Statements(CategoryDisposal))
}

func TestPrecautionarySet_ZeroValueAdd(t *testing.T) {
	var set PrecautionarySet
	set.Add(CategoryGeneral, StatementCode{Prefix: 'P', Number: "101"})
	assert.Equal(t, "P101", set.Statements(CategoryGeneral))
}

func TestParsePrecautionary(t *testing.T) {
	table := NewCodeTable(map[string]string{
		"P210":      "Keep away from heat.",
		"P233":      "Keep container tightly closed.",
		"P301":      "IF SWALLOWED:",
		"P310":      "Immediately call a POISON CENTER.",
		"P403+P235": "Store in a well-ventilated place. Keep cool.",
		"P501":      "Dispose of contents.",
	})
	core, logs := observer.New(zapcore.WarnLevel)
	logger := logging.NewLoggerFromCore(core)

	row := "P210, P233; P301+P310, P403+P235 and P501, P999, X100"
	set, dropped := ParsePrecautionary(row, table, logger)

	assert.Equal(t, "P210: Keep away from heat.; P233: Keep container tightly closed.", set.Statements(CategoryPrevention))
	assert.Equal(t, "P301+P310: IF SWALLOWED: Immediately call a POISON CENTER.", set.Statements(CategoryResponse))
	assert.Equal(t, "P403+P235: Store in a well-ventilated place. Keep cool.", set.Statements(CategoryStorage))
	assert.Equal(t, "P501: Dispose of contents.", set.Statements(CategoryDisposal))
	assert.Equal(t, "", set.Statements(CategoryGeneral))

	assert.Equal(t, []string{"P999", "X100"}, dropped)
	assert.Equal(t, 2, logs.Len())

	fields := set.Fields()
	require.Len(t, fields, 5)
	assert.Equal(t, "", fields["general_statements"])
	assert.Contains(t, fields["prevention_statements"], "P210")
}

func TestParsePrecautionary_EmptyRow(t *testing.T) {
	set, dropped := ParsePrecautionary("", DefaultCodeTable(), nil)
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, dropped)
}

func TestParsePrecautionary_DefaultTableToluene(t *testing.T) {
	row := "P203, P210, P233, P240, P241, P242, P243, P260, P264, P270, P271, P280, " +
		"P301+P316, P302+P352, P303+P361+P353, P304+P340, P305+P351+P338, P318, P319, " +
		"P321, P331, P332+P317, P337+P317, P362+P364, P370+P378, P403+P233, P403+P235, P405, and P501"
	set, dropped := ParsePrecautionary(row, DefaultCodeTable(), logging.NewNopLogger())

	assert.Empty(t, dropped)
	assert.Equal(t, 29, set.Len())
	assert.Len(t, set.Codes(CategoryStorage), 3)
	assert.Len(t, set.Codes(CategoryDisposal), 1)
}

//Personal.AI order the ending
