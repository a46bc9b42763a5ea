package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EconomyBench/internal/model"
)

func TestEvaluate_Arithmetic(t *testing.T) {
	tests := []struct {
		expr  string
		value float64
		want  float64
	}{
		{"1 + 0.25", 0, 1.25},
		{"income * (1 + 0.5)", 1, 1.5},
		{"income * 1.2", 10, 12},
		{"-3 + +5", 0, 2},
		{"minutes / 60", 90, 1.5},
		{"(progress + 1) * (cash - 2)", 3, 4},
		{"income + 3", 0, 3},
		{"2 * 3 + 4 / 2", 0, 8},
		{"- -1", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr, tt.value)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestEvaluate_RejectsNonArithmetic(t *testing.T) {
	rejected := []string{
		"",
		"   ",
		"foo + 1",
		"math.Pow(2, 3)",
		"income.value",
		"len(\"abc\")",
		"\"abc\"",
		"'a'",
		"2 ** 3",
		"7 % 2",
		"1 << 3",
		"1 +",
		"income == 1",
		"x[0]",
		"func() {}",
		"1e400",
	}
	for _, expr := range rejected {
		t.Run(expr, func(t *testing.T) {
			_, err := Evaluate(expr, 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFormula)
		})
	}
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	for _, expr := range []string{"1 / 0", "income / (2 - 2)", "5 / income"} {
		_, err := Evaluate(expr, 0)
		require.Error(t, err, expr)
		assert.ErrorIs(t, err, ErrDivisionByZero, expr)
		assert.NotErrorIs(t, err, ErrInvalidFormula, expr)
	}
}

func TestInterpret_CanonicalSubstitution(t *testing.T) {
	eff, err := Interpret(model.ModifierMultiplier, "income * (1 + 0.25)")
	require.NoError(t, err)
	assert.Equal(t, Multiplier, eff.Kind)
	assert.InDelta(t, 1.25, eff.Value, 1e-12)
	assert.InDelta(t, 2.5, eff.Increment(10), 1e-12)

	eff, err = Interpret(model.ModifierFlat, "income + 3")
	require.NoError(t, err)
	assert.Equal(t, Flat, eff.Kind)
	assert.InDelta(t, 3, eff.Value, 1e-12)
	assert.InDelta(t, 3, eff.Increment(100), 1e-12)

	eff, err = Interpret(model.ModifierAdd, "2 + 2")
	require.NoError(t, err)
	assert.Equal(t, Flat, eff.Kind)
	assert.InDelta(t, 4, eff.Value, 1e-12)
}

func TestInterpret_UnknownType(t *testing.T) {
	_, err := Interpret(model.ModifierType("exponent"), "2")
	assert.ErrorIs(t, err, ErrInvalidFormula)
}
