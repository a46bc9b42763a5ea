package formula

import (
	"fmt"

	"EconomyBench/internal/model"
)

// Kind tags the result of interpreting a modifier formula.
type Kind int

const (
	Multiplier Kind = iota + 1
	Flat
)

func (k Kind) String() string {
	switch k {
	case Multiplier:
		return "multiplier"
	case Flat:
		return "flat"
	}
	return "unknown"
}

// Effect is a modifier formula reduced to a constant: a multiplication
// factor or an additive amount.
type Effect struct {
	Kind  Kind
	Value float64
}

// Increment is the change the effect adds on top of base.
func (e Effect) Increment(base float64) float64 {
	if e.Kind == Multiplier {
		return base * (e.Value - 1)
	}
	return e.Value
}

// Interpret evaluates a modifier formula with its canonical substitution:
// 1.0 for multipliers, 0.0 for flat additions.
func Interpret(typ model.ModifierType, expr string) (Effect, error) {
	switch {
	case typ == model.ModifierMultiplier:
		v, err := Evaluate(expr, 1.0)
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: Multiplier, Value: v}, nil
	case typ.IsFlat():
		v, err := Evaluate(expr, 0.0)
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: Flat, Value: v}, nil
	}
	return Effect{}, fmt.Errorf("%w: unknown modifier type %q", ErrInvalidFormula, typ)
}
