// Package calculator derives summary statistics from a run's cash series.
package calculator

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"EconomyBench/internal/model"
)

// GrowthFit is an exponential curve cash = exp(Intercept + Slope*day).
type GrowthFit struct {
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
	Fitted    []float64 `json:"fitted"`
}

// DoublingDays is how many days the fitted curve takes to double, +Inf when
// it does not grow.
func (g GrowthFit) DoublingDays() float64 {
	if g.Slope <= 0 {
		return math.Inf(1)
	}
	return math.Ln2 / g.Slope
}

// FitExponential fits a least-squares line through (day, ln cash) using only
// days with positive cash, then evaluates the curve on every day.
func FitExponential(days, cash []float64) (GrowthFit, error) {
	if len(days) != len(cash) {
		return GrowthFit{}, errors.New("days and cash must have equal length")
	}
	var xs, ys []float64
	for i, c := range cash {
		if c > 0 {
			xs = append(xs, days[i])
			ys = append(ys, math.Log(c))
		}
	}
	if len(xs) < 2 {
		return GrowthFit{}, errors.New("need at least two positive cash points")
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return GrowthFit{}, errors.New("degenerate cash series")
	}
	fit := GrowthFit{Slope: beta, Intercept: alpha, Fitted: make([]float64, len(days))}
	for i, d := range days {
		fit.Fitted[i] = math.Exp(alpha + beta*d)
	}
	return fit, nil
}

// FitLedger fits the closing cash of a ledger.
func FitLedger(ledger model.Ledger) (GrowthFit, error) {
	return FitExponential(ledger.Days(), ledger.ClosingCash())
}
