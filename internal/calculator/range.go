package calculator

import (
	"errors"
	"math"

	"EconomyBench/internal/model"
)

// CashRange scans the closing cash of the most recent window days and returns
// the high and low. A window of zero or less scans the whole ledger.
func CashRange(ledger model.Ledger, window int) (high, low float64, err error) {
	if len(ledger) == 0 {
		return 0, 0, errors.New("empty ledger")
	}
	n := len(ledger)
	start := 0
	if window > 0 && n > window {
		start = n - window
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		high = math.Max(high, ledger[i].CashEnd)
		low = math.Min(low, ledger[i].CashEnd)
	}
	return high, low, nil
}

// RangePosition returns where current sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	return math.Max(0, math.Min(1, pos)), nil
}

// AverageDailyChange is (last closing cash - first opening cash) / days.
func AverageDailyChange(ledger model.Ledger) float64 {
	if len(ledger) == 0 {
		return 0
	}
	return (ledger[len(ledger)-1].CashEnd - ledger[0].CashStart) / float64(len(ledger))
}
