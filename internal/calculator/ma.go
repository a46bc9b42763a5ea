package calculator

import (
	"errors"
)

// TrailingAverage is the mean of the last window values. A window of zero or
// less, or one longer than the series, averages the whole series.
func TrailingAverage(values []float64, window int) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values to average")
	}
	if window <= 0 || window > len(values) {
		window = len(values)
	}
	sum := 0.0
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window), nil
}
