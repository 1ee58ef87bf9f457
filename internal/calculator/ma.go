package calculator

import (
	"errors"

	"StockScorer/internal/model"
)

// CalculateSMA computes the simple moving average of the given values over the specified period.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// AverageVolume returns the mean volume over all bars, 0 when there are none.
func AverageVolume(bars []model.OHLCV) float64 {
	avg, err := CalculateSMA(extractVolumes(bars), len(bars))
	if err != nil {
		return 0
	}
	return avg
}

// DayChange returns close-open and its percentage of open (0 when open is 0).
func DayChange(bar model.OHLCV) (change, changePct float64) {
	change = bar.Close - bar.Open
	if bar.Open != 0 {
		changePct = change / bar.Open * 100
	}
	return change, changePct
}

func extractVolumes(bars []model.OHLCV) []float64 {
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}
	return volumes
}
