// Package indicators wraps the technical indicators strategies consume as
// pure functions over a close-price series. Outputs are aligned with the
// input slice; entries before an indicator's warmup period are zero, and
// callers must gate on the warmup before trusting a value.
package indicators

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// EMA returns the exponential moving average of the series.
func EMA(close []float64, period int) []float64 {
	if len(close) < period || period <= 0 {
		return make([]float64, len(close))
	}
	return talib.Ema(close, period)
}

// RSI returns the 0-100 relative strength index of the series.
func RSI(close []float64, period int) []float64 {
	if len(close) <= period || period <= 0 {
		return make([]float64, len(close))
	}
	return talib.Rsi(close, period)
}

// Bollinger returns the middle, upper, and lower bands: an SMA of the
// given window offset by dev standard deviations.
func Bollinger(close []float64, window int, dev float64) (middle, upper, lower []float64) {
	if len(close) < window || window <= 0 {
		z := make([]float64, len(close))
		return z, append([]float64(nil), z...), append([]float64(nil), z...)
	}
	upper, middle, lower = talib.BBands(close, window, dev, dev, talib.SMA)
	return middle, upper, lower
}

// NearestStrike rounds a price to the nearest strike increment. Index
// options trade on a fixed strike grid (50 points for NIFTY).
func NearestStrike(price float64, step int) int {
	if step <= 0 {
		step = 50
	}
	return int(math.Round(price/float64(step))) * step
}
