// Package indicator provides pure trailing-window indicator functions over a
// price series. Each function computes its value for the window ending at
// endIndex inclusive and returns a neutral sentinel (not an error) when the
// series is too short: 0 for SMA and StdDev, 50 for RSI. Insufficient history
// is an expected steady state at the start of every series.
package indicator

import "math"

// SMA returns the arithmetic mean of the period values ending at endIndex
// inclusive. Returns 0 when endIndex < period-1.
func SMA(prices []float64, period, endIndex int) float64 {
	if period <= 0 || endIndex < period-1 || endIndex >= len(prices) {
		return 0
	}
	sum := 0.0
	for i := endIndex - period + 1; i <= endIndex; i++ {
		sum += prices[i]
	}
	return sum / float64(period)
}

// RSI returns the relative strength index over the trailing period
// bar-to-bar deltas ending at endIndex. Positive deltas accumulate as gains,
// absolute negative deltas as losses; RSI = 100 - 100/(1+gains/losses).
// Saturates at 100 when there are gains and no losses. Returns the neutral
// value 50 when endIndex < period or when the window is flat.
func RSI(prices []float64, period, endIndex int) float64 {
	if period <= 0 || endIndex < period || endIndex >= len(prices) {
		return 50
	}
	gains := 0.0
	losses := 0.0
	for i := endIndex - period + 1; i <= endIndex; i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	if losses == 0 {
		if gains > 0 {
			return 100
		}
		return 50
	}
	rs := gains / losses
	return 100 - 100/(1+rs)
}

// StdDev returns the population standard deviation (sum of squared
// deviations divided by period) of the trailing window around its SMA.
// Returns 0 under the same insufficient-history condition as SMA.
func StdDev(prices []float64, period, endIndex int) float64 {
	if period <= 0 || endIndex < period-1 || endIndex >= len(prices) {
		return 0
	}
	mean := SMA(prices, period, endIndex)
	variance := 0.0
	for i := endIndex - period + 1; i <= endIndex; i++ {
		d := prices[i] - mean
		variance += d * d
	}
	variance /= float64(period)
	return math.Sqrt(variance)
}
