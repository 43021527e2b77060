package backoff

import (
	"time"
)

// Calculator provides backoff calculation using a configurable strategy.
// It centralizes delay math so retry policy code stays declarative.
type Calculator struct {
	strategy Strategy
}

// NewCalculator creates a calculator with the specified strategy.
func NewCalculator(strategy Strategy) *Calculator {
	return &Calculator{strategy: strategy}
}

// Delay computes the backoff duration for the given attempt and parameters.
func (c *Calculator) Delay(attempt int, initial, max time.Duration, multiplier, jitter float64) time.Duration {
	return c.strategy.Delay(attempt, initial, max, multiplier, jitter)
}

// Exponential returns a calculator using exponential backoff with centered
// uniform jitter, the default for retry policies.
func Exponential() *Calculator {
	return NewCalculator(ExponentialStrategy{})
}

// Decorrelated returns a calculator using AWS-style decorrelated jitter.
func Decorrelated() *Calculator {
	return NewCalculator(DecorrelatedStrategy{})
}
