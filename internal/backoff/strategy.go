package backoff

import (
	"math/rand"
	"time"
)

// Strategy defines the interface for backoff delay algorithms.
type Strategy interface {
	// Delay returns the backoff duration for the given zero-based attempt
	// index. jitter is the fraction of the computed delay used as the
	// uniform adjustment range (0.1 = plus or minus 10%).
	Delay(attempt int, initial, max time.Duration, multiplier, jitter float64) time.Duration
}

// ExponentialStrategy implements exponential growth with a centered uniform
// jitter: delay = initial * multiplier^attempt, capped at max, then adjusted
// by a random amount in [-jitter, +jitter] of the delay, floored at zero.
type ExponentialStrategy struct{}

// Delay implements Strategy.
func (ExponentialStrategy) Delay(attempt int, initial, max time.Duration, multiplier, jitter float64) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// Cap the exponent to avoid overflowing time.Duration.
	if attempt > 30 {
		attempt = 30
	}

	delay := time.Duration(float64(initial) * Pow(multiplier, attempt))
	if delay < 0 || (max > 0 && delay > max) {
		delay = max
	}

	jitter = clampJitter(jitter)
	if jitter > 0 {
		spread := (2*rand.Float64() - 1) * jitter
		delay += time.Duration(float64(delay) * spread)
	}
	if delay < 0 {
		delay = 0
	}
	return delay
}

// DecorrelatedStrategy implements AWS-style decorrelated jitter:
// random_between(base, min(cap, base * 3^attempt)).
type DecorrelatedStrategy struct{}

// Delay implements Strategy.
func (DecorrelatedStrategy) Delay(attempt int, initial, max time.Duration, multiplier, jitter float64) time.Duration {
	if attempt <= 0 {
		return initial
	}
	if attempt > 10 {
		attempt = 10
	}

	base := float64(initial)
	upper := base * Pow(3.0, attempt)

	maxFloat := float64(max)
	if max > 0 && (upper > maxFloat || upper < 0) {
		upper = maxFloat
	}
	if upper < base {
		upper = base
	}

	delay := time.Duration(base + rand.Float64()*(upper-base))
	if delay < 0 || (max > 0 && delay > max) {
		delay = max
	}
	return delay
}

func clampJitter(jitter float64) float64 {
	if jitter < 0 {
		return 0
	}
	if jitter > 1 {
		return 1
	}
	return jitter
}

// Pow calculates base^exponent using integer exponentiation.
func Pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
