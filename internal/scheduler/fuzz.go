package scheduler

import (
	"math"
	"math/rand"
)

// fuzzFactorSpread is the total width of the fuzz multiplier range,
// centered on 1.0: multipliers fall in [0.95, 1.05).
const fuzzFactorSpread = 0.1

// fuzzInterval perturbs a review interval by roughly ±5% to keep cards
// reviewed together from staying due together forever. The result is rounded
// to a whole day and floored at one. Callers skip fuzzing below 2 days.
func fuzzInterval(intervalDays float64, rng *rand.Rand) float64 {
	factor := 1 - fuzzFactorSpread/2 + fuzzFactorSpread*rng.Float64()
	days := math.Round(intervalDays * factor)
	if days < 1 {
		days = 1
	}
	return days
}
