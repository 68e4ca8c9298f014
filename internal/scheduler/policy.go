package scheduler

import "fmt"

// Policy holds the tunable scheduling parameters. A Policy is validated once
// at load time and treated as immutable afterwards; it is never repaired
// silently.
type Policy struct {
	LearningStepsMinutes   []int   // ascending positive minutes, non-empty
	RelearningStepsMinutes []int   // same shape
	GraduatingIntervalDays float64 // first Review interval after Good graduation
	EasyIntervalDays       float64 // first Review interval after Easy
	IntervalModifier       float64 // global multiplier on Review intervals
	HardIntervalMultiplier float64 // applied on Review+Hard
	EasyBonus              float64 // extra multiplier on Review+Easy
	LapseNewIntervalPercent float64 // fraction of the pre-lapse interval kept
	LapseEasePenalty       int     // permille subtracted from ease on lapse
	MinimumEaseFactor      int     // permille
	MaximumEaseFactor      int     // permille
	MaximumIntervalDays    int
	InitialEaseFactor      int // permille, assigned to new cards
}

// DefaultPolicy returns the stock Anki-style parameters.
func DefaultPolicy() Policy {
	return Policy{
		LearningStepsMinutes:    []int{1, 10},
		RelearningStepsMinutes:  []int{10},
		GraduatingIntervalDays:  1,
		EasyIntervalDays:        4,
		IntervalModifier:        1.0,
		HardIntervalMultiplier:  0.8,
		EasyBonus:               1.3,
		LapseNewIntervalPercent: 0.5,
		LapseEasePenalty:        200,
		MinimumEaseFactor:       1300,
		MaximumEaseFactor:       3700,
		MaximumIntervalDays:     36500,
		InitialEaseFactor:       2500,
	}
}

// Validate checks every policy constraint and returns an ErrInvalidPolicy
// wrapped error naming the first violation.
func (p Policy) Validate() error {
	if err := validateSteps("learning steps", p.LearningStepsMinutes); err != nil {
		return err
	}
	if err := validateSteps("relearning steps", p.RelearningStepsMinutes); err != nil {
		return err
	}
	if p.GraduatingIntervalDays <= 0 {
		return fmt.Errorf("%w: graduating interval %g must be positive", ErrInvalidPolicy, p.GraduatingIntervalDays)
	}
	if p.EasyIntervalDays <= 0 {
		return fmt.Errorf("%w: easy interval %g must be positive", ErrInvalidPolicy, p.EasyIntervalDays)
	}
	if p.IntervalModifier <= 0 {
		return fmt.Errorf("%w: interval modifier %g must be positive", ErrInvalidPolicy, p.IntervalModifier)
	}
	if p.HardIntervalMultiplier <= 0 {
		return fmt.Errorf("%w: hard interval multiplier %g must be positive", ErrInvalidPolicy, p.HardIntervalMultiplier)
	}
	if p.EasyBonus <= 1 {
		return fmt.Errorf("%w: easy bonus %g must be greater than 1", ErrInvalidPolicy, p.EasyBonus)
	}
	if p.LapseNewIntervalPercent < 0 || p.LapseNewIntervalPercent > 1 {
		return fmt.Errorf("%w: lapse new interval percent %g out of range [0, 1]", ErrInvalidPolicy, p.LapseNewIntervalPercent)
	}
	if p.LapseEasePenalty <= 0 {
		return fmt.Errorf("%w: lapse ease penalty %d must be positive", ErrInvalidPolicy, p.LapseEasePenalty)
	}
	if p.MinimumEaseFactor <= 0 {
		return fmt.Errorf("%w: minimum ease factor %d must be positive", ErrInvalidPolicy, p.MinimumEaseFactor)
	}
	if p.MaximumEaseFactor <= p.MinimumEaseFactor {
		return fmt.Errorf("%w: maximum ease factor %d must exceed minimum %d", ErrInvalidPolicy, p.MaximumEaseFactor, p.MinimumEaseFactor)
	}
	if p.MaximumIntervalDays <= 0 {
		return fmt.Errorf("%w: maximum interval %d must be positive", ErrInvalidPolicy, p.MaximumIntervalDays)
	}
	if p.InitialEaseFactor < p.MinimumEaseFactor || p.InitialEaseFactor > p.MaximumEaseFactor {
		return fmt.Errorf("%w: initial ease factor %d out of range [%d, %d]",
			ErrInvalidPolicy, p.InitialEaseFactor, p.MinimumEaseFactor, p.MaximumEaseFactor)
	}
	return nil
}

func validateSteps(name string, steps []int) error {
	if len(steps) == 0 {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidPolicy, name)
	}
	prev := 0
	for i, s := range steps {
		if s <= 0 {
			return fmt.Errorf("%w: %s[%d] = %d must be positive", ErrInvalidPolicy, name, i, s)
		}
		if s <= prev {
			return fmt.Errorf("%w: %s must be strictly ascending, got %d after %d", ErrInvalidPolicy, name, s, prev)
		}
		prev = s
	}
	return nil
}

// clampEase bounds an ease factor to the policy range.
func (p Policy) clampEase(ease int) int {
	if ease < p.MinimumEaseFactor {
		return p.MinimumEaseFactor
	}
	if ease > p.MaximumEaseFactor {
		return p.MaximumEaseFactor
	}
	return ease
}
