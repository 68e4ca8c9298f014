package scheduler

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/recallhq/recall/internal/models"
)

const minutesPerDay = 1440

// Fixed permille ease adjustments for Review-state Hard and Easy responses.
const (
	easeHardPenalty = 150
	easeEasyBonus   = 150
)

// Calculator computes the next scheduling state for a card from a learner
// response. Apply is a pure function of its inputs and the injected random
// source: no I/O, no shared state.
type Calculator struct {
	policy      Policy
	rng         *rand.Rand
	disableFuzz bool
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithRand sets the random source used for interval fuzzing. Supply a seeded
// source for reproducible behavior under test.
func WithRand(rng *rand.Rand) Option {
	return func(c *Calculator) {
		c.rng = rng
	}
}

// WithoutFuzz disables interval fuzzing entirely.
func WithoutFuzz() Option {
	return func(c *Calculator) {
		c.disableFuzz = true
	}
}

// NewCalculator validates the policy and builds a Calculator.
func NewCalculator(policy Policy, opts ...Option) (*Calculator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	c := &Calculator{
		policy: policy,
		rng:    NewLockedRand(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Policy returns the validated policy the calculator runs with.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// Apply computes the updated scheduling record for a response submitted at
// now. The input card is never mutated; on error the returned CardState is
// the zero value and the caller's record is untouched.
func (c *Calculator) Apply(card models.CardState, resp models.Response, now time.Time) (models.CardState, error) {
	if !resp.IsValid() {
		return models.CardState{}, fmt.Errorf("%w: %d", ErrInvalidResponse, int(resp))
	}

	out := cloneState(card)

	switch card.State {
	case models.StateNew:
		c.applyNew(&out, resp)
	case models.StateLearning, models.StateRelearning:
		if card.LearningStep < 0 {
			return models.CardState{}, fmt.Errorf("%w: negative learning step %d", ErrInvalidState, card.LearningStep)
		}
		c.applyStep(&out, resp)
	case models.StateReview:
		c.applyReview(&out, resp)
	default:
		return models.CardState{}, fmt.Errorf("%w: %d", ErrInvalidState, int(card.State))
	}

	out.EaseFactor = c.policy.clampEase(out.EaseFactor)

	// Post-processing applies only when the card lands in Review.
	if out.State == models.StateReview {
		out.Interval *= c.policy.IntervalModifier
		if !c.disableFuzz && out.Interval >= 2 {
			out.Interval = fuzzInterval(out.Interval, c.rng)
		}
		if out.Interval > float64(c.policy.MaximumIntervalDays) {
			out.Interval = float64(c.policy.MaximumIntervalDays)
		}
		// The one-day floor holds for every non-Again response; sub-day
		// intervals only exist in the learning states.
		if resp != models.ResponseAgain && math.Round(out.Interval) < 1 {
			out.Interval = 1
		}
	}

	out.Repetitions++
	reviewedAt := now
	out.LastReviewAt = &reviewedAt
	out.DueAt = dueDate(out.State, out.Interval, now)

	return out, nil
}

func (c *Calculator) applyNew(out *models.CardState, resp models.Response) {
	p := c.policy
	switch resp {
	case models.ResponseAgain, models.ResponseHard:
		out.State = models.StateLearning
		out.LearningStep = 0
		out.Interval = stepDays(p.LearningStepsMinutes, 0)
	case models.ResponseGood:
		if len(p.LearningStepsMinutes) > 1 {
			out.State = models.StateLearning
			out.LearningStep = 0
			out.Interval = stepDays(p.LearningStepsMinutes, 0)
		} else {
			graduate(out, p.GraduatingIntervalDays)
		}
	case models.ResponseEasy:
		graduate(out, p.EasyIntervalDays)
	}
}

func (c *Calculator) applyStep(out *models.CardState, resp models.Response) {
	p := c.policy
	steps := p.LearningStepsMinutes
	if out.State == models.StateRelearning {
		steps = p.RelearningStepsMinutes
	}

	// A stored step past the end of the list appears when the configured
	// step list is shortened between runs; the record falls back to the
	// last remaining step.
	step := out.LearningStep
	if step >= len(steps) {
		step = len(steps) - 1
	}

	switch resp {
	case models.ResponseAgain:
		out.LearningStep = 0
		out.Interval = stepDays(steps, 0)
	case models.ResponseHard:
		out.LearningStep = step
		out.Interval = stepDays(steps, step)
	case models.ResponseGood, models.ResponseEasy:
		next := step + 1
		if next < len(steps) {
			out.LearningStep = next
			out.Interval = stepDays(steps, next)
			return
		}
		// Past the last step: graduate back into Review.
		if out.State == models.StateRelearning {
			days := p.GraduatingIntervalDays
			if out.PendingInterval != nil {
				days = *out.PendingInterval
			}
			graduate(out, days)
			out.ClearPendingInterval()
			return
		}
		if resp == models.ResponseEasy {
			graduate(out, p.EasyIntervalDays)
		} else {
			graduate(out, p.GraduatingIntervalDays)
		}
	}
}

func (c *Calculator) applyReview(out *models.CardState, resp models.Response) {
	p := c.policy
	switch resp {
	case models.ResponseAgain:
		out.EaseFactor -= p.LapseEasePenalty
		out.SetPendingInterval(math.Max(1, math.Round(out.Interval*p.LapseNewIntervalPercent)))
		out.State = models.StateRelearning
		out.LearningStep = 0
		out.Interval = stepDays(p.RelearningStepsMinutes, 0)
	case models.ResponseHard:
		out.Interval *= p.HardIntervalMultiplier
		out.EaseFactor -= easeHardPenalty
	case models.ResponseGood:
		out.Interval *= float64(out.EaseFactor) / 1000
	case models.ResponseEasy:
		out.Interval *= float64(out.EaseFactor) / 1000 * p.EasyBonus
		out.EaseFactor += easeEasyBonus
	}
}

// dueDate derives the absolute due timestamp from the interval. Learning and
// relearning intervals keep minute granularity; review intervals are whole
// days with a one-day minimum.
func dueDate(state models.State, intervalDays float64, now time.Time) time.Time {
	if state == models.StateLearning || state == models.StateRelearning {
		minutes := math.Round(intervalDays * minutesPerDay)
		return now.Add(time.Duration(minutes) * time.Minute)
	}
	days := math.Max(1, math.Round(intervalDays))
	return now.Add(time.Duration(days) * 24 * time.Hour)
}

func graduate(out *models.CardState, intervalDays float64) {
	out.State = models.StateReview
	out.LearningStep = 0
	out.Interval = intervalDays
}

func stepDays(stepsMinutes []int, i int) float64 {
	return float64(stepsMinutes[i]) / minutesPerDay
}

// cloneState deep-copies a CardState so Apply never aliases the caller's
// pointer fields.
func cloneState(c models.CardState) models.CardState {
	out := c
	if c.LastReviewAt != nil {
		v := *c.LastReviewAt
		out.LastReviewAt = &v
	}
	if c.PendingInterval != nil {
		v := *c.PendingInterval
		out.PendingInterval = &v
	}
	return out
}
