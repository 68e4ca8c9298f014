package models

import "time"

// CardState is the scheduling record for one (learner, card) pair.
//
// EaseFactor is stored in permille units: 2500 means a 2.50x interval
// multiplier. Interval is in days and carries sub-day precision while the
// card is in the learning or relearning steps. DueAt is always an absolute
// timestamp, never a duration.
type CardState struct {
	LearnerID       int64      `json:"learner_id"`
	CardID          int64      `json:"card_id"`
	Repetitions     int        `json:"repetitions"`
	EaseFactor      int        `json:"ease_factor"`
	Interval        float64    `json:"interval"`
	DueAt           time.Time  `json:"due_at"`
	State           State      `json:"state"`
	LearningStep    int        `json:"learning_step"`
	LastReviewAt    *time.Time `json:"last_review_at,omitempty"`
	PendingInterval *float64   `json:"pending_interval,omitempty"` // set on lapse, consumed on graduation
	CreatedAt       time.Time  `json:"created_at"`
}

// NewCardState creates the initial scheduling record for a card.
// The card is immediately due.
func NewCardState(learnerID, cardID int64, initialEase int, now time.Time) CardState {
	return CardState{
		LearnerID:  learnerID,
		CardID:     cardID,
		EaseFactor: initialEase,
		State:      StateNew,
		DueAt:      now,
		CreatedAt:  now,
	}
}

// SetPendingInterval records the interval a lapsed card graduates back to.
func (c *CardState) SetPendingInterval(days float64) {
	c.PendingInterval = &days
}

// ClearPendingInterval consumes the saved graduation interval.
func (c *CardState) ClearPendingInterval() {
	c.PendingInterval = nil
}

// StateCounts is the per-state breakdown returned with a session.
type StateCounts struct {
	New        int `json:"new"`
	Learning   int `json:"learning"`
	Relearning int `json:"relearning"`
	Review     int `json:"review"`
	Total      int `json:"total"`
}

// Session is a presentation-ready set of cards for one learner.
type Session struct {
	Cards  []CardState `json:"cards"`
	Counts StateCounts `json:"counts"`
}
