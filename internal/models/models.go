package models

import "time"

// Learner is an account that owns cards and review state.
type Learner struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Card is the content record a CardState schedules. Content semantics
// (generation, rendering, media) live outside this service.
type Card struct {
	ID        int64     `json:"id"`
	LearnerID int64     `json:"learner_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewLog is one recorded response submission.
type ReviewLog struct {
	ID         int64     `json:"id"`
	LearnerID  int64     `json:"learner_id"`
	CardID     int64     `json:"card_id"`
	Response   Response  `json:"response"`
	ReviewedAt time.Time `json:"reviewed_at"`
}
