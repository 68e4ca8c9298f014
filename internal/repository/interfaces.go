package repository

import (
	"context"
	"errors"
	"time"

	"github.com/recallhq/recall/internal/models"
)

// ErrStaleWrite is returned by CardStateRepository.Update when the stored
// record no longer matches the version the caller loaded. Concurrent
// submissions for the same (learner, card) pair must be serialized; the
// loser of the race gets this error.
var ErrStaleWrite = errors.New("repository: card state was modified concurrently")

// CardStateRepository handles scheduling-state data access. It is the
// storage collaborator of the scheduling engine: a single atomic upsert
// keyed by (learner_id, card_id), plus the due-set query.
type CardStateRepository interface {
	// Get returns the state for one (learner, card) pair, or nil when absent.
	Get(ctx context.Context, learnerID, cardID int64) (*models.CardState, error)
	// Create inserts the initial state for a card.
	Create(ctx context.Context, state models.CardState) error
	// Update persists a recomputed state. prevRepetitions is the repetition
	// count the caller loaded; a mismatch means a concurrent submission won
	// and the write is rejected with ErrStaleWrite.
	Update(ctx context.Context, state models.CardState, prevRepetitions int) error
	// QueryDue returns (a) states in the learning, relearning or review
	// stages with due_at <= now, ascending by due_at, capped at reviewLimit,
	// and (b) new states in card-creation order, capped at newLimit.
	QueryDue(ctx context.Context, learnerID int64, now time.Time, newLimit, reviewLimit int) (due, fresh []models.CardState, err error)
	// CountsByState returns the full per-state breakdown for a learner.
	CountsByState(ctx context.Context, learnerID int64) (models.StateCounts, error)
	// InsertReviewLog records one response submission.
	InsertReviewLog(ctx context.Context, learnerID, cardID int64, resp models.Response, reviewedAt time.Time) error
}

// CardFilter narrows and pages card listings.
type CardFilter struct {
	LearnerID int64
	Search    string // substring match on front or back
	Limit     int
	Offset    int
	OrderDir  string // "ASC" or "DESC" on created_at
}

// CardRepository handles card content data access.
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) (int64, error)
	Get(ctx context.Context, id, learnerID int64) (*models.Card, error)
	List(ctx context.Context, filter CardFilter) ([]models.Card, error)
}

// LearnerRepository handles learner data access.
type LearnerRepository interface {
	Insert(ctx context.Context, name string) (int64, error)
	Get(ctx context.Context, id int64) (*models.Learner, error)
	List(ctx context.Context) ([]models.Learner, error)
}
