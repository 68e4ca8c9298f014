package services

import (
	"context"
	stderrors "errors"
	"math/rand"
	"time"

	"github.com/recallhq/recall/internal/errors"
	"github.com/recallhq/recall/internal/logger"
	"github.com/recallhq/recall/internal/models"
	"github.com/recallhq/recall/internal/repository"
	"github.com/recallhq/recall/internal/scheduler"
)

// ReviewService handles response submission and session assembly
type ReviewService interface {
	// SubmitResponse loads a card's scheduling state, applies the response
	// and persists the result. All-or-nothing: on any failure the stored
	// schedule is untouched.
	SubmitResponse(ctx context.Context, learnerID, cardID int64, resp models.Response, now time.Time) (*models.CardState, error)
	// GetSession assembles the next review session. Read-only.
	GetSession(ctx context.Context, learnerID int64, newLimit, reviewLimit int, now time.Time) (*models.Session, error)
}

type reviewService struct {
	states repository.CardStateRepository
	calc   *scheduler.Calculator
	rng    *rand.Rand
}

// NewReviewService creates a new ReviewService. The random source drives the
// session shuffle; supply a seeded one for reproducible ordering.
func NewReviewService(states repository.CardStateRepository, calc *scheduler.Calculator, rng *rand.Rand) ReviewService {
	return &reviewService{states: states, calc: calc, rng: rng}
}

func (s *reviewService) SubmitResponse(ctx context.Context, learnerID, cardID int64, resp models.Response, now time.Time) (*models.CardState, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting response: learner_id=%d, card_id=%d, response=%s", learnerID, cardID, resp)

	state, err := s.states.Get(ctx, learnerID, cardID)
	if err != nil {
		log.Error("failed to load card state: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if state == nil {
		return nil, errors.NewNotFoundError("card state", cardID)
	}

	updated, err := s.calc.Apply(*state, resp, now)
	if err != nil {
		switch {
		case stderrors.Is(err, scheduler.ErrInvalidResponse):
			log.Warn("rejected response: %v", err)
			return nil, errors.NewInvalidResponseError(err)
		case stderrors.Is(err, scheduler.ErrInvalidState):
			log.Error("corrupted card state: learner_id=%d, card_id=%d: %v", learnerID, cardID, err)
			return nil, errors.NewInvalidStateError(err)
		default:
			log.Error("failed to apply response: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}

	log.Debug("applied response, state=%s, interval=%.4f days, ease=%d",
		updated.State, updated.Interval, updated.EaseFactor)

	if err := s.states.Update(ctx, updated, state.Repetitions); err != nil {
		if stderrors.Is(err, repository.ErrStaleWrite) {
			log.Warn("concurrent submission lost the race: learner_id=%d, card_id=%d", learnerID, cardID)
			return nil, errors.NewConflictError("card state", cardID)
		}
		log.Error("failed to persist card state: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// The audit log is best-effort; the review itself already succeeded.
	if err := s.states.InsertReviewLog(ctx, learnerID, cardID, resp, now); err != nil {
		log.Warn("failed to record review log: %v", err)
	}

	return &updated, nil
}

func (s *reviewService) GetSession(ctx context.Context, learnerID int64, newLimit, reviewLimit int, now time.Time) (*models.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("building session: learner_id=%d, new_limit=%d, review_limit=%d", learnerID, newLimit, reviewLimit)

	if newLimit < 0 {
		return nil, errors.NewValidationError("new_limit", "cannot be negative")
	}
	if reviewLimit < 0 {
		return nil, errors.NewValidationError("review_limit", "cannot be negative")
	}

	due, fresh, err := s.states.QueryDue(ctx, learnerID, now, newLimit, reviewLimit)
	if err != nil {
		log.Error("failed to query due cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	session := &models.Session{
		Cards:  scheduler.OrderSession(due, fresh, s.rng),
		Counts: scheduler.TallyCounts(due, fresh),
	}
	log.Debug("session built: %d cards (%d due, %d new)", len(session.Cards), len(due), len(fresh))
	return session, nil
}
