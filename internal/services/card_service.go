package services

import (
	"context"
	"time"

	"github.com/recallhq/recall/internal/errors"
	"github.com/recallhq/recall/internal/logger"
	"github.com/recallhq/recall/internal/models"
	"github.com/recallhq/recall/internal/repository"
	"github.com/recallhq/recall/internal/scheduler"
)

// CardService handles card content and enrollment
type CardService interface {
	// CreateCard inserts the content record and seeds its scheduling state:
	// new, zero interval, the policy's initial ease, due immediately.
	CreateCard(ctx context.Context, learnerID int64, front, back string, now time.Time) (*models.Card, error)
	GetCard(ctx context.Context, id, learnerID int64) (*models.Card, error)
	ListCards(ctx context.Context, filter repository.CardFilter) ([]models.Card, error)
}

type cardService struct {
	cards    repository.CardRepository
	states   repository.CardStateRepository
	learners repository.LearnerRepository
	policy   scheduler.Policy
}

// NewCardService creates a new CardService
func NewCardService(cards repository.CardRepository, states repository.CardStateRepository, learners repository.LearnerRepository, policy scheduler.Policy) CardService {
	return &cardService{cards: cards, states: states, learners: learners, policy: policy}
}

func (s *cardService) CreateCard(ctx context.Context, learnerID int64, front, back string, now time.Time) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card: learner_id=%d", learnerID)

	if front == "" {
		return nil, errors.NewValidationError("front", "cannot be empty")
	}
	if back == "" {
		return nil, errors.NewValidationError("back", "cannot be empty")
	}

	learner, err := s.learners.Get(ctx, learnerID)
	if err != nil {
		log.Error("failed to load learner: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if learner == nil {
		return nil, errors.NewNotFoundError("learner", learnerID)
	}

	card := models.Card{LearnerID: learnerID, Front: front, Back: back}
	id, err := s.cards.Insert(ctx, card)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	card.ID = id
	card.CreatedAt = now

	state := models.NewCardState(learnerID, id, s.policy.InitialEaseFactor, now)
	if err := s.states.Create(ctx, state); err != nil {
		log.Error("failed to seed card state: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("card created: id=%d, learner_id=%d", id, learnerID)
	return &card, nil
}

func (s *cardService) GetCard(ctx context.Context, id, learnerID int64) (*models.Card, error) {
	log := logger.FromContext(ctx)

	card, err := s.cards.Get(ctx, id, learnerID)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}
	return card, nil
}

func (s *cardService) ListCards(ctx context.Context, filter repository.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx)

	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}
