package services

import (
	"context"

	"github.com/recallhq/recall/internal/errors"
	"github.com/recallhq/recall/internal/logger"
	"github.com/recallhq/recall/internal/models"
	"github.com/recallhq/recall/internal/repository"
)

// LearnerService handles learner accounts
type LearnerService interface {
	CreateLearner(ctx context.Context, name string) (*models.Learner, error)
	GetLearner(ctx context.Context, id int64) (*models.Learner, error)
	ListLearners(ctx context.Context) ([]models.Learner, error)
	GetStats(ctx context.Context, learnerID int64) (*models.StateCounts, error)
}

type learnerService struct {
	learners repository.LearnerRepository
	states   repository.CardStateRepository
}

// NewLearnerService creates a new LearnerService
func NewLearnerService(learners repository.LearnerRepository, states repository.CardStateRepository) LearnerService {
	return &learnerService{learners: learners, states: states}
}

func (s *learnerService) CreateLearner(ctx context.Context, name string) (*models.Learner, error) {
	log := logger.FromContext(ctx)

	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}

	id, err := s.learners.Insert(ctx, name)
	if err != nil {
		log.Error("failed to insert learner: %v", err)
		return nil, errors.NewInternalError(err)
	}

	learner, err := s.learners.Get(ctx, id)
	if err != nil {
		log.Error("failed to reload learner: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("learner created: id=%d, name=%s", id, name)
	return learner, nil
}

func (s *learnerService) GetLearner(ctx context.Context, id int64) (*models.Learner, error) {
	log := logger.FromContext(ctx)

	learner, err := s.learners.Get(ctx, id)
	if err != nil {
		log.Error("failed to get learner: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if learner == nil {
		return nil, errors.NewNotFoundError("learner", id)
	}
	return learner, nil
}

func (s *learnerService) ListLearners(ctx context.Context) ([]models.Learner, error) {
	log := logger.FromContext(ctx)

	learners, err := s.learners.List(ctx)
	if err != nil {
		log.Error("failed to list learners: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return learners, nil
}

func (s *learnerService) GetStats(ctx context.Context, learnerID int64) (*models.StateCounts, error) {
	log := logger.FromContext(ctx)

	learner, err := s.learners.Get(ctx, learnerID)
	if err != nil {
		log.Error("failed to get learner: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if learner == nil {
		return nil, errors.NewNotFoundError("learner", learnerID)
	}

	counts, err := s.states.CountsByState(ctx, learnerID)
	if err != nil {
		log.Error("failed to count card states: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &counts, nil
}
