package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/recallhq/recall/internal/models"
)

// MockCardStateRepository is a mock implementation of repository.CardStateRepository
type MockCardStateRepository struct {
	mock.Mock
}

func (m *MockCardStateRepository) Get(ctx context.Context, learnerID, cardID int64) (*models.CardState, error) {
	args := m.Called(ctx, learnerID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardState), args.Error(1)
}

func (m *MockCardStateRepository) Create(ctx context.Context, state models.CardState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockCardStateRepository) Update(ctx context.Context, state models.CardState, prevRepetitions int) error {
	args := m.Called(ctx, state, prevRepetitions)
	return args.Error(0)
}

func (m *MockCardStateRepository) QueryDue(ctx context.Context, learnerID int64, now time.Time, newLimit, reviewLimit int) ([]models.CardState, []models.CardState, error) {
	args := m.Called(ctx, learnerID, now, newLimit, reviewLimit)
	var due, fresh []models.CardState
	if args.Get(0) != nil {
		due = args.Get(0).([]models.CardState)
	}
	if args.Get(1) != nil {
		fresh = args.Get(1).([]models.CardState)
	}
	return due, fresh, args.Error(2)
}

func (m *MockCardStateRepository) CountsByState(ctx context.Context, learnerID int64) (models.StateCounts, error) {
	args := m.Called(ctx, learnerID)
	return args.Get(0).(models.StateCounts), args.Error(1)
}

func (m *MockCardStateRepository) InsertReviewLog(ctx context.Context, learnerID, cardID int64, resp models.Response, reviewedAt time.Time) error {
	args := m.Called(ctx, learnerID, cardID, resp, reviewedAt)
	return args.Error(0)
}
