package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/recallhq/recall/internal/models"
	"github.com/recallhq/recall/internal/repository"
	"github.com/recallhq/recall/internal/repository/sqlite"
	"github.com/recallhq/recall/internal/testutil"
)

type CardStateRepositorySuite struct {
	suite.Suite
	db        *sql.DB
	repo      repository.CardStateRepository
	learnerID int64
	cardIDs   []int64
	now       time.Time
}

func TestCardStateRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardStateRepositorySuite))
}

func (s *CardStateRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCardStateRepository(s.db)
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	ctx := context.Background()
	learners := sqlite.NewLearnerRepository(s.db)
	cards := sqlite.NewCardRepository(s.db)

	var err error
	s.learnerID, err = learners.Insert(ctx, "alice")
	s.Require().NoError(err)

	s.cardIDs = nil
	for _, front := range []string{"bonjour", "merci", "au revoir", "fromage", "chat"} {
		id, err := cards.Insert(ctx, models.Card{LearnerID: s.learnerID, Front: front, Back: front})
		s.Require().NoError(err)
		s.cardIDs = append(s.cardIDs, id)
	}
}

func (s *CardStateRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CardStateRepositorySuite) seedState(cardID int64, state models.State, interval float64, dueAt time.Time) models.CardState {
	cs := models.CardState{
		LearnerID:  s.learnerID,
		CardID:     cardID,
		EaseFactor: 2500,
		Interval:   interval,
		DueAt:      dueAt,
		State:      state,
	}
	s.Require().NoError(s.repo.Create(context.Background(), cs))
	return cs
}

func (s *CardStateRepositorySuite) TestCreateAndGet() {
	reviewed := s.now.Add(-24 * time.Hour)
	pending := 5.0
	cs := models.CardState{
		LearnerID:       s.learnerID,
		CardID:          s.cardIDs[0],
		Repetitions:     3,
		EaseFactor:      2300,
		Interval:        10.0 / 1440,
		DueAt:           s.now,
		State:           models.StateRelearning,
		LearningStep:    0,
		LastReviewAt:    &reviewed,
		PendingInterval: &pending,
	}
	s.Require().NoError(s.repo.Create(context.Background(), cs))

	got, err := s.repo.Get(context.Background(), s.learnerID, s.cardIDs[0])
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal(cs.Repetitions, got.Repetitions)
	s.Equal(cs.EaseFactor, got.EaseFactor)
	s.InDelta(cs.Interval, got.Interval, 1e-9)
	s.Equal(models.StateRelearning, got.State)
	s.Equal(0, got.LearningStep)
	s.WithinDuration(cs.DueAt, got.DueAt, time.Second)
	s.Require().NotNil(got.LastReviewAt)
	s.WithinDuration(reviewed, *got.LastReviewAt, time.Second)
	s.Require().NotNil(got.PendingInterval)
	s.Equal(pending, *got.PendingInterval)
	s.False(got.CreatedAt.IsZero())
}

func (s *CardStateRepositorySuite) TestGetAbsentReturnsNil() {
	got, err := s.repo.Get(context.Background(), s.learnerID, 9999)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *CardStateRepositorySuite) TestUpdate() {
	cs := s.seedState(s.cardIDs[0], models.StateReview, 10, s.now)

	updated := cs
	updated.Repetitions = 1
	updated.Interval = 25
	updated.DueAt = s.now.Add(25 * 24 * time.Hour)

	s.Require().NoError(s.repo.Update(context.Background(), updated, cs.Repetitions))

	got, err := s.repo.Get(context.Background(), s.learnerID, s.cardIDs[0])
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(1, got.Repetitions)
	s.Equal(25.0, got.Interval)
}

func (s *CardStateRepositorySuite) TestUpdateRejectsStaleWrite() {
	cs := s.seedState(s.cardIDs[0], models.StateReview, 10, s.now)

	winner := cs
	winner.Repetitions = 1
	s.Require().NoError(s.repo.Update(context.Background(), winner, 0))

	// A second writer still holding the original record loses the race.
	loser := cs
	loser.Repetitions = 1
	loser.Interval = 8
	err := s.repo.Update(context.Background(), loser, 0)
	s.Require().ErrorIs(err, repository.ErrStaleWrite)

	got, err := s.repo.Get(context.Background(), s.learnerID, s.cardIDs[0])
	s.Require().NoError(err)
	s.Equal(winner.Interval, got.Interval, "rejected write must not change the record")
}

func (s *CardStateRepositorySuite) TestUpdateClearsPendingInterval() {
	cs := s.seedState(s.cardIDs[0], models.StateRelearning, 10.0/1440, s.now)
	pending := 5.0
	cs.PendingInterval = &pending
	s.Require().NoError(s.repo.Update(context.Background(), cs, 0))

	cs.PendingInterval = nil
	cs.State = models.StateReview
	cs.Interval = 5
	s.Require().NoError(s.repo.Update(context.Background(), cs, 0))

	got, err := s.repo.Get(context.Background(), s.learnerID, s.cardIDs[0])
	s.Require().NoError(err)
	s.Nil(got.PendingInterval)
}

func (s *CardStateRepositorySuite) TestQueryDueOrdersByMostOverdue() {
	// Three overdue review cards, one not yet due, two new cards.
	s.seedState(s.cardIDs[0], models.StateReview, 10, s.now.Add(-48*time.Hour))
	s.seedState(s.cardIDs[1], models.StateReview, 10, s.now.Add(-72*time.Hour))
	s.seedState(s.cardIDs[2], models.StateLearning, 10.0/1440, s.now.Add(-time.Minute))
	s.seedState(s.cardIDs[3], models.StateReview, 10, s.now.Add(24*time.Hour))
	s.seedState(s.cardIDs[4], models.StateNew, 0, s.now)

	due, fresh, err := s.repo.QueryDue(context.Background(), s.learnerID, s.now, 10, 10)
	s.Require().NoError(err)

	s.Require().Len(due, 3)
	s.Equal(s.cardIDs[1], due[0].CardID, "most overdue first")
	s.Equal(s.cardIDs[0], due[1].CardID)
	s.Equal(s.cardIDs[2], due[2].CardID)

	s.Require().Len(fresh, 1)
	s.Equal(s.cardIDs[4], fresh[0].CardID)
}

func (s *CardStateRepositorySuite) TestQueryDueReviewLimitKeepsMostOverdue() {
	s.seedState(s.cardIDs[0], models.StateReview, 10, s.now.Add(-24*time.Hour))
	s.seedState(s.cardIDs[1], models.StateReview, 10, s.now.Add(-96*time.Hour))
	s.seedState(s.cardIDs[2], models.StateReview, 10, s.now.Add(-48*time.Hour))

	due, _, err := s.repo.QueryDue(context.Background(), s.learnerID, s.now, 0, 1)
	s.Require().NoError(err)

	s.Require().Len(due, 1)
	s.Equal(s.cardIDs[1], due[0].CardID)
}

func (s *CardStateRepositorySuite) TestQueryDueNewLimitAndCreationOrder() {
	for _, id := range s.cardIDs {
		s.seedState(id, models.StateNew, 0, s.now)
	}

	_, fresh, err := s.repo.QueryDue(context.Background(), s.learnerID, s.now, 3, 10)
	s.Require().NoError(err)

	s.Require().Len(fresh, 3)
	s.Equal(s.cardIDs[0], fresh[0].CardID)
	s.Equal(s.cardIDs[1], fresh[1].CardID)
	s.Equal(s.cardIDs[2], fresh[2].CardID)
}

func (s *CardStateRepositorySuite) TestQueryDueExcludesOtherLearners() {
	ctx := context.Background()
	learners := sqlite.NewLearnerRepository(s.db)
	cards := sqlite.NewCardRepository(s.db)

	otherID, err := learners.Insert(ctx, "bob")
	s.Require().NoError(err)
	otherCard, err := cards.Insert(ctx, models.Card{LearnerID: otherID, Front: "x", Back: "y"})
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Create(ctx, models.CardState{
		LearnerID:  otherID,
		CardID:     otherCard,
		EaseFactor: 2500,
		Interval:   10,
		DueAt:      s.now.Add(-time.Hour),
		State:      models.StateReview,
	}))

	due, fresh, err := s.repo.QueryDue(ctx, s.learnerID, s.now, 10, 10)
	s.Require().NoError(err)
	s.Empty(due)
	s.Empty(fresh)
}

func (s *CardStateRepositorySuite) TestCountsByState() {
	s.seedState(s.cardIDs[0], models.StateNew, 0, s.now)
	s.seedState(s.cardIDs[1], models.StateNew, 0, s.now)
	s.seedState(s.cardIDs[2], models.StateLearning, 1.0/1440, s.now)
	s.seedState(s.cardIDs[3], models.StateReview, 10, s.now)
	s.seedState(s.cardIDs[4], models.StateRelearning, 10.0/1440, s.now)

	counts, err := s.repo.CountsByState(context.Background(), s.learnerID)
	s.Require().NoError(err)

	s.Equal(models.StateCounts{
		New:        2,
		Learning:   1,
		Relearning: 1,
		Review:     1,
		Total:      5,
	}, counts)
}

func (s *CardStateRepositorySuite) TestCountsByStateEmpty() {
	counts, err := s.repo.CountsByState(context.Background(), s.learnerID)
	s.Require().NoError(err)
	s.Equal(models.StateCounts{}, counts)
}

func (s *CardStateRepositorySuite) TestInsertReviewLog() {
	ctx := context.Background()
	s.Require().NoError(s.repo.InsertReviewLog(ctx, s.learnerID, s.cardIDs[0], models.ResponseGood, s.now))
	s.Require().NoError(s.repo.InsertReviewLog(ctx, s.learnerID, s.cardIDs[0], models.ResponseAgain, s.now.Add(time.Minute)))

	var n int
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM review_log WHERE learner_id = ? AND card_id = ?
`, s.learnerID, s.cardIDs[0]).Scan(&n)
	s.Require().NoError(err)
	s.Equal(2, n)
}
