package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/recallhq/recall/internal/models"
	"github.com/recallhq/recall/internal/repository"
	"github.com/recallhq/recall/internal/repository/sqlite"
	"github.com/recallhq/recall/internal/testutil"
)

type CardRepositorySuite struct {
	suite.Suite
	db        *sql.DB
	repo      repository.CardRepository
	learnerID int64
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}

func (s *CardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCardRepository(s.db)

	var err error
	s.learnerID, err = sqlite.NewLearnerRepository(s.db).Insert(context.Background(), "alice")
	s.Require().NoError(err)
}

func (s *CardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CardRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	id, err := s.repo.Insert(ctx, models.Card{LearnerID: s.learnerID, Front: "bonjour", Back: "hello"})
	s.Require().NoError(err)
	s.Positive(id)

	got, err := s.repo.Get(ctx, id, s.learnerID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(id, got.ID)
	s.Equal(s.learnerID, got.LearnerID)
	s.Equal("bonjour", got.Front)
	s.Equal("hello", got.Back)
	s.False(got.CreatedAt.IsZero())
}

func (s *CardRepositorySuite) TestGetScopedToLearner() {
	ctx := context.Background()
	id, err := s.repo.Insert(ctx, models.Card{LearnerID: s.learnerID, Front: "a", Back: "b"})
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, id, s.learnerID+1)
	s.Require().NoError(err)
	s.Nil(got, "cards are private to their learner")
}

func (s *CardRepositorySuite) TestListWithSearchAndPaging() {
	ctx := context.Background()
	for _, c := range []models.Card{
		{LearnerID: s.learnerID, Front: "bonjour", Back: "hello"},
		{LearnerID: s.learnerID, Front: "merci", Back: "thanks"},
		{LearnerID: s.learnerID, Front: "bonsoir", Back: "good evening"},
	} {
		_, err := s.repo.Insert(ctx, c)
		s.Require().NoError(err)
	}

	all, err := s.repo.List(ctx, repository.CardFilter{LearnerID: s.learnerID})
	s.Require().NoError(err)
	s.Len(all, 3)

	matched, err := s.repo.List(ctx, repository.CardFilter{LearnerID: s.learnerID, Search: "bon"})
	s.Require().NoError(err)
	s.Len(matched, 2)

	matched, err = s.repo.List(ctx, repository.CardFilter{LearnerID: s.learnerID, Search: "thanks"})
	s.Require().NoError(err)
	s.Require().Len(matched, 1)
	s.Equal("merci", matched[0].Front)

	paged, err := s.repo.List(ctx, repository.CardFilter{LearnerID: s.learnerID, Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Len(paged, 1)
}

func (s *CardRepositorySuite) TestListEmptyLearner() {
	cards, err := s.repo.List(context.Background(), repository.CardFilter{LearnerID: 999})
	s.Require().NoError(err)
	s.Empty(cards)
}
