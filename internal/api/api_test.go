package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallhq/recall/internal/api"
	"github.com/recallhq/recall/internal/models"
	"github.com/recallhq/recall/internal/repository/sqlite"
	"github.com/recallhq/recall/internal/scheduler"
	"github.com/recallhq/recall/internal/services"
	"github.com/recallhq/recall/internal/testutil"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, db) })

	policy := scheduler.DefaultPolicy()
	calc, err := scheduler.NewCalculator(policy, scheduler.WithoutFuzz())
	require.NoError(t, err)

	learners := sqlite.NewLearnerRepository(db)
	cards := sqlite.NewCardRepository(db)
	states := sqlite.NewCardStateRepository(db)

	srv := &api.Server{
		LearnerService:     services.NewLearnerService(learners, states),
		CardService:        services.NewCardService(cards, states, learners, policy),
		ReviewService:      services.NewReviewService(states, calc, rand.New(rand.NewSource(1))),
		DefaultNewLimit:    20,
		DefaultReviewLimit: 200,
	}
	return srv.Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func createLearner(t *testing.T, h http.Handler, name string) models.Learner {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/learners", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[models.Learner](t, rec)
}

func createCard(t *testing.T, h http.Handler, learnerID int64, front, back string) models.Card {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, fmt.Sprintf("/learners/%d/cards", learnerID),
		map[string]string{"front": front, "back": back})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[models.Card](t, rec)
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLearnerLifecycle(t *testing.T) {
	h := newTestServer(t)

	learner := createLearner(t, h, "alice")
	assert.Equal(t, "alice", learner.Name)
	assert.Positive(t, learner.ID)

	rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/learners/%d", learner.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/learners/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))

	rec = doJSON(t, h, http.MethodPost, "/learners", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestCardCreationSeedsSchedule(t *testing.T) {
	h := newTestServer(t)
	learner := createLearner(t, h, "alice")
	card := createCard(t, h, learner.ID, "bonjour", "hello")

	rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/learners/%d/stats", learner.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	counts := decodeBody[models.StateCounts](t, rec)
	assert.Equal(t, models.StateCounts{New: 1, Total: 1}, counts)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/learners/%d/session", learner.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	session := decodeBody[models.Session](t, rec)
	require.Len(t, session.Cards, 1)
	assert.Equal(t, card.ID, session.Cards[0].CardID)
	assert.Equal(t, models.StateNew, session.Cards[0].State)
}

func TestReviewFlow(t *testing.T) {
	h := newTestServer(t)
	learner := createLearner(t, h, "alice")
	card := createCard(t, h, learner.ID, "bonjour", "hello")
	reviewPath := fmt.Sprintf("/learners/%d/cards/%d/review", learner.ID, card.ID)

	rec := doJSON(t, h, http.MethodPost, reviewPath, map[string]string{"response": "good"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	state := decodeBody[models.CardState](t, rec)
	assert.Equal(t, models.StateLearning, state.State)
	assert.Equal(t, 1, state.Repetitions)
	assert.NotNil(t, state.LastReviewAt)

	// Second Good takes the last learning step; third graduates to Review.
	rec = doJSON(t, h, http.MethodPost, reviewPath, map[string]string{"response": "good"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h, http.MethodPost, reviewPath, map[string]string{"response": "good"})
	require.Equal(t, http.StatusOK, rec.Code)

	state = decodeBody[models.CardState](t, rec)
	assert.Equal(t, models.StateReview, state.State)
	assert.Equal(t, 3, state.Repetitions)
	assert.Equal(t, 1.0, state.Interval)
}

func TestReviewRejectsBadInput(t *testing.T) {
	h := newTestServer(t)
	learner := createLearner(t, h, "alice")
	card := createCard(t, h, learner.ID, "bonjour", "hello")

	rec := doJSON(t, h, http.MethodPost,
		fmt.Sprintf("/learners/%d/cards/%d/review", learner.ID, card.ID),
		map[string]string{"response": "perfect"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_RESPONSE", errorCode(t, rec))

	rec = doJSON(t, h, http.MethodPost,
		fmt.Sprintf("/learners/%d/cards/9999/review", learner.ID),
		map[string]string{"response": "good"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost,
		fmt.Sprintf("/learners/%d/cards/%d/review", learner.ID, card.ID),
		map[string]string{"response": "good", "mood": "sleepy"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, rec))

	rec = doJSON(t, h, http.MethodPost, "/learners/abc/cards/1/review",
		map[string]string{"response": "good"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionLimits(t *testing.T) {
	h := newTestServer(t)
	learner := createLearner(t, h, "alice")
	for i := 0; i < 5; i++ {
		createCard(t, h, learner.ID, fmt.Sprintf("front %d", i), "back")
	}

	rec := doJSON(t, h, http.MethodGet,
		fmt.Sprintf("/learners/%d/session?new_limit=2", learner.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	session := decodeBody[models.Session](t, rec)
	assert.Len(t, session.Cards, 2)
	assert.Equal(t, 2, session.Counts.New)

	rec = doJSON(t, h, http.MethodGet,
		fmt.Sprintf("/learners/%d/session?new_limit=-1", learner.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))

	rec = doJSON(t, h, http.MethodGet,
		fmt.Sprintf("/learners/%d/session?new_limit=many", learner.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, rec))
}

func TestListCards(t *testing.T) {
	h := newTestServer(t)
	learner := createLearner(t, h, "alice")
	createCard(t, h, learner.ID, "bonjour", "hello")
	createCard(t, h, learner.ID, "merci", "thanks")

	rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/learners/%d/cards", learner.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Cards []models.Card `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Cards, 2)

	rec = doJSON(t, h, http.MethodGet,
		fmt.Sprintf("/learners/%d/cards?search=merci", learner.ID), nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Cards, 1)
	assert.Equal(t, "merci", body.Cards[0].Front)
}
