package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/recallhq/recall/internal/logger"
	"github.com/recallhq/recall/internal/models"
	"github.com/recallhq/recall/internal/repository"
)

const cardStateColumns = `learner_id, card_id, repetitions, ease_factor, interval, due_at, state, learning_step, last_review_at, pending_interval, created_at`

type cardStateRepository struct {
	db *sql.DB
}

// NewCardStateRepository creates a new CardStateRepository implementation
func NewCardStateRepository(db *sql.DB) repository.CardStateRepository {
	return &cardStateRepository{db: db}
}

func (r *cardStateRepository) Get(ctx context.Context, learnerID, cardID int64) (*models.CardState, error) {
	log := logger.FromContext(ctx).WithPrefix("card_state_repo")
	log.Debug("getting card state: learner_id=%d, card_id=%d", learnerID, cardID)

	row := r.db.QueryRowContext(ctx, `
SELECT `+cardStateColumns+`
FROM card_states
WHERE learner_id = ? AND card_id = ?
`, learnerID, cardID)

	state, err := scanCardState(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card state not found: learner_id=%d, card_id=%d", learnerID, cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card state: %v", err)
		return nil, err
	}
	return &state, nil
}

func (r *cardStateRepository) Create(ctx context.Context, s models.CardState) error {
	log := logger.FromContext(ctx).WithPrefix("card_state_repo")
	log.Debug("creating card state: learner_id=%d, card_id=%d", s.LearnerID, s.CardID)

	stateName, err := s.State.MarshalText()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO card_states (learner_id, card_id, repetitions, ease_factor, interval, due_at, state, learning_step, last_review_at, pending_interval)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.LearnerID, s.CardID, s.Repetitions, s.EaseFactor, s.Interval, s.DueAt, string(stateName), s.LearningStep, s.LastReviewAt, s.PendingInterval)
	if err != nil {
		log.Error("failed to create card state: %v", err)
	}
	return err
}

func (r *cardStateRepository) Update(ctx context.Context, s models.CardState, prevRepetitions int) error {
	log := logger.FromContext(ctx).WithPrefix("card_state_repo")
	log.Debug("updating card state: learner_id=%d, card_id=%d, state=%s, interval=%.4f, ease=%d",
		s.LearnerID, s.CardID, s.State, s.Interval, s.EaseFactor)

	stateName, err := s.State.MarshalText()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE card_states
SET repetitions = ?, ease_factor = ?, interval = ?, due_at = ?, state = ?, learning_step = ?, last_review_at = ?, pending_interval = ?
WHERE learner_id = ? AND card_id = ? AND repetitions = ?
`, s.Repetitions, s.EaseFactor, s.Interval, s.DueAt, string(stateName), s.LearningStep, s.LastReviewAt, s.PendingInterval,
		s.LearnerID, s.CardID, prevRepetitions)
	if err != nil {
		log.Error("failed to update card state: %v", err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Warn("stale card state write rejected: learner_id=%d, card_id=%d, prev_repetitions=%d",
			s.LearnerID, s.CardID, prevRepetitions)
		return repository.ErrStaleWrite
	}
	return nil
}

func (r *cardStateRepository) QueryDue(ctx context.Context, learnerID int64, now time.Time, newLimit, reviewLimit int) ([]models.CardState, []models.CardState, error) {
	log := logger.FromContext(ctx).WithPrefix("card_state_repo")
	log.Debug("querying due cards: learner_id=%d, new_limit=%d, review_limit=%d", learnerID, newLimit, reviewLimit)

	due, err := r.queryStates(ctx, `
SELECT `+cardStateColumns+`
FROM card_states
WHERE learner_id = ? AND state IN ('learning', 'relearning', 'review') AND due_at <= ?
ORDER BY due_at ASC
LIMIT ?
`, learnerID, now, reviewLimit)
	if err != nil {
		log.Error("failed to query due states: %v", err)
		return nil, nil, err
	}

	fresh, err := r.queryStates(ctx, `
SELECT `+cardStateColumns+`
FROM card_states
WHERE learner_id = ? AND state = 'new'
ORDER BY created_at ASC, card_id ASC
LIMIT ?
`, learnerID, newLimit)
	if err != nil {
		log.Error("failed to query new states: %v", err)
		return nil, nil, err
	}

	log.Debug("found %d due and %d new states", len(due), len(fresh))
	return due, fresh, nil
}

func (r *cardStateRepository) CountsByState(ctx context.Context, learnerID int64) (models.StateCounts, error) {
	log := logger.FromContext(ctx).WithPrefix("card_state_repo")
	log.Debug("counting card states: learner_id=%d", learnerID)

	rows, err := r.db.QueryContext(ctx, `
SELECT state, COUNT(*)
FROM card_states
WHERE learner_id = ?
GROUP BY state
`, learnerID)
	if err != nil {
		log.Error("failed to count card states: %v", err)
		return models.StateCounts{}, err
	}
	defer rows.Close()

	var counts models.StateCounts
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			log.Error("failed to scan state count row: %v", err)
			return models.StateCounts{}, err
		}
		state, err := models.ParseState(name)
		if err != nil {
			log.Warn("skipping unrecognized state in counts: %v", err)
			continue
		}
		switch state {
		case models.StateNew:
			counts.New = n
		case models.StateLearning:
			counts.Learning = n
		case models.StateRelearning:
			counts.Relearning = n
		case models.StateReview:
			counts.Review = n
		}
		counts.Total += n
	}
	return counts, rows.Err()
}

func (r *cardStateRepository) InsertReviewLog(ctx context.Context, learnerID, cardID int64, resp models.Response, reviewedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("card_state_repo")
	log.Debug("inserting review log: learner_id=%d, card_id=%d, response=%s", learnerID, cardID, resp)

	name, err := resp.MarshalText()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO review_log (learner_id, card_id, response, reviewed_at)
		VALUES (?, ?, ?, ?)
	`, learnerID, cardID, string(name), reviewedAt)
	if err != nil {
		log.Error("failed to insert review log: %v", err)
	}
	return err
}

func (r *cardStateRepository) queryStates(ctx context.Context, query string, args ...any) ([]models.CardState, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []models.CardState
	for rows.Next() {
		s, err := scanCardState(rows.Scan)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, rows.Err()
}

// scanCardState decodes one card_states row. The scan argument order must
// match cardStateColumns.
func scanCardState(scan func(...any) error) (models.CardState, error) {
	var s models.CardState
	var stateName string
	var lastReview sql.NullTime
	var pending sql.NullFloat64

	err := scan(&s.LearnerID, &s.CardID, &s.Repetitions, &s.EaseFactor, &s.Interval,
		&s.DueAt, &stateName, &s.LearningStep, &lastReview, &pending, &s.CreatedAt)
	if err != nil {
		return models.CardState{}, err
	}

	state, err := models.ParseState(stateName)
	if err != nil {
		return models.CardState{}, err
	}
	s.State = state
	if lastReview.Valid {
		t := lastReview.Time
		s.LastReviewAt = &t
	}
	if pending.Valid {
		v := pending.Float64
		s.PendingInterval = &v
	}
	return s, nil
}
