package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/recallhq/recall/internal/logger"
	"github.com/recallhq/recall/internal/models"
	"github.com/recallhq/recall/internal/repository"
)

type learnerRepository struct {
	db *sql.DB
}

// NewLearnerRepository creates a new LearnerRepository implementation
func NewLearnerRepository(db *sql.DB) repository.LearnerRepository {
	return &learnerRepository{db: db}
}

func (r *learnerRepository) Insert(ctx context.Context, name string) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("inserting learner: name=%s", name)

	res, err := r.db.ExecContext(ctx, `INSERT INTO learners (name) VALUES (?)`, name)
	if err != nil {
		log.Error("failed to insert learner: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get learner id: %v", err)
		return 0, err
	}
	log.Debug("learner inserted: id=%d", id)
	return id, nil
}

func (r *learnerRepository) Get(ctx context.Context, id int64) (*models.Learner, error) {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("getting learner: id=%d", id)

	var l models.Learner
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, created_at
FROM learners
WHERE id = ?
`, id).Scan(&l.ID, &l.Name, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("learner not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get learner: %v", err)
		return nil, err
	}
	return &l, nil
}

func (r *learnerRepository) List(ctx context.Context) ([]models.Learner, error) {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("listing learners")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, created_at
FROM learners
ORDER BY created_at ASC
`)
	if err != nil {
		log.Error("failed to query learners: %v", err)
		return nil, err
	}
	defer rows.Close()

	var learners []models.Learner
	for rows.Next() {
		var l models.Learner
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			log.Error("failed to scan learner row: %v", err)
			return nil, err
		}
		learners = append(learners, l)
	}
	log.Debug("found %d learners", len(learners))
	return learners, rows.Err()
}
