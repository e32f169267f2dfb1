package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"neutraledu-backend/internal/models"
)

type GoalRepo struct {
	pool *pgxpool.Pool
}

func NewGoalRepo(pool *pgxpool.Pool) *GoalRepo {
	return &GoalRepo{pool: pool}
}

func (r *GoalRepo) Create(ctx context.Context, goal *models.Goal) error {
	goal.ID = uuid.New()
	return r.pool.QueryRow(ctx,
		`INSERT INTO goals (id, user_id, title, target, unit, due_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		goal.ID, goal.UserID, goal.Title, goal.Target, goal.Unit, goal.DueAt,
	).Scan(&goal.CreatedAt)
}

func (r *GoalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Goal, error) {
	goal := &models.Goal{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, title, target, progress, unit, due_at, completed, created_at
		 FROM goals WHERE id = $1`,
		id,
	).Scan(&goal.ID, &goal.UserID, &goal.Title, &goal.Target, &goal.Progress,
		&goal.Unit, &goal.DueAt, &goal.Completed, &goal.CreatedAt)
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *GoalRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, target, progress, unit, due_at, completed, created_at
		 FROM goals WHERE user_id = $1 ORDER BY completed ASC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		g := &models.Goal{}
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Target, &g.Progress,
			&g.Unit, &g.DueAt, &g.Completed, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpdateProgress sets absolute progress. Completion is derived, never
// set directly: reaching the target marks the goal done, dropping below
// it reopens the goal.
func (r *GoalRepo) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) (*models.Goal, error) {
	goal := &models.Goal{}
	err := r.pool.QueryRow(ctx,
		`UPDATE goals
		 SET progress = $1, completed = ($1 >= target)
		 WHERE id = $2
		 RETURNING id, user_id, title, target, progress, unit, due_at, completed, created_at`,
		progress, id,
	).Scan(&goal.ID, &goal.UserID, &goal.Title, &goal.Target, &goal.Progress,
		&goal.Unit, &goal.DueAt, &goal.Completed, &goal.CreatedAt)
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *GoalRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}
