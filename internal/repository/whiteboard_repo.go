package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"neutraledu-backend/internal/models"
)

type WhiteboardRepo struct {
	pool *pgxpool.Pool
}

func NewWhiteboardRepo(pool *pgxpool.Pool) *WhiteboardRepo {
	return &WhiteboardRepo{pool: pool}
}

func (r *WhiteboardRepo) Create(ctx context.Context, userID uuid.UUID, title string, scene json.RawMessage) (*models.Whiteboard, error) {
	wb := &models.Whiteboard{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		SceneJSON: scene,
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO whiteboards (id, user_id, title, scene_json)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		wb.ID, wb.UserID, wb.Title, wb.SceneJSON,
	).Scan(&wb.CreatedAt, &wb.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return wb, nil
}

func (r *WhiteboardRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Whiteboard, error) {
	wb := &models.Whiteboard{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, title, scene_json, created_at, updated_at
		 FROM whiteboards WHERE id = $1`,
		id,
	).Scan(&wb.ID, &wb.UserID, &wb.Title, &wb.SceneJSON, &wb.CreatedAt, &wb.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return wb, nil
}

// ListByUser returns whiteboard metadata without scenes; scenes can be
// large and the board list never renders them.
func (r *WhiteboardRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Whiteboard, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, created_at, updated_at
		 FROM whiteboards WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []*models.Whiteboard
	for rows.Next() {
		wb := &models.Whiteboard{}
		if err := rows.Scan(&wb.ID, &wb.UserID, &wb.Title, &wb.CreatedAt, &wb.UpdatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, wb)
	}
	return boards, rows.Err()
}

func (r *WhiteboardRepo) Update(ctx context.Context, id, userID uuid.UUID, title string, scene json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE whiteboards SET title = $1, scene_json = $2, updated_at = NOW()
		 WHERE id = $3 AND user_id = $4`,
		title, scene, id, userID,
	)
	return err
}

func (r *WhiteboardRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM whiteboards WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}
