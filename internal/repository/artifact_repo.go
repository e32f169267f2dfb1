package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"neutraledu-backend/internal/models"
)

type ArtifactRepo struct {
	pool *pgxpool.Pool
}

func NewArtifactRepo(pool *pgxpool.Pool) *ArtifactRepo {
	return &ArtifactRepo{pool: pool}
}

func (r *ArtifactRepo) Create(ctx context.Context, userID uuid.UUID, flowType, title string, payload json.RawMessage) (*models.Artifact, error) {
	a := &models.Artifact{
		ID:       uuid.New(),
		UserID:   userID,
		FlowType: flowType,
		Title:    title,
		Payload:  payload,
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO artifacts (id, user_id, flow_type, title, payload)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		a.ID, a.UserID, a.FlowType, a.Title, a.Payload,
	).Scan(&a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *ArtifactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Artifact, error) {
	a := &models.Artifact{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, flow_type, title, payload, created_at
		 FROM artifacts WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.UserID, &a.FlowType, &a.Title, &a.Payload, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByUser returns artifact metadata without payloads. flowType of ""
// means all flows.
func (r *ArtifactRepo) ListByUser(ctx context.Context, userID uuid.UUID, flowType string, limit, offset int) ([]*models.Artifact, error) {
	query := `SELECT id, user_id, flow_type, title, created_at
		FROM artifacts
		WHERE user_id = $1 AND ($2 = '' OR flow_type = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, userID, flowType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artifacts []*models.Artifact
	for rows.Next() {
		a := &models.Artifact{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.FlowType, &a.Title, &a.CreatedAt); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

func (r *ArtifactRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM artifacts WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}
