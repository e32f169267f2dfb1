package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"neutraledu-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, password_hash, full_name, plan, plan_expires_at,
	daily_quota, quota_used, quota_date, is_admin, is_active, created_at, last_login_at`

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name, plan, daily_quota)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, quota_date`

	user.ID = uuid.New()
	if user.Plan == "" {
		user.Plan = models.PlanFree
	}
	user.IsActive = true

	return r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Plan, user.DailyQuota,
	).Scan(&user.CreatedAt, &user.QuotaDate)
}

func (r *UserRepo) scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Plan, &user.PlanExpiresAt,
		&user.DailyQuota, &user.QuotaUsed, &user.QuotaDate, &user.IsAdmin, &user.IsActive,
		&user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_login_at = $1 WHERE id = $2", time.Now(), userID)
	return err
}

func (r *UserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET full_name = $1, email = $2 WHERE id = $3",
		user.FullName, user.Email, user.ID,
	)
	return err
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, userID)
	return err
}

// ConsumeQuota spends one generation from the caller's daily allowance.
// The decrement and the day rollover happen in a single statement so two
// concurrent requests can never both take the last slot. Returns false
// when the quota is already exhausted for today.
func (r *UserRepo) ConsumeQuota(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `
		UPDATE users
		SET quota_used = CASE WHEN quota_date = CURRENT_DATE THEN quota_used + 1 ELSE 1 END,
		    quota_date = CURRENT_DATE
		WHERE id = $1
		  AND (quota_date <> CURRENT_DATE OR quota_used < daily_quota)`

	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdatePlan applies an admin plan change. Quota usage resets so the new
// allowance takes effect immediately.
func (r *UserRepo) UpdatePlan(ctx context.Context, userID uuid.UUID, plan string, expiresAt *time.Time, dailyQuota int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET plan = $1, plan_expires_at = $2, daily_quota = $3, quota_used = 0 WHERE id = $4`,
		plan, expiresAt, dailyQuota, userID,
	)
	return err
}

func (r *UserRepo) SetAdmin(ctx context.Context, userID uuid.UUID, isAdmin bool) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET is_admin = $1 WHERE id = $2", isAdmin, userID)
	return err
}

func (r *UserRepo) SetActive(ctx context.Context, userID uuid.UUID, isActive bool) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET is_active = $1 WHERE id = $2", isActive, userID)
	return err
}

func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (r *UserRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", userID)
	return err
}
