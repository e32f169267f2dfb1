package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PlanFree    = "free"
	PlanPremium = "premium"
	PlanPro     = "pro"
)

type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	FullName      string     `json:"full_name"`
	Plan          string     `json:"plan"`
	PlanExpiresAt *time.Time `json:"plan_expires_at"`
	DailyQuota    int        `json:"daily_quota"`
	QuotaUsed     int        `json:"quota_used"`
	QuotaDate     time.Time  `json:"quota_date"`
	IsAdmin       bool       `json:"is_admin"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLoginAt   *time.Time `json:"last_login_at"`
}

// EffectivePlan downgrades expired premium/pro subscriptions to free.
func (u *User) EffectivePlan(now time.Time) string {
	if u.Plan == PlanFree {
		return PlanFree
	}
	if u.PlanExpiresAt != nil && u.PlanExpiresAt.Before(now) {
		return PlanFree
	}
	return u.Plan
}

// QuotaRemaining counts unused flow invocations for the current day.
// Usage recorded on a previous day has rolled over.
func (u *User) QuotaRemaining(now time.Time) int {
	if u.QuotaDate.Format("2006-01-02") != now.Format("2006-01-02") {
		return u.DailyQuota
	}
	remaining := u.DailyQuota - u.QuotaUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateUserPlanRequest struct {
	Plan          string     `json:"plan"`
	PlanExpiresAt *time.Time `json:"plan_expires_at"`
	DailyQuota    *int       `json:"daily_quota"`
	IsAdmin       *bool      `json:"is_admin"`
}
