package models

import (
	"testing"
	"time"
)

func TestEffectivePlan(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name      string
		plan      string
		expiresAt *time.Time
		expected  string
	}{
		{"free has no expiry", PlanFree, nil, PlanFree},
		{"premium without expiry", PlanPremium, nil, PlanPremium},
		{"premium still valid", PlanPremium, &future, PlanPremium},
		{"premium expired downgrades", PlanPremium, &past, PlanFree},
		{"pro expired downgrades", PlanPro, &past, PlanFree},
		{"pro still valid", PlanPro, &future, PlanPro},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := &User{Plan: tc.plan, PlanExpiresAt: tc.expiresAt}
			if got := u.EffectivePlan(now); got != tc.expected {
				t.Errorf("Expected plan %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestQuotaRemaining(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	tests := []struct {
		name      string
		quota     int
		used      int
		quotaDate time.Time
		expected  int
	}{
		{"unused today", 10, 0, now, 10},
		{"partially used today", 10, 4, now, 6},
		{"exhausted today", 10, 10, now, 0},
		{"over-counted never goes negative", 10, 12, now, 0},
		{"usage from yesterday rolls over", 10, 10, yesterday, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := &User{DailyQuota: tc.quota, QuotaUsed: tc.used, QuotaDate: tc.quotaDate}
			if got := u.QuotaRemaining(now); got != tc.expected {
				t.Errorf("Expected %d remaining, got %d", tc.expected, got)
			}
		})
	}
}
