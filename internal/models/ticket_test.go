package models

import "testing"

func TestCanTransitionTicket(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"open to answered", TicketStatusOpen, TicketStatusAnswered, true},
		{"open to closed by admin", TicketStatusOpen, TicketStatusClosedByAdmin, true},
		{"open to closed by user", TicketStatusOpen, TicketStatusClosedByUser, true},
		{"answered reopened by user reply", TicketStatusAnswered, TicketStatusOpen, true},
		{"answered to closed by admin", TicketStatusAnswered, TicketStatusClosedByAdmin, true},
		{"answered to closed by user", TicketStatusAnswered, TicketStatusClosedByUser, true},
		{"closed by admin is terminal", TicketStatusClosedByAdmin, TicketStatusOpen, false},
		{"closed by user is terminal", TicketStatusClosedByUser, TicketStatusOpen, false},
		{"closed by admin cannot be answered", TicketStatusClosedByAdmin, TicketStatusAnswered, false},
		{"closed states cannot swap", TicketStatusClosedByUser, TicketStatusClosedByAdmin, false},
		{"unknown status goes nowhere", "escalated", TicketStatusOpen, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransitionTicket(tc.from, tc.to); got != tc.allowed {
				t.Errorf("CanTransitionTicket(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}

func TestTicketClosed(t *testing.T) {
	if TicketClosed(TicketStatusOpen) {
		t.Error("open ticket reported as closed")
	}
	if TicketClosed(TicketStatusAnswered) {
		t.Error("answered ticket reported as closed")
	}
	if !TicketClosed(TicketStatusClosedByAdmin) {
		t.Error("closed_by_admin not reported as closed")
	}
	if !TicketClosed(TicketStatusClosedByUser) {
		t.Error("closed_by_user not reported as closed")
	}
}
