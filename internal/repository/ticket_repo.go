package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"neutraledu-backend/internal/models"
)

type TicketRepo struct {
	pool *pgxpool.Pool
}

func NewTicketRepo(pool *pgxpool.Pool) *TicketRepo {
	return &TicketRepo{pool: pool}
}

// Create opens a ticket with its first message in one transaction.
func (r *TicketRepo) Create(ctx context.Context, userID uuid.UUID, subject, body string) (*models.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ticket := &models.Ticket{
		ID:      uuid.New(),
		UserID:  userID,
		Subject: subject,
		Status:  models.TicketStatusOpen,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO tickets (id, user_id, subject, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		ticket.ID, ticket.UserID, ticket.Subject, ticket.Status,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO ticket_messages (id, ticket_id, author_id, author_role, body, seq)
		 VALUES ($1, $2, $3, 'user', $4, 1)`,
		uuid.New(), ticket.ID, userID, body,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *TicketRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, subject, status, created_at, updated_at FROM tickets WHERE id = $1`,
		id,
	).Scan(&ticket.ID, &ticket.UserID, &ticket.Subject, &ticket.Status, &ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *TicketRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Ticket, error) {
	return r.list(ctx,
		`SELECT id, user_id, subject, status, created_at, updated_at
		 FROM tickets WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
}

// ListAll returns every ticket, open ones first, for the admin panel.
func (r *TicketRepo) ListAll(ctx context.Context, limit, offset int) ([]*models.Ticket, error) {
	return r.list(ctx,
		`SELECT id, user_id, subject, status, created_at, updated_at
		 FROM tickets
		 ORDER BY (status = 'open') DESC, updated_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
}

func (r *TicketRepo) list(ctx context.Context, query string, args ...any) ([]*models.Ticket, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		t := &models.Ticket{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Subject, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *TicketRepo) ListMessages(ctx context.Context, ticketID uuid.UUID) ([]*models.TicketMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, ticket_id, author_id, author_role, body, seq, created_at
		 FROM ticket_messages WHERE ticket_id = $1 ORDER BY seq ASC`,
		ticketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.TicketMessage
	for rows.Next() {
		m := &models.TicketMessage{}
		if err := rows.Scan(&m.ID, &m.TicketID, &m.AuthorID, &m.AuthorRole, &m.Body, &m.Seq, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// AppendMessage adds a message and moves the ticket to newStatus in one
// transaction. Seq is assigned from the current maximum under the row
// lock taken by the status update, so it never collides.
func (r *TicketRepo) AppendMessage(ctx context.Context, ticketID, authorID uuid.UUID, authorRole, body, newStatus string) (*models.TicketMessage, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var currentStatus string
	err = tx.QueryRow(ctx, `SELECT status FROM tickets WHERE id = $1 FOR UPDATE`, ticketID).Scan(&currentStatus)
	if err != nil {
		return nil, err
	}

	if currentStatus != newStatus && !models.CanTransitionTicket(currentStatus, newStatus) {
		return nil, fmt.Errorf("ticket %s cannot move from %s to %s: %w", ticketID, currentStatus, newStatus, ErrIllegalTransition)
	}

	msg := &models.TicketMessage{
		ID:         uuid.New(),
		TicketID:   ticketID,
		AuthorID:   authorID,
		AuthorRole: authorRole,
		Body:       body,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO ticket_messages (id, ticket_id, author_id, author_role, body, seq)
		 VALUES ($1, $2, $3, $4, $5,
		         (SELECT COALESCE(MAX(seq), 0) + 1 FROM ticket_messages WHERE ticket_id = $2))
		 RETURNING seq, created_at`,
		msg.ID, msg.TicketID, msg.AuthorID, msg.AuthorRole, msg.Body,
	).Scan(&msg.Seq, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `UPDATE tickets SET status = $1, updated_at = NOW() WHERE id = $2`, newStatus, ticketID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return msg, nil
}

// ErrIllegalTransition is returned when a status change violates the
// ticket state machine.
var ErrIllegalTransition = errors.New("illegal ticket status transition")

// UpdateStatus applies a bare status change (close without a message).
func (r *TicketRepo) UpdateStatus(ctx context.Context, ticketID uuid.UUID, newStatus string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var currentStatus string
	err = tx.QueryRow(ctx, `SELECT status FROM tickets WHERE id = $1 FOR UPDATE`, ticketID).Scan(&currentStatus)
	if err != nil {
		return err
	}

	if !models.CanTransitionTicket(currentStatus, newStatus) {
		return ErrIllegalTransition
	}

	_, err = tx.Exec(ctx, `UPDATE tickets SET status = $1, updated_at = NOW() WHERE id = $2`, newStatus, ticketID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
