package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avolkhin/deskbot/internal/domain"
)

// ErrUnknownCategory is returned when a category outside the closed set
// reaches the persistence layer.
var ErrUnknownCategory = errors.New("store: unknown request category")

// ErrUnmapped is returned when no request correlates with an operator
// message id. Expected for most operator-chat traffic, not an error
// condition for callers.
var ErrUnmapped = errors.New("store: no request for operator message")

// ErrRequestNotFound is returned when a request id does not exist in the
// addressed category table.
var ErrRequestNotFound = errors.New("store: request not found")

// tableFor maps a category to its request table through a closed switch.
// This is the only place a table name is chosen.
func tableFor(cat domain.Category) (string, error) {
	switch cat {
	case domain.CategoryDocuments:
		return "requests_documents", nil
	case domain.CategoryDeadlines:
		return "requests_deadlines", nil
	case domain.CategoryPayment:
		return "requests_payment", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
}

// RequestStore persists finalized support requests, partitioned by category.
type RequestStore struct {
	db *DB
}

// NewRequestStore creates a request store using the given database.
func NewRequestStore(db *DB) *RequestStore {
	return &RequestStore{db: db}
}

// Insert persists a new request into its category table, filling in the
// generated id and submission time. The row is durable before Insert
// returns, so notification can only ever reference a stored request.
func (s *RequestStore) Insert(ctx context.Context, req *domain.Request) error {
	table, err := tableFor(req.Category)
	if err != nil {
		return err
	}

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = time.Now()
	}

	_, err = s.db.sql.ExecContext(ctx,
		`INSERT INTO `+table+` (id, user_id, full_name, phone, body, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.ID, req.UserID, req.FullName, req.Phone, req.Body,
		req.SubmittedAt.UTC().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}

	s.db.log.Info().
		Str("id", req.ID).
		Str("category", string(req.Category)).
		Int64("userId", req.UserID).
		Msg("request persisted")
	return nil
}

// AttachOperatorMessage records the operator notification's message id on a
// request. Idempotent: a second call with any value leaves the first intact.
func (s *RequestStore) AttachOperatorMessage(ctx context.Context, cat domain.Category, id string, operatorMessageID int) error {
	table, err := tableFor(cat)
	if err != nil {
		return err
	}

	res, err := s.db.sql.ExecContext(ctx,
		`UPDATE `+table+` SET operator_message_id = COALESCE(operator_message_id, ?) WHERE id = ?`,
		operatorMessageID, id,
	)
	if err != nil {
		return fmt.Errorf("attach operator message: %w", err)
	}
	return requireRow(res)
}

// MarkAnswered records the answer timestamp. Idempotent: the first answer
// time is kept on repeat calls.
func (s *RequestStore) MarkAnswered(ctx context.Context, cat domain.Category, id string) error {
	table, err := tableFor(cat)
	if err != nil {
		return err
	}

	res, err := s.db.sql.ExecContext(ctx,
		`UPDATE `+table+` SET answered_at = COALESCE(answered_at, ?) WHERE id = ?`,
		time.Now().UTC().Format(time.DateTime), id,
	)
	if err != nil {
		return fmt.Errorf("mark answered: %w", err)
	}
	return requireRow(res)
}

// FindByOperatorMessage reverse-looks-up a request by its operator
// notification message id, scanning every category table. Categories are
// disjoint so at most one table can match; when none does, ErrUnmapped.
func (s *RequestStore) FindByOperatorMessage(ctx context.Context, operatorMessageID int) (*domain.Request, error) {
	for _, cat := range domain.Categories() {
		table, err := tableFor(cat)
		if err != nil {
			return nil, err
		}

		req, err := s.scanOne(ctx, cat,
			`SELECT id, user_id, full_name, phone, body, submitted_at, answered_at, operator_message_id
			 FROM `+table+` WHERE operator_message_id = ?`, operatorMessageID)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find by operator message: %w", err)
		}
		return req, nil
	}
	return nil, ErrUnmapped
}

// Get returns a single request by category and id.
func (s *RequestStore) Get(ctx context.Context, cat domain.Category, id string) (*domain.Request, error) {
	table, err := tableFor(cat)
	if err != nil {
		return nil, err
	}

	req, err := s.scanOne(ctx, cat,
		`SELECT id, user_id, full_name, phone, body, submitted_at, answered_at, operator_message_id
		 FROM `+table+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

func (s *RequestStore) scanOne(ctx context.Context, cat domain.Category, query string, args ...any) (*domain.Request, error) {
	var req domain.Request
	var submitted string
	var answered sql.NullString
	var opMsg sql.NullInt64

	err := s.db.sql.QueryRowContext(ctx, query, args...).Scan(
		&req.ID, &req.UserID, &req.FullName, &req.Phone, &req.Body,
		&submitted, &answered, &opMsg,
	)
	if err != nil {
		return nil, err
	}

	req.Category = cat
	req.SubmittedAt, _ = time.Parse(time.DateTime, submitted)
	if answered.Valid {
		t, err := time.Parse(time.DateTime, answered.String)
		if err == nil {
			req.AnsweredAt = &t
		}
	}
	if opMsg.Valid {
		id := int(opMsg.Int64)
		req.OperatorMessageID = &id
	}
	return &req, nil
}

// requireRow converts a zero-row update into ErrRequestNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRequestNotFound
	}
	return nil
}
