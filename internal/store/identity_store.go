package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkhin/deskbot/internal/domain"
)

// IdentityStore persists name-to-user bindings. Names are provisioned
// administratively; users only claim them.
type IdentityStore struct {
	db *DB
}

// NewIdentityStore creates an identity store using the given database.
func NewIdentityStore(db *DB) *IdentityStore {
	return &IdentityStore{db: db}
}

// Resolve looks up a submitted full name and binds it to the user when it is
// free. The read-modify-write runs in one transaction so two users cannot
// claim the same name concurrently. Binding the same (name, user) pair again
// is a no-op that still reports Bound; a user who already holds a different
// name gets Conflict.
func (s *IdentityStore) Resolve(ctx context.Context, fullName string, userID int64) (domain.ResolveOutcome, error) {
	tx, err := s.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return domain.ResolveNotFound, fmt.Errorf("begin resolve: %w", err)
	}
	defer tx.Rollback()

	var bound sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT bound_user_id FROM identities WHERE full_name = ?`, fullName,
	).Scan(&bound)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ResolveNotFound, nil
	}
	if err != nil {
		return domain.ResolveNotFound, fmt.Errorf("lookup name: %w", err)
	}

	switch {
	case !bound.Valid:
		// One name per user. Catch a second claim here rather than letting
		// the unique index on bound_user_id reject the bind as a raw error.
		var held string
		err := tx.QueryRowContext(ctx,
			`SELECT full_name FROM identities WHERE bound_user_id = ?`, userID,
		).Scan(&held)
		if err == nil {
			return domain.ResolveConflict, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return domain.ResolveNotFound, fmt.Errorf("lookup binding: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE identities SET bound_user_id = ? WHERE full_name = ?`, userID, fullName,
		); err != nil {
			return domain.ResolveNotFound, fmt.Errorf("bind name: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return domain.ResolveNotFound, fmt.Errorf("commit bind: %w", err)
		}
		return domain.ResolveBound, nil

	case bound.Int64 == userID:
		return domain.ResolveBound, nil

	default:
		return domain.ResolveConflict, nil
	}
}

// Lookup returns the identity bound to a user, or nil when the user has
// never bound a name.
func (s *IdentityStore) Lookup(ctx context.Context, userID int64) (*domain.Identity, error) {
	var ident domain.Identity
	var bound sql.NullInt64
	err := s.db.sql.QueryRowContext(ctx,
		`SELECT full_name, bound_user_id, phone FROM identities WHERE bound_user_id = ?`, userID,
	).Scan(&ident.FullName, &bound, &ident.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup identity: %w", err)
	}
	if bound.Valid {
		ident.UserID = &bound.Int64
	}
	return &ident, nil
}

// Upsert records the user's contact data, keyed by user id: an existing
// binding gets its phone updated, otherwise the (name, user, phone) row is
// written whole.
func (s *IdentityStore) Upsert(ctx context.Context, userID int64, fullName, phone string) error {
	tx, err := s.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE identities SET phone = ? WHERE bound_user_id = ?`, phone, userID,
	)
	if err != nil {
		return fmt.Errorf("update phone: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update phone: %w", err)
	}
	if n == 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO identities (full_name, bound_user_id, phone) VALUES (?, ?, ?)
			 ON CONFLICT(full_name) DO UPDATE SET bound_user_id = excluded.bound_user_id, phone = excluded.phone`,
			fullName, userID, phone,
		); err != nil {
			return fmt.Errorf("insert identity: %w", err)
		}
	}

	return tx.Commit()
}

// AddName provisions an unbound identity record. This is the administrative
// path that seeds the table before users can claim names.
func (s *IdentityStore) AddName(ctx context.Context, fullName string) error {
	_, err := s.db.sql.ExecContext(ctx,
		`INSERT INTO identities (full_name) VALUES (?) ON CONFLICT(full_name) DO NOTHING`, fullName,
	)
	if err != nil {
		return fmt.Errorf("add name: %w", err)
	}
	return nil
}

// ListNames returns all provisioned names with their binding status.
func (s *IdentityStore) ListNames(ctx context.Context) ([]domain.Identity, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT full_name, bound_user_id, phone FROM identities ORDER BY full_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	defer rows.Close()

	var idents []domain.Identity
	for rows.Next() {
		var ident domain.Identity
		var bound sql.NullInt64
		if err := rows.Scan(&ident.FullName, &bound, &ident.Phone); err != nil {
			return nil, fmt.Errorf("list names: %w", err)
		}
		if bound.Valid {
			ident.UserID = &bound.Int64
		}
		idents = append(idents, ident)
	}
	return idents, rows.Err()
}
