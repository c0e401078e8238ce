package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OwnerScope wraps a connection with owner context and ensures cleanup.
// The connection has app.current_owner_id set for RLS policy evaluation.
type OwnerScope struct {
	Conn    *pgxpool.Conn
	OwnerID string
}

// Close resets owner context and releases connection to pool.
// This MUST be called to prevent owner context from leaking to the next request.
func (s *OwnerScope) Close() {
	if s.Conn == nil {
		return
	}
	_, _ = s.Conn.Exec(context.Background(), "RESET app.current_owner_id")
	s.Conn.Release()
}

// WithOwner acquires a connection and sets the owner context for RLS.
// The returned OwnerScope MUST be closed with defer scope.Close().
func (db *DB) WithOwner(ctx context.Context, ownerID string) (*OwnerScope, error) {
	if ownerID == "" {
		return nil, errors.New("owner id is required")
	}

	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	_, err = conn.Exec(ctx, "SELECT set_config('app.current_owner_id', $1, false)", ownerID)
	if err != nil {
		conn.Release()
		return nil, err
	}

	return &OwnerScope{Conn: conn, OwnerID: ownerID}, nil
}
