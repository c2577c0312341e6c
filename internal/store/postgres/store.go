package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ottware/storefront/internal/store"
)

// SessionStore persists checkout sessions in PostgreSQL. The session body is
// stored as a jsonb payload so schema migrations are only needed for the
// lookup columns.
type SessionStore struct {
	pool *Pool
}

func NewSessionStore(pool *Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*store.Session, error) {
	const query = `SELECT payload FROM checkout_sessions WHERE id = $1`

	var payload []byte
	err := s.pool.QueryRow(ctx, query, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session store.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session payload: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *store.Session) error {
	session.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session payload: %w", err)
	}

	const query = `
		INSERT INTO checkout_sessions (id, customer_id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET customer_id = EXCLUDED.customer_id,
		    payload = EXCLUDED.payload,
		    updated_at = EXCLUDED.updated_at`

	_, err = s.pool.Exec(ctx, query,
		session.ID,
		session.CustomerID,
		payload,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM checkout_sessions WHERE id = $1`

	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions idle for longer than ttl. Called
// periodically from the app.
func (s *SessionStore) DeleteExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	const query = `DELETE FROM checkout_sessions WHERE updated_at < $1`

	tag, err := s.pool.Exec(ctx, query, time.Now().UTC().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
