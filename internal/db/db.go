// Package db provides PostgreSQL access for per-user workspace settings.
// The gateway reads credentials through here; writes happen only from the
// settings handlers, never from invocation or validation paths.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/ai-workspace/internal/provider"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Credentials returns the user's stored per-provider secrets. A user
// without a settings row has an empty set, not an error. This satisfies
// gateway.CredentialSource.
func (db *DB) Credentials(ctx context.Context, userID uuid.UUID) (provider.CredentialSet, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT ai_credentials FROM user_settings WHERE user_id = $1`,
		userID,
	).Scan(&raw)
	if err == pgx.ErrNoRows {
		return provider.CredentialSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	set := provider.CredentialSet{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &set); err != nil {
			return nil, fmt.Errorf("failed to decode credentials: %w", err)
		}
	}
	return set, nil
}

// UpsertCredential stores or replaces one provider's credential for the
// user, creating the settings row on first write.
func (db *DB) UpsertCredential(ctx context.Context, userID uuid.UUID, id provider.ID, cred provider.Credential) error {
	patch, err := json.Marshal(provider.CredentialSet{id: cred})
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, ai_credentials)
		 VALUES ($1, $2::jsonb)
		 ON CONFLICT (user_id)
		 DO UPDATE SET ai_credentials = user_settings.ai_credentials || EXCLUDED.ai_credentials,
		               updated_at = NOW()`,
		userID, patch,
	)
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// DeleteCredential removes one provider's credential from the user's
// settings. Deleting a credential that was never stored is a no-op.
func (db *DB) DeleteCredential(ctx context.Context, userID uuid.UUID, id provider.ID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE user_settings
		 SET ai_credentials = ai_credentials - $2, updated_at = NOW()
		 WHERE user_id = $1`,
		userID, string(id),
	)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
