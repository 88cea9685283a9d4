// README: Handoff store backed by PostgreSQL (one jsonb row per key).
package ride

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	db  *pgxpool.Pool
	key string
}

func NewPostgresStore(db *pgxpool.Pool, key string) *PostgresStore {
	if key == "" {
		key = DefaultKey
	}
	return &PostgresStore{db: db, key: key}
}

func (s *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	row := s.db.QueryRow(ctx, `
		SELECT payload
		FROM ride_handoff
		WHERE key = $1`, s.key,
	)
	var blob []byte
	err := row.Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (s *PostgresStore) Save(ctx context.Context, blob []byte) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ride_handoff (key, payload, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload,
		    updated_at = EXCLUDED.updated_at`,
		s.key, string(blob),
	)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM ride_handoff WHERE key = $1`, s.key)
	return err
}
