package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/reachmon/internal/domain"
	"github.com/hamed0406/reachmon/internal/repo"
)

var _ repo.RecordSink = (*Store)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS observations (
  id          BIGSERIAL PRIMARY KEY,
  name        TEXT NOT NULL,
  host        TEXT NOT NULL,
  kind        TEXT NOT NULL,
  port        INTEGER NULL,
  status      TEXT NOT NULL,
  rtt_ms      DOUBLE PRECISION NULL,
  error       TEXT NULL,
  checked_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_observations_name_time ON observations (name, checked_at DESC);
`

// Store mirrors observations into PostgreSQL. It is a best-effort copy of
// the local log, not a replacement for it.
type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{pool: pool, log: log}, nil
}

// Migrate creates the observations table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	s.log.Info("observations_schema_ready")
	return nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Append(ctx context.Context, r *domain.Record) error {
	var port *int
	if r.HasPort() {
		p := r.Port
		port = &p
	}
	var errText *string
	if r.Error != "" {
		e := r.Error
		errText = &e
	}
	var rtt *float64
	if r.Status == domain.StatusUp {
		rtt = r.LatencyMS
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO observations
		   (name, host, kind, port, status, rtt_ms, error, checked_at)
		 VALUES
		   ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.Name, r.Host, string(r.Kind), port, string(r.Status), rtt, errText, r.CheckedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert observation: %w", err)
	}
	return nil
}

// Recent returns up to limit records for a target, newest first.
func (s *Store) Recent(ctx context.Context, name string, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
SELECT name, host, kind, port, status, rtt_ms, error, checked_at
  FROM observations
 WHERE name = $1
 ORDER BY checked_at DESC
 LIMIT $2`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("recent: %w", err)
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var (
			rec     domain.Record
			kind    string
			status  string
			port    *int32
			errText *string
		)
		if err := rows.Scan(&rec.Name, &rec.Host, &kind, &port, &status, &rec.LatencyMS, &errText, &rec.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		rec.Kind = domain.Kind(kind)
		rec.Status = domain.Status(status)
		if port != nil {
			rec.Port = int(*port)
		}
		if errText != nil {
			rec.Error = *errText
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
