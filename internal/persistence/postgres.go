package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/config"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/domain"
)

const snapshotSchema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		key        TEXT PRIMARY KEY,
		doc        JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// PostgresStore keeps the snapshot as a single JSONB row keyed by name.
// The database is used as a durable key-value blob, not a relational
// schema; every save replaces the whole document.
type PostgresStore struct {
	pool   *pgxpool.Pool
	key    string
	logger *zap.Logger
}

// NewPostgresStore establishes a connection pool and ensures the
// snapshot table exists.
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig, key string, logger *zap.Logger) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, errors.New("POSTGRES_DSN required for the postgres store driver")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, snapshotSchema); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &PostgresStore{pool: pool, key: key, logger: logger}, nil
}

// Load reads the document row. A missing row, a query failure or a
// malformed document all yield the empty snapshot.
func (s *PostgresStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	const query = `SELECT doc FROM snapshots WHERE key=$1`

	var data []byte
	if err := s.pool.QueryRow(ctx, query, s.key).Scan(&data); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("postgres read failed, starting empty", zap.Error(err))
		}
		return domain.NewSnapshot(), nil
	}
	snap := domain.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		s.logger.Warn("corrupt postgres snapshot, starting empty", zap.Error(err))
		return domain.NewSnapshot(), nil
	}
	return snap, nil
}

// Save upserts the whole document.
func (s *PostgresStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO snapshots (key, doc, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET doc=EXCLUDED.doc, updated_at=now()`
	_, err = s.pool.Exec(ctx, query, s.key, data)
	return err
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return s.pool.Ping(ctx)
}

// Close releases pool resources.
func (s *PostgresStore) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}
