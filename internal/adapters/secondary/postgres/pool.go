package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS generations (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	user_prompt TEXT NOT NULL,
	enhanced_prompt TEXT NOT NULL DEFAULT '',
	image_path TEXT NOT NULL DEFAULT '',
	model_3d_path TEXT NOT NULL DEFAULT '',
	model_format TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'completed',
	error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations (created_at DESC);
`

// NewPool opens a connection pool and makes sure the generations table exists.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	log.Info("database connection established")

	return pool, nil
}
