package persistence

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const waitInterval = time.Second

// WaitForDatabase blocks until the database answers a ping, sleeping a fixed
// interval between attempts. There is no attempt cap; cancelling the context
// stops the loop.
func WaitForDatabase(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) {
	logger.Info("waiting for database")
	for {
		if err := pool.Ping(ctx); err == nil {
			logger.Info("database is ready")
			return
		} else {
			logger.Info("database unavailable, retrying", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			logger.Warn("stopped waiting for database", zap.Error(ctx.Err()))
			return
		case <-time.After(waitInterval):
		}
	}
}
