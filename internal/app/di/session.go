package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "foodie/internal/feature/auth/adapters"
	"foodie/internal/feature/auth/usecase"
	"foodie/internal/platform/session"
)

// NewSessionRepository returns the Redis session store when rdb is set, and the
// database sessions table otherwise. Dead rows of the table are purged once here,
// at startup.
func NewSessionRepository(ctx context.Context, rdb redis.UniversalClient, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		slog.Info("session store: redis")
		return session.NewSessionRedis(rdb, session.DefaultPrefix)
	}

	repo := authadapters.NewSessionGorm(db)
	if n, err := repo.DeleteExpired(ctx); err != nil {
		slog.Warn("failed to purge expired sessions", "error", err)
	} else if n > 0 {
		slog.Info("purged expired sessions", "count", n)
	}
	slog.Info("session store: database")
	return repo
}
