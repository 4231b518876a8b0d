package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/peptide-insights-backend/internal/clients/redis"
	"github.com/yungbote/peptide-insights-backend/internal/data/db"
	"github.com/yungbote/peptide-insights-backend/internal/data/legacy"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

const idempotencyKeyPrefix = "peptide-insights:idem"

type Clients struct {
	Postgres    *db.PostgresService
	Idempotency redis.IdempotencyStore
	Legacy      *legacy.Reader
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	pg, err := db.NewPostgresService(cfg.Postgres(), log)
	if err != nil {
		return out, fmt.Errorf("init postgres: %w", err)
	}
	out.Postgres = pg
	if err := db.AutoMigrateAll(pg.DB()); err != nil {
		out.Close(ctx, log)
		return Clients{}, fmt.Errorf("postgres automigrate: %w", err)
	}

	if strings.TrimSpace(cfg.RedisAddr) != "" {
		store, err := redis.NewIdempotencyStore(log, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.IdempotencyTTL,
			Prefix:   idempotencyKeyPrefix,
		})
		if err != nil {
			log.Warn("Redis unavailable; experience submissions will not be deduplicated", "error", err)
		} else {
			out.Idempotency = store
		}
	} else {
		log.Warn("REDIS_ADDR not set; experience submissions will not be deduplicated")
	}

	if strings.TrimSpace(cfg.MongoURI) != "" {
		reader, err := legacy.Connect(ctx, log, legacy.Options{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
		switch {
		case err == nil:
			out.Legacy = reader
		case cfg.AnalyticsSource == AnalyticsSourceMongo:
			out.Close(ctx, log)
			return Clients{}, fmt.Errorf("init mongo: %w", err)
		default:
			log.Warn("MongoDB unavailable; legacy reads disabled", "error", err)
		}
	}

	return out, nil
}

func (c Clients) Close(ctx context.Context, log *logger.Logger) {
	if c.Legacy != nil {
		if err := c.Legacy.Close(ctx); err != nil {
			log.Warn("mongo close failed", "error", err)
		}
	}
	if c.Idempotency != nil {
		if err := c.Idempotency.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}
	if c.Postgres != nil {
		if err := c.Postgres.Close(); err != nil {
			log.Warn("postgres close failed", "error", err)
		}
	}
}
