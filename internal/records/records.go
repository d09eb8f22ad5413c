package records

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/logger"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/screening"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/secrets"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendNone     = "none"

	DefaultFile          = "candidates.jsonl"
	DefaultPostgresTable = "screening_records"
	DefaultRedisKey      = "skillscout:records"
)

// Store is a record store that holds resources until closed.
type Store interface {
	screening.RecordStore
	Close() error
}

// Config selects and configures the store backend.
type Config struct {
	Backend  string         `mapstructure:"backend"`
	File     string         `mapstructure:"file"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	DSN     string `mapstructure:"dsn"`
	DSNFile string `mapstructure:"dsn-file"`
	Table   string `mapstructure:"table"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
	Key string `mapstructure:"key"`
}

// Open builds the store selected by cfg.Backend.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendFile
	}
	log = log.With(zap.String(logger.FieldStore, backend))

	switch backend {
	case BackendFile:
		path := strings.TrimSpace(cfg.File)
		if path == "" {
			path = DefaultFile
		}
		store := NewFileStore(path)
		log.Debug("using file record store", zap.String("path", store.Path()))
		return store, nil
	case BackendPostgres:
		dsn, err := secrets.Load(secrets.Source{
			Name:  "postgres dsn",
			Value: cfg.Postgres.DSN,
			File:  cfg.Postgres.DSNFile,
			Env:   []string{"DATABASE_URL"},
		})
		if err != nil {
			return nil, err
		}
		return OpenPostgres(ctx, dsn, cfg.Postgres.Table, log)
	case BackendRedis:
		url, err := secrets.Load(secrets.Source{
			Name:  "redis url",
			Value: cfg.Redis.URL,
			Env:   []string{"REDIS_URL", "REDIS_ADDR"},
		})
		if err != nil {
			return nil, err
		}
		return OpenRedis(ctx, url, cfg.Redis.Key, log)
	case BackendNone:
		return discard{logger: log}, nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}

func encode(record *screening.Record) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("record is required")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", record.ID, err)
	}
	return data, nil
}

// discard accepts records without keeping them.
type discard struct {
	logger *zap.Logger
}

func (d discard) Append(_ context.Context, record *screening.Record) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}
	d.logger.Info("record store disabled, dropping record", zap.String("record_id", record.ID))
	return nil
}

func (discard) Close() error {
	return nil
}
