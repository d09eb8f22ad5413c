package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/screening"
)

type listClient interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Close() error
}

// RedisStore pushes JSON records onto a list.
type RedisStore struct {
	client listClient
	key    string
	logger *zap.Logger
}

var _ screening.RecordStore = (*RedisStore)(nil)

// OpenRedis accepts either a redis:// URL or a plain host:port address.
func OpenRedis(ctx context.Context, url, key string, logger *zap.Logger) (*RedisStore, error) {
	var opts *redis.Options
	if strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: url}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return newRedisStore(client, key, logger), nil
}

func newRedisStore(client listClient, key string, logger *zap.Logger) *RedisStore {
	if key = strings.TrimSpace(key); key == "" {
		key = DefaultRedisKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, key: key, logger: logger}
}

func (s *RedisStore) Append(ctx context.Context, record *screening.Record) error {
	data, err := encode(record)
	if err != nil {
		return err
	}

	length, err := s.client.RPush(ctx, s.key, data).Result()
	if err != nil {
		return fmt.Errorf("push record %s: %w", record.ID, err)
	}

	s.logger.Debug("record pushed", zap.String("key", s.key), zap.Int64("length", length))
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
