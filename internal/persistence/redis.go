package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/config"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/domain"
)

// RedisStore keeps the snapshot as one key-value blob in Redis.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisStore connects to Redis using the provided configuration.
func NewRedisStore(cfg config.RedisConfig, key string, logger *zap.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &RedisStore{client: client, key: key, logger: logger}
}

// Load fetches and decodes the blob. A missing key, a read error or a
// malformed document all yield the empty snapshot.
func (s *RedisStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("redis read failed, starting empty", zap.Error(err))
		}
		return domain.NewSnapshot(), nil
	}
	snap := domain.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		s.logger.Warn("corrupt redis snapshot, starting empty", zap.Error(err))
		return domain.NewSnapshot(), nil
	}
	return snap, nil
}

// Save encodes and writes the blob with no expiry.
func (s *RedisStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

// Ping verifies Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return errors.New("redis client not configured")
	}
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisStore) Close() {
	if s != nil && s.client != nil {
		_ = s.client.Close()
	}
}
