package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/jyotish-back/pkg/config"
	"github.com/jyotish-back/pkg/models"
)

// RedisClient handles Redis caching operations
type RedisClient struct {
	client *redis.Client
	logger *logrus.Entry
	cfg    *config.RedisConfig
	ttl    time.Duration
}

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg *config.RedisConfig, logger *logrus.Logger) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		// Additional settings to prevent connection issues
		PoolTimeout:        4 * time.Second,
		IdleTimeout:        5 * time.Minute,
		MaxRetries:         2,
		IdleCheckFrequency: time.Minute,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		logger: logger.WithField("component", "redis"),
		cfg:    cfg,
		ttl:    cfg.ChartTTL,
	}, nil
}

// Close closes the Redis connection
func (rc *RedisClient) Close() error {
	return rc.client.Close()
}

// Health checks Redis health
func (rc *RedisClient) Health(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// SetTTL sets the default TTL for chart cache entries
func (rc *RedisClient) SetTTL(ttl time.Duration) {
	rc.ttl = ttl
}

// Arc table operations
//
// The constellation arc table depends only on the reference epoch, so the
// persisted document never expires and is shared by every process.

func arcTableKey(epoch string) string {
	return fmt.Sprintf("arcs:%s", epoch)
}

// SetArcTable persists the constellation arc table for an epoch
func (rc *RedisClient) SetArcTable(ctx context.Context, epoch string, arcs []models.ConstellationArc) error {
	return rc.SetJSON(ctx, arcTableKey(epoch), arcs, 0)
}

// GetArcTable loads the persisted constellation arc table for an epoch.
// A missing document returns nil without error.
func (rc *RedisClient) GetArcTable(ctx context.Context, epoch string) ([]models.ConstellationArc, error) {
	var arcs []models.ConstellationArc
	found, err := rc.GetJSON(ctx, arcTableKey(epoch), &arcs)
	if err != nil {
		return nil, fmt.Errorf("failed to get arc table: %w", err)
	}
	if !found {
		return nil, nil
	}
	return arcs, nil
}

// DeleteArcTable removes the persisted arc table for an epoch
func (rc *RedisClient) DeleteArcTable(ctx context.Context, epoch string) error {
	return rc.Delete(ctx, arcTableKey(epoch))
}

// Chart response operations
//
// Responses are immutable for a fixed request, so a short TTL only bounds
// memory, not staleness.

// ChartKeyPattern matches every cached chart response.
const ChartKeyPattern = "chart:*"

// ChartKey derives the cache key for a chart request
func ChartKey(req *models.ChartRequest) string {
	data, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("chart:%s", hex.EncodeToString(sum[:16]))
}

// SetChart caches a computed chart response
func (rc *RedisClient) SetChart(ctx context.Context, req *models.ChartRequest, resp *models.ChartResponse) error {
	key := ChartKey(req)
	if key == "" {
		return fmt.Errorf("failed to derive chart cache key")
	}

	return rc.SetJSON(ctx, key, resp, rc.ttl)
}

// GetChart returns a cached chart response, or nil on a miss
func (rc *RedisClient) GetChart(ctx context.Context, req *models.ChartRequest) (*models.ChartResponse, error) {
	key := ChartKey(req)
	if key == "" {
		return nil, nil
	}

	var resp models.ChartResponse
	found, err := rc.GetJSON(ctx, key, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get chart: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &resp, nil
}

// Utility operations

// DeletePattern deletes all keys matching a pattern
func (rc *RedisClient) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	var keys []string

	for {
		var err error
		var batch []string
		batch, cursor, err = rc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
		}

		keys = append(keys, batch...)

		if cursor == 0 {
			break
		}
	}

	if len(keys) > 0 {
		return rc.client.Del(ctx, keys...).Err()
	}

	return nil
}

// SetJSON stores a JSON-encoded value
func (rc *RedisClient) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return rc.client.Set(ctx, key, data, expiration).Err()
}

// GetJSON retrieves and decodes a JSON value
func (rc *RedisClient) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := rc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return true, nil
}

// Delete removes a key
func (rc *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return rc.client.Del(ctx, keys...).Err()
}
