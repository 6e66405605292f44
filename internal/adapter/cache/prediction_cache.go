package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ressKim-io/BullyGuard/internal/domain/service"
)

const keyPrefix = "bullyguard:predict:"

// CachedClassifier memoizes classification results in Redis. Redis failures
// never fail a prediction: the inner classifier is called instead.
// Keys are scoped to one model, so swapping the artifact starts a fresh cache.
type CachedClassifier struct {
	inner   service.Classifier
	redis   *redis.Client
	ttl     time.Duration
	modelID string
	logger  *zap.Logger
}

// NewCachedClassifier wraps inner with a Redis cache. modelID identifies the
// model artifact whose results are cached.
func NewCachedClassifier(inner service.Classifier, client *redis.Client, ttl time.Duration, modelID string, logger *zap.Logger) *CachedClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedClassifier{
		inner:   inner,
		redis:   client,
		ttl:     ttl,
		modelID: modelID,
		logger:  logger,
	}
}

// Classify returns a cached result when present
func (c *CachedClassifier) Classify(ctx context.Context, text string) (*service.ClassificationResult, error) {
	key := Key(c.modelID, text)

	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached service.ClassificationResult
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil && cached.Label.IsValid() {
			cacheHits.Inc()
			return &cached, nil
		}
		c.logger.Warn("Discarding unreadable cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("Prediction cache read failed", zap.Error(err))
	}
	cacheMisses.Inc()

	result, err := c.inner.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(result); err == nil {
		if err := c.redis.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			c.logger.Warn("Prediction cache write failed", zap.Error(err))
		}
	}

	return result, nil
}

// Key returns the cache key for a text classified by the given model
func Key(modelID, text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + modelID + ":" + hex.EncodeToString(sum[:])
}
