package repository

import (
	"context"
	"errors"

	"github.com/ressKim-io/BullyGuard/internal/domain/entity"
)

// ErrStorage wraps any failure of the underlying store
var ErrStorage = errors.New("storage failure")

// TweetRepository defines the interface for labeled tweet data operations
type TweetRepository interface {
	// Upsert inserts the tweet or fully replaces the row with the same ID
	Upsert(ctx context.Context, tweet *entity.Tweet) error

	// GetByID retrieves a tweet by its ID, nil if absent
	GetByID(ctx context.Context, id string) (*entity.Tweet, error)

	// List retrieves tweets ordered by ID with pagination
	List(ctx context.Context, limit, offset int) ([]*entity.Tweet, int64, error)

	// Each streams all tweets in ID order, batchSize at a time
	Each(ctx context.Context, batchSize int, fn func(*entity.Tweet) error) error
}
