package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ressKim-io/BullyGuard/internal/domain/entity"
	"github.com/ressKim-io/BullyGuard/internal/domain/repository"
)

type tweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository creates a new tweet repository
func NewTweetRepository(db *gorm.DB) repository.TweetRepository {
	return &tweetRepository{db: db}
}

// Upsert runs INSERT ... ON CONFLICT (id) DO UPDATE in its own transaction.
// gorm commits when the callback returns nil and rolls back on error or
// panic; the connection goes back to the pool on every path.
func (r *tweetRepository) Upsert(ctx context.Context, tweet *entity.Tweet) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(upsertClause()).Create(tweet).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return nil
}

// every column except the key is replaced; no partial-field update
func upsertClause() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"author", "text", "label"}),
	}
}

func (r *tweetRepository) GetByID(ctx context.Context, id string) (*entity.Tweet, error) {
	var tweet entity.Tweet
	err := r.db.WithContext(ctx).First(&tweet, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return &tweet, nil
}

func (r *tweetRepository) List(ctx context.Context, limit, offset int) ([]*entity.Tweet, int64, error) {
	var tweets []*entity.Tweet
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Tweet{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}

	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&tweets).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}

	return tweets, total, nil
}

func (r *tweetRepository) Each(ctx context.Context, batchSize int, fn func(*entity.Tweet) error) error {
	var batch []*entity.Tweet
	result := r.db.WithContext(ctx).
		Order("id ASC").
		FindInBatches(&batch, batchSize, func(_ *gorm.DB, _ int) error {
			for _, t := range batch {
				if err := fn(t); err != nil {
					return err
				}
			}
			return nil
		})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", repository.ErrStorage, result.Error)
	}
	return nil
}
