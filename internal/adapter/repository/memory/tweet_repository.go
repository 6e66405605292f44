// Package memory holds an in-process TweetRepository used when
// database.use_in_memory is set, and in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ressKim-io/BullyGuard/internal/domain/entity"
	"github.com/ressKim-io/BullyGuard/internal/domain/repository"
)

// TweetRepository stores tweets in a map keyed by ID
type TweetRepository struct {
	mu     sync.RWMutex
	tweets map[string]entity.Tweet
}

var _ repository.TweetRepository = (*TweetRepository)(nil)

// NewTweetRepository creates an empty in-memory repository
func NewTweetRepository() *TweetRepository {
	return &TweetRepository{tweets: make(map[string]entity.Tweet)}
}

func (r *TweetRepository) Upsert(ctx context.Context, tweet *entity.Tweet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tweets[tweet.ID] = *tweet
	return nil
}

func (r *TweetRepository) GetByID(ctx context.Context, id string) (*entity.Tweet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tweets[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TweetRepository) List(ctx context.Context, limit, offset int) ([]*entity.Tweet, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	all := r.sorted()
	total := int64(len(all))
	if offset >= len(all) {
		return []*entity.Tweet{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *TweetRepository) Each(ctx context.Context, _ int, fn func(*entity.Tweet) error) error {
	for _, t := range r.sorted() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of stored rows
func (r *TweetRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tweets)
}

func (r *TweetRepository) sorted() []*entity.Tweet {
	r.mu.RLock()
	out := make([]*entity.Tweet, 0, len(r.tweets))
	for _, t := range r.tweets {
		t := t
		out = append(out, &t)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
