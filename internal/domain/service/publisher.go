package service

import (
	"context"

	"github.com/ressKim-io/BullyGuard/internal/domain/entity"
)

// LabelPublisher announces newly stored labeled examples to downstream
// consumers such as the training data pipeline
type LabelPublisher interface {
	PublishStored(ctx context.Context, tweet *entity.Tweet) error
	Close() error
}
