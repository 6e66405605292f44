package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ressKim-io/BullyGuard/internal/domain/entity"
	"github.com/ressKim-io/BullyGuard/internal/domain/repository"
	"github.com/ressKim-io/BullyGuard/internal/domain/service"
)

// Error definitions for detection usecase
var (
	ErrEmptyText      = errors.New("input text is empty")
	ErrInvalidRequest = errors.New("invalid request")
	ErrTweetNotFound  = errors.New("tweet not found")
)

// PredictInput represents the input for a prediction
type PredictInput struct {
	Text string `json:"text"`
}

// PredictOutput represents the prediction result
type PredictOutput struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// StoreInput represents a labeled tweet to persist. Pointers let binding
// tell a missing field from an empty string; empty strings are accepted.
type StoreInput struct {
	ID     *string `json:"id" binding:"required"`
	Author *string `json:"author" binding:"required"`
	Text   *string `json:"text" binding:"required"`
	Label  *string `json:"label" binding:"required"`
}

// StoreOutput represents the result of a store call
type StoreOutput struct {
	Status string `json:"status"`
}

// TweetOutput represents a stored tweet
type TweetOutput struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
	Label  string `json:"label"`
}

// TweetListOutput represents a page of stored tweets
type TweetListOutput struct {
	Tweets  []*TweetOutput `json:"tweets"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	HasMore bool           `json:"has_more"`
}

// DetectionUsecase defines the interface for detection business logic
type DetectionUsecase interface {
	Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error)
	Store(ctx context.Context, input *StoreInput) (*StoreOutput, error)
	GetTweet(ctx context.Context, id string) (*TweetOutput, error)
	ListTweets(ctx context.Context, limit, offset int) (*TweetListOutput, error)
}

type detectionUsecase struct {
	classifier service.Classifier
	tweetRepo  repository.TweetRepository
	publisher  service.LabelPublisher
	logger     *zap.Logger
}

// NewDetectionUsecase creates a new detection usecase. publisher may be nil.
func NewDetectionUsecase(
	classifier service.Classifier,
	tweetRepo repository.TweetRepository,
	publisher service.LabelPublisher,
	logger *zap.Logger,
) DetectionUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &detectionUsecase{
		classifier: classifier,
		tweetRepo:  tweetRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

func (u *detectionUsecase) Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	result, err := u.classifier.Classify(ctx, text)
	if err != nil {
		if !errors.Is(err, service.ErrInferenceUnavailable) {
			err = fmt.Errorf("%w: %v", service.ErrInferenceUnavailable, err)
		}
		return nil, err
	}

	return &PredictOutput{
		Label:      result.Label.String(),
		Confidence: result.Confidence,
	}, nil
}

func (u *detectionUsecase) Store(ctx context.Context, input *StoreInput) (*StoreOutput, error) {
	if input.ID == nil || input.Author == nil || input.Text == nil || input.Label == nil {
		return nil, ErrInvalidRequest
	}

	tweet := entity.NewTweet(*input.ID, *input.Author, *input.Text, *input.Label)

	if err := u.tweetRepo.Upsert(ctx, tweet); err != nil {
		if !errors.Is(err, repository.ErrStorage) {
			err = fmt.Errorf("%w: %v", repository.ErrStorage, err)
		}
		return nil, err
	}

	if u.publisher != nil {
		if err := u.publisher.PublishStored(ctx, tweet); err != nil {
			u.logger.Warn("Stored tweet but failed to publish label event",
				zap.String("tweet_id", tweet.ID),
				zap.Error(err),
			)
		}
	}

	return &StoreOutput{Status: "stored"}, nil
}

func (u *detectionUsecase) GetTweet(ctx context.Context, id string) (*TweetOutput, error) {
	tweet, err := u.tweetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tweet == nil {
		return nil, ErrTweetNotFound
	}

	return toTweetOutput(tweet), nil
}

func (u *detectionUsecase) ListTweets(ctx context.Context, limit, offset int) (*TweetListOutput, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	tweets, total, err := u.tweetRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	outputs := make([]*TweetOutput, len(tweets))
	for i, t := range tweets {
		outputs[i] = toTweetOutput(t)
	}

	return &TweetListOutput{
		Tweets:  outputs,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}, nil
}

func toTweetOutput(t *entity.Tweet) *TweetOutput {
	return &TweetOutput{
		ID:     t.ID,
		Author: t.Author,
		Text:   t.Text,
		Label:  t.Label,
	}
}
