package client

import (
	"context"
	"fmt"

	"github.com/ressKim-io/BullyGuard/internal/domain/entity"
	"github.com/ressKim-io/BullyGuard/internal/domain/service"
)

// MLClassifier adapts MLClient to the Classifier interface. The label order
// comes from the artifact's id2label and never changes after construction.
type MLClassifier struct {
	client    *MLClient
	labels    []entity.Label
	maxLength int
}

// NewMLClassifier creates a new MLClassifier
func NewMLClassifier(client *MLClient, labels []entity.Label, maxLength int) *MLClassifier {
	return &MLClassifier{
		client:    client,
		labels:    append([]entity.Label(nil), labels...),
		maxLength: maxLength,
	}
}

// Classify runs softmax and argmax over the runtime's logits
func (c *MLClassifier) Classify(ctx context.Context, text string) (*service.ClassificationResult, error) {
	requestID := service.RequestIDFrom(ctx)

	resp, err := c.client.Logits(ctx, text, c.maxLength, requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInferenceUnavailable, err)
	}

	return service.Decide(resp.Logits, c.labels)
}
