package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ressKim-io/BullyGuard/internal/domain/entity"
)

// ErrInferenceUnavailable is returned when the model cannot produce a result
var ErrInferenceUnavailable = errors.New("inference unavailable")

// ClassificationResult represents the result of text classification
type ClassificationResult struct {
	Label      entity.Label `json:"label"`
	Confidence float64      `json:"confidence"`
}

// Classifier defines the interface for text classification
type Classifier interface {
	// Classify classifies a single text
	Classify(ctx context.Context, text string) (*ClassificationResult, error)
}

// Softmax normalizes logits into a probability distribution
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}

	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(l - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// Argmax returns the index of the largest value; ties keep the lowest index
func Argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// RoundConfidence rounds a probability to 3 decimal places
func RoundConfidence(p float64) float64 {
	return math.Round(p*1000) / 1000
}

// Decide turns raw logits into a result using the id2label mapping.
// The mapping index must match the logit position.
func Decide(logits []float64, labels []entity.Label) (*ClassificationResult, error) {
	if len(logits) == 0 || len(logits) != len(labels) {
		return nil, fmt.Errorf("%w: got %d logits for %d labels", ErrInferenceUnavailable, len(logits), len(labels))
	}
	for _, l := range logits {
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return nil, fmt.Errorf("%w: non-finite logit", ErrInferenceUnavailable)
		}
	}

	probs := Softmax(logits)
	idx := Argmax(probs)

	return &ClassificationResult{
		Label:      labels[idx],
		Confidence: RoundConfidence(probs[idx]),
	}, nil
}
