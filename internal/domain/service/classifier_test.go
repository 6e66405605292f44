package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/BullyGuard/internal/domain/entity"
)

func TestSoftmax(t *testing.T) {
	t.Run("sums to one", func(t *testing.T) {
		probs := Softmax([]float64{2.5, -1.0})

		require.Len(t, probs, 2)
		assert.InDelta(t, 1.0, probs[0]+probs[1], 1e-9)
		assert.Greater(t, probs[0], probs[1])
	})

	t.Run("equal logits split evenly", func(t *testing.T) {
		probs := Softmax([]float64{3, 3})

		assert.InDelta(t, 0.5, probs[0], 1e-9)
		assert.InDelta(t, 0.5, probs[1], 1e-9)
	})

	t.Run("large logits do not overflow", func(t *testing.T) {
		probs := Softmax([]float64{1000, 999})

		assert.False(t, math.IsNaN(probs[0]))
		assert.InDelta(t, 1/(1+math.Exp(-1)), probs[0], 1e-9)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, Softmax(nil))
	})
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, 1, Argmax([]float64{0.2, 0.8}))
	assert.Equal(t, 0, Argmax([]float64{0.9, 0.1}))
	assert.Equal(t, 0, Argmax([]float64{0.5, 0.5}))
}

func TestRoundConfidence(t *testing.T) {
	assert.Equal(t, 0.731, RoundConfidence(0.7310585786))
	assert.Equal(t, 1.0, RoundConfidence(0.99996))
	assert.Equal(t, 0.5, RoundConfidence(0.5))
}

func TestDecide(t *testing.T) {
	labels := entity.Labels

	tests := []struct {
		name          string
		logits        []float64
		expectedLabel entity.Label
	}{
		{
			name:          "cyberbullying wins",
			logits:        []float64{-1.2, 2.3},
			expectedLabel: entity.LabelCyberbullying,
		},
		{
			name:          "not cyberbullying wins",
			logits:        []float64{4.1, -3.0},
			expectedLabel: entity.LabelNotCyberbullying,
		},
		{
			name:          "tie resolves to first label",
			logits:        []float64{0.7, 0.7},
			expectedLabel: entity.LabelNotCyberbullying,
		},
		{
			name:          "extreme margin",
			logits:        []float64{-50, 50},
			expectedLabel: entity.LabelCyberbullying,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Decide(tt.logits, labels)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedLabel, result.Label)
			assert.GreaterOrEqual(t, result.Confidence, 0.5)
			assert.LessOrEqual(t, result.Confidence, 1.0)
			assert.Equal(t, RoundConfidence(result.Confidence), result.Confidence)
		})
	}

	t.Run("logit count mismatch", func(t *testing.T) {
		result, err := Decide([]float64{0.1, 0.2, 0.3}, labels)

		assert.ErrorIs(t, err, ErrInferenceUnavailable)
		assert.Nil(t, result)
	})

	t.Run("no logits", func(t *testing.T) {
		_, err := Decide(nil, labels)

		assert.ErrorIs(t, err, ErrInferenceUnavailable)
	})

	t.Run("NaN logit", func(t *testing.T) {
		_, err := Decide([]float64{math.NaN(), 1}, labels)

		assert.ErrorIs(t, err, ErrInferenceUnavailable)
	})
}
