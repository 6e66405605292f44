package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bullyguard",
		Name:      "predictions_total",
		Help:      "Predictions served, by label.",
	}, []string{"label"})

	predictionConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bullyguard",
		Name:      "prediction_confidence",
		Help:      "Confidence of the predicted label.",
		Buckets:   []float64{0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 0.99, 1},
	})
)

func observePrediction(label string, confidence float64) {
	predictionsTotal.WithLabelValues(label).Inc()
	predictionConfidence.Observe(confidence)
}
