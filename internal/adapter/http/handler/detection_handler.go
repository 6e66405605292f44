package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/BullyGuard/internal/usecase"
)

// PredictResponse is the body of a successful POST /predict
type PredictResponse struct {
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// DetectionHandler handles prediction and labeled-tweet requests
type DetectionHandler struct {
	detectionUC      usecase.DetectionUsecase
	exposeConfidence bool
}

// NewDetectionHandler creates a new detection handler.
// exposeConfidence adds the model confidence to /predict responses.
func NewDetectionHandler(detectionUC usecase.DetectionUsecase, exposeConfidence bool) *DetectionHandler {
	return &DetectionHandler{
		detectionUC:      detectionUC,
		exposeConfidence: exposeConfidence,
	}
}

// Predict handles POST /predict
func (h *DetectionHandler) Predict(c *gin.Context) {
	var input usecase.PredictInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.detectionUC.Predict(c.Request.Context(), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	observePrediction(output.Label, output.Confidence)

	resp := PredictResponse{Label: output.Label}
	if h.exposeConfidence {
		confidence := output.Confidence
		resp.Confidence = &confidence
	}
	respondSuccess(c, http.StatusOK, resp)
}

// Store handles POST /store
func (h *DetectionHandler) Store(c *gin.Context) {
	var input usecase.StoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.detectionUC.Store(c.Request.Context(), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// GetTweet handles GET /tweets/:id
func (h *DetectionHandler) GetTweet(c *gin.Context) {
	id, err := ExtractIDParam(c, "id")
	if err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.detectionUC.GetTweet(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// ListTweets handles GET /tweets
func (h *DetectionHandler) ListTweets(c *gin.Context) {
	pagination := ParsePagination(c)

	output, err := h.detectionUC.ListTweets(c.Request.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}
