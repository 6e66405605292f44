package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/BullyGuard/internal/domain/repository"
	"github.com/ressKim-io/BullyGuard/internal/domain/service"
	"github.com/ressKim-io/BullyGuard/internal/usecase"
)

// MockDetectionUsecase is a mock implementation of DetectionUsecase
type MockDetectionUsecase struct {
	mock.Mock
}

func (m *MockDetectionUsecase) Predict(ctx context.Context, input *usecase.PredictInput) (*usecase.PredictOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PredictOutput), args.Error(1)
}

func (m *MockDetectionUsecase) Store(ctx context.Context, input *usecase.StoreInput) (*usecase.StoreOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.StoreOutput), args.Error(1)
}

func (m *MockDetectionUsecase) GetTweet(ctx context.Context, id string) (*usecase.TweetOutput, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TweetOutput), args.Error(1)
}

func (m *MockDetectionUsecase) ListTweets(ctx context.Context, limit, offset int) (*usecase.TweetListOutput, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TweetListOutput), args.Error(1)
}

func setupTestRouter(h *DetectionHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/predict", h.Predict)
	r.POST("/store", h.Store)
	r.GET("/tweets", h.ListTweets)
	r.GET("/tweets/:id", h.GetTweet)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

func TestPredict_Success(t *testing.T) {
	mockUC := new(MockDetectionUsecase)
	router := setupTestRouter(NewDetectionHandler(mockUC, false))

	mockUC.On("Predict", mock.Anything, mock.MatchedBy(func(input *usecase.PredictInput) bool {
		return input.Text == "you are a loser"
	})).Return(&usecase.PredictOutput{Label: "cyberbullying", Confidence: 0.973}, nil)

	w := doJSON(router, "POST", "/predict", `{"text": "you are a loser"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"label": "cyberbullying"}`, w.Body.String())
	mockUC.AssertExpectations(t)
}

func TestPredict_ExposeConfidence(t *testing.T) {
	mockUC := new(MockDetectionUsecase)
	router := setupTestRouter(NewDetectionHandler(mockUC, true))

	mockUC.On("Predict", mock.Anything, mock.Anything).
		Return(&usecase.PredictOutput{Label: "not_cyberbullying", Confidence: 0.993}, nil)

	w := doJSON(router, "POST", "/predict", `{"text": "have a nice day"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"label": "not_cyberbullying", "confidence": 0.993}`, w.Body.String())
}

func TestPredict_EmptyText(t *testing.T) {
	mockUC := new(MockDetectionUsecase)
	router := setupTestRouter(NewDetectionHandler(mockUC, false))

	mockUC.On("Predict", mock.Anything, mock.Anything).
		Return(nil, usecase.ErrEmptyText)

	w := doJSON(router, "POST", "/predict", `{"text": "   "}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Input text cannot be empty.", decodeDetail(t, w))
}

func TestPredict_InvalidJSON(t *testing.T) {
	mockUC := new(MockDetectionUsecase)
	router := setupTestRouter(NewDetectionHandler(mockUC, false))

	w := doJSON(router, "POST", "/predict", `{"text": 42}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decodeDetail(t, w))
	mockUC.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
}

func TestPredict_InferenceUnavailable(t *testing.T) {
	mockUC := new(MockDetectionUsecase)
	router := setupTestRouter(NewDetectionHandler(mockUC, false))

	mockUC.On("Predict", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: connection refused", service.ErrInferenceUnavailable))

	w := doJSON(router, "POST", "/predict", `{"text": "hello"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "inference unavailable", decodeDetail(t, w))
}

func TestStore_Success(t *testing.T) {
	mockUC := new(MockDetectionUsecase)
	router := setupTestRouter(NewDetectionHandler(mockUC, false))

	mockUC.On("Store", mock.Anything, mock.MatchedBy(func(input *usecase.StoreInput) bool {
		return *input.ID == "t1" && *input.Author == "alice" && *input.Label == "cyberbullying"
	})).Return(&usecase.StoreOutput{Status: "stored"}, nil)

	w := doJSON(router, "POST", "/store", `{"id":"t1","author":"alice","text":"you are dumb","label":"cyberbullying"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "stored"}`, w.Body.String())
	mockUC.AssertExpectations(t)
}

func TestStore_EmptyStringsAccepted(t *testing.T) {
	mockUC := new(MockDetectionUsecase)
	router := setupTestRouter(NewDetectionHandler(mockUC, false))

	mockUC.On("Store", mock.Anything, mock.Anything).
		Return(&usecase.StoreOutput{Status: "stored"}, nil)

	w := doJSON(router, "POST", "/store", `{"id":"t2","author":"","text":"","label":""}`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStore_MissingField(t *testing.T) {
	mockUC := new(MockDetectionUsecase)
	router := setupTestRouter(NewDetectionHandler(mockUC, false))

	w := doJSON(router, "POST", "/store", `{"id":"t1","author":"alice","text":"hi"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decodeDetail(t, w))
	mockUC.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
}

func TestStore_StorageFailure(t *testing.T) {
	mockUC := new(MockDetectionUsecase)
	router := setupTestRouter(NewDetectionHandler(mockUC, false))

	mockUC.On("Store", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: %v", repository.ErrStorage, "connection reset by peer"))

	w := doJSON(router, "POST", "/store", `{"id":"t1","author":"alice","text":"hi","label":"not_cyberbullying"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "connection reset by peer", decodeDetail(t, w))
}

func TestGetTweet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockUC := new(MockDetectionUsecase)
		router := setupTestRouter(NewDetectionHandler(mockUC, false))

		mockUC.On("GetTweet", mock.Anything, "t1").Return(&usecase.TweetOutput{
			ID: "t1", Author: "alice", Text: "hi", Label: "not_cyberbullying",
		}, nil)

		w := doJSON(router, "GET", "/tweets/t1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"t1","author":"alice","text":"hi","label":"not_cyberbullying"}`, w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		mockUC := new(MockDetectionUsecase)
		router := setupTestRouter(NewDetectionHandler(mockUC, false))

		mockUC.On("GetTweet", mock.Anything, "missing").Return(nil, usecase.ErrTweetNotFound)

		w := doJSON(router, "GET", "/tweets/missing", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "tweet not found", decodeDetail(t, w))
	})
}

func TestListTweets(t *testing.T) {
	t.Run("passes clamped pagination", func(t *testing.T) {
		mockUC := new(MockDetectionUsecase)
		router := setupTestRouter(NewDetectionHandler(mockUC, false))

		mockUC.On("ListTweets", mock.Anything, MaxLimit, 5).Return(&usecase.TweetListOutput{
			Tweets: []*usecase.TweetOutput{{ID: "t1"}},
			Total:  6,
			Limit:  MaxLimit,
			Offset: 5,
		}, nil)

		w := doJSON(router, "GET", "/tweets?limit=1000&offset=5", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var out usecase.TweetListOutput
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Len(t, out.Tweets, 1)
		assert.Equal(t, int64(6), out.Total)
		mockUC.AssertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		mockUC := new(MockDetectionUsecase)
		router := setupTestRouter(NewDetectionHandler(mockUC, false))

		mockUC.On("ListTweets", mock.Anything, DefaultLimit, DefaultOffset).
			Return(nil, fmt.Errorf("%w: %v", repository.ErrStorage, "timeout"))

		w := doJSON(router, "GET", "/tweets", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "timeout", decodeDetail(t, w))
	})
}
