package videodata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/songpeaks/api/types"
	"github.com/killallgit/songpeaks/internal/models"
	svc "github.com/killallgit/songpeaks/internal/services/videodata"
	apperrors "github.com/killallgit/songpeaks/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVideoDataService struct {
	mock.Mock
}

func (m *MockVideoDataService) Fetch(ctx context.Context, videoID string) (*models.VideoData, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VideoData), args.Error(1)
}

func newRouter(deps *types.Dependencies) *gin.Engine {
	router := gin.New()
	RegisterRoutes(router.Group("/api"), deps)
	return router
}

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	duration := 212.0
	warning := "Self-hosted API produced warnings."
	found := &models.VideoData{
		Title:                 "Song",
		ThumbnailURL:          "https://i.ytimg.com/vi/dQw4w9WgXcQ/mqdefault.jpg",
		SuggestedChunks:       []models.CandidateRange{{StartSeconds: 40, EndSeconds: 55}},
		DurationSeconds:       &duration,
		OperationalAPIWarning: &warning,
	}

	tests := []struct {
		name           string
		query          string
		setupMock      func(m *MockVideoDataService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:  "success",
			query: "?videoId=dQw4w9WgXcQ",
			setupMock: func(m *MockVideoDataService) {
				m.On("Fetch", mock.Anything, "dQw4w9WgXcQ").Return(found, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "missing id",
			query: "",
			setupMock: func(m *MockVideoDataService) {
				m.On("Fetch", mock.Anything, "").Return(nil, apperrors.New(apperrors.ErrCodeMissingField, svc.MsgVideoIDRequired))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Video ID required",
		},
		{
			name:  "not found",
			query: "?videoId=aaaaaaaaaaa",
			setupMock: func(m *MockVideoDataService) {
				m.On("Fetch", mock.Anything, "aaaaaaaaaaa").Return(nil, apperrors.New(apperrors.ErrCodeNotFound, svc.MsgVideoNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Video not found",
		},
		{
			name:  "config error",
			query: "?videoId=aaaaaaaaaaa",
			setupMock: func(m *MockVideoDataService) {
				m.On("Fetch", mock.Anything, "aaaaaaaaaaa").Return(nil, apperrors.New(apperrors.ErrCodeConfigRequired, svc.MsgMissingHeatmapURL))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  svc.MsgMissingHeatmapURL,
		},
		{
			name:  "upstream error",
			query: "?videoId=aaaaaaaaaaa",
			setupMock: func(m *MockVideoDataService) {
				m.On("Fetch", mock.Anything, "aaaaaaaaaaa").Return(nil, apperrors.New(apperrors.ErrCodeExternalService, "Server error: timeout"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "Server error: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockVideoDataService)
			tt.setupMock(service)
			router := newRouter(&types.Dependencies{VideoData: service})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/getYoutubeData"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				var body types.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedError, body.Error)
			} else {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "Song", body["title"])
				assert.Equal(t, 212.0, body["durationSeconds"])
				assert.Equal(t, warning, body["operationalApiWarning"])
				assert.Len(t, body["suggestedChunks"], 1)
			}
			service.AssertExpectations(t)
		})
	}
}

func TestGet_NoService(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	newRouter(&types.Dependencies{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/getYoutubeData?videoId=x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server config error: Missing operational API URL"}`, w.Body.String())
}
