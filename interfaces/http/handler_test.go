package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"review-enhancer/domain/apperror"
	"review-enhancer/domain/dto"
	"review-enhancer/domain/model"
	"review-enhancer/infrastructure/utils"
	handler "review-enhancer/interfaces/http"
	"review-enhancer/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no token", apperror.ErrNoToken, http.StatusUnauthorized},
		{"no refresh token", apperror.ErrNoRefreshToken, http.StatusUnauthorized},
		{"refresh failed", &apperror.TokenRefreshError{Detail: "invalid_grant"}, http.StatusUnauthorized},
		{"exchange failed", &apperror.CodeExchangeError{Description: "bad code"}, http.StatusBadRequest},
		{"invalid state", apperror.ErrInvalidState, http.StatusBadRequest},
		{"no board", apperror.ErrReviewBoardNotFound, http.StatusServiceUnavailable},
		{"upstream 404", &apperror.APIRequestError{StatusCode: 404}, http.StatusNotFound},
		{"upstream 422", &apperror.APIRequestError{StatusCode: 422}, http.StatusUnprocessableEntity},
		{"upstream 401", &apperror.APIRequestError{StatusCode: 401}, http.StatusBadGateway},
		{"upstream 429", &apperror.APIRequestError{StatusCode: 429}, http.StatusBadGateway},
		{"upstream 503", &apperror.APIRequestError{StatusCode: 503}, http.StatusBadGateway},
		{"network", &apperror.APIRequestError{Err: errors.New("dial tcp")}, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handler.StatusFor(tt.err))
		})
	}
}

func reviewRouter(uc *MockReviewUsecase) *gin.Engine {
	h := handler.NewReviewHandler(uc)
	r := gin.New()
	r.GET("/api/products/:productNo/reviews", h.GetProductReviews)
	r.GET("/api/reviews", h.GetAllReviews)
	r.POST("/api/reviews", h.CreateReview)
	r.DELETE("/api/reviews/:articleNo", h.DeleteReview)
	return r
}

func TestGetProductReviews_QueryAndEnvelope(t *testing.T) {
	uc := new(MockReviewUsecase)
	stats := model.ReviewStats{Average: 4.5, Total: 2, Distribution: model.RatingCounts{5: 1, 4: 1}, Percentage: model.RatingCounts{5: 50, 4: 50}}
	uc.On("GetProductReviews", mock.Anything, 12, dto.ReviewQuery{SortBy: "rating_high", Limit: 5, Offset: 10, PhotoOnly: true}).
		Return(&model.ReviewPage{Reviews: []model.Review{{ArticleNo: 1, Rating: 5}}, Stats: &stats, Total: 2, Page: model.Page{Limit: 5, Offset: 10}}, nil)

	w := serve(reviewRouter(uc), http.MethodGet, "/api/products/12/reviews?sort=rating_high&limit=5&offset=10&photoOnly=true", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["total"])
	assert.Equal(t, map[string]interface{}{"limit": 5.0, "offset": 10.0, "hasMore": false}, data["page"])
	dist := data["stats"].(map[string]interface{})["distribution"].(map[string]interface{})
	assert.Equal(t, 1.0, dist["5"])
	assert.Equal(t, 0.0, dist["1"])
}

func TestGetProductReviews_InvalidProduct(t *testing.T) {
	uc := new(MockReviewUsecase)
	w := serve(reviewRouter(uc), http.MethodGet, "/api/products/abc/reviews", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "GetProductReviews", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAllReviews_ErrorMapping(t *testing.T) {
	uc := new(MockReviewUsecase)
	uc.On("GetAllReviews", mock.Anything, dto.ReviewQuery{SortBy: "latest"}).Return(nil, apperror.ErrNoToken)

	w := serve(reviewRouter(uc), http.MethodGet, "/api/reviews?sortBy=latest", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "/auth/start")
}

func TestCreateReview_UpstreamErrorBody(t *testing.T) {
	uc := new(MockReviewUsecase)
	uc.On("CreateReview", mock.Anything, json.RawMessage(`{"request":{}}`)).
		Return(nil, &apperror.APIRequestError{Method: "POST", Endpoint: "/boards/4/articles", StatusCode: 422, Body: `{"error":{"code":422,"message":"title is required"}}`})

	w := serve(reviewRouter(uc), http.MethodPost, "/api/reviews", `{"request":{}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	detail := body["error"].(map[string]interface{})["error"].(map[string]interface{})
	assert.Equal(t, "title is required", detail["message"])
}

func TestCreateReview_RejectsInvalidJSON(t *testing.T) {
	uc := new(MockReviewUsecase)
	w := serve(reviewRouter(uc), http.MethodPost, "/api/reviews", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteReview(t *testing.T) {
	uc := new(MockReviewUsecase)
	uc.On("DeleteReview", mock.Anything, 9).Return(json.RawMessage(`{"article":{"article_no":9}}`), nil)

	w := serve(reviewRouter(uc), http.MethodDelete, "/api/reviews/9", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"article":{"article_no":9}}}`, w.Body.String())
}

func TestWebhookInstall(t *testing.T) {
	uc := new(MockAppUsecase)
	uc.On("Install", mock.Anything, dto.WebhookRequest{MallID: "demo", ShopNo: 1}).
		Return(&dto.InstallResult{MallID: "demo", AutoInstallation: false, Error: "forbidden"}, nil)
	h := handler.NewWebhookHandler(uc)
	r := gin.New()
	r.POST("/webhook/install", h.Install)

	w := serve(r, http.MethodPost, "/webhook/install", `{"mall_id":"demo","shop_no":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, false, data["auto_installation"])
	assert.Equal(t, "forbidden", data["error"])

	w = serve(r, http.MethodPost, "/webhook/install", `{"shop_no":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsUpdate_Validation(t *testing.T) {
	uc := new(MockAppUsecase)
	h := handler.NewSettingsHandler(uc)
	r := gin.New()
	r.PUT("/api/settings/:mallId", h.Update)

	for _, body := range []string{`{"photoGalleryCount":3}`, `{"photoGalleryCount":21}`, `{"mainColor":"red"}`, `{"mainColor":"#12345"}`} {
		w := serve(r, http.MethodPut, "/api/settings/demo", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	uc.AssertNotCalled(t, "UpdateSettings", mock.Anything, mock.Anything, mock.Anything)

	count := 12
	uc.On("UpdateSettings", mock.Anything, "demo", dto.SettingsUpdateRequest{PhotoGalleryCount: &count}).
		Return(&model.MallSettings{MallID: "demo", PhotoGalleryCount: 12}, nil)
	w := serve(r, http.MethodPut, "/api/settings/demo", `{"photoGalleryCount":12}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func authRouter(tm *MockTokenManager, states *usecase.StateStore) *gin.Engine {
	h := handler.NewAuthHandler(tm, states, "secret", &utils.FixedClock{T: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)})
	r := gin.New()
	r.GET("/auth/start", h.Start)
	r.GET("/auth/callback", h.Callback)
	r.GET("/auth/status", h.Status)
	return r
}

func TestAuthFlow(t *testing.T) {
	tm := new(MockTokenManager)
	states := usecase.NewStateStore(nil)
	r := authRouter(tm, states)

	var issued string
	tm.On("AuthCodeURL", mock.Anything).Run(func(args mock.Arguments) {
		issued = args.String(0)
	}).Return("https://demo.cafe24api.com/api/v2/oauth/authorize?state=x")

	w := serve(r, http.MethodGet, "/auth/start", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "oauth/authorize")
	require.NotEmpty(t, issued)

	tm.On("ExchangeCodeForToken", mock.Anything, "code-1").
		Return(&model.OAuthToken{MallID: "demo", Scopes: []string{"mall.read_product"}}, nil).Once()

	w = serve(r, http.MethodGet, "/auth/callback?code=code-1&state=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodGet, "/auth/callback?code=code-1&state="+issued, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "demo", data["mall_id"])
	assert.NotEmpty(t, data["admin_token"])
}

func TestAuthCallback_ExchangeFailure(t *testing.T) {
	tm := new(MockTokenManager)
	states := usecase.NewStateStore(nil)
	state, err := states.Issue()
	require.NoError(t, err)
	tm.On("ExchangeCodeForToken", mock.Anything, "bad").Return(nil, &apperror.CodeExchangeError{Description: "Invalid authorization code"})

	w := serve(authRouter(tm, states), http.MethodGet, "/auth/callback?code=bad&state="+state, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid authorization code")
}

func TestAuthStatus(t *testing.T) {
	tm := new(MockTokenManager)
	tm.On("GetValidToken", mock.Anything).Return(nil, apperror.ErrNoToken).Once()
	tm.On("GetValidToken", mock.Anything).Return(&model.OAuthToken{MallID: "demo", ExpiresAt: time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC)}, nil).Once()
	r := authRouter(tm, usecase.NewStateStore(nil))

	w := serve(r, http.MethodGet, "/auth/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["authenticated"])

	w = serve(r, http.MethodGet, "/auth/status", "")
	body := decode(t, w)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "demo", body["mall_id"])
	assert.NotContains(t, w.Body.String(), "access_token")
}

func TestHealth(t *testing.T) {
	h := handler.NewHealthHandler("test", "1.0.0", &utils.FixedClock{T: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)})
	r := gin.New()
	r.GET("/health", h.Health)

	w := serve(r, http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status":"ok","timestamp":"2025-06-01T00:00:00Z","environment":"test","version":"1.0.0"}`, w.Body.String())
}
