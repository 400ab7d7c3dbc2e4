package cafe24

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"review-enhancer/domain/apperror"
	"review-enhancer/domain/dto"
	"review-enhancer/domain/model"
)

type MockTokenSource struct {
	mock.Mock
}

func (m *MockTokenSource) GetValidToken(ctx context.Context) (*model.OAuthToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OAuthToken), args.Error(1)
}

func (m *MockTokenSource) RefreshToken(ctx context.Context) (*model.OAuthToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OAuthToken), args.Error(1)
}

type recordedRequest struct {
	method string
	uri    string
	header http.Header
	body   string
}

// scriptedServer replies with the given responses in order, repeating the last.
type scriptedServer struct {
	mu        sync.Mutex
	responses []func(w http.ResponseWriter)
	requests  []recordedRequest
}

func (s *scriptedServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	idx := len(s.requests)
	s.requests = append(s.requests, recordedRequest{method: r.Method, uri: r.URL.RequestURI(), header: r.Header.Clone(), body: string(body)})
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	respond := s.responses[idx]
	s.mu.Unlock()
	respond(w)
}

func status(code int, body string, headers ...string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		for i := 0; i+1 < len(headers); i += 2 {
			w.Header().Set(headers[i], headers[i+1])
		}
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}
}

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return nil
}

func newTestClient(t *testing.T, srv *scriptedServer) (*Client, *MockTokenSource, *sleepRecorder) {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	tokens := new(MockTokenSource)
	tokens.On("GetValidToken", mock.Anything).Return(&model.OAuthToken{MallID: "demo", AccessToken: "access-1"}, nil)

	sleeper := &sleepRecorder{}
	client := NewClient(Config{AdminURL: ts.URL + "/api/v2/admin", APIVersion: "2025-06-01"}, tokens).WithSleeper(sleeper.sleep)
	return client, tokens, sleeper
}

func TestRequest_Headers(t *testing.T) {
	srv := &scriptedServer{responses: []func(http.ResponseWriter){status(200, `{"products":[]}`, "X-Api-Call-Limit", "1/40")}}
	client, _, _ := newTestClient(t, srv)

	raw, err := client.Request(context.Background(), http.MethodGet, "/products", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[]}`, string(raw))

	require.Len(t, srv.requests, 1)
	req := srv.requests[0]
	assert.Equal(t, "/api/v2/admin/products", req.uri)
	assert.Equal(t, "Bearer access-1", req.header.Get("Authorization"))
	assert.Equal(t, "2025-06-01", req.header.Get("X-Cafe24-Api-Version"))
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))
}

func TestRequest_RateLimitedThreeTimesThenSucceeds(t *testing.T) {
	srv := &scriptedServer{responses: []func(http.ResponseWriter){
		status(429, `{"error":"too many"}`, "X-Cafe24-Call-Remain", "2"),
		status(429, `{"error":"too many"}`),
		status(429, `{"error":"too many"}`, "Retry-After", "5"),
		status(200, `{"ok":true}`),
	}}
	client, _, sleeper := newTestClient(t, srv)

	raw, err := client.Request(context.Background(), http.MethodGet, "/boards", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Len(t, srv.requests, 4)
	assert.Equal(t, []time.Duration{2 * time.Second, 30 * time.Second, 5 * time.Second}, sleeper.waits)
}

func TestRequest_RateLimitExhausted(t *testing.T) {
	srv := &scriptedServer{responses: []func(http.ResponseWriter){status(429, `{"error":"too many"}`)}}
	client, _, sleeper := newTestClient(t, srv)

	_, err := client.Request(context.Background(), http.MethodGet, "/boards", nil)
	var apiErr *apperror.APIRequestError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Len(t, srv.requests, 4)
	assert.Len(t, sleeper.waits, 3)
}

func TestNewClient_RetryBudget(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		wantCalls  int
	}{
		{"zero uses default", 0, DefaultMaxRetries + 1},
		{"explicit budget", 1, 2},
		{"retries disabled", NoRetries, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := &scriptedServer{responses: []func(http.ResponseWriter){status(429, `{}`)}}
			ts := httptest.NewServer(srv)
			defer ts.Close()
			tokens := new(MockTokenSource)
			tokens.On("GetValidToken", mock.Anything).Return(&model.OAuthToken{AccessToken: "access-1"}, nil)
			sleeper := &sleepRecorder{}
			client := NewClient(Config{AdminURL: ts.URL, MaxRetries: tt.maxRetries}, tokens).WithSleeper(sleeper.sleep)

			_, err := client.Request(context.Background(), http.MethodGet, "/boards", nil)
			var apiErr *apperror.APIRequestError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
			assert.Len(t, srv.requests, tt.wantCalls)
			assert.Len(t, sleeper.waits, tt.wantCalls-1)
		})
	}
}

func TestRequest_UnauthorizedRefreshesAndReplaysBody(t *testing.T) {
	srv := &scriptedServer{responses: []func(http.ResponseWriter){
		status(401, `{"error":"invalid_token"}`),
		status(201, `{"article":{"article_no":9}}`),
	}}
	client, tokens, _ := newTestClient(t, srv)
	tokens.On("RefreshToken", mock.Anything).Return(&model.OAuthToken{AccessToken: "access-2"}, nil).Once()

	body := json.RawMessage(`{"shop_no":1,"requests":[{"title":"great"}]}`)
	raw, err := client.CreateArticle(context.Background(), 4, body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"article":{"article_no":9}}`, string(raw))

	require.Len(t, srv.requests, 2)
	assert.Equal(t, srv.requests[0].body, srv.requests[1].body)
	assert.Equal(t, http.MethodPost, srv.requests[1].method)
	assert.Equal(t, "/api/v2/admin/boards/4/articles", srv.requests[1].uri)
	tokens.AssertNumberOfCalls(t, "RefreshToken", 1)
}

func TestRequest_UnauthorizedRefreshFails(t *testing.T) {
	srv := &scriptedServer{responses: []func(http.ResponseWriter){status(401, `{}`)}}
	client, tokens, _ := newTestClient(t, srv)
	refreshErr := &apperror.TokenRefreshError{Detail: "invalid_grant"}
	tokens.On("RefreshToken", mock.Anything).Return(nil, refreshErr).Once()

	_, err := client.Request(context.Background(), http.MethodGet, "/products", nil)
	var target *apperror.TokenRefreshError
	require.ErrorAs(t, err, &target)
	assert.Len(t, srv.requests, 1)
}

func TestRequest_ServerErrorNotRetried(t *testing.T) {
	srv := &scriptedServer{responses: []func(http.ResponseWriter){status(500, `{"error":{"message":"boom"}}`)}}
	client, _, sleeper := newTestClient(t, srv)

	_, err := client.Request(context.Background(), http.MethodGet, "/products", nil)
	var apiErr *apperror.APIRequestError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "boom")
	assert.Len(t, srv.requests, 1)
	assert.Empty(t, sleeper.waits)
}

func TestRequest_NoToken(t *testing.T) {
	tokens := new(MockTokenSource)
	tokens.On("GetValidToken", mock.Anything).Return(nil, apperror.ErrNoToken)
	client := NewClient(Config{AdminURL: "http://127.0.0.1:0"}, tokens)

	_, err := client.Request(context.Background(), http.MethodGet, "/products", nil)
	assert.ErrorIs(t, err, apperror.ErrNoToken)
}

func TestRequest_WaitCancelled(t *testing.T) {
	srv := &scriptedServer{responses: []func(http.ResponseWriter){status(429, `{}`)}}
	client, _, _ := newTestClient(t, srv)
	client.WithSleeper(func(ctx context.Context, d time.Duration) error { return context.Canceled })

	_, err := client.Request(context.Background(), http.MethodGet, "/products", nil)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, srv.requests, 1)
}

func TestListArticles_QueryAndDecode(t *testing.T) {
	srv := &scriptedServer{responses: []func(http.ResponseWriter){status(200, `{"articles":[
		{"article_no":1,"rating":5,"created_date":"2025-05-01T10:00:00+09:00","hit":3,"reply_count":1,"images":["https://img/1.jpg"]},
		{"article_no":2,"rating":4,"created_date":"2025-05-02T10:00:00+09:00","images":[{"url":"https://img/2.jpg"}]}
	]}`)}}
	client, _, _ := newTestClient(t, srv)

	articles, err := client.ListArticles(context.Background(), 4, dto.ArticleListParams{ProductNo: 10, Limit: 100})
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "https://img/1.jpg", articles[0].Images[0].URL)
	assert.Equal(t, "https://img/2.jpg", articles[1].Images[0].URL)
	assert.Equal(t, "/api/v2/admin/boards/4/articles?limit=100&product_no=10", srv.requests[0].uri)
}

func TestListBoards(t *testing.T) {
	srv := &scriptedServer{responses: []func(http.ResponseWriter){status(200, `{"boards":[{"board_no":1,"board_type":"notice"},{"board_no":4,"board_type":"review"}]}`)}}
	client, _, _ := newTestClient(t, srv)

	boards, err := client.ListBoards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Board{{BoardNo: 1, BoardType: "notice"}, {BoardNo: 4, BoardType: "review"}}, boards)
}

func TestCreateScriptTag_Envelope(t *testing.T) {
	srv := &scriptedServer{responses: []func(http.ResponseWriter){status(201, `{"scripttag":{"script_no":1527128695613925,"src":"https://cdn/review-enhancer.js"}}`)}}
	client, _, _ := newTestClient(t, srv)

	tag, err := client.CreateScriptTag(context.Background(), dto.ScriptTagRequest{Src: "https://cdn/review-enhancer.js"})
	require.NoError(t, err)
	assert.Equal(t, "1527128695613925", tag.ScriptNo)
	assert.JSONEq(t, `{"shop_no":1,"request":{"src":"https://cdn/review-enhancer.js","display_location":["PRODUCT_DETAIL"],"exclude_path":[],"skin_no":[]}}`, srv.requests[0].body)
}

func TestDeleteScriptTag(t *testing.T) {
	srv := &scriptedServer{responses: []func(http.ResponseWriter){status(200, ``)}}
	client, _, _ := newTestClient(t, srv)

	require.NoError(t, client.DeleteScriptTag(context.Background(), "77"))
	assert.Equal(t, http.MethodDelete, srv.requests[0].method)
	assert.Equal(t, "/api/v2/admin/scripttags/77", srv.requests[0].uri)
}

func TestListProducts_Query(t *testing.T) {
	srv := &scriptedServer{responses: []func(http.ResponseWriter){status(200, `{"products":[]}`)}}
	client, _, _ := newTestClient(t, srv)

	_, err := client.ListProducts(context.Background(), dto.ProductListParams{Limit: 10, Display: "T"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/admin/products?display=T&limit=10", srv.requests[0].uri)
}
