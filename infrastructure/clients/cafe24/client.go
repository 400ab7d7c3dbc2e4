package cafe24

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/go-querystring/query"
	"review-enhancer/domain/apperror"
	"review-enhancer/domain/dto"
	"review-enhancer/domain/model"
	"review-enhancer/infrastructure/logger"
	"review-enhancer/infrastructure/utils"
)

const (
	DefaultMaxRetries = 3
	NoRetries         = -1
	// DefaultRateLimitWait applies when a 429 carries no usable wait header.
	DefaultRateLimitWait = 30 * time.Second

	headerAPIVersion = "X-Cafe24-Api-Version"
	headerCallRemain = "X-Cafe24-Call-Remain"
	headerCallLimit  = "X-Api-Call-Limit"

	maxResponseBody = 10 << 20
)

// TokenSource hands out bearer tokens and refreshes them on demand.
type TokenSource interface {
	GetValidToken(ctx context.Context) (*model.OAuthToken, error)
	RefreshToken(ctx context.Context) (*model.OAuthToken, error)
}

type Config struct {
	AdminURL   string
	APIVersion string
	// MaxRetries bounds rate-limit retries after the first attempt. Zero
	// means DefaultMaxRetries; NoRetries (or any negative value) disables them.
	MaxRetries int
	HTTPClient *http.Client
}

// Client talks to the Cafe24 admin REST API.
type Client struct {
	adminURL   string
	apiVersion string
	maxRetries int
	httpClient *http.Client
	tokens     TokenSource
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg Config, tokens TokenSource) *Client {
	c := &Client{
		adminURL:   cfg.AdminURL,
		apiVersion: cfg.APIVersion,
		maxRetries: cfg.MaxRetries,
		httpClient: cfg.HTTPClient,
		tokens:     tokens,
		sleep:      utils.Sleep,
	}
	switch {
	case c.maxRetries == 0:
		c.maxRetries = DefaultMaxRetries
	case c.maxRetries < 0:
		c.maxRetries = 0
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return c
}

// WithSleeper replaces the wait used between rate-limited attempts.
func (c *Client) WithSleeper(fn func(ctx context.Context, d time.Duration) error) *Client {
	c.sleep = fn
	return c
}

// Request performs one logical call. A 429 waits and retries, a 401 forces a
// token refresh and retries; both consume from the same retry budget.
func (c *Client) Request(ctx context.Context, method, endpoint string, body interface{}) (json.RawMessage, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	retriesRemaining := c.maxRetries
	for attempt := 1; ; attempt++ {
		token, err := c.tokens.GetValidToken(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := c.do(ctx, method, endpoint, payload, token.AccessToken)
		if err != nil {
			return nil, &apperror.APIRequestError{Method: method, Endpoint: endpoint, Err: err}
		}

		switch {
		case resp.status >= 200 && resp.status < 300:
			if limit := resp.header.Get(headerCallLimit); limit != "" {
				logger.GetLogger().WithField("call_limit", limit).Debug("cafe24 api call limit")
			}
			if len(bytes.TrimSpace(resp.body)) == 0 {
				return json.RawMessage("{}"), nil
			}
			return resp.body, nil

		case resp.status == http.StatusTooManyRequests && retriesRemaining > 0:
			wait := rateLimitWait(resp.header)
			logger.GetLogger().WithFields(map[string]interface{}{
				"endpoint": endpoint,
				"attempt":  attempt,
				"wait":     wait.String(),
			}).Warn("Rate limited by cafe24, waiting before retry")
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}

		case resp.status == http.StatusUnauthorized && retriesRemaining > 0:
			logger.GetLogger().WithFields(map[string]interface{}{
				"endpoint": endpoint,
				"attempt":  attempt,
			}).Info("Access token rejected, refreshing")
			if _, err := c.tokens.RefreshToken(ctx); err != nil {
				return nil, err
			}

		default:
			logger.GetLogger().WithFields(map[string]interface{}{
				"endpoint": endpoint,
				"method":   method,
				"status":   resp.status,
				"attempt":  attempt,
			}).Error("cafe24 api error")
			return nil, &apperror.APIRequestError{
				Method:     method,
				Endpoint:   endpoint,
				StatusCode: resp.status,
				Body:       string(resp.body),
			}
		}
		retriesRemaining--
	}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte, accessToken string) (*response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.adminURL+endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAPIVersion, c.apiVersion)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err != nil {
		return nil, err
	}
	return &response{status: res.StatusCode, header: res.Header, body: body}, nil
}

func encodeBody(body interface{}) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	default:
		return json.Marshal(b)
	}
}

// rateLimitWait reads X-Cafe24-Call-Remain, then Retry-After, as seconds.
func rateLimitWait(h http.Header) time.Duration {
	for _, name := range []string{headerCallRemain, "Retry-After"} {
		if n, err := strconv.Atoi(h.Get(name)); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return DefaultRateLimitWait
}

func withQuery(path string, params interface{}) (string, error) {
	v, err := query.Values(params)
	if err != nil {
		return "", err
	}
	if enc := v.Encode(); enc != "" {
		return path + "?" + enc, nil
	}
	return path, nil
}

func (c *Client) getList(ctx context.Context, path string, params interface{}) (json.RawMessage, error) {
	endpoint, err := withQuery(path, params)
	if err != nil {
		return nil, err
	}
	return c.Request(ctx, http.MethodGet, endpoint, nil)
}

func decodeField(raw json.RawMessage, field string, out interface{}) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode cafe24 response: %w", err)
	}
	v, ok := envelope[field]
	if !ok || string(v) == "null" {
		return nil
	}
	if err := json.Unmarshal(v, out); err != nil {
		return fmt.Errorf("decode cafe24 %s: %w", field, err)
	}
	return nil
}

func (c *Client) ListProducts(ctx context.Context, params dto.ProductListParams) (json.RawMessage, error) {
	return c.getList(ctx, "/products", params)
}

func (c *Client) GetProduct(ctx context.Context, productNo int) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, fmt.Sprintf("/products/%d", productNo), nil)
}

func (c *Client) ListBoards(ctx context.Context) ([]model.Board, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/boards", nil)
	if err != nil {
		return nil, err
	}
	var boards []model.Board
	if err := decodeField(raw, "boards", &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

func (c *Client) GetBoard(ctx context.Context, boardNo int) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, fmt.Sprintf("/boards/%d", boardNo), nil)
}

func (c *Client) ListArticles(ctx context.Context, boardNo int, params dto.ArticleListParams) ([]model.Review, error) {
	raw, err := c.getList(ctx, fmt.Sprintf("/boards/%d/articles", boardNo), params)
	if err != nil {
		return nil, err
	}
	var articles []model.Review
	if err := decodeField(raw, "articles", &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (c *Client) GetArticle(ctx context.Context, boardNo, articleNo int) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, fmt.Sprintf("/boards/%d/articles/%d", boardNo, articleNo), nil)
}

func (c *Client) CreateArticle(ctx context.Context, boardNo int, body json.RawMessage) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, fmt.Sprintf("/boards/%d/articles", boardNo), body)
}

func (c *Client) UpdateArticle(ctx context.Context, boardNo, articleNo int, body json.RawMessage) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPut, fmt.Sprintf("/boards/%d/articles/%d", boardNo, articleNo), body)
}

func (c *Client) DeleteArticle(ctx context.Context, boardNo, articleNo int) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodDelete, fmt.Sprintf("/boards/%d/articles/%d", boardNo, articleNo), nil)
}

func (c *Client) ListOrders(ctx context.Context, params dto.OrderListParams) (json.RawMessage, error) {
	return c.getList(ctx, "/orders", params)
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil)
}

func (c *Client) ListCustomers(ctx context.Context, params dto.CustomerListParams) (json.RawMessage, error) {
	return c.getList(ctx, "/customers", params)
}

func (c *Client) GetCustomer(ctx context.Context, memberID string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, "/customers/"+url.PathEscape(memberID), nil)
}

func (c *Client) ListScriptTags(ctx context.Context) ([]model.ScriptTag, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/scripttags", nil)
	if err != nil {
		return nil, err
	}
	var tags []model.ScriptTag
	if err := decodeField(raw, "scripttags", &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) CreateScriptTag(ctx context.Context, req dto.ScriptTagRequest) (*model.ScriptTag, error) {
	return c.writeScriptTag(ctx, http.MethodPost, "/scripttags", req)
}

func (c *Client) UpdateScriptTag(ctx context.Context, scriptNo string, req dto.ScriptTagRequest) (*model.ScriptTag, error) {
	return c.writeScriptTag(ctx, http.MethodPut, "/scripttags/"+url.PathEscape(scriptNo), req)
}

func (c *Client) writeScriptTag(ctx context.Context, method, endpoint string, req dto.ScriptTagRequest) (*model.ScriptTag, error) {
	if req.DisplayLocation == nil {
		req.DisplayLocation = []string{"PRODUCT_DETAIL"}
	}
	if req.ExcludePath == nil {
		req.ExcludePath = []string{}
	}
	if req.SkinNo == nil {
		req.SkinNo = []int{}
	}
	raw, err := c.Request(ctx, method, endpoint, dto.ScriptTagEnvelope{ShopNo: 1, Request: req})
	if err != nil {
		return nil, err
	}
	tag := &model.ScriptTag{}
	if err := decodeField(raw, "scripttag", tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (c *Client) DeleteScriptTag(ctx context.Context, scriptNo string) error {
	_, err := c.Request(ctx, http.MethodDelete, "/scripttags/"+url.PathEscape(scriptNo), nil)
	return err
}
