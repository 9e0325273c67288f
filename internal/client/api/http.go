package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/apetrukhin/blogctl/internal/client/models"
	"github.com/apetrukhin/blogctl/internal/logging"
)

// HTTPClient implements Client over JSON/HTTP against a fixed base URL.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient builds a client for the given base URL, e.g.
// "http://localhost:8080". The passed http.Client controls timeouts.
func NewHTTPClient(baseURL string, httpClient *http.Client, log logging.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{baseURL: baseURL, http: httpClient, log: log}
}

// do issues one request and decodes a JSON response into out (unless out is
// nil or the server answered 204). Any non-2xx status becomes an *Error.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := NewError(resp.StatusCode, extractError(resp.Body), http.StatusText(resp.StatusCode))
		c.log.Warn(ctx, "api error", "method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// extractError pulls the conventional {"error": "..."} message out of a
// failure body. Parse problems are swallowed so the caller falls back to the
// status text.
func extractError(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error
}

// normalizeUser fixes up optional fields so the rest of the process never
// sees a nil contact list.
func normalizeUser(u *models.User) {
	if u.Contacts == nil {
		u.Contacts = []string{}
	}
}

func normalizeArticle(a *models.Article) {
	if a.Author != nil {
		normalizeUser(a.Author)
	}
}

func (c *HTTPClient) Register(ctx context.Context, payload models.RegisterPayload) (models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", payload, &resp); err != nil {
		return models.AuthResponse{}, err
	}
	normalizeUser(&resp.User)
	return resp, nil
}

func (c *HTTPClient) Login(ctx context.Context, payload models.LoginPayload) (models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", payload, &resp); err != nil {
		return models.AuthResponse{}, err
	}
	normalizeUser(&resp.User)
	return resp, nil
}

func (c *HTTPClient) FetchProfile(ctx context.Context, token string) (models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &resp); err != nil {
		return models.User{}, err
	}
	normalizeUser(&resp.User)
	return resp.User, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, payload models.ProfileUpdatePayload) (models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/auth/me", token, payload, &resp); err != nil {
		return models.User{}, err
	}
	normalizeUser(&resp.User)
	return resp.User, nil
}

func (c *HTTPClient) ListArticles(ctx context.Context, token string) ([]models.Article, error) {
	var articles []models.Article
	if err := c.do(ctx, http.MethodGet, "/api/articles", token, nil, &articles); err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []models.Article{}
	}
	for i := range articles {
		normalizeArticle(&articles[i])
	}
	return articles, nil
}

func (c *HTTPClient) GetArticle(ctx context.Context, id int64, token string) (models.Article, error) {
	var article models.Article
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/articles/%d", id), token, nil, &article); err != nil {
		return models.Article{}, err
	}
	normalizeArticle(&article)
	return article, nil
}

func (c *HTTPClient) GetArticlePreview(ctx context.Context, id int64, token string) (models.Article, error) {
	var article models.Article
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/articles/%d?preview=true", id), token, nil, &article); err != nil {
		return models.Article{}, err
	}
	normalizeArticle(&article)
	return article, nil
}

func (c *HTTPClient) CreateArticle(ctx context.Context, token string, payload models.ArticlePayload) (models.Article, error) {
	var article models.Article
	if err := c.do(ctx, http.MethodPost, "/api/articles", token, payload, &article); err != nil {
		return models.Article{}, err
	}
	normalizeArticle(&article)
	return article, nil
}

func (c *HTTPClient) UpdateArticle(ctx context.Context, id int64, token string, payload models.ArticlePayload) (models.Article, error) {
	var article models.Article
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/articles/%d", id), token, payload, &article); err != nil {
		return models.Article{}, err
	}
	normalizeArticle(&article)
	return article, nil
}

func (c *HTTPClient) DeleteArticle(ctx context.Context, id int64, token string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/articles/%d", id), token, nil, nil)
}

func (c *HTTPClient) ToggleLike(ctx context.Context, id int64, token string, like bool) (models.LikeResponse, error) {
	body := struct {
		Like bool `json:"like"`
	}{Like: like}

	var resp models.LikeResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/articles/%d/like", id), token, body, &resp); err != nil {
		return models.LikeResponse{}, err
	}
	normalizeArticle(&resp.Article)
	return resp, nil
}
