package bookmarks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/yewo0on/HobbyFind/internal/models"
)

// APIClient is the bookmark service surface the Syncer drives
type APIClient interface {
	ListBookmarks(ctx context.Context) ([]string, error)
	AddBookmark(ctx context.Context, hobbyID string) error
	RemoveBookmark(ctx context.Context, hobbyID string) error
}

// APIError is a non-2xx response from the service, carrying the server's
// error message. Transport failures are returned as ordinary errors instead.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Summary is the my-page aggregation returned by the service
type Summary struct {
	Email   string                   `json:"email"`
	Hobbies []models.Hobby           `json:"hobbies"`
	Summary []models.CategorySummary `json:"summary"`
}

// HTTPClient implements APIClient against the HobbyFind HTTP API. Safe for
// concurrent use; a re-authentication may race with in-flight toggles.
type HTTPClient struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	token string
}

// NewHTTPClient creates an HTTPClient for the given server base URL
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

// SetToken sets the session token sent as a bearer header
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// SignIn exchanges credentials for a session token and stores it on the
// client
func (c *HTTPClient) SignIn(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signin", body, &out); err != nil {
		return err
	}
	c.SetToken(out.Token)
	return nil
}

// ListBookmarks fetches the caller's bookmarked hobby ids
func (c *HTTPClient) ListBookmarks(ctx context.Context) ([]string, error) {
	var out struct {
		HobbyIDs []string `json:"hobbyIds"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/bookmarks", nil, &out); err != nil {
		return nil, err
	}
	if out.HobbyIDs == nil {
		return []string{}, nil
	}
	return out.HobbyIDs, nil
}

// AddBookmark bookmarks a hobby
func (c *HTTPClient) AddBookmark(ctx context.Context, hobbyID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/bookmarks", map[string]string{"hobbyId": hobbyID}, nil)
}

// RemoveBookmark removes a hobby bookmark
func (c *HTTPClient) RemoveBookmark(ctx context.Context, hobbyID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/bookmarks", map[string]string{"hobbyId": hobbyID}, nil)
}

// FetchSummary fetches the my-page summary view
func (c *HTTPClient) FetchSummary(ctx context.Context) (*Summary, error) {
	var out Summary
	if err := c.do(ctx, http.MethodGet, "/api/v1/me/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do issues one request and decodes the response. Non-2xx responses become
// *APIError with the server's {"error": ...} message when present.
func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "Request failed"}
		var errBody struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
