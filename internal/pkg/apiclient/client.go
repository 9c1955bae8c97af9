package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
	"github.com/yigit/fypdash/internal/pkg/metrics"
)

// DefaultTimeout bounds a backend call when no timeout is configured
const DefaultTimeout = 30 * time.Second

type tokenKey struct{}

// WithToken returns a context whose backend calls carry the bearer token
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token stored by WithToken
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client talks JSON to the projects backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a backend client. A zero timeout falls back to DefaultTimeout.
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "apiclient").Logger(),
	}
}

// Timeout returns the bound applied to every request of this client
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Get issues a GET on the route template filled with params and decodes the body into out
func (c *Client) Get(ctx context.Context, route string, out interface{}, params ...string) error {
	return c.Do(ctx, http.MethodGet, route, nil, out, params...)
}

// Post issues a POST with a JSON body
func (c *Client) Post(ctx context.Context, route string, body, out interface{}, params ...string) error {
	return c.Do(ctx, http.MethodPost, route, body, out, params...)
}

// Put issues a PUT with a JSON body
func (c *Client) Put(ctx context.Context, route string, body, out interface{}, params ...string) error {
	return c.Do(ctx, http.MethodPut, route, body, out, params...)
}

// Do performs a request. Non-2xx answers become *apperrors.APIError carrying the backend payload.
func (c *Client) Do(ctx context.Context, method, route string, body, out interface{}, params ...string) error {
	path, err := Expand(route, params...)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordBackendCall(method, route, "error", time.Since(start))
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("backend request failed")
		return apperrors.NewCustomError(apperrors.ErrBackendUnavailable, "The server could not be reached. Please try again.").
			WithDetails(map[string]interface{}{"cause": err.Error()})
	}
	defer resp.Body.Close()

	metrics.RecordBackendCall(method, route, strconv.Itoa(resp.StatusCode), time.Since(start))

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("backend returned an error")
		return &apperrors.APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, payload),
			Payload: payload,
		}
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", route, err)
	}
	return nil
}

// Expand substitutes each ":name" segment of route with the next param, path-escaped
func Expand(route string, params ...string) (string, error) {
	segments := strings.Split(route, "/")
	next := 0
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		if next >= len(params) {
			return "", fmt.Errorf("missing value for %s in %s", seg, route)
		}
		if params[next] == "" {
			return "", apperrors.NewBadRequestError(fmt.Sprintf("%s must not be empty", strings.TrimPrefix(seg, ":")))
		}
		segments[i] = url.PathEscape(params[next])
		next++
	}
	if next != len(params) {
		return "", fmt.Errorf("too many params for %s", route)
	}
	return strings.Join(segments, "/"), nil
}

// errorMessage prefers the backend's own message so it can be shown verbatim
func errorMessage(status int, payload []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return http.StatusText(status)
}
