package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adrian5517/nagaclean-client/internal/core/domain"
	"github.com/adrian5517/nagaclean-client/internal/pkg/metrics"
)

const defaultTimeout = 15 * time.Second

// TokenSource supplies the bearer token attached to outbound requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// APIError is a non-2xx response carrying the server-supplied message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Message)
}

// Client is the shared HTTP transport for the backend API. It injects the
// bearer token and a request id, decodes the JSON error envelope, and maps
// transport failures and 401 responses to their domain errors.
type Client struct {
	http    *http.Client
	baseURL string
	tokens  TokenSource
	logger  zerolog.Logger
}

func NewClient(baseURL string, tokens TokenSource, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		logger:  logger,
	}
}

// do issues a request and decodes the JSON response into out when out is
// non-nil. endpoint is the logical name used for metrics labels.
func (c *Client) do(ctx context.Context, endpoint, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if t := c.tokens.Token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("request failed")
		return fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()
	metrics.APIRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorEnvelope covers both {"message": ...} and {"error": ...} server shapes.
type errorEnvelope struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}

func (c *Client) decodeError(resp *http.Response) error {
	msg := ""
	if b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil {
		var env errorEnvelope
		if json.Unmarshal(b, &env) == nil {
			msg = env.Message
			if msg == "" {
				msg = env.Err
			}
		}
	}
	if msg == "" {
		msg = "server error: " + strconv.Itoa(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", domain.ErrUnauthenticated, msg)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
