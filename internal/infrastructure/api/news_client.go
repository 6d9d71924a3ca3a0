package api

import (
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

	"github.com/adrian5517/nagaclean-client/internal/core/domain"
)

// NewsClient implements ports.NewsProvider against a newsapi.org-compatible
// feed. Articles are per-session and never persisted.
type NewsClient struct {
	http     *http.Client
	baseURL  string
	apiKey   string
	query    string
	language string
	logger   zerolog.Logger
}

func NewNewsClient(baseURL, apiKey, query, language string, timeout time.Duration, logger zerolog.Logger) *NewsClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &NewsClient{
		http:     &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		query:    query,
		language: language,
		logger:   logger,
	}
}

type newsArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt time.Time `json:"publishedAt"`
}

type newsResponse struct {
	Status   string        `json:"status"`
	Message  string        `json:"message"`
	Articles []newsArticle `json:"articles"`
}

func (n *NewsClient) TopStories(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	if limit <= 0 {
		limit = 3
	}

	q := url.Values{}
	q.Set("q", n.query)
	if n.language != "" {
		q.Set("language", n.language)
	}
	q.Set("pageSize", strconv.Itoa(limit))
	q.Set("apiKey", n.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/v2/everything?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build news request: %w", err)
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read news response: %w", err)
	}

	var parsed newsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Status == "error" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: parsed.Message}
	}

	items := make([]domain.NewsItem, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		items = append(items, domain.NewsItem{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}

	n.logger.Debug().Int("articles", len(items)).Msg("news fetched")
	return items, nil
}
