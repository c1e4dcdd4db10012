package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	userAgent      = "Bookshelf/1.0 (https://github.com/mrlokans/bookshelf)"
	defaultTimeout = 10 * time.Second
)

// BookMetadata is the normalised result of a title search against any provider.
type BookMetadata struct {
	Title         string   `json:"title,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	PageCount     int      `json:"page_count"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	Cover         string   `json:"cover,omitempty"`
	Description   string   `json:"description,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	AverageRating float64  `json:"average_rating,omitempty"`
	RatingsCount  int      `json:"ratings_count,omitempty"`
	Source        string   `json:"source"`
}

// Provider looks books up by title and author.
// A nil result with a nil error means the provider has no match.
type Provider interface {
	Name() string
	SearchByTitle(ctx context.Context, title, author string) (*BookMetadata, error)
}

// ProgressFunc receives (current, total, title) once per record of a batch, 1-based.
type ProgressFunc func(current, total int, title string)

type clientOptions struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures a provider client.
type ClientOption func(*clientOptions)

// WithBaseURL points the client at a different API root (tests, mirrors).
func WithBaseURL(baseURL string) ClientOption {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithAPIKey sets the API key sent with each request. Ignored by Open Library.
func WithAPIKey(key string) ClientOption {
	return func(o *clientOptions) { o.apiKey = key }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

func buildOptions(baseURL string, opts []ClientOption) clientOptions {
	o := clientOptions{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// getJSON issues a GET and decodes a 200 response body into out.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
