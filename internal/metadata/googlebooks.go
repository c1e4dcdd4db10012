package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const (
	GoogleBooksName    = "googlebooks"
	googleBooksBaseURL = "https://www.googleapis.com/books/v1"
)

// GoogleBooksClient searches the Google Books volumes API.
type GoogleBooksClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewGoogleBooksClient(opts ...ClientOption) *GoogleBooksClient {
	o := buildOptions(googleBooksBaseURL, opts)
	return &GoogleBooksClient{
		httpClient: o.httpClient,
		baseURL:    o.baseURL,
		apiKey:     o.apiKey,
	}
}

func (c *GoogleBooksClient) Name() string {
	return GoogleBooksName
}

// SearchByTitle returns the first volume matching "<title> author:<author>".
func (c *GoogleBooksClient) SearchByTitle(ctx context.Context, title, author string) (*BookMetadata, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	query := title
	if author != "" {
		query = fmt.Sprintf("%s author:%s", title, author)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", "1")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	var result googleBooksResponse
	if err := getJSON(ctx, c.httpClient, c.baseURL+"/volumes?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("google books search: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	return convertVolumeInfo(&result.Items[0].VolumeInfo), nil
}

func convertVolumeInfo(info *googleVolumeInfo) *BookMetadata {
	metadata := &BookMetadata{
		Title:         info.Title,
		Authors:       info.Authors,
		PageCount:     info.PageCount,
		Thumbnail:     info.ImageLinks.Thumbnail,
		Description:   info.Description,
		Categories:    info.Categories,
		PublishedDate: info.PublishedDate,
		Publisher:     info.Publisher,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
		Source:        GoogleBooksName,
	}

	switch {
	case info.ImageLinks.Large != "":
		metadata.Cover = info.ImageLinks.Large
	case info.ImageLinks.Medium != "":
		metadata.Cover = info.ImageLinks.Medium
	default:
		metadata.Cover = info.ImageLinks.Thumbnail
	}

	if len(info.IndustryIdentifiers) > 0 {
		metadata.ISBN = info.IndustryIdentifiers[0].Identifier
	}

	return metadata
}

// Google Books API response types (internal)

type googleBooksResponse struct {
	TotalItems int               `json:"totalItems"`
	Items      []googleBooksItem `json:"items"`
}

type googleBooksItem struct {
	ID         string           `json:"id"`
	VolumeInfo googleVolumeInfo `json:"volumeInfo"`
}

type googleVolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
	PageCount           int                  `json:"pageCount"`
	Categories          []string             `json:"categories"`
	AverageRating       float64              `json:"averageRating"`
	RatingsCount        int                  `json:"ratingsCount"`
	ImageLinks          imageLinks           `json:"imageLinks"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
}
