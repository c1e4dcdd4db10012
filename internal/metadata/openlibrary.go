package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	OpenLibraryName    = "openlibrary"
	openLibraryBaseURL = "https://openlibrary.org"
	openLibraryCovers  = "https://covers.openlibrary.org/b/id"
)

// OpenLibraryClient fetches book metadata from the OpenLibrary search API.
type OpenLibraryClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewOpenLibraryClient(opts ...ClientOption) *OpenLibraryClient {
	o := buildOptions(openLibraryBaseURL, opts)
	return &OpenLibraryClient{
		httpClient: o.httpClient,
		baseURL:    o.baseURL,
	}
}

func (c *OpenLibraryClient) Name() string {
	return OpenLibraryName
}

// SearchByTitle looks up a book by title and author, returning the top hit.
func (c *OpenLibraryClient) SearchByTitle(ctx context.Context, title, author string) (*BookMetadata, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	q := title
	if author != "" {
		q = fmt.Sprintf("%s %s", title, author)
	}

	searchURL := fmt.Sprintf("%s/search.json?q=%s&limit=1", c.baseURL, url.QueryEscape(q))

	var searchResult openLibrarySearchResult
	if err := getJSON(ctx, c.httpClient, searchURL, &searchResult); err != nil {
		return nil, fmt.Errorf("open library search: %w", err)
	}

	if len(searchResult.Docs) == 0 {
		return nil, nil
	}

	return convertSearchDoc(&searchResult.Docs[0]), nil
}

func convertSearchDoc(doc *openLibrarySearchDoc) *BookMetadata {
	metadata := &BookMetadata{
		Title:         doc.Title,
		Authors:       doc.AuthorName,
		PageCount:     doc.NumberOfPagesMedian,
		Categories:    doc.Subject,
		AverageRating: doc.RatingsAverage,
		RatingsCount:  doc.RatingsCount,
		Source:        OpenLibraryName,
	}

	if doc.CoverI != 0 {
		metadata.Thumbnail = fmt.Sprintf("%s/%d-M.jpg", openLibraryCovers, doc.CoverI)
		metadata.Cover = fmt.Sprintf("%s/%d-L.jpg", openLibraryCovers, doc.CoverI)
	}

	if doc.FirstPublishYear != 0 {
		metadata.PublishedDate = strconv.Itoa(doc.FirstPublishYear)
	}

	if len(doc.Publisher) > 0 {
		metadata.Publisher = doc.Publisher[0]
	}

	if len(doc.ISBN) > 0 {
		metadata.ISBN = doc.ISBN[0]
	}

	return metadata
}

// OpenLibrary API response types (internal)

type openLibrarySearchResult struct {
	NumFound int                    `json:"numFound"`
	Docs     []openLibrarySearchDoc `json:"docs"`
}

type openLibrarySearchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	FirstPublishYear    int      `json:"first_publish_year"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
	Publisher           []string `json:"publisher"`
	ISBN                []string `json:"isbn"`
	CoverI              int      `json:"cover_i"`
	Subject             []string `json:"subject"`
	RatingsAverage      float64  `json:"ratings_average"`
	RatingsCount        int      `json:"ratings_count"`
}
