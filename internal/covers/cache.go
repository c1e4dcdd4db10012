// Package covers keeps local copies of book cover images.
package covers

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// maxCoverBytes bounds a single downloaded image.
const maxCoverBytes = 5 << 20

var ErrInvalidBookID = errors.New("invalid book id")

// Cache stores one cover file per book, named after the book ID and a hash of
// the source URL so a changed cover URL is fetched again.
type Cache struct {
	cacheDir   string
	httpClient *http.Client
}

// NewCache creates a new cover cache at the specified directory.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		cacheDir: cacheDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetCover returns the cached cover for a book, fetching it on a miss.
// An empty coverURL yields an empty path and no error.
func (c *Cache) GetCover(ctx context.Context, bookID, coverURL string) (string, error) {
	if coverURL == "" {
		return "", nil
	}
	if _, err := uuid.Parse(bookID); err != nil {
		return "", ErrInvalidBookID
	}

	cachePath := filepath.Join(c.cacheDir, coverFilename(bookID, coverURL))
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	// The URL changed (or was never fetched); drop any stale copy first.
	if err := c.InvalidateCover(bookID); err != nil {
		return "", err
	}
	if err := c.fetchAndCache(ctx, coverURL, cachePath); err != nil {
		return "", err
	}
	return cachePath, nil
}

// InvalidateCover removes every cached cover for a book.
func (c *Cache) InvalidateCover(bookID string) error {
	if _, err := uuid.Parse(bookID); err != nil {
		return ErrInvalidBookID
	}
	matches, err := filepath.Glob(filepath.Join(c.cacheDir, "cover_"+bookID+"_*"))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (c *Cache) CacheDir() string {
	return c.cacheDir
}

func coverFilename(bookID, coverURL string) string {
	hash := sha256.Sum256([]byte(coverURL))
	return fmt.Sprintf("cover_%s_%x.jpg", bookID, hash[:8])
}

func (c *Cache) fetchAndCache(ctx context.Context, url, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Bookshelf/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch cover: status %d", resp.StatusCode)
	}

	// Write to a temp file in the same directory, then rename into place.
	tmpFile, err := os.CreateTemp(c.cacheDir, "cover_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, io.LimitReader(resp.Body, maxCoverBytes)); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, cachePath)
}
