package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrFeedUnavailable is returned when a feed has no cached copy and the
// network attempt failed. It is the only failure mode of Cache.GetText.
var ErrFeedUnavailable = errors.New("feed unavailable")

// Cache is a per-feed TTL cache over raw calendar text. It owns the on-disk
// cache root and the last-fetch timestamps; construct one per process and
// pass it to callers.
//
// Within the TTL window a cached copy is returned without any network
// access. Outside it (or on a forced refresh) a bounded network fetch is
// attempted, with fallback to the persisted copy on any failure.
type Cache struct {
	rootDir   string
	client    *http.Client
	ttl       time.Duration
	timeout   time.Duration
	userAgent string

	mu        sync.Mutex
	lastFetch map[string]time.Time

	flight singleflight.Group
}

func NewCache(rootDir string, client *http.Client, ttl, timeout time.Duration, userAgent string) *Cache {
	return &Cache{
		rootDir:   rootDir,
		client:    client,
		ttl:       ttl,
		timeout:   timeout,
		userAgent: userAgent,
		lastFetch: make(map[string]time.Time),
	}
}

// GetText returns the raw text for a feed. Concurrent callers for the same
// feed id are coalesced into a single in-flight fetch.
func (c *Cache) GetText(ctx context.Context, feed Feed, forceRefresh bool) (string, error) {
	text, err, _ := c.flight.Do(feed.ID, func() (interface{}, error) {
		return c.getText(ctx, feed, forceRefresh)
	})
	if err != nil {
		return "", err
	}
	return text.(string), nil
}

func (c *Cache) getText(ctx context.Context, feed Feed, forceRefresh bool) (string, error) {
	if !forceRefresh && c.isFresh(feed.ID) {
		if text, err := c.readCached(feed.ID); err == nil {
			slog.Debug("Cache hit within TTL", "feed", feed.ID)
			return text, nil
		}
	}

	text, err := c.fetch(ctx, feed)
	if err == nil {
		if persistErr := c.persist(feed.ID, text); persistErr != nil {
			slog.Warn("Failed to persist feed text", "feed", feed.ID, "error", persistErr)
		}
		c.markFetched(feed.ID)
		return text, nil
	}

	// Any fetch failure, forced or not, falls back to the last persisted
	// copy when one exists.
	slog.Warn("Feed fetch failed, falling back to cache", "feed", feed.ID, "error", err)
	if text, readErr := c.readCached(feed.ID); readErr == nil {
		return text, nil
	}

	return "", fmt.Errorf("feed %s: %w", feed.ID, ErrFeedUnavailable)
}

// Invalidate drops the cached copy and timestamp for a feed, e.g. after the
// feed has been deleted.
func (c *Cache) Invalidate(feedID string) {
	c.mu.Lock()
	delete(c.lastFetch, feedID)
	c.mu.Unlock()

	if err := os.Remove(c.cachePath(feedID)); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to remove cache file", "feed", feedID, "error", err)
	}
}

func (c *Cache) isFresh(feedID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	last, ok := c.lastFetch[feedID]
	return ok && time.Since(last) < c.ttl
}

func (c *Cache) markFetched(feedID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastFetch[feedID] = time.Now()
}

func (c *Cache) fetch(ctx context.Context, feed Feed) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/calendar, text/plain")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return string(body), nil
}

func (c *Cache) readCached(feedID string) (string, error) {
	data, err := os.ReadFile(c.cachePath(feedID))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// persist writes the feed text through a temp file and an atomic rename so
// that a cancelled or crashed write never leaves a partial copy visible.
func (c *Cache) persist(feedID, text string) error {
	if err := os.MkdirAll(c.rootDir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(c.rootDir, feedID+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.cachePath(feedID)); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	return nil
}

func (c *Cache) cachePath(feedID string) string {
	return filepath.Join(c.rootDir, feedID+".ics")
}
