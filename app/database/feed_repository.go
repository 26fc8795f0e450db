package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/cartable-app/cartable/app/calendar"
)

// FeedRepository handles database operations for calendar feeds. It
// implements calendar.FeedSource.
type FeedRepository struct {
	db *DB
}

func NewFeedRepository(db *DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// CreateFeed registers a new calendar source. The id is generated when the
// caller does not provide one; the provider always starts out unknown.
func (r *FeedRepository) CreateFeed(ctx context.Context, feed calendar.Feed) (calendar.Feed, error) {
	if feed.ID == "" {
		feed.ID = uuid.NewString()
	}
	feed.Provider = calendar.ProviderUnknown

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feeds (id, url, title, provider, intelligent_parsing, color)
		VALUES (?, ?, ?, ?, ?, ?)
	`, feed.ID, feed.URL, feed.Title, string(feed.Provider), feed.IntelligentParsing, feed.Color)
	if err != nil {
		return calendar.Feed{}, fmt.Errorf("failed to insert feed: %w", err)
	}

	return feed, nil
}

// UpsertFeed inserts a feed or refreshes its mutable fields, keyed by URL.
// Used when seeding sources from the configuration file.
func (r *FeedRepository) UpsertFeed(ctx context.Context, feed calendar.Feed) error {
	if feed.ID == "" {
		feed.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feeds (id, url, title, provider, intelligent_parsing, color)
		VALUES (?, ?, ?, 'unknown', ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			title = excluded.title,
			intelligent_parsing = excluded.intelligent_parsing,
			color = excluded.color,
			updated_at = CURRENT_TIMESTAMP
	`, feed.ID, feed.URL, feed.Title, feed.IntelligentParsing, feed.Color)
	if err != nil {
		return fmt.Errorf("failed to upsert feed: %w", err)
	}

	return nil
}

func (r *FeedRepository) GetFeed(ctx context.Context, id string) (*calendar.Feed, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, url, title, provider, intelligent_parsing, color
		FROM feeds WHERE id = ?
	`, id)

	feed, err := scanFeed(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}

	return &feed, nil
}

func (r *FeedRepository) ListFeeds(ctx context.Context) ([]calendar.Feed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, url, title, provider, intelligent_parsing, color
		FROM feeds ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	defer rows.Close()

	var feeds []calendar.Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed: %w", err)
		}
		feeds = append(feeds, feed)
	}

	return feeds, rows.Err()
}

// UpgradeProvider records a detected provider, only while the stored value
// is still unknown. A provider is never downgraded.
func (r *FeedRepository) UpgradeProvider(ctx context.Context, feedID string, provider calendar.Provider) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE feeds
		SET provider = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND provider = 'unknown'
	`, string(provider), feedID)
	if err != nil {
		return fmt.Errorf("failed to upgrade provider: %w", err)
	}

	return nil
}

func (r *FeedRepository) DeleteFeed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM feeds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete feed: %w", err)
	}

	return nil
}

func (r *FeedRepository) GetFeedCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feeds`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feeds: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (calendar.Feed, error) {
	var feed calendar.Feed
	var provider string

	err := row.Scan(&feed.ID, &feed.URL, &feed.Title, &provider, &feed.IntelligentParsing, &feed.Color)
	if err != nil {
		return calendar.Feed{}, err
	}

	feed.Provider = calendar.Provider(provider)
	return feed, nil
}
