package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// FeedSource is the durable registry of calendar feeds.
type FeedSource interface {
	ListFeeds(ctx context.Context) ([]Feed, error)
	UpgradeProvider(ctx context.Context, feedID string, provider Provider) error
}

// Service is the calendar ingestion entry point. Feeds are processed
// sequentially within one request and isolated from each other's failures:
// partial results are preferable to a total failure.
//
// The service also owns the refresh notification: presentation layers
// subscribe to be told when a background refresh has run, and re-invoke
// CoursesForWeek themselves.
type Service struct {
	cache     *Cache
	parser    *Parser
	converter *Converter
	feeds     FeedSource

	mu          sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

func NewService(cache *Cache, parser *Parser, converter *Converter, feeds FeedSource) *Service {
	return &Service{
		cache:       cache,
		parser:      parser,
		converter:   converter,
		feeds:       feeds,
		subscribers: make(map[int]func()),
	}
}

// CoursesForWeek returns the canonical courses of all registered feeds
// overlapping [weekStart, weekEnd). A failing feed contributes nothing;
// the other feeds are unaffected. Order across feeds is unspecified.
func (s *Service) CoursesForWeek(ctx context.Context, weekStart, weekEnd time.Time, forceRefresh bool) ([]Course, error) {
	feeds, err := s.feeds.ListFeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}

	courses := make([]Course, 0)
	for _, feed := range feeds {
		feedCourses, err := s.coursesForFeed(ctx, feed, weekStart, weekEnd, forceRefresh)
		if err != nil {
			slog.Error("Feed ingestion failed", "feed", feed.ID, "title", feed.Title, "error", err)
			continue
		}
		courses = append(courses, feedCourses...)
	}

	return courses, nil
}

func (s *Service) coursesForFeed(ctx context.Context, feed Feed, weekStart, weekEnd time.Time, forceRefresh bool) ([]Course, error) {
	text, err := s.cache.GetText(ctx, feed, forceRefresh)
	if err != nil {
		return nil, err
	}

	metadata, events, err := s.parser.Run(text)
	if err != nil {
		return nil, err
	}

	detection := DetectProvider(metadata.ProdID)
	if feed.Provider == ProviderUnknown && detection.Provider != ProviderUnknown {
		if err := s.feeds.UpgradeProvider(ctx, feed.ID, detection.Provider); err != nil {
			slog.Warn("Failed to persist detected provider", "feed", feed.ID, "provider", detection.Provider, "error", err)
		}
	}

	conversionCtx := ConversionContext{
		FeedID:             feed.ID,
		FeedTitle:          feed.Title,
		FeedColor:          feed.Color,
		IsADE:              detection.IsADE || feed.Provider == ProviderADE,
		IsHyperplanning:    detection.IsHyperplanning || feed.Provider == ProviderHyperplanning,
		IntelligentParsing: feed.IntelligentParsing,
	}

	expanded := ExpandWeek(events, weekStart, weekEnd)
	courses := s.converter.RunAll(expanded, conversionCtx)

	return FilterWeek(courses, weekStart, weekEnd), nil
}

// RefreshFeed force-refreshes one feed's cache and notifies subscribers.
func (s *Service) RefreshFeed(ctx context.Context, feed Feed) error {
	if _, err := s.cache.GetText(ctx, feed, true); err != nil {
		return err
	}
	s.notify()
	return nil
}

// ListFeeds exposes the feed registry to callers that drive refreshes.
func (s *Service) ListFeeds(ctx context.Context) ([]Feed, error) {
	return s.feeds.ListFeeds(ctx)
}

// Invalidate drops a deleted feed's cached state.
func (s *Service) Invalidate(feedID string) {
	s.cache.Invalidate(feedID)
}

// Subscribe registers a refresh handler and returns its unsubscribe handle.
// The signal is fire-and-forget and carries no payload.
func (s *Service) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Service) notify() {
	s.mu.Lock()
	handlers := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		handlers = append(handlers, fn)
	}
	s.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}
