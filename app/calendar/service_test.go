package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeFeedSource struct {
	mu       sync.Mutex
	feeds    []Feed
	upgrades map[string]Provider
}

func newFakeFeedSource(feeds ...Feed) *fakeFeedSource {
	return &fakeFeedSource{feeds: feeds, upgrades: make(map[string]Provider)}
}

func (f *fakeFeedSource) ListFeeds(_ context.Context) ([]Feed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Feed(nil), f.feeds...), nil
}

func (f *fakeFeedSource) UpgradeProvider(_ context.Context, feedID string, provider Provider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upgrades[feedID] = provider
	return nil
}

func serveICS(t *testing.T, prodID string, eventLines ...string) *httptest.Server {
	t.Helper()

	lines := []string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:" + prodID}
	lines = append(lines, eventLines...)
	lines = append(lines, "END:VCALENDAR")
	body := strings.Join(lines, "\r\n") + "\r\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestService(t *testing.T, feeds *fakeFeedSource) *Service {
	t.Helper()
	cache := NewCache(t.TempDir(), &http.Client{}, time.Hour, 5*time.Second, "Cartable/1.0 (test)")
	return NewService(cache, NewParser(), NewConverter(), feeds)
}

func TestServiceCoursesForWeek(t *testing.T) {
	server := serveICS(t, "-//ADE/version 6.0",
		"BEGIN:VEVENT",
		"UID:evt-1",
		"SUMMARY:Analyse",
		"DESCRIPTION:M. Durand / Groupe A / TD",
		"DTSTART:20260119T080000Z",
		"DTEND:20260119T100000Z",
		"END:VEVENT",
	)
	feeds := newFakeFeedSource(Feed{ID: "feed1", URL: server.URL, IntelligentParsing: true})
	service := newTestService(t, feeds)

	weekStart := time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)
	courses, err := service.CoursesForWeek(context.Background(), weekStart, weekStart.AddDate(0, 0, 7), false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(courses) != 1 {
		t.Fatalf("Expected 1 course, got %d", len(courses))
	}
	course := courses[0]
	if course.Subject != "Analyse" {
		t.Errorf("Expected subject 'Analyse', got '%s'", course.Subject)
	}
	if course.Teacher != "M. Durand" {
		t.Errorf("Expected extracted teacher, got '%s'", course.Teacher)
	}
	if course.Type != CourseTutorial {
		t.Errorf("Expected tutorial, got '%s'", course.Type)
	}
}

func TestServiceCoursesForWeek_FeedFailureIsolated(t *testing.T) {
	healthy := serveICS(t, "-//Generic//Calendar//EN",
		"BEGIN:VEVENT",
		"UID:evt-1",
		"SUMMARY:Maths",
		"DTSTART:20260119T080000Z",
		"DTEND:20260119T100000Z",
		"END:VEVENT",
	)
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	feeds := newFakeFeedSource(
		Feed{ID: "broken", URL: broken.URL},
		Feed{ID: "healthy", URL: healthy.URL},
	)
	service := newTestService(t, feeds)

	weekStart := time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)
	courses, err := service.CoursesForWeek(context.Background(), weekStart, weekStart.AddDate(0, 0, 7), false)
	if err != nil {
		t.Fatalf("Expected partial results, got error: %v", err)
	}

	if len(courses) != 1 {
		t.Fatalf("Expected 1 course from the healthy feed, got %d", len(courses))
	}
	if courses[0].Subject != "Maths" {
		t.Errorf("Expected course from the healthy feed, got '%s'", courses[0].Subject)
	}
}

func TestServiceCoursesForWeek_UpgradesUnknownProvider(t *testing.T) {
	server := serveICS(t, "-//ADE/version 6.0",
		"BEGIN:VEVENT",
		"UID:evt-1",
		"SUMMARY:Analyse",
		"DTSTART:20260119T080000Z",
		"DTEND:20260119T100000Z",
		"END:VEVENT",
	)
	feeds := newFakeFeedSource(Feed{ID: "feed1", URL: server.URL, Provider: ProviderUnknown})
	service := newTestService(t, feeds)

	weekStart := time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)
	if _, err := service.CoursesForWeek(context.Background(), weekStart, weekStart.AddDate(0, 0, 7), false); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	feeds.mu.Lock()
	defer feeds.mu.Unlock()
	if feeds.upgrades["feed1"] != ProviderADE {
		t.Errorf("Expected feed upgraded to ADE provider, got '%s'", feeds.upgrades["feed1"])
	}
}

func TestServiceCoursesForWeek_KnownProviderNotDowngraded(t *testing.T) {
	server := serveICS(t, "-//Generic//Calendar//EN",
		"BEGIN:VEVENT",
		"UID:evt-1",
		"SUMMARY:Analyse",
		"DTSTART:20260119T080000Z",
		"DTEND:20260119T100000Z",
		"END:VEVENT",
	)
	feeds := newFakeFeedSource(Feed{ID: "feed1", URL: server.URL, Provider: ProviderADE})
	service := newTestService(t, feeds)

	weekStart := time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)
	if _, err := service.CoursesForWeek(context.Background(), weekStart, weekStart.AddDate(0, 0, 7), false); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	feeds.mu.Lock()
	defer feeds.mu.Unlock()
	if _, upgraded := feeds.upgrades["feed1"]; upgraded {
		t.Error("Expected no provider change for an already-classified feed")
	}
}

func TestServiceRefreshFeed_NotifiesSubscribers(t *testing.T) {
	server := serveICS(t, "-//Generic//Calendar//EN")
	feed := Feed{ID: "feed1", URL: server.URL}
	service := newTestService(t, newFakeFeedSource(feed))

	notified := 0
	unsubscribe := service.Subscribe(func() { notified++ })

	if err := service.RefreshFeed(context.Background(), feed); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if notified != 1 {
		t.Errorf("Expected 1 notification, got %d", notified)
	}

	unsubscribe()
	if err := service.RefreshFeed(context.Background(), feed); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if notified != 1 {
		t.Errorf("Expected no notification after unsubscribe, got %d", notified)
	}
}
