package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cartable-app/cartable/app/calendar"
)

type RefreshCalendarTask struct {
	Task
	Feed            calendar.Feed
	calendarService *calendar.Service
}

func NewRefreshCalendarTask(feed calendar.Feed, calendarService *calendar.Service) *RefreshCalendarTask {
	return &RefreshCalendarTask{
		Task:            NewTask(TaskTypeRefreshCalendar, feed.ID),
		Feed:            feed,
		calendarService: calendarService,
	}
}

func (t *RefreshCalendarTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.calendarService.RefreshFeed(ctx, t.Feed); err != nil {
		return fmt.Errorf("failed to refresh feed %s: %w", t.Feed.ID, err)
	}

	slog.Info("Task completed",
		"type", "RefreshCalendar",
		"feed", t.Feed.ID,
		"duration", t.GetDuration())

	return nil
}
