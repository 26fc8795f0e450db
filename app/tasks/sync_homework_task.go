package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cartable-app/cartable/app/homework"
)

// SyncHomeworkTask runs a merge cycle for the current week, pulling the
// remote batch through the same path the API uses so completion and
// authorship rules apply identically.
type SyncHomeworkTask struct {
	Task
	homeworkService *homework.Service
}

func NewSyncHomeworkTask(homeworkService *homework.Service) *SyncHomeworkTask {
	return &SyncHomeworkTask{
		Task:            NewTask(TaskTypeSyncHomework, "current-week"),
		homeworkService: homeworkService,
	}
}

func (t *SyncHomeworkTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	week := homework.WeekNumber(time.Now())
	records, err := t.homeworkService.WeekHomework(ctx, week)
	if err != nil {
		return fmt.Errorf("failed to sync homework for week %d: %w", week, err)
	}

	slog.Info("Task completed",
		"type", "SyncHomework",
		"week", week,
		"records", len(records),
		"duration", t.GetDuration())

	return nil
}
