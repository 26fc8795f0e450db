package homework

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// Store is the durable local homework store: keyed reads and writes plus a
// range query by week number. The physical format is the store's business.
type Store interface {
	Get(ctx context.Context, id string) (Homework, error)
	ForWeek(ctx context.Context, week int) ([]Homework, error)
	Put(ctx context.Context, record Homework) error
	SetDone(ctx context.Context, id string, done bool) error
	Delete(ctx context.Context, id string) error
}

// CompletionSyncError reports that a completion toggle reached the local
// store but not the remote source: the user's action is saved, the remote
// side may be stale until the next sync cycle.
type CompletionSyncError struct {
	ID  string
	Err error
}

func (e *CompletionSyncError) Error() string {
	return fmt.Sprintf("completion sync failed for homework %s: %v", e.ID, e.Err)
}

func (e *CompletionSyncError) Unwrap() error {
	return e.Err
}

// Service reconciles the local store with the remote source. remote may be
// nil when no institutional account is configured; the service then serves
// the local store alone.
type Service struct {
	store  Store
	remote RemoteSource
}

func NewService(store Store, remote RemoteSource) *Service {
	return &Service{store: store, remote: remote}
}

// WeekHomework returns the merged records for a week. A remote failure is
// reported and degrades to the cached records; it never corrupts the result
// already computed from the local store.
func (s *Service) WeekHomework(ctx context.Context, week int) ([]Homework, error) {
	cached, err := s.store.ForWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("failed to read local homework: %w", err)
	}

	local := make(Set, len(cached))
	for _, record := range cached {
		local[record.HomeworkID()] = record
	}

	if s.remote == nil {
		return sorted(local), nil
	}

	batch, err := s.remote.Homeworks(ctx, week)
	if err != nil {
		slog.Error("Remote homework fetch failed, serving cached records", "week", week, "error", err)
		return sorted(local), nil
	}

	merged := Merge(local, batch)

	for _, record := range merged {
		if err := s.store.Put(ctx, record); err != nil {
			slog.Warn("Failed to persist merged homework", "id", record.HomeworkID(), "error", err)
		}
	}

	return sorted(merged), nil
}

// SetDone toggles completion. For synced records the remote source is told
// first; the local store is updated regardless, so the user's action is
// never lost. A remote failure surfaces as *CompletionSyncError after the
// local write succeeded.
func (s *Service) SetDone(ctx context.Context, id string, done bool) error {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load homework: %w", err)
	}

	var syncErr error
	if synced, ok := record.(SyncedHomework); ok && s.remote != nil {
		if err := s.remote.SetCompletion(ctx, synced, done); err != nil {
			syncErr = &CompletionSyncError{ID: id, Err: err}
		}
	}

	if err := s.store.SetDone(ctx, id, done); err != nil {
		return fmt.Errorf("failed to update local completion: %w", err)
	}

	return syncErr
}

// CreateCustom authors a new user-owned record.
func (s *Service) CreateCustom(ctx context.Context, subject, content, account string, dueDate time.Time, attachments []Attachment) (CustomHomework, error) {
	record := CustomHomework{
		ID:               DeriveID(subject, content, account, dueDate),
		Subject:          subject,
		Content:          content,
		DueDate:          dueDate,
		CreatedByAccount: account,
		Attachments:      attachments,
	}

	if err := s.store.Put(ctx, record); err != nil {
		return CustomHomework{}, fmt.Errorf("failed to store homework: %w", err)
	}

	return record, nil
}

// Delete removes a record. Deletion is always an explicit user action.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func sorted(set Set) []Homework {
	records := make([]Homework, 0, len(set))
	for _, record := range set {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Due().Equal(records[j].Due()) {
			return records[i].Due().Before(records[j].Due())
		}
		return records[i].HomeworkID() < records[j].HomeworkID()
	})
	return records
}
