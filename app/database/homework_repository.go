package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cartable-app/cartable/app/homework"
)

// HomeworkRepository is the durable local homework store. It implements
// homework.Store; records are keyed by resolved id and range-queried by
// week number.
type HomeworkRepository struct {
	db *DB
}

func NewHomeworkRepository(db *DB) *HomeworkRepository {
	return &HomeworkRepository{db: db}
}

func (r *HomeworkRepository) Get(ctx context.Context, id string) (homework.Homework, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, subject, content, due_date, is_done, custom, created_by, attachments
		FROM homework WHERE id = ?
	`, id)

	record, err := scanHomework(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("homework %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get homework: %w", err)
	}

	return record, nil
}

func (r *HomeworkRepository) ForWeek(ctx context.Context, week int) ([]homework.Homework, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, subject, content, due_date, is_done, custom, created_by, attachments
		FROM homework WHERE week = ? ORDER BY due_date, id
	`, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query homework: %w", err)
	}
	defer rows.Close()

	var records []homework.Homework
	for rows.Next() {
		record, err := scanHomework(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan homework: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *HomeworkRepository) Put(ctx context.Context, record homework.Homework) error {
	var (
		subject, content, createdBy string
		dueDate                     time.Time
		done, custom                bool
		attachments                 []homework.Attachment
	)

	switch rec := record.(type) {
	case homework.CustomHomework:
		subject, content, createdBy = rec.Subject, rec.Content, rec.CreatedByAccount
		dueDate, done, custom = rec.DueDate, rec.Done, true
		attachments = rec.Attachments
	case homework.SyncedHomework:
		subject, content, createdBy = rec.Subject, rec.Content, rec.CreatedByAccount
		dueDate, done, custom = rec.DueDate, rec.Done, false
		attachments = rec.Attachments
	default:
		return fmt.Errorf("unknown homework variant %T", record)
	}

	encoded, err := json.Marshal(attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO homework (id, subject, content, due_date, week, is_done, custom, created_by, attachments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			subject = excluded.subject,
			content = excluded.content,
			due_date = excluded.due_date,
			week = excluded.week,
			is_done = excluded.is_done,
			custom = excluded.custom,
			created_by = excluded.created_by,
			attachments = excluded.attachments,
			updated_at = CURRENT_TIMESTAMP
	`, record.HomeworkID(), subject, content, dueDate, homework.WeekNumber(dueDate), done, custom, createdBy, string(encoded))
	if err != nil {
		return fmt.Errorf("failed to upsert homework: %w", err)
	}

	return nil
}

func (r *HomeworkRepository) SetDone(ctx context.Context, id string, done bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE homework SET is_done = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, done, id)
	if err != nil {
		return fmt.Errorf("failed to update completion: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("homework %s not found", id)
	}

	return nil
}

func (r *HomeworkRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM homework WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete homework: %w", err)
	}

	return nil
}

func (r *HomeworkRepository) GetHomeworkCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM homework`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count homework: %w", err)
	}
	return count, nil
}

func scanHomework(row rowScanner) (homework.Homework, error) {
	var (
		id, subject, content, createdBy, encoded string
		dueDate                                  time.Time
		done, custom                             bool
	)

	if err := row.Scan(&id, &subject, &content, &dueDate, &done, &custom, &createdBy, &encoded); err != nil {
		return nil, err
	}

	var attachments []homework.Attachment
	if err := json.Unmarshal([]byte(encoded), &attachments); err != nil {
		// A corrupt attachments blob loses the attachments, not the record.
		attachments = nil
	}

	if custom {
		return homework.CustomHomework{
			ID:               id,
			Subject:          subject,
			Content:          content,
			DueDate:          dueDate,
			Done:             done,
			CreatedByAccount: createdBy,
			Attachments:      attachments,
		}, nil
	}

	return homework.SyncedHomework{
		ID:               id,
		Subject:          subject,
		Content:          content,
		DueDate:          dueDate,
		Done:             done,
		CreatedByAccount: createdBy,
		Attachments:      attachments,
	}, nil
}
