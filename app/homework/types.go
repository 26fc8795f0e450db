package homework

import (
	"time"
)

// Attachment is a document linked to a homework record. Order is preserved.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Homework is the closed union over the two record variants. User-authored
// records and remotely-sourced records are distinct types so that a merge
// can never overwrite authored content by construction.
type Homework interface {
	HomeworkID() string
	Completed() bool
	Due() time.Time

	isHomework()
}

// CustomHomework is a record authored directly by the user. It is locally
// owned: a sync never replaces its content, and only an explicit user action
// changes its completion state.
type CustomHomework struct {
	ID               string
	Subject          string
	Content          string
	DueDate          time.Time
	Done             bool
	CreatedByAccount string
	Attachments      []Attachment
}

func (h CustomHomework) HomeworkID() string { return h.ID }
func (h CustomHomework) Completed() bool    { return h.Done }
func (h CustomHomework) Due() time.Time     { return h.DueDate }
func (h CustomHomework) isHomework()        {}

// SyncedHomework is a record first observed from the remote source. Its
// content fields follow the remote side; completion state is locally
// authoritative between sync cycles.
type SyncedHomework struct {
	ID               string
	Subject          string
	Content          string
	DueDate          time.Time
	Done             bool
	CreatedByAccount string
	Attachments      []Attachment
}

func (h SyncedHomework) HomeworkID() string { return h.ID }
func (h SyncedHomework) Completed() bool    { return h.Done }
func (h SyncedHomework) Due() time.Time     { return h.DueDate }
func (h SyncedHomework) isHomework()        {}

// Set maps resolved homework ids to records. Keys are unique by construction.
type Set map[string]Homework

// WeekNumber is the year-qualified ISO week used to key range queries and
// remote fetches, e.g. 202635 for week 35 of 2026.
func WeekNumber(t time.Time) int {
	year, week := t.ISOWeek()
	return year*100 + week
}
