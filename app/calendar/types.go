package calendar

import (
	"time"
)

// Provider identifies the system a calendar feed originates from.
type Provider string

const (
	ProviderUnknown       Provider = "unknown"
	ProviderADE           Provider = "ade"
	ProviderHyperplanning Provider = "hyperplanning"
	ProviderGeneric       Provider = "generic"
)

// Feed is a single external calendar source registered by the user.
// Provider starts as ProviderUnknown and is upgraded once detected from the
// feed's PRODID; it is never downgraded afterwards.
type Feed struct {
	ID                 string
	URL                string
	Title              string
	Provider           Provider
	IntelligentParsing bool
	Color              string
}

// Metadata is calendar-level information read from the feed header.
type Metadata struct {
	ProdID       string
	CalendarName string
}

// RawEvent is a single VEVENT as produced by the parser, before conversion.
// It is transient: produced by Parser.Run, consumed once by the converter.
type RawEvent struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Location    string
	AllDay      bool
	Organizer   string

	RawRRule string
	ExDates  []time.Time
}

type CourseType string

const (
	CourseActivity  CourseType = "activity"
	CourseLecture   CourseType = "lecture"
	CourseTutorial  CourseType = "tutorial"
	CoursePractical CourseType = "practical"
	CourseExam      CourseType = "exam"
)

// Course is the canonical schedule entry produced regardless of the source
// feed format. Immutable once produced; identity is the source event UID,
// namespaced by the feed id through SourceAccountID ("feed_<feedID>").
type Course struct {
	ID              string
	Subject         string
	Type            CourseType
	Start           time.Time
	End             time.Time
	Room            string
	Teacher         string
	Group           string
	AdditionalInfo  string
	Color           string
	SourceAccountID string
}

// ConversionContext carries per-feed detection state into event conversion.
type ConversionContext struct {
	FeedID             string
	FeedTitle          string
	FeedColor          string
	IsADE              bool
	IsHyperplanning    bool
	IntelligentParsing bool
}
