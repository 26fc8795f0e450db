package calendar

import (
	"strings"
	"testing"
	"time"
)

func TestConverterRun_IntelligentParsing(t *testing.T) {
	converter := NewConverter()

	event := RawEvent{
		UID:         "evt-1",
		Summary:     "Analyse",
		Description: "M. Durand / Groupe A / TD",
		Start:       time.Date(2026, 1, 19, 8, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 1, 19, 10, 0, 0, 0, time.UTC),
		Location:    "B204",
	}
	ctx := ConversionContext{
		FeedID:             "feed1",
		IsADE:              true,
		IntelligentParsing: true,
	}

	course := converter.Run(event, ctx)

	if course.Teacher != "M. Durand" {
		t.Errorf("Expected teacher 'M. Durand', got '%s'", course.Teacher)
	}
	if course.Group != "Groupe A" {
		t.Errorf("Expected group 'Groupe A', got '%s'", course.Group)
	}
	if course.Type != CourseTutorial {
		t.Errorf("Expected tutorial course type, got '%s'", course.Type)
	}
	if course.AdditionalInfo != "TD" {
		t.Errorf("Expected additional info 'TD', got '%s'", course.AdditionalInfo)
	}
	if course.SourceAccountID != "feed_feed1" {
		t.Errorf("Expected source account 'feed_feed1', got '%s'", course.SourceAccountID)
	}
}

func TestConverterRun_ParsingDisabled(t *testing.T) {
	converter := NewConverter()

	event := RawEvent{
		UID:         "evt-2",
		Summary:     "Analyse",
		Description: "M. Durand / Groupe A / TD",
		Start:       time.Date(2026, 1, 19, 8, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 1, 19, 10, 0, 0, 0, time.UTC),
	}
	ctx := ConversionContext{FeedID: "feed1", IsADE: true}

	course := converter.Run(event, ctx)

	if course.Type != CourseActivity {
		t.Errorf("Expected activity course type with parsing disabled, got '%s'", course.Type)
	}
	if course.Teacher != DefaultTeacher {
		t.Errorf("Expected default teacher, got '%s'", course.Teacher)
	}
	if course.AdditionalInfo != event.Description {
		t.Errorf("Expected raw description as additional info, got '%s'", course.AdditionalInfo)
	}
}

func TestConverterRun_OrganizerFallback(t *testing.T) {
	converter := NewConverter()

	// Extraction runs but recovers no teacher from the description.
	event := RawEvent{
		UID:         "evt-3",
		Summary:     "Projet",
		Description: "TD",
		Organizer:   "Mme Lefevre",
		Start:       time.Date(2026, 1, 20, 14, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 1, 20, 16, 0, 0, 0, time.UTC),
	}
	ctx := ConversionContext{FeedID: "feed1", IsADE: true, IntelligentParsing: true}

	course := converter.Run(event, ctx)

	if course.Teacher != "Mme Lefevre" {
		t.Errorf("Expected organizer fallback 'Mme Lefevre', got '%s'", course.Teacher)
	}
}

func TestConverterRun_NoOrganizerFallbackWithoutExtraction(t *testing.T) {
	converter := NewConverter()

	event := RawEvent{
		UID:         "evt-3b",
		Summary:     "Projet",
		Description: "Réunion de suivi",
		Organizer:   "Mme Lefevre",
		Start:       time.Date(2026, 1, 20, 14, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 1, 20, 16, 0, 0, 0, time.UTC),
	}

	scenarios := []struct {
		name string
		ctx  ConversionContext
	}{
		{"parsing disabled", ConversionContext{FeedID: "feed1", IsADE: true}},
		{"no grammar for provider", ConversionContext{FeedID: "feed1", IntelligentParsing: true}},
	}

	for _, scenario := range scenarios {
		course := converter.Run(event, scenario.ctx)
		if course.Teacher != DefaultTeacher {
			t.Errorf("%s: expected default teacher, got '%s'", scenario.name, course.Teacher)
		}
	}
}

func TestConverterRun_Defaults(t *testing.T) {
	converter := NewConverter()

	before := time.Now()
	course := converter.Run(RawEvent{UID: "evt-4"}, ConversionContext{FeedID: "feed1"})
	after := time.Now()

	if course.Subject != "Untitled" {
		t.Errorf("Expected subject 'Untitled', got '%s'", course.Subject)
	}
	if course.Room != "N/A" {
		t.Errorf("Expected room 'N/A', got '%s'", course.Room)
	}
	if course.Color != defaultCourseColor {
		t.Errorf("Expected color '%s', got '%s'", defaultCourseColor, course.Color)
	}
	if course.Start.Before(before) || course.Start.After(after) {
		t.Errorf("Expected start defaulted to now, got %v", course.Start)
	}
	if got := course.End.Sub(course.Start); got != time.Hour {
		t.Errorf("Expected one hour default duration, got %v", got)
	}
}

func TestConverterRun_EndDefaultsFromStart(t *testing.T) {
	converter := NewConverter()

	start := time.Date(2026, 1, 19, 8, 0, 0, 0, time.UTC)
	course := converter.Run(RawEvent{UID: "evt-5", Summary: "Maths", Start: start}, ConversionContext{FeedID: "feed1"})

	if !course.End.Equal(start.Add(time.Hour)) {
		t.Errorf("Expected end %v, got %v", start.Add(time.Hour), course.End)
	}
}

func TestConverterRun_FeedColor(t *testing.T) {
	converter := NewConverter()

	course := converter.Run(RawEvent{UID: "evt-6"}, ConversionContext{FeedID: "feed1", FeedColor: "#2196F3"})

	if course.Color != "#2196F3" {
		t.Errorf("Expected feed color to win, got '%s'", course.Color)
	}
}

func TestConverterRunAll_PreservesOrder(t *testing.T) {
	converter := NewConverter()

	events := []RawEvent{
		{UID: "z", Summary: "Last alphabetically"},
		{UID: "a", Summary: "First alphabetically"},
		{UID: "m", Summary: "Middle"},
	}

	courses := converter.RunAll(events, ConversionContext{FeedID: "feed1"})

	if len(courses) != len(events) {
		t.Fatalf("Expected %d courses, got %d", len(events), len(courses))
	}
	for i, course := range courses {
		if course.ID != events[i].UID {
			t.Errorf("Position %d: expected %s, got %s", i, events[i].UID, course.ID)
		}
	}
}

func TestConverterRun_SubjectTrimmed(t *testing.T) {
	converter := NewConverter()

	course := converter.Run(RawEvent{UID: "evt-7", Summary: "  Physique  "}, ConversionContext{FeedID: "feed1"})

	if strings.TrimSpace(course.Subject) != course.Subject {
		t.Errorf("Expected trimmed subject, got '%s'", course.Subject)
	}
	if course.Subject != "Physique" {
		t.Errorf("Expected subject 'Physique', got '%s'", course.Subject)
	}
}
