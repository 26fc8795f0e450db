package calendar

import (
	"strings"
	"testing"
	"time"
)

func icsFixture(body string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//ADE/version 6.0",
		"X-WR-CALNAME:L3 Informatique",
		body,
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

func TestParserRun_Metadata(t *testing.T) {
	parser := NewParser()

	metadata, _, err := parser.Run(icsFixture(strings.Join([]string{
		"BEGIN:VEVENT",
		"UID:evt-1",
		"SUMMARY:Analyse",
		"DTSTART:20260119T080000Z",
		"DTEND:20260119T100000Z",
		"END:VEVENT",
	}, "\r\n")))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata.ProdID != "-//ADE/version 6.0" {
		t.Errorf("Expected ADE prodid, got '%s'", metadata.ProdID)
	}
	if metadata.CalendarName != "L3 Informatique" {
		t.Errorf("Expected calendar name 'L3 Informatique', got '%s'", metadata.CalendarName)
	}
}

func TestParserRun_Event(t *testing.T) {
	parser := NewParser()

	_, events, err := parser.Run(icsFixture(strings.Join([]string{
		"BEGIN:VEVENT",
		"UID:evt-1",
		"SUMMARY:Analyse",
		"DESCRIPTION:M. Durand / Groupe A / TD\\nExported",
		"LOCATION:B204",
		"ORGANIZER;CN=M. Durand:mailto:durand@univ.example",
		"DTSTART:20260119T080000Z",
		"DTEND:20260119T100000Z",
		"END:VEVENT",
	}, "\r\n")))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.UID != "evt-1" {
		t.Errorf("Expected UID 'evt-1', got '%s'", event.UID)
	}
	if event.Summary != "Analyse" {
		t.Errorf("Expected summary 'Analyse', got '%s'", event.Summary)
	}
	if event.Description != "M. Durand / Groupe A / TD\nExported" {
		t.Errorf("Expected unescaped description, got '%s'", event.Description)
	}
	if event.Location != "B204" {
		t.Errorf("Expected location 'B204', got '%s'", event.Location)
	}
	if event.Organizer != "M. Durand" {
		t.Errorf("Expected organizer CN 'M. Durand', got '%s'", event.Organizer)
	}
	expectedStart := time.Date(2026, 1, 19, 8, 0, 0, 0, time.UTC)
	if !event.Start.Equal(expectedStart) {
		t.Errorf("Expected start %v, got %v", expectedStart, event.Start)
	}
	if event.AllDay {
		t.Error("Expected timed event, got all-day")
	}
}

func TestParserRun_SkipsEventWithoutUID(t *testing.T) {
	parser := NewParser()

	_, events, err := parser.Run(icsFixture(strings.Join([]string{
		"BEGIN:VEVENT",
		"SUMMARY:No identity",
		"DTSTART:20260119T080000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:evt-2",
		"SUMMARY:Valid",
		"DTSTART:20260120T080000Z",
		"END:VEVENT",
	}, "\r\n")))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("Expected malformed event to be skipped, got %d events", len(events))
	}
	if events[0].UID != "evt-2" {
		t.Errorf("Expected surviving event 'evt-2', got '%s'", events[0].UID)
	}
}

func TestParserRun_AllDayEvent(t *testing.T) {
	parser := NewParser()

	_, events, err := parser.Run(icsFixture(strings.Join([]string{
		"BEGIN:VEVENT",
		"UID:evt-3",
		"SUMMARY:Holiday",
		"DTSTART;VALUE=DATE:20260119",
		"END:VEVENT",
	}, "\r\n")))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}

	if !events[0].AllDay {
		t.Error("Expected all-day event")
	}
}

func TestParserRun_RecurrenceProperties(t *testing.T) {
	parser := NewParser()

	_, events, err := parser.Run(icsFixture(strings.Join([]string{
		"BEGIN:VEVENT",
		"UID:evt-4",
		"SUMMARY:Weekly lab",
		"DTSTART:20260119T080000Z",
		"DTEND:20260119T100000Z",
		"RRULE:FREQ=WEEKLY;COUNT=4",
		"EXDATE:20260126T080000Z",
		"END:VEVENT",
	}, "\r\n")))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.RawRRule != "FREQ=WEEKLY;COUNT=4" {
		t.Errorf("Expected RRULE to be carried raw, got '%s'", event.RawRRule)
	}
	if len(event.ExDates) != 1 {
		t.Fatalf("Expected 1 EXDATE, got %d", len(event.ExDates))
	}
	expected := time.Date(2026, 1, 26, 8, 0, 0, 0, time.UTC)
	if !event.ExDates[0].Equal(expected) {
		t.Errorf("Expected EXDATE %v, got %v", expected, event.ExDates[0])
	}
}

func TestParserRun_UnreadablePayload(t *testing.T) {
	parser := NewParser()

	if _, _, err := parser.Run("this is not a calendar"); err == nil {
		t.Error("Expected error for unreadable payload, got nil")
	}
}
