package calendar

import (
	"log/slog"
	"time"

	"github.com/teambition/rrule-go"
)

// Occurrence expansion safety cap per recurring event.
const maxOccurrencesPerEvent = 1000

// ExpandWeek expands recurring raw events into concrete occurrences within
// [rangeStart, rangeEnd). Non-recurring events pass through unchanged, in
// their original position. EXDATEs remove matching occurrences. Each
// occurrence gets a UID suffixed with its start time so that repeated
// ingestions of the same feed produce stable identities.
//
// An RRULE that cannot be parsed degrades to the base event alone.
func ExpandWeek(events []RawEvent, rangeStart, rangeEnd time.Time) []RawEvent {
	expanded := make([]RawEvent, 0, len(events))

	for _, event := range events {
		if event.RawRRule == "" {
			expanded = append(expanded, event)
			continue
		}
		expanded = append(expanded, expandEvent(event, rangeStart, rangeEnd)...)
	}

	return expanded
}

func expandEvent(event RawEvent, rangeStart, rangeEnd time.Time) []RawEvent {
	option, err := rrule.StrToROption(event.RawRRule)
	if err != nil {
		slog.Warn("Unparseable RRULE, keeping base event only", "uid", event.UID, "error", err)
		return []RawEvent{event}
	}
	option.Dtstart = event.Start

	rule, err := rrule.NewRRule(*option)
	if err != nil {
		slog.Warn("Invalid RRULE, keeping base event only", "uid", event.UID, "error", err)
		return []RawEvent{event}
	}

	duration := event.End.Sub(event.Start)
	if duration <= 0 {
		duration = time.Hour
	}

	occurrences := make([]RawEvent, 0)
	for _, start := range rule.Between(rangeStart.Add(-duration), rangeEnd, true) {
		if !start.Before(rangeEnd) {
			continue
		}
		if isExcluded(start, event.ExDates) {
			continue
		}
		if len(occurrences) >= maxOccurrencesPerEvent {
			slog.Warn("Occurrence cap reached", "uid", event.UID, "cap", maxOccurrencesPerEvent)
			break
		}

		occurrence := event
		occurrence.UID = event.UID + "_" + start.Format("20060102T150405")
		occurrence.Start = start
		occurrence.End = start.Add(duration)
		occurrence.RawRRule = ""
		occurrence.ExDates = nil
		occurrences = append(occurrences, occurrence)
	}

	return occurrences
}

func isExcluded(start time.Time, exDates []time.Time) bool {
	for _, excluded := range exDates {
		if start.Equal(excluded) {
			return true
		}
	}
	return false
}
