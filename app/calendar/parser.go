package calendar

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// Parser turns raw ICS text into raw events plus feed metadata.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run parses an ICS payload. A malformed individual event is skipped and the
// rest of the feed continues to parse; only an unreadable payload fails.
func (p *Parser) Run(text string) (*Metadata, []RawEvent, error) {
	cal, err := ical.ParseCalendar(strings.NewReader(text))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	metadata := &Metadata{}
	for _, prop := range cal.CalendarProperties {
		switch prop.IANAToken {
		case "PRODID":
			metadata.ProdID = prop.Value
		case "X-WR-CALNAME":
			metadata.CalendarName = prop.Value
		}
	}

	events := make([]RawEvent, 0, len(cal.Events()))
	for i, component := range cal.Events() {
		event, err := p.parseEvent(component)
		if err != nil {
			slog.Warn("Skipping malformed event", "index", i, "error", err)
			continue
		}
		events = append(events, event)
	}

	return metadata, events, nil
}

func (p *Parser) parseEvent(ve *ical.VEvent) (RawEvent, error) {
	var event RawEvent

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return event, fmt.Errorf("missing UID")
	}
	event.UID = uid.Value

	if prop := ve.GetProperty(ical.ComponentPropertySummary); prop != nil {
		event.Summary = prop.Value
	}
	if prop := ve.GetProperty(ical.ComponentPropertyDescription); prop != nil {
		event.Description = unescapeText(prop.Value)
	}
	if prop := ve.GetProperty(ical.ComponentPropertyLocation); prop != nil {
		event.Location = prop.Value
	}
	if prop := ve.GetProperty(ical.ComponentPropertyOrganizer); prop != nil {
		event.Organizer = organizerName(prop)
	}

	// Start/end may legitimately be absent; the converter applies defaults.
	if start, err := ve.GetStartAt(); err == nil {
		event.Start = start
	}
	if end, err := ve.GetEndAt(); err == nil {
		event.End = end
	}

	event.AllDay = isAllDay(ve)

	if prop := ve.GetProperty(ical.ComponentPropertyRrule); prop != nil {
		event.RawRRule = prop.Value
	}
	for _, prop := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(prop.Value, ",") {
			if t, err := parseICSTime(strings.TrimSpace(part)); err == nil {
				event.ExDates = append(event.ExDates, t)
			}
		}
	}

	return event, nil
}

// isAllDay detects all-day events by the DTSTART value format: either an
// explicit VALUE=DATE parameter or a date without a time component.
func isAllDay(ve *ical.VEvent) bool {
	prop := ve.GetProperty(ical.ComponentPropertyDtStart)
	if prop == nil {
		return false
	}
	if params := prop.ICalParameters; params != nil {
		if values, ok := params["VALUE"]; ok && len(values) > 0 && strings.EqualFold(values[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(prop.Value, "T")
}

// organizerName prefers the CN parameter over the raw value, which is
// usually a mailto: URI.
func organizerName(prop *ical.IANAProperty) string {
	if params := prop.ICalParameters; params != nil {
		if names, ok := params["CN"]; ok && len(names) > 0 && names[0] != "" {
			return strings.Trim(names[0], "\"")
		}
	}
	return strings.TrimPrefix(prop.Value, "mailto:")
}

// unescapeText reverses RFC 5545 text escaping in description values.
func unescapeText(value string) string {
	replacer := strings.NewReplacer(
		"\\n", "\n",
		"\\N", "\n",
		"\\,", ",",
		"\\;", ";",
		"\\\\", "\\",
	)
	return replacer.Replace(value)
}

// parseICSTime parses basic ICS date/date-time values as found in EXDATE.
func parseICSTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}

	if strings.HasSuffix(value, "Z") {
		return time.Parse("20060102T150405Z", value)
	}
	if strings.Contains(value, "T") {
		return time.ParseInLocation("20060102T150405", value, time.Local)
	}
	return time.ParseInLocation("20060102", value, time.Local)
}
