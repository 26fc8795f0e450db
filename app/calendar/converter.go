package calendar

import (
	"cmp"
	"strings"
	"time"
)

const defaultCourseColor = "#4CAF50"

// Converter maps raw events into canonical courses using the per-feed
// detection context.
type Converter struct{}

func NewConverter() *Converter {
	return &Converter{}
}

// Run converts a single raw event. Field extraction only happens when the
// feed has intelligent parsing enabled and a description is present; in every
// other case the course is a plain activity carrying the raw description.
func (c *Converter) Run(event RawEvent, ctx ConversionContext) Course {
	fields := DefaultFields()
	extracted := false

	if ctx.IntelligentParsing && event.Description != "" {
		if extractor := ExtractorFor(ctx, event.Description); extractor != nil {
			fields = extractor.Extract(event.Description)
			extracted = true
		}
	}

	// The organizer only stands in for the teacher when extraction ran and
	// recovered nothing; without a grammar the field stays at its default.
	teacher := fields.Teacher
	if extracted && teacher == DefaultTeacher && event.Organizer != "" {
		teacher = event.Organizer
	}

	// The extracted type label is only worth surfacing when it says more
	// than the default; otherwise keep the raw description.
	additionalInfo := event.Description
	if fields.TypeLabel != DefaultTypeLabel {
		additionalInfo = fields.TypeLabel
	}

	start := event.Start
	if start.IsZero() {
		start = time.Now()
	}
	end := event.End
	if end.IsZero() {
		end = start.Add(time.Hour)
	}

	return Course{
		ID:              event.UID,
		Subject:         cmp.Or(strings.TrimSpace(event.Summary), "Untitled"),
		Type:            labelType(fields.TypeLabel),
		Start:           start,
		End:             end,
		Room:            cmp.Or(event.Location, "N/A"),
		Teacher:         teacher,
		Group:           fields.Group,
		AdditionalInfo:  additionalInfo,
		Color:           cmp.Or(ctx.FeedColor, defaultCourseColor),
		SourceAccountID: "feed_" + ctx.FeedID,
	}
}

// RunAll converts a batch of raw events, preserving their order.
func (c *Converter) RunAll(events []RawEvent, ctx ConversionContext) []Course {
	courses := make([]Course, 0, len(events))
	for _, event := range events {
		courses = append(courses, c.Run(event, ctx))
	}
	return courses
}
