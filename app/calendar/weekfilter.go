package calendar

import (
	"time"
)

// FilterWeek retains the courses whose interval [Start, End) intersects the
// target window [weekStart, weekEnd), half-open on both ends: a course ending
// exactly at weekStart is excluded, one starting exactly at weekEnd is
// excluded. Input order is preserved; the input slice is not mutated.
func FilterWeek(courses []Course, weekStart, weekEnd time.Time) []Course {
	filtered := make([]Course, 0, len(courses))
	for _, course := range courses {
		if course.End.After(weekStart) && course.Start.Before(weekEnd) {
			filtered = append(filtered, course)
		}
	}
	return filtered
}
