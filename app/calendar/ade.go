package calendar

import (
	"strings"
)

// ADEExtractor implements the ADE description grammar.
//
// Grammar: the description is a list of segments delimited by slashes and/or
// newlines, each optionally wrapped in square brackets, in no fixed order:
//
//	M. Durand / Groupe A / TD
//	[TD]
//	INFO1-A
//	DURAND M.
//	(Exported :18/01/2026 08:00)
//
// Segments are classified independently: a known course-type label becomes
// the type, "Groupe"/"Grp"/"G<n>"-shaped segments become groups (joined with
// ", " when several), a civility-prefixed or surname-shaped segment becomes
// the teacher. Anything else (export timestamps, module codes) is ignored.
type ADEExtractor struct{}

func (e *ADEExtractor) Extract(description string) Fields {
	fields := DefaultFields()

	var groups []string
	for _, segment := range splitADESegments(description) {
		switch {
		case fields.TypeLabel == DefaultTypeLabel && isTypeLabel(segment):
			fields.TypeLabel = segment
		case isADEGroup(segment):
			groups = append(groups, segment)
		case fields.Teacher == DefaultTeacher && isADETeacher(segment):
			fields.Teacher = segment
		}
	}

	if len(groups) > 0 {
		fields.Group = strings.Join(groups, ", ")
	}

	return fields
}

func splitADESegments(description string) []string {
	var segments []string

	for _, line := range strings.Split(description, "\n") {
		for _, raw := range strings.Split(line, "/") {
			segment := strings.TrimSpace(raw)
			segment = strings.TrimPrefix(segment, "[")
			segment = strings.TrimSuffix(segment, "]")
			segment = strings.TrimSpace(segment)

			if segment == "" || strings.HasPrefix(segment, "(") {
				continue
			}
			segments = append(segments, segment)
		}
	}

	return segments
}

func isADEGroup(segment string) bool {
	folded := normalizeLabel(segment)

	for _, prefix := range []string{"groupe", "grp", "promo"} {
		if strings.HasPrefix(folded, prefix) {
			return true
		}
	}

	// Short group codes like "G1" or "G2A"
	if len(folded) >= 2 && folded[0] == 'g' && folded[1] >= '0' && folded[1] <= '9' {
		return true
	}

	return false
}

func isADETeacher(segment string) bool {
	folded := normalizeLabel(segment)

	for _, prefix := range []string{"m. ", "mme ", "mme. ", "mlle ", "dr ", "pr ", "prof"} {
		if strings.HasPrefix(folded, prefix) {
			return true
		}
	}

	// Surname-shaped segment: leading token fully uppercase, no digits,
	// e.g. "DURAND M." as exported by ADE.
	first, _, _ := strings.Cut(strings.TrimSpace(segment), " ")
	if len(first) < 2 || strings.ContainsAny(first, "0123456789") {
		return false
	}
	return first == strings.ToUpper(first) && first != strings.ToLower(first)
}
