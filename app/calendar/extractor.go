package calendar

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Default field values used when extraction cannot recover a field.
const (
	DefaultTeacher   = "Unknown"
	DefaultGroup     = "Unknown"
	DefaultTypeLabel = "Activity"
)

// Fields is the partial result of a description extraction. Extraction is
// best-effort: a field that could not be recovered keeps its default value.
type Fields struct {
	Teacher   string
	Group     string
	TypeLabel string
}

// Extractor recovers structured fields from a provider-specific free-text
// event description. Implementations never fail; malformed input degrades
// to DefaultFields().
type Extractor interface {
	Extract(description string) Fields
}

func DefaultFields() Fields {
	return Fields{
		Teacher:   DefaultTeacher,
		Group:     DefaultGroup,
		TypeLabel: DefaultTypeLabel,
	}
}

// IsDefault reports whether extraction recovered nothing at all.
func (f Fields) IsDefault() bool {
	return f == DefaultFields()
}

// ExtractorFor selects the grammar matching the conversion context. When the
// feed's own signature is ambiguous, the description text itself is sniffed
// for the Hyperplanning key/value shape. Returns nil when no grammar applies.
func ExtractorFor(ctx ConversionContext, description string) Extractor {
	switch {
	case ctx.IsHyperplanning, LooksLikeHyperplanning(description):
		return &HyperplanningExtractor{}
	case ctx.IsADE:
		return &ADEExtractor{}
	default:
		return nil
	}
}

// labelType maps an extracted type label onto the canonical course type enum.
// Unrecognized labels stay activities; the raw label is still carried in the
// course's additional info.
func labelType(label string) CourseType {
	switch normalizeLabel(label) {
	case "cm", "cours", "amphi", "conference":
		return CourseLecture
	case "td", "tdm":
		return CourseTutorial
	case "tp", "tpm":
		return CoursePractical
	case "examen", "exam", "ds", "partiel", "controle", "cc":
		return CourseExam
	default:
		return CourseActivity
	}
}

func isTypeLabel(segment string) bool {
	return labelType(segment) != CourseActivity
}

// normalizeLabel lowercases a label and strips diacritics so that
// "Contrôle" and "controle" classify identically.
func normalizeLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		folded = strings.TrimSpace(s)
	}
	return strings.ToLower(folded)
}
