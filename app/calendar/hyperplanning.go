package calendar

import (
	"strings"
)

// HyperplanningExtractor implements the Hyperplanning description grammar.
//
// Grammar: line-oriented "Key : Value" pairs as exported by Hyperplanning
// (Index Education):
//
//	Matière : MATHEMATIQUES
//	Enseignant : M. Durand
//	TD : INFO1-A
//	Type : TD
//	Salle : B204
//
// Recognized keys (case- and accent-insensitive): Enseignant/Prof/
// Professeur/Intervenant for the teacher; Groupe/TD/Promotion/Public for the
// single group; Type/Catégorie/Cat for the type label. Unknown keys and
// malformed lines are ignored.
type HyperplanningExtractor struct{}

func (e *HyperplanningExtractor) Extract(description string) Fields {
	fields := DefaultFields()

	for _, line := range strings.Split(description, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch normalizeLabel(key) {
		case "enseignant", "prof", "professeur", "intervenant":
			fields.Teacher = value
		case "groupe", "td", "promotion", "public":
			if fields.Group == DefaultGroup {
				fields.Group = value
			}
		case "type", "categorie", "cat":
			fields.TypeLabel = value
		}
	}

	return fields
}

// LooksLikeHyperplanning sniffs a description for the Hyperplanning key/value
// shape. Used when the feed's own product signature is ambiguous.
func LooksLikeHyperplanning(description string) bool {
	for _, line := range strings.Split(description, "\n") {
		key, _, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch normalizeLabel(key) {
		case "matiere", "enseignant", "professeur", "intervenant", "promotion":
			return true
		}
	}
	return false
}
