package goquery

import (
	"strings"

	"github.com/fwojciec/vogel"
)

// IconRule maps a Font Awesome icon class on a fact list item to a field.
type IconRule struct {
	Class string
	Field string
}

// KeywordRule maps a fact list item without an icon to a field by its text.
type KeywordRule struct {
	Field string
	Match func(text string) bool
}

// CardRule maps a fact card to a field when the card heading contains
// Label, ignoring case.
type CardRule struct {
	Label string
	Field string
}

// FactIcons are checked in order against the classes of an item's icon.
var FactIcons = []IconRule{
	{Class: "fa-expand-alt", Field: vogel.FieldSize},
	{Class: "fa-suitcase", Field: vogel.FieldMigrationDescriptionShort},
	{Class: "fa-calendar-alt", Field: vogel.FieldTimetable},
	{Class: "fa-lightbulb", Field: vogel.FieldShortLook},
}

// FactKeywords are checked in order against the text of items that carry
// no icon. The first matching rule decides the field.
var FactKeywords = []KeywordRule{
	{Field: vogel.FieldSize, Match: contains("cm groß")},
	{Field: vogel.FieldMigrationDescriptionShort, Match: containsFold("standvogel", "zugvogel", "zieher", "überwintert")},
	{Field: vogel.FieldTimetable, Match: containsFold("beobachten", "sichtbar", "anzutreffen", "zu sehen")},
}

// CardLabels are resolved in order, each against all fact cards.
var CardLabels = []CardRule{
	{Label: "Aussehen", Field: vogel.FieldLongLook},
	{Label: "Verhalten", Field: vogel.FieldBehavior},
	{Label: "Lebensraum", Field: vogel.FieldHabitat},
	{Label: "Zugverhalten", Field: vogel.FieldMigrationDescriptionLong},
	{Label: "Nahrung", Field: vogel.FieldDiet},
	{Label: "Stimme", Field: vogel.FieldVoice},
}

// Heading markers for facts that live in the sidebar boxes.
const (
	EndangermentMarker  = "Gefährdungsgrad"
	BreedingPairsMarker = "Bestandszahl"
	TipsMarker          = "Beobachtungstipp"
)

// IconField returns the field for an icon class attribute, or "" when none
// of the classes is known.
func IconField(class string) string {
	classes := strings.Fields(class)
	for _, rule := range FactIcons {
		for _, c := range classes {
			if c == rule.Class {
				return rule.Field
			}
		}
	}
	return ""
}

// KeywordField returns the field for the text of an item without icon,
// or "" when no keyword matches.
func KeywordField(text string) string {
	for _, rule := range FactKeywords {
		if rule.Match(text) {
			return rule.Field
		}
	}
	return ""
}

// MatchesLabel reports whether a card heading matches a label.
func MatchesLabel(heading, label string) bool {
	return strings.Contains(strings.ToLower(heading), strings.ToLower(label))
}

func contains(substrs ...string) func(string) bool {
	return func(text string) bool {
		for _, s := range substrs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}
}

func containsFold(substrs ...string) func(string) bool {
	return func(text string) bool {
		text = strings.ToLower(text)
		for _, s := range substrs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}
}
