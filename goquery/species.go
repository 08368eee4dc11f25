package goquery

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/vogel"
)

// Ensure SpeciesExtractor implements vogel.SpeciesExtractor at compile time.
var _ vogel.SpeciesExtractor = (*SpeciesExtractor)(nil)

// CSS selectors of the portrait page layout.
const (
	descriptionSelector = "div.single-bird-description"
	factListSelector    = "div.vogelartendetail-single-factlist"
	factCardSelector    = "div.vogelartendetail-single-factcards-card"
	factCardBody        = "div.vogelartendetail-single-factcards-card-body"
	teaserBodySelector  = "div.single-teaser-text-body"
)

// SpeciesExtractor reads a species record from a portrait page.
// Each field has its own strategy; a field the page does not provide is
// left empty and logged as a warning.
type SpeciesExtractor struct {
	logger *slog.Logger
}

// NewSpeciesExtractor creates a new SpeciesExtractor. A nil logger discards
// all output.
func NewSpeciesExtractor(logger *slog.Logger) *SpeciesExtractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SpeciesExtractor{logger: logger}
}

// ExtractSpecies parses a portrait page. It never fails: if the page cannot
// be processed the error is logged and vogel.DegradedSpecies is returned.
func (e *SpeciesExtractor) ExtractSpecies(html string) (species *vogel.Species) {
	logger := e.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("failed to parse species html", "err", fmt.Sprint(r))
			species = vogel.DegradedSpecies()
		}
	}()

	doc, err := newDocument(html)
	if err != nil {
		logger.Error("failed to parse species html", "err", err)
		return vogel.DegradedSpecies()
	}

	return extract(doc, logger)
}

func extract(doc *goquery.Document, logger *slog.Logger) *vogel.Species {
	s := &vogel.Species{}

	s.GermanName = text(doc.Find("h1"))
	if s.GermanName == "" {
		logger.Warn("german name not found")
	}

	s.LatinName = text(doc.Find("h2").First().Find("em"))
	if s.LatinName == "" {
		logger.Warn("latin name not found")
	}

	s.Description = text(doc.Find(descriptionSelector))
	if s.Description == "" {
		logger.Warn("description not found")
	}

	for field, value := range factListFields(doc) {
		s.Set(field, value)
	}
	for _, rule := range CardLabels {
		s.Set(rule.Field, cardContent(doc, rule.Label))
	}

	s.Endangerment = endangerment(doc)
	if s.Endangerment != "" {
		logger.Debug("found endangerment status", "endangerment", s.Endangerment)
	} else {
		logger.Warn("endangerment status not found")
	}

	s.BreedingPairs = breedingPairs(doc)
	if s.BreedingPairs != vogel.NoData {
		logger.Debug("found breeding pairs", "breeding_pairs", s.BreedingPairs)
	}

	s.OtherTips = otherTips(doc)

	if missing := s.MissingFields(); len(missing) > 0 {
		logger.Warn("missing fields",
			"species", s.GermanName,
			"fields", strings.Join(missing, ", "),
		)
	}

	logger.Info("parsed species",
		"german_name", s.GermanName,
		"latin_name", s.LatinName,
	)
	return s
}

// factListFields classifies the items of the first fact list. Items with an
// icon are classified by FactIcons only, items without by FactKeywords.
// Per field the first item in document order wins, and an icon match
// always beats a keyword match.
func factListFields(doc *goquery.Document) map[string]string {
	byIcon := make(map[string]string)
	byKeyword := make(map[string]string)

	doc.Find(factListSelector).First().Find("li").Each(func(_ int, item *goquery.Selection) {
		value := text(item)
		if value == "" {
			return
		}

		hits := byKeyword
		var field string
		if icon := item.Find("i").First(); icon.Length() > 0 {
			class, _ := icon.Attr("class")
			field, hits = IconField(class), byIcon
		} else {
			field = KeywordField(value)
		}

		if field == "" {
			return
		}
		if _, ok := hits[field]; !ok {
			hits[field] = value
		}
	})

	for field, value := range byKeyword {
		if _, ok := byIcon[field]; !ok {
			byIcon[field] = value
		}
	}
	return byIcon
}

// cardContent returns the body text of the first fact card whose heading
// matches label.
func cardContent(doc *goquery.Document, label string) string {
	var content string
	doc.Find(factCardSelector).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		heading := card.Find("h3").First()
		if heading.Length() == 0 || !MatchesLabel(text(heading), label) {
			return true
		}
		content = text(card.Find(factCardBody))
		return false
	})
	return content
}

func endangerment(doc *goquery.Document) string {
	heading := findHeading(doc, "h4", EndangermentMarker)
	return firstLine(heading.NextAllFiltered("div").First())
}

func breedingPairs(doc *goquery.Document) string {
	heading := findHeading(doc, "h4", BreedingPairsMarker)
	if v := text(heading.NextAllFiltered("p")); v != "" {
		return v
	}
	return vogel.NoData
}

func otherTips(doc *goquery.Document) string {
	heading := findHeading(doc, "h4", TipsMarker)
	return text(heading.Parent().Parent().Find(teaserBodySelector))
}
