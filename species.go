package vogel

import (
	"bytes"
	"context"
	"encoding/json"
)

// NoData is the breeding pairs value used when a portrait publishes no
// population estimate.
const NoData = "Keine Angabe"

// Species is the record extracted from one species portrait page.
// Every field is always set; facts missing from the page are empty strings,
// except BreedingPairs which falls back to NoData.
type Species struct {
	GermanName                string `json:"german_name"`
	LatinName                 string `json:"latin_name"`
	Description               string `json:"description"`
	Size                      string `json:"size"`
	MigrationDescriptionShort string `json:"migration_description_short"`
	Timetable                 string `json:"timetable"`
	ShortLook                 string `json:"short_look"`
	LongLook                  string `json:"long_look"`
	Behavior                  string `json:"behavior"`
	Habitat                   string `json:"habitat"`
	Endangerment              string `json:"endangerment"`
	BreedingPairs             string `json:"breeding_pairs"`
	MigrationDescriptionLong  string `json:"migration_description_long"`
	Diet                      string `json:"diet"`
	Voice                     string `json:"voice"`
	OtherTips                 string `json:"other_tips"`
}

// Field names in canonical record order.
const (
	FieldGermanName                = "german_name"
	FieldLatinName                 = "latin_name"
	FieldDescription               = "description"
	FieldSize                      = "size"
	FieldMigrationDescriptionShort = "migration_description_short"
	FieldTimetable                 = "timetable"
	FieldShortLook                 = "short_look"
	FieldLongLook                  = "long_look"
	FieldBehavior                  = "behavior"
	FieldHabitat                   = "habitat"
	FieldEndangerment              = "endangerment"
	FieldBreedingPairs             = "breeding_pairs"
	FieldMigrationDescriptionLong  = "migration_description_long"
	FieldDiet                      = "diet"
	FieldVoice                     = "voice"
	FieldOtherTips                 = "other_tips"
)

// FieldNames lists all record fields in canonical order.
var FieldNames = []string{
	FieldGermanName,
	FieldLatinName,
	FieldDescription,
	FieldSize,
	FieldMigrationDescriptionShort,
	FieldTimetable,
	FieldShortLook,
	FieldLongLook,
	FieldBehavior,
	FieldHabitat,
	FieldEndangerment,
	FieldBreedingPairs,
	FieldMigrationDescriptionLong,
	FieldDiet,
	FieldVoice,
	FieldOtherTips,
}

// Field is a single named value of a Species record.
type Field struct {
	Name  string
	Value string
}

// DegradedSpecies returns the record used when a page could not be parsed:
// every field empty except BreedingPairs, which holds NoData.
func DegradedSpecies() *Species {
	return &Species{BreedingPairs: NoData}
}

// Fields returns the record's values in canonical order.
func (s *Species) Fields() []Field {
	ptrs := s.fieldPtrs()
	fields := make([]Field, len(FieldNames))
	for i, name := range FieldNames {
		fields[i] = Field{Name: name, Value: *ptrs[i]}
	}
	return fields
}

// Set assigns a field by name. It returns false for unknown field names.
func (s *Species) Set(name, value string) bool {
	for i, n := range FieldNames {
		if n == name {
			*s.fieldPtrs()[i] = value
			return true
		}
	}
	return false
}

// Get returns a field value by name.
func (s *Species) Get(name string) (string, bool) {
	for i, n := range FieldNames {
		if n == name {
			return *s.fieldPtrs()[i], true
		}
	}
	return "", false
}

// MissingFields returns the names of fields the page did not provide.
// BreedingPairs and OtherTips are optional on portrait pages and never
// reported.
func (s *Species) MissingFields() []string {
	var missing []string
	for _, f := range s.Fields() {
		if f.Name == FieldBreedingPairs || f.Name == FieldOtherTips {
			continue
		}
		if f.Value == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// Name returns the display name of the record, falling back to fallback
// when the page had no heading.
func (s *Species) Name(fallback string) string {
	if s.GermanName != "" {
		return s.GermanName
	}
	return fallback
}

func (s *Species) fieldPtrs() []*string {
	return []*string{
		&s.GermanName,
		&s.LatinName,
		&s.Description,
		&s.Size,
		&s.MigrationDescriptionShort,
		&s.Timetable,
		&s.ShortLook,
		&s.LongLook,
		&s.Behavior,
		&s.Habitat,
		&s.Endangerment,
		&s.BreedingPairs,
		&s.MigrationDescriptionLong,
		&s.Diet,
		&s.Voice,
		&s.OtherTips,
	}
}

// DecodeSpecies constructs a Species from its JSON form. All sixteen fields
// must be present and hold strings; empty strings are valid. Unknown keys
// are ignored.
func DecodeSpecies(data []byte) (*Species, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Errorf(EINVALID, "species record must be a JSON object: %v", err)
	}
	if raw == nil {
		return nil, Errorf(EINVALID, "species record must be a JSON object")
	}

	s := &Species{}
	ptrs := s.fieldPtrs()
	for i, name := range FieldNames {
		value, ok := raw[name]
		if !ok {
			return nil, Errorf(EINVALID, "species field %q missing", name)
		}
		value = bytes.TrimSpace(value)
		if len(value) == 0 || value[0] != '"' {
			return nil, Errorf(EINVALID, "species field %q must be a string", name)
		}
		if err := json.Unmarshal(value, ptrs[i]); err != nil {
			return nil, Errorf(EINVALID, "species field %q: %v", name, err)
		}
	}
	return s, nil
}

// SpeciesExtractor turns a species portrait page into a record.
type SpeciesExtractor interface {
	// ExtractSpecies never fails. Missing facts become empty fields and a
	// page that cannot be processed yields DegradedSpecies.
	ExtractSpecies(html string) *Species
}

// SpeciesWriter persists extracted records.
type SpeciesWriter interface {
	// WriteSpecies stores a record. The key is the name of the page the
	// record was parsed from.
	WriteSpecies(ctx context.Context, key string, s *Species) error
}

// SpeciesService represents a service for managing stored records.
type SpeciesService interface {
	SpeciesWriter

	// FindSpeciesByName retrieves a record by its display name.
	// Returns ENOTFOUND if the record does not exist.
	FindSpeciesByName(ctx context.Context, name string) (*Species, error)

	// FindSpecies retrieves records matching the filter, ordered by name.
	FindSpecies(ctx context.Context, filter SpeciesFilter) ([]*SpeciesEntry, error)

	// DeleteSpecies removes a record.
	// Returns ENOTFOUND if the record does not exist.
	DeleteSpecies(ctx context.Context, name string) error
}

// SpeciesEntry is a stored record with the name it is stored under. Name
// is the page key for records without a german name.
type SpeciesEntry struct {
	Name string
	*Species
}

// SpeciesFilter represents a filter for FindSpecies.
type SpeciesFilter struct {
	// Name matches records whose name contains the value.
	Name *string `json:"name"`

	// Endangerment matches records with exactly this status.
	Endangerment *string `json:"endangerment"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
