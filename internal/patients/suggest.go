package patients

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSuggestLimit is the number of suggestions returned when no limit is
// requested.
const DefaultSuggestLimit = 10

// SuggestionType names what a suggestion points at.
type SuggestionType string

const (
	SuggestPatient         SuggestionType = "PATIENT"
	SuggestServiceProvider SuggestionType = "SERVICE_PROVIDER"
	SuggestDRG             SuggestionType = "DRG"
)

// Suggestion is one search-box completion.
type Suggestion struct {
	ID    string         `json:"id"`
	Label string         `json:"label"`
	Type  SuggestionType `json:"type"`
}

// PatientSuggestion labels a patient as "ID (Name)".
func PatientSuggestion(p Patient) Suggestion {
	return Suggestion{ID: p.ID, Label: p.ID + " (" + p.Name + ")", Type: SuggestPatient}
}

// DRGSuggestion labels a DRG as "Label (Code)".
func DRGSuggestion(d DRG) Suggestion {
	return Suggestion{ID: d.Code, Label: d.Label + " (" + d.Code + ")", Type: SuggestDRG}
}

type indexEntry struct {
	Suggestion
	key string
}

// Index matches queries against a fixed set of suggestions. Matching ignores
// case and diacritics.
type Index struct {
	entries []indexEntry
}

// NewIndex builds an index; suggestions keep their order within each match
// class.
func NewIndex(suggestions []Suggestion) *Index {
	idx := &Index{entries: make([]indexEntry, 0, len(suggestions))}
	for _, s := range suggestions {
		idx.entries = append(idx.entries, indexEntry{Suggestion: s, key: Fold(s.Label)})
	}
	return idx
}

// Len returns the number of indexed suggestions.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Search returns up to limit suggestions containing query. Labels starting
// with the query come before labels merely containing it. An empty query
// matches nothing.
func (idx *Index) Search(query string, limit int) []Suggestion {
	q := Fold(query)
	if q == "" {
		return []Suggestion{}
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	var prefix, contains []Suggestion
	for _, e := range idx.entries {
		switch {
		case strings.HasPrefix(e.key, q):
			prefix = append(prefix, e.Suggestion)
		case strings.Contains(e.key, q):
			contains = append(contains, e.Suggestion)
		}
	}

	results := append(prefix, contains...)
	if results == nil {
		return []Suggestion{}
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Fold lowercases s, strips diacritics and trims surrounding space.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
