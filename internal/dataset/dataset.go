// Package dataset holds the charity table loaded once at startup and the vocabularies
// derived from it. A Dataset is never mutated after construction and is safe for
// concurrent readers.
package dataset

import (
	"github.com/dlclark/regexp2"

	"charity-chat-service/internal/models"
)

// cityPattern matches runs of capitalised words ("Boston", "New York City"). It also
// matches sentence-initial words and other proper nouns; callers rely on that.
// Word boundaries are Unicode-aware and the engine backtracks, so "Café" yields
// nothing and "New Yorké" yields "New".
var cityPattern = regexp2.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)*)\b`, regexp2.None)

type Dataset struct {
	charities  []models.Charity
	byID       map[int64]int
	categories []string
	causes     []string
	cities     []string
}

// New copies records into a Dataset, deriving each record's cities from its mission
// and tagline. Record order is kept and defines the order of every vocabulary.
func New(records []models.Charity) *Dataset {
	d := &Dataset{
		charities: make([]models.Charity, len(records)),
		byID:      make(map[int64]int, len(records)),
	}
	seenCategory := make(map[string]struct{})
	seenCause := make(map[string]struct{})
	seenCity := make(map[string]struct{})

	for i, rec := range records {
		rec.Cities = ExtractCities(rec.Mission + " " + rec.Tagline)
		d.charities[i] = rec

		if _, ok := d.byID[rec.ID]; !ok {
			d.byID[rec.ID] = i
		}
		d.categories = appendUnique(d.categories, seenCategory, rec.Category)
		d.causes = appendUnique(d.causes, seenCause, rec.Cause)
		for _, c := range rec.Cities {
			d.cities = appendUnique(d.cities, seenCity, c)
		}
	}
	return d
}

func appendUnique(dst []string, seen map[string]struct{}, v string) []string {
	if v == "" {
		return dst
	}
	if _, ok := seen[v]; ok {
		return dst
	}
	seen[v] = struct{}{}
	return append(dst, v)
}

// ExtractCities returns the distinct capitalised phrases in text, in order of first
// appearance.
func ExtractCities(text string) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	// Errors are only reported on match timeouts, which are not configured.
	m, err := cityPattern.FindStringMatch(text)
	for m != nil && err == nil {
		out = appendUnique(out, seen, m.String())
		m, err = cityPattern.FindNextMatch(m)
	}
	return out
}

// Len reports the number of records.
func (d *Dataset) Len() int { return len(d.charities) }

// Charities returns the records in load order. The slice is shared; do not modify it.
func (d *Dataset) Charities() []models.Charity { return d.charities }

// Categories returns the distinct non-empty categories in first-seen order.
func (d *Dataset) Categories() []string { return d.categories }

// Causes returns the distinct non-empty causes in first-seen order.
func (d *Dataset) Causes() []string { return d.causes }

// Cities returns every derived city across all records, deduplicated, in first-seen order.
func (d *Dataset) Cities() []string { return d.cities }

// ByID returns the first record carrying id.
func (d *Dataset) ByID(id int64) (models.Charity, bool) {
	i, ok := d.byID[id]
	if !ok {
		return models.Charity{}, false
	}
	return d.charities[i], true
}
