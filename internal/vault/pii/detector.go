// Package pii detects and masks personally identifiable information.
package pii

import (
	"regexp"
	"sort"
	"strings"
)

// Category classifies a detected PII match.
type Category string

const (
	CategoryEmail Category = "email"
	CategoryPhone Category = "phone"
	CategorySSN   Category = "ssn"
	CategoryCard  Category = "credit_card"
	CategoryName  Category = "name"
)

// RedactedPlaceholder replaces matches without a category-specific mask.
const RedactedPlaceholder = "[REDACTED]"

var patterns = map[Category]*regexp.Regexp{
	CategoryEmail: regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
	CategoryPhone: regexp.MustCompile(`\+?1?[-. ]?\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}\b`),
	CategorySSN:   regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	CategoryCard:  regexp.MustCompile(`\b(?:\d{4}[- ]){3}\d{4}\b|\b\d{15,16}\b`),
	// Honorific form first so "Dr. Jane Roe" matches from the title;
	// the bare two-word arm is the best-effort fallback.
	CategoryName: regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Prof)\.? [A-Z][a-z]+(?: [A-Z][a-z]+)?|\b[A-Z][a-z]+ [A-Z][a-z]+\b`),
}

// AllCategories returns every supported category.
func AllCategories() []Category {
	return []Category{CategoryEmail, CategoryPhone, CategorySSN, CategoryCard, CategoryName}
}

// Finding is one detected PII occurrence.
type Finding struct {
	Category Category `json:"category"`
	Match    string   `json:"match"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
}

// Detector scans text for the configured PII categories.
type Detector struct {
	categories []Category
}

// New creates a detector. With no arguments all categories are active.
func New(categories ...Category) *Detector {
	if len(categories) == 0 {
		categories = AllCategories()
	}
	active := make([]Category, 0, len(categories))
	seen := make(map[Category]bool, len(categories))
	for _, c := range categories {
		if _, known := patterns[c]; known && !seen[c] {
			active = append(active, c)
			seen[c] = true
		}
	}
	return &Detector{categories: active}
}

// Detect returns all findings in the text, ordered by position.
// Overlapping matches keep the earliest, longest occurrence.
func (d *Detector) Detect(text string) []Finding {
	var findings []Finding
	for _, cat := range d.categories {
		for _, loc := range patterns[cat].FindAllStringIndex(text, -1) {
			findings = append(findings, Finding{
				Category: cat,
				Match:    text[loc[0]:loc[1]],
				Start:    loc[0],
				End:      loc[1],
			})
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Start != findings[j].Start {
			return findings[i].Start < findings[j].Start
		}
		return findings[i].End > findings[j].End
	})

	// Drop findings swallowed by an earlier, wider match
	kept := findings[:0]
	lastEnd := -1
	for _, f := range findings {
		if f.Start < lastEnd {
			continue
		}
		kept = append(kept, f)
		lastEnd = f.End
	}
	return kept
}

// Contains reports whether the text holds any detectable PII.
func (d *Detector) Contains(text string) bool {
	for _, cat := range d.categories {
		if patterns[cat].MatchString(text) {
			return true
		}
	}
	return false
}

// Mask replaces every finding with its category mask and returns the
// masked text plus per-category counts for the audit trail.
func (d *Detector) Mask(text string) (string, map[Category]int) {
	findings := d.Detect(text)
	if len(findings) == 0 {
		return text, nil
	}

	counts := make(map[Category]int, len(findings))
	var b strings.Builder
	b.Grow(len(text))

	pos := 0
	for _, f := range findings {
		b.WriteString(text[pos:f.Start])
		b.WriteString(maskFor(f))
		counts[f.Category]++
		pos = f.End
	}
	b.WriteString(text[pos:])
	return b.String(), counts
}

// maskFor renders the replacement for one finding.
func maskFor(f Finding) string {
	switch f.Category {
	case CategoryEmail:
		if at := strings.LastIndexByte(f.Match, '@'); at >= 0 {
			return "***" + f.Match[at:]
		}
		return RedactedPlaceholder
	case CategoryCard:
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, f.Match)
		if len(digits) >= 4 {
			return "****-****-****-" + digits[len(digits)-4:]
		}
		return RedactedPlaceholder
	default:
		return RedactedPlaceholder
	}
}
