// Package insights derives the "your patterns" summaries shown alongside a
// user's own entries.
package insights

import (
	"sort"

	"golang.org/x/text/cases"

	"github.com/roach88/syncgo/internal/catalog"
	"github.com/roach88/syncgo/internal/model"
)

// Default limits used by the dashboard.
const (
	DefaultTopTags       = 5
	DefaultRepeatedSigns = 3
)

// Count is a label and how often it occurred.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Patterns bundles the dashboard summaries.
type Patterns struct {
	TopTags       []Count `json:"top_tags"`
	RepeatedSigns []Count `json:"repeated_signs"`
	// CustomTags are the tags outside the suggested catalog, sorted.
	CustomTags []string `json:"custom_tags"`
}

var fold = cases.Fold()

// Summarize computes Patterns with the dashboard's default limits.
func Summarize(events []model.Event) Patterns {
	return Patterns{
		TopTags:       TopTags(events, DefaultTopTags),
		RepeatedSigns: RepeatedSigns(events, DefaultRepeatedSigns),
		CustomTags:    CustomTags(events),
	}
}

// CustomTags returns the distinct tags on events that are not catalog tags.
func CustomTags(events []model.Event) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, e := range events {
		for _, tag := range e.Tags {
			if seen[tag] || catalog.IsKnownTag(tag) {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// TopTags returns up to n tags ordered by usage, most used first.
// Ties are broken alphabetically.
func TopTags(events []model.Event, n int) []Count {
	counts := make(map[string]int)
	for _, e := range events {
		for _, tag := range e.Tags {
			counts[tag]++
		}
	}
	return rank(counts, n, 1)
}

// RepeatedSigns returns up to n case-folded titles that appear on more than
// one event, most repeated first.
func RepeatedSigns(events []model.Event, n int) []Count {
	counts := make(map[string]int)
	for _, e := range events {
		counts[fold.String(e.Title)]++
	}
	return rank(counts, n, 2)
}

// FilterByTag returns the events carrying tag, preserving order.
// An empty tag returns events unchanged.
func FilterByTag(events []model.Event, tag string) []model.Event {
	if tag == "" {
		return events
	}
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e.HasTag(tag) {
			out = append(out, e)
		}
	}
	return out
}

func rank(counts map[string]int, n, atLeast int) []Count {
	out := make([]Count, 0, len(counts))
	for label, c := range counts {
		if c >= atLeast {
			out = append(out, Count{Label: label, Count: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
