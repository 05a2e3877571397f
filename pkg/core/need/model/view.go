package model

import (
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortByPriority SortKey = "priority"
	SortByDate     SortKey = "date"
	SortByTitle    SortKey = "title"
)

// ParseSortKey defaults to priority when s is empty.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByPriority:
		return SortByPriority, true
	case SortByDate:
		return SortByDate, true
	case SortByTitle:
		return SortByTitle, true
	}
	return "", false
}

// AllDomains is the filter value that disables domain filtering.
const AllDomains = "All"

// DomainSlug normalizes a category so "Disaster Relief" and "disaster-relief"
// compare equal.
func DomainSlug(domain string) string {
	return slug.Make(domain)
}

// DomainFilter turns a domain query value into the slug to match. An empty
// domain or "All" yields "", which selects everything.
func DomainFilter(domain string) string {
	domain = strings.TrimSpace(domain)
	if domain == "" || strings.EqualFold(domain, AllDomains) {
		return ""
	}
	return DomainSlug(domain)
}

// SortNeeds returns a sorted copy; the input is left untouched.
//
// Date order is newest first by CreatedAt with the id as a tiebreak. Ids are
// UUIDv7 so they follow creation order too, but CreatedAt is the field that
// carries the date.
func SortNeeds(needs []Need, key SortKey, tag language.Tag) []Need {
	out := append([]Need(nil), needs...)
	switch key {
	case SortByDate:
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		})
	case SortByTitle:
		// Collator is not safe for concurrent use; one per call.
		c := collate.New(tag)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Title, out[j].Title) < 0
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority().Rank() < out[j].Priority().Rank()
		})
	}
	return out
}
