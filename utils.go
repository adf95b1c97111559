package imagebin

import (
	"sort"
	"strings"
)

// ParseTags splits a comma-separated tag filter into trimmed, lowercased
// tags, dropping empty entries.
func ParseTags(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.ToLower(strings.TrimSpace(p))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// matchesOwner reports whether rec belongs to owner. An empty owner filter
// matches everything.
func matchesOwner(rec ImageRecord, owner string) bool {
	return owner == "" || rec.OwnerID == owner
}

// matchesTags implements the OR semantics of the tag filter: rec passes if
// it shares at least one tag with the filter list, case-insensitively.
func matchesTags(rec ImageRecord, filter []string) bool {
	if len(filter) == 0 {
		return true
	}

	for _, recTag := range rec.Tags {
		rt := strings.ToLower(recTag)
		for _, ft := range filter {
			if rt == ft {
				return true
			}
		}
	}
	return false
}

// matchesDateRange checks created_at against the inclusive bounds. The
// comparison is on the raw strings; RFC3339 UTC timestamps make that
// equivalent to a chronological comparison.
func matchesDateRange(rec ImageRecord, from, to string) bool {
	if from != "" && rec.CreatedAt < from {
		return false
	}
	if to != "" && rec.CreatedAt > to {
		return false
	}
	return true
}

// matchesTitle is a case-insensitive substring match on the title.
func matchesTitle(rec ImageRecord, title string) bool {
	if title == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.Title), strings.ToLower(title))
}

// FilterRecords applies q's filters as an AND of independent predicates and
// sorts the survivors by created_at descending, newest first. It runs over
// whatever page the store returned; combined with the store-level limit
// this means fewer matches than exist can come back, which is the
// documented listing behavior.
func FilterRecords(records []ImageRecord, q ListQuery) []ImageRecord {
	tagFilter := ParseTags(q.Tags)

	filtered := make([]ImageRecord, 0, len(records))
	for _, rec := range records {
		if !matchesOwner(rec, q.OwnerID) {
			continue
		}
		if !matchesTags(rec, tagFilter) {
			continue
		}
		if !matchesDateRange(rec, q.DateFrom, q.DateTo) {
			continue
		}
		if !matchesTitle(rec, q.Title) {
			continue
		}
		filtered = append(filtered, rec)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt > filtered[j].CreatedAt
	})

	return filtered
}

// AppliedFilters echoes the non-empty filters of q, keyed the way the API
// exposes them.
func AppliedFilters(q ListQuery) map[string]string {
	applied := make(map[string]string)
	if q.OwnerID != "" {
		applied["user_id"] = q.OwnerID
	}
	if q.Tags != "" {
		applied["tags"] = q.Tags
	}
	if q.DateFrom != "" {
		applied["date_from"] = q.DateFrom
	}
	if q.DateTo != "" {
		applied["date_to"] = q.DateTo
	}
	if q.Title != "" {
		applied["title"] = q.Title
	}
	return applied
}
