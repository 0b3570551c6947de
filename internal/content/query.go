package content

import (
	"sort"
	"strings"
)

// AllCategories disables category filtering.
const AllCategories = "all"

// ListQuery filters a listing. Zero values select everything.
type ListQuery struct {
	Search   string
	Category string
	// Limit caps the returned items. Values below one are ignored.
	Limit int
	// IncludeHidden also returns records the kind marks as not visible,
	// such as unpublished posts.
	IncludeHidden bool
}

// ListResult is a page of records. Total counts matches before the limit.
type ListResult[T Entry] struct {
	Items []T
	Total int
}

func selectRecords[T Entry](kind Kind[T], records []T, query ListQuery) ListResult[T] {
	needle := strings.ToLower(strings.TrimSpace(query.Search))
	category := strings.TrimSpace(query.Category)
	if strings.EqualFold(category, AllCategories) {
		category = ""
	}

	matched := make([]T, 0, len(records))
	for _, record := range records {
		if !query.IncludeHidden && kind.Visible != nil && !kind.Visible(record) {
			continue
		}
		base := record.Base()
		if category != "" && !strings.EqualFold(base.Category, category) {
			continue
		}
		if needle != "" && !matchesSearch(base, needle) {
			continue
		}
		matched = append(matched, record)
	}

	sortRecords(kind, matched)
	total := len(matched)
	if query.Limit > 0 && query.Limit < total {
		matched = matched[:query.Limit]
	}
	return ListResult[T]{Items: matched, Total: total}
}

func matchesSearch(r *Record, needle string) bool {
	for _, field := range []string{r.Title, r.Excerpt, r.Content} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// sortRecords orders records newest first unless the kind overrides it. The
// sort is stable so equal timestamps keep their stored order.
func sortRecords[T Entry](kind Kind[T], records []T) {
	less := kind.Less
	if less == nil {
		less = func(a, b T) bool {
			return a.Base().PublishedAt.After(b.Base().PublishedAt)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return less(records[i], records[j])
	})
}

func distinctCategories[T Entry](records []T) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, record := range records {
		category := strings.TrimSpace(record.Base().Category)
		if category == "" {
			continue
		}
		folded := strings.ToLower(category)
		if _, ok := seen[folded]; ok {
			continue
		}
		seen[folded] = struct{}{}
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}
