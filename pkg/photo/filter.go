package photo

import "strings"

const dateLayout = "2006-01-02"

// applyCheapFilters runs the text and numeric-range predicates over the
// extension-filtered listing, in that order. Listing order is preserved;
// predicates compose as a logical AND.
func applyCheapFilters(entries []FileEntry, criteria *SearchCriteria) []FileEntry {
	matched := entries
	if criteria.TextQuery != "" {
		matched = filterByText(matched, criteria.TextQuery)
	}
	if criteria.NumericRange != nil {
		matched = filterByNumericRange(matched, *criteria.NumericRange)
	}
	return matched
}

// filterByText keeps entries whose lower-cased name contains the
// lower-cased query as a substring.
func filterByText(entries []FileEntry, query string) []FileEntry {
	query = strings.ToLower(query)
	matched := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Name), query) {
			matched = append(matched, entry)
		}
	}
	return matched
}

// filterByNumericRange keeps entries whose numeric token lies inside the
// inclusive range. Entries without a token are excluded once the range is
// active.
func filterByNumericRange(entries []FileEntry, bounds NumericRange) []FileEntry {
	matched := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.NumericToken == nil {
			continue
		}
		if *entry.NumericToken >= bounds.Min && *entry.NumericToken <= bounds.Max {
			matched = append(matched, entry)
		}
	}
	return matched
}

// filterByDateRange keeps entries whose resolved creation date, formatted
// as a local YYYY-MM-DD day, lies inside the inclusive bounds. Callers must
// resolve CreatedAt first.
func filterByDateRange(entries []FileEntry, bounds DateRange) []FileEntry {
	matched := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		day := entry.CreatedAt.Format(dateLayout)
		if day >= bounds.Start && day <= bounds.End {
			matched = append(matched, entry)
		}
	}
	return matched
}

// names projects a match set onto its filenames, in order.
func names(entries []FileEntry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Name)
	}
	return out
}
