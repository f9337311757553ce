package photo

import (
	"fmt"
	"strconv"
	"strings"
)

// NumericRange bounds the numeric token of a filename, inclusive on both ends.
type NumericRange struct {
	Min int
	Max int
}

// DateRange bounds the entry creation date, inclusive on both ends. Bounds
// are canonical YYYY-MM-DD strings compared lexicographically; they are
// carried verbatim and never parsed.
type DateRange struct {
	Start string
	End   string
}

// SearchCriteria is the typed search request, parsed and validated once at
// the API boundary. Nil ranges impose no filtering for that dimension.
type SearchCriteria struct {
	TextQuery    string
	NumericRange *NumericRange
	DateRange    *DateRange
}

// ParseCriteria builds SearchCriteria from raw request scalars. A range is
// active only when both of its bounds are present and non-blank after
// trimming; a non-numeric min/max bound is a validation failure rather
// than a silent no-match.
func ParseCriteria(query, minBound, maxBound, startDate, endDate string) (*SearchCriteria, error) {
	criteria := &SearchCriteria{
		TextQuery: strings.TrimSpace(query),
	}

	minBound = strings.TrimSpace(minBound)
	maxBound = strings.TrimSpace(maxBound)
	if minBound != "" && maxBound != "" {
		minValue, err := strconv.Atoi(minBound)
		if err != nil {
			return nil, NewPipelineError(ErrValidation,
				fmt.Sprintf("min must be an integer, got %q", minBound)).WithCause(err)
		}

		maxValue, err := strconv.Atoi(maxBound)
		if err != nil {
			return nil, NewPipelineError(ErrValidation,
				fmt.Sprintf("max must be an integer, got %q", maxBound)).WithCause(err)
		}

		criteria.NumericRange = &NumericRange{Min: minValue, Max: maxValue}
	}

	startDate = strings.TrimSpace(startDate)
	endDate = strings.TrimSpace(endDate)
	if startDate != "" && endDate != "" {
		criteria.DateRange = &DateRange{Start: startDate, End: endDate}
	}

	return criteria, nil
}

// Empty reports whether no criterion is active at all.
func (c *SearchCriteria) Empty() bool {
	return c.TextQuery == "" && c.NumericRange == nil && c.DateRange == nil
}

// Describe renders the criteria for human-facing output, such as the mail
// body referencing the original query.
func (c *SearchCriteria) Describe() string {
	parts := []string{}
	if c.TextQuery != "" {
		parts = append(parts, fmt.Sprintf("query %q", c.TextQuery))
	}
	if c.NumericRange != nil {
		parts = append(parts, fmt.Sprintf("number %d-%d", c.NumericRange.Min, c.NumericRange.Max))
	}
	if c.DateRange != nil {
		parts = append(parts, fmt.Sprintf("created %s to %s", c.DateRange.Start, c.DateRange.End))
	}
	if len(parts) == 0 {
		return "all photos"
	}
	return strings.Join(parts, ", ")
}
