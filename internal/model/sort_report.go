package model

import "time"

// Group is one run of sorted records sharing the same Tier value.
type Group struct {
	// Tier is the raw Tier value of the run. Records without a Tier field
	// are grouped under the empty string.
	Tier string `json:"tier"`

	// Names holds the Name field of each record in the run, in sorted order.
	// Records without a Name field contribute no entry.
	Names []string `json:"names"`
}

// SortReport is the result of building a report from one CSV table.
//
// Design decision: The report keeps the grouped structure rather than the
// rendered text so that each writer (text, markdown, json) can format it
// without parsing text back. The plain text output is derived from Groups
// and is byte-for-byte determined by them.
type SortReport struct {
	// Source is the input file the report was built from. Empty when the
	// report was built from in-memory data.
	Source string `json:"source,omitempty"`

	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generated_at"`

	// Columns are the resolved positions of the required columns.
	Columns Columns `json:"columns"`

	// RowsRead is the number of data rows handed to the builder.
	RowsRead int `json:"rows_read"`

	// RowsSkipped is the number of rows the decoder dropped as malformed.
	RowsSkipped int `json:"rows_skipped"`

	// RowsMatched is the number of rows whose Patron Status matched.
	RowsMatched int `json:"rows_matched"`

	// Groups are the tier runs in ascending tier order.
	Groups []Group `json:"groups"`
}

// NewSortReport creates an empty report for the given source.
func NewSortReport(source string) *SortReport {
	return &SortReport{
		Source:      source,
		GeneratedAt: time.Now(),
		Groups:      make([]Group, 0),
	}
}

// GroupCount returns the number of tier runs, which equals the number of
// separators in the text output.
func (r *SortReport) GroupCount() int {
	return len(r.Groups)
}

// NameCount returns the number of names across all groups.
func (r *SortReport) NameCount() int {
	total := 0
	for _, g := range r.Groups {
		total += len(g.Names)
	}
	return total
}

// HasGroups reports whether the report has anything to show.
func (r *SortReport) HasGroups() bool {
	return len(r.Groups) > 0
}
