package sorter

import (
	"slices"
	"strings"

	"github.com/nao1215/patronsort/internal/model"
)

// ActiveStatus is the Patron Status value that keeps a row in the report.
// Comparison trims surrounding ASCII whitespace and ignores case.
const ActiveStatus = "Active Patron"

// asciiSpace is the set trimmed from the Patron Status field.
const asciiSpace = " \t\n\v\f\r"

// Build resolves the required columns, keeps the active patrons, sorts them
// stably by tier and groups them into tier runs.
//
// It fails only with a *model.MissingColumnError, before any row is looked at.
// Zero matching rows is not an error: the report simply has no groups.
func Build(headers []string, rows []model.Record) (*model.SortReport, error) {
	cols, err := model.ResolveColumns(headers)
	if err != nil {
		return nil, err
	}

	report := model.NewSortReport("")
	report.Columns = cols
	report.RowsRead = len(rows)

	matched := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		if IsActive(row, cols) {
			matched = append(matched, row)
		}
	}
	report.RowsMatched = len(matched)

	tierOf := func(r model.Record) string {
		tier, _ := r.Field(cols.Tier)
		return tier
	}

	slices.SortStableFunc(matched, func(a, b model.Record) int {
		return strings.Compare(tierOf(a), tierOf(b))
	})

	FoldRuns(matched, tierOf,
		func(tier string) {
			report.Groups = append(report.Groups, model.Group{Tier: tier, Names: make([]string, 0)})
		},
		func(r model.Record) {
			name, ok := r.Field(cols.Name)
			if !ok {
				return
			}
			last := &report.Groups[len(report.Groups)-1]
			last.Names = append(last.Names, name)
		},
	)

	return report, nil
}

// BuildText is Build followed by RenderText.
func BuildText(headers []string, rows []model.Record) (string, error) {
	report, err := Build(headers, rows)
	if err != nil {
		return "", err
	}
	return RenderText(report.Groups), nil
}

// IsActive reports whether the row's Patron Status marks an active patron.
// A row too short to hold the status field never matches.
func IsActive(row model.Record, cols model.Columns) bool {
	status, ok := row.Field(cols.Status)
	if !ok {
		return false
	}
	return strings.EqualFold(strings.Trim(status, asciiSpace), ActiveStatus)
}
