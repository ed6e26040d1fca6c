// Package report renders a model.SortReport and writes it to disk.
//
// This package contains writers for the supported output formats:
//   - TextWriter: the plain text report, a dashed separator per tier run
//     followed by one name per line
//   - MarkdownWriter: a Markdown document with a summary table, a pie chart
//     of patrons per tier and one section per tier
//   - JSONWriter: the grouped report as JSON for other tools
//
// Report data lives in the model package and grouping in the sorter
// package, so adding a format never touches either.
package report
