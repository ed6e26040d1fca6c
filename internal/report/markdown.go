package report

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/patronsort/internal/model"
)

// noTierLabel is shown for the run of patrons with an empty Tier.
const noTierLabel = "(no tier)"

// MarkdownWriter outputs the report as a Markdown document.
// Tiers appear in the same order as in the text report.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.SortReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeTiers(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the run information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.SortReport) {
	md.H1("Active Patrons by Tier")
	md.PlainText("")

	source := report.Source
	if source == "" {
		source = "-"
	} else {
		source = "`" + filepath.Base(source) + "`"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", source},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Rows read", strconv.Itoa(report.RowsRead)},
			{"Rows skipped", strconv.Itoa(report.RowsSkipped)},
			{"Active patrons", strconv.Itoa(report.RowsMatched)},
			{"Tiers", strconv.Itoa(report.GroupCount())},
		},
	})
	md.PlainText("")
}

// writeSummary writes the tier distribution chart and any warnings.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.SortReport) {
	if report.RowsSkipped > 0 {
		md.Warningf("%d malformed row(s) were skipped while reading the file.", report.RowsSkipped)
		md.PlainText("")
	}

	if !report.HasGroups() {
		md.Note("No active patrons found.")
		md.PlainText("")
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Active Patrons per Tier"),
		piechart.WithShowData(true),
	)
	for _, g := range report.Groups {
		chart.LabelAndIntValue(pieLabel(g.Tier), uint64(len(g.Names)))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeTiers writes one section per tier run.
func (w *MarkdownWriter) writeTiers(md *markdown.Markdown, report *model.SortReport) {
	for _, g := range report.Groups {
		md.H2(headingLabel(g.Tier))
		md.PlainText("")

		if len(g.Names) == 0 {
			md.PlainText("*No names recorded.*")
		} else {
			names := make([]string, len(g.Names))
			for i, name := range g.Names {
				names[i] = escapeMarkdown(name)
			}
			md.BulletList(names...)
		}
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by patronsort*")
}

// tierLabel returns a printable heading for a tier value.
func tierLabel(tier string) string {
	if tier == "" {
		return noTierLabel
	}
	return tier
}

// headingLabel is tierLabel with the tier text escaped.
func headingLabel(tier string) string {
	if tier == "" {
		return noTierLabel
	}
	return escapeMarkdown(tier)
}

// pieLabel is tierLabel made safe for a quoted Mermaid label.
func pieLabel(tier string) string {
	return strings.ReplaceAll(tierLabel(tier), `"`, "#quot;")
}

// inlineEscaper escapes characters that start inline Markdown constructs
// such as emphasis, links, code spans, HTML, entities and table cells.
var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`~`, `\~`,
	`|`, `\|`,
	`&`, `\&`,
)

// escapeMarkdown renders s as literal text inside a list item or heading.
// Besides inline markup, a leading marker that would open a heading, list
// or block quote is escaped.
func escapeMarkdown(s string) string {
	s = inlineEscaper.Replace(s)

	if s != "" && strings.ContainsRune("#+-=", rune(s[0])) {
		return `\` + s
	}

	// "1. Bob" or "1) Bob" would start an ordered list.
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(s) && (s[digits] == '.' || s[digits] == ')') {
		return s[:digits] + `\` + s[digits:]
	}
	return s
}
