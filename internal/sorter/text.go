package sorter

import (
	"path/filepath"
	"strings"

	"github.com/nao1215/patronsort/internal/model"
)

// Separator opens every tier run in the text report: 27 dashes.
var Separator = strings.Repeat("-", 27)

// OutputSuffix is appended to the input stem to name the text report.
const OutputSuffix = "_sort.txt"

// RenderText formats groups as the plain text report: a separator line for
// each group followed by one line per name. No groups yields an empty string.
func RenderText(groups []model.Group) string {
	var sb strings.Builder
	for _, g := range groups {
		sb.WriteString(Separator)
		sb.WriteString("\n")
		for _, name := range g.Names {
			sb.WriteString(name)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// OutputPath derives the text report path for input: same directory, with the
// stem replaced by "<stem>_sort.txt".
func OutputPath(input string) string {
	return OutputPathWithExt(input, ".txt")
}

// OutputPathWithExt is OutputPath with a custom extension (including the dot).
//
// The stem is the base name without its last extension. A dot-file with no
// other dot, such as ".csv", keeps its whole name as the stem.
func OutputPathWithExt(input, ext string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)

	stem := base
	if e := filepath.Ext(base); e != base {
		stem = strings.TrimSuffix(base, e)
	}

	return filepath.Join(dir, stem+"_sort"+ext)
}
