// Package csvin decodes patron CSV exports into a header row and data rows.
//
// Decoding is lenient by default: a row that fails to parse, or whose field
// count differs from the header, is dropped and counted instead of failing
// the whole file. WithStrict turns the first such row into an error.
//
// Input bytes pass through golang.org/x/text before parsing, which removes a
// leading UTF-8 BOM (common in spreadsheet exports) and can decode legacy
// charsets such as windows-1252.
package csvin
