// Package main provides the entry point for the patronsort CLI.
//
// patronsort reads a CSV export of patrons, keeps the active ones, sorts them
// by tier and writes a report with a dashed separator before each tier.
//
// Usage:
//
//	patronsort sort patrons.csv
//	patronsort watch patrons.csv
//	patronsort history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
