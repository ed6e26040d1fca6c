// Package model defines the core data structures used throughout patronsort.
//
// This package contains the following main types:
//   - Record: A single decoded CSV data row
//   - Columns: The resolved positions of the Tier, Patron Status and Name columns
//   - SortReport: The grouped result of one sort run
//   - Run: The state carried through the pipeline for one input file
//   - Status: The human-readable outcome shown after each run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The sorter, report, pipeline and database packages all need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// history storage.
package model
