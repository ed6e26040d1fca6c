// Package sorter builds the patron report from a decoded CSV table.
//
// The work is a single pipeline over an in-memory slice:
//
//	resolve columns -> filter active patrons -> stable sort by tier -> group runs
//
// Build returns the grouped result as a model.SortReport; RenderText turns the
// groups into the plain text report, with a separator line starting every
// tier run. Nothing in this package touches the filesystem except the pure
// OutputPath derivation.
package sorter
