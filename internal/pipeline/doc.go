// Package pipeline runs the stages of one report run in sequence.
//
// A run decodes the CSV file, builds the tier report, and writes it out.
// Each stage is a Step that receives the shared model.Run and adds its part.
// The pipeline stops at the first failing step and checks for cancellation
// between steps.
//
// A Session wraps a Pipeline and remembers the status of the most recent
// run, which the CLI shows to the user.
package pipeline
