package model

import "fmt"

// SuccessMessage is shown after a run that wrote its report.
const SuccessMessage = "Export completed successfully"

// Status is the user-facing outcome of the last run.
// On success it carries SuccessMessage and the output path; on failure an
// "Error: ..." message and no path.
type Status struct {
	Message    string `json:"message"`
	OutputPath string `json:"output_path,omitempty"`
}

// NewStatus derives the status of a finished run.
func NewStatus(run *Run) Status {
	if run == nil {
		return Status{}
	}
	if run.Error != nil {
		return Status{Message: fmt.Sprintf("Error: %v", run.Error)}
	}
	return Status{
		Message:    SuccessMessage,
		OutputPath: run.OutputPath,
	}
}

// OK reports whether the status describes a successful run.
func (s Status) OK() bool {
	return s.Message == SuccessMessage
}

// String renders the status the way the CLI prints it.
func (s Status) String() string {
	if s.OutputPath == "" {
		return s.Message
	}
	return fmt.Sprintf("%s\nOutput file: %s", s.Message, s.OutputPath)
}
