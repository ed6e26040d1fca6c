package model

import (
	"errors"
	"strings"
	"testing"
)

// TestNewStatus tests the status surface derived from a run.
func TestNewStatus(t *testing.T) {
	t.Parallel()

	t.Run("success carries message and path", func(t *testing.T) {
		t.Parallel()

		run := NewRun("/data/members.csv", "text")
		run.OutputPath = "/data/members_sort.txt"

		status := NewStatus(run)
		if !status.OK() {
			t.Error("expected OK status")
		}
		if status.OutputPath != "/data/members_sort.txt" {
			t.Errorf("unexpected output path %q", status.OutputPath)
		}
		if !strings.Contains(status.String(), "Output file: /data/members_sort.txt") {
			t.Errorf("expected output path in %q", status.String())
		}
	})

	t.Run("failure has error prefix and no path", func(t *testing.T) {
		t.Parallel()

		run := NewRun("/data/members.csv", "text")
		run.OutputPath = "/data/members_sort.txt"
		run.Fail(&MissingColumnError{Column: "Tier"})

		status := NewStatus(run)
		if status.OK() {
			t.Error("expected failed status")
		}
		if status.Message != "Error: Tier column not found" {
			t.Errorf("unexpected message %q", status.Message)
		}
		if status.OutputPath != "" {
			t.Errorf("expected no output path, got %q", status.OutputPath)
		}
		if status.String() != status.Message {
			t.Errorf("expected String to equal message, got %q", status.String())
		}
	})

	t.Run("nil run yields empty status", func(t *testing.T) {
		t.Parallel()

		if s := NewStatus(nil); s.Message != "" || s.OK() {
			t.Errorf("unexpected status %+v", s)
		}
	})
}

// TestRun tests run bookkeeping.
func TestRun(t *testing.T) {
	t.Parallel()

	run := NewRun("in.csv", "text")
	if run.ID == "" {
		t.Error("expected run ID")
	}
	if !run.Succeeded() {
		t.Error("expected new run to be successful")
	}
	if run.Duration() != 0 {
		t.Error("expected zero duration before finish")
	}

	run.Fail(errors.New("boom"))
	if run.Succeeded() {
		t.Error("expected failed run")
	}
	if run.ErrorMessage != "boom" {
		t.Errorf("unexpected error message %q", run.ErrorMessage)
	}
}

// TestSortReportCounts tests the summary helpers.
func TestSortReportCounts(t *testing.T) {
	t.Parallel()

	r := NewSortReport("members.csv")
	if r.HasGroups() {
		t.Error("expected no groups")
	}

	r.Groups = []Group{
		{Tier: "A", Names: []string{"Bob", "Carol"}},
		{Tier: "B", Names: []string{"Alice"}},
		{Tier: "C", Names: nil},
	}
	if r.GroupCount() != 3 {
		t.Errorf("expected 3 groups, got %d", r.GroupCount())
	}
	if r.NameCount() != 3 {
		t.Errorf("expected 3 names, got %d", r.NameCount())
	}
}
