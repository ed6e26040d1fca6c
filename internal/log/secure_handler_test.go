package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// TestSecureHandler_SanitizesSensitiveKeys tests that personal data keys are masked.
func TestSecureHandler_SanitizesSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "name key is masked", key: "name", value: "Alice Liddell", wantMask: true},
		{name: "Name key (capitalized) is masked", key: "Name", value: "Alice Liddell", wantMask: true},
		{name: "first_name key is masked", key: "first_name", value: "Alice", wantMask: true},
		{name: "patron key is masked", key: "patron", value: "Bob Builder", wantMask: true},
		{name: "contact_email key is masked", key: "contact_email", value: "someone", wantMask: true},
		{name: "phone key is masked", key: "phone", value: "unlisted", wantMask: true},
		{name: "home_address key is masked", key: "home_address", value: "1 Main St", wantMask: true},
		{name: "password key is masked", key: "password", value: "hunter2", wantMask: true},
		{name: "path key is NOT masked", key: "path", value: "/data/members.csv", wantMask: false},
		{name: "filename key is NOT masked", key: "filename", value: "members.csv", wantMask: false},
		{name: "tier key is NOT masked", key: "tier", value: "Gold", wantMask: false},
		{name: "format key is NOT masked", key: "format", value: "markdown", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)

			logger.Info("test message", tt.key, tt.value)

			output := buf.String()
			if tt.wantMask {
				if strings.Contains(output, tt.value) {
					t.Errorf("expected value %q to be masked, but found in output: %s", tt.value, output)
				}
				if !strings.Contains(output, MaskValue) {
					t.Errorf("expected mask value %q in output, but not found: %s", MaskValue, output)
				}
			} else if !strings.Contains(output, tt.value) {
				t.Errorf("expected value %q to be present in output, but not found: %s", tt.value, output)
			}
		})
	}
}

// TestSecureHandler_SanitizesSensitiveValues tests value-pattern masking.
func TestSecureHandler_SanitizesSensitiveValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		wantMask bool
	}{
		{name: "email address", value: "alice@example.com", wantMask: true},
		{name: "international phone", value: "+44 20 7946 0958", wantMask: true},
		{name: "dashed phone", value: "555-123-4567", wantMask: true},
		{name: "date is kept", value: "2026-10-17", wantMask: false},
		{name: "small number is kept", value: "12345", wantMask: false},
		{name: "plain word is kept", value: "Gold", wantMask: false},
		{name: "file path is kept", value: "/data/members_sort.txt", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)
			logger.Info("test message", "value", tt.value)

			masked := !strings.Contains(buf.String(), tt.value)
			if masked != tt.wantMask {
				t.Errorf("value %q masked=%v, want %v; output: %s", tt.value, masked, tt.wantMask, buf.String())
			}
		})
	}
}

// TestSecureHandler_Groups tests that grouped attributes are masked.
func TestSecureHandler_Groups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)

	logger.Info("row", slog.Group("record", slog.String("name", "Carol"), slog.String("tier", "A")))

	output := buf.String()
	if strings.Contains(output, "Carol") {
		t.Errorf("expected name in group to be masked: %s", output)
	}
	if !strings.Contains(output, "tier=A") {
		t.Errorf("expected tier in group to be kept: %s", output)
	}
}

// TestSecureHandler_WithAttrs tests masking of attributes bound to the logger.
func TestSecureHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true).With("email", "dave@example.org", "input", "members.csv")

	logger.Warn("processing")

	output := buf.String()
	if strings.Contains(output, "dave@example.org") {
		t.Errorf("expected bound email to be masked: %s", output)
	}
	if !strings.Contains(output, "members.csv") {
		t.Errorf("expected bound input to be kept: %s", output)
	}
}

// TestSecureHandler_Levels tests the verbose switch.
func TestSecureHandler_Levels(t *testing.T) {
	t.Parallel()

	t.Run("non-verbose drops debug and info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewSecureLogger(&buf, false)
		logger.Debug("debug")
		logger.Info("info")
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %s", buf.String())
		}

		logger.Warn("warn")
		if !strings.Contains(buf.String(), "warn") {
			t.Errorf("expected warn output, got %s", buf.String())
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		h := NewSecureHandler(slog.NewTextHandler(&bytes.Buffer{}, handlerOptions(true)))
		if !h.Enabled(context.Background(), slog.LevelDebug) {
			t.Error("expected debug to be enabled")
		}
	})
}

// TestNewSecureJSONLogger tests JSON output masking.
func TestNewSecureJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureJSONLogger(&buf, true)
	logger.Info("row kept", "name", "Erin", "line", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if entry["name"] != MaskValue {
		t.Errorf("expected masked name, got %v", entry["name"])
	}
	if entry["line"] != float64(3) {
		t.Errorf("expected line 3, got %v", entry["line"])
	}
}

// TestNewSecureHandler_NilUsesDefault tests the nil fallback.
func TestNewSecureHandler_NilUsesDefault(t *testing.T) {
	t.Parallel()

	if h := NewSecureHandler(nil); h.handler == nil {
		t.Error("expected default handler")
	}
}
