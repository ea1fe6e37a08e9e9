package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatError(t *testing.T) {
	err := os.ErrNotExist
	got := formatError(err)
	if got == "" {
		t.Error("formatError() returned empty string")
	}
	if !contains(got, "Error:") {
		t.Errorf("formatError() = %q, expected to contain 'Error:'", got)
	}
}

func TestFormatFingerprint(t *testing.T) {
	if got := formatFingerprint(nil); got != "none" {
		t.Errorf("formatFingerprint(nil) = %q, want none", got)
	}
	sum := uint32(261238937)
	if got := formatFingerprint(&sum); got != "0f923099" {
		t.Errorf("formatFingerprint(%d) = %q, want 0f923099", sum, got)
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := outputJSON(&buf, map[string]string{"test": "value"}); err != nil {
		t.Fatalf("outputJSON() error = %v", err)
	}

	var v map[string]string
	if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
		t.Errorf("outputJSON() produced invalid JSON: %v", err)
	}
	if v["test"] != "value" {
		t.Errorf("outputJSON() round trip = %v", v)
	}
}

func TestPrintFunctions(t *testing.T) {
	defer func(prev bool) { color.NoColor = prev }(color.NoColor)
	initColors(true)

	var buf bytes.Buffer
	PrintSuccess(&buf, "Success message")
	PrintWarning(&buf, "Warning message")
	PrintInfo(&buf, "Info message")
	PrintLabelValue(&buf, "Label", "value")

	want := "✓ Success message\n⚠ Warning message\nInfo message\n  Label: value\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrintTable(t *testing.T) {
	defer func(prev bool) { color.NoColor = prev }(color.NoColor)
	initColors(true)

	var buf bytes.Buffer
	PrintTable(&buf, []string{"Name", "Kind"}, [][]string{
		{"api", "folder"},
		{"notes.md", "file"},
	}, nil)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"  Name      Kind  ",
		"  --------  ------",
		"  api       folder",
		"  notes.md  file  ",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	buf.Reset()
	PrintTable(&buf, []string{"Name"}, nil, nil)
	if buf.Len() != 0 {
		t.Error("empty table printed output")
	}
}

func TestPrintCount(t *testing.T) {
	if got := PrintCount(1, "entry", "entries"); got != "1 entry" {
		t.Errorf("PrintCount(1) = %q", got)
	}
	if got := PrintCount(3, "entry", "entries"); got != "3 entries" {
		t.Errorf("PrintCount(3) = %q", got)
	}
}
