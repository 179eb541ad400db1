package testutil_test

import (
	"testing"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/testutil"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"CRLF to LF", "line1\r\nline2\r\n", "line1\nline2"},
		{"trailing whitespace", "line1   \nline2\t\n", "line1\nline2"},
		{"trailing newlines", "line1\nline2\n\n\n", "line1\nline2"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, testutil.Normalize(tt.input), tt.want)
		})
	}
}

func TestScrubTimestamps(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"RFC3339", "saved 2024-06-30T12:00:00Z run-1", "saved [TIMESTAMP] run-1"},
		{"RFC3339 nano", "at 2024-06-30T12:00:00.123456Z", "at [TIMESTAMP]"},
		{"datetime", "created 2024-01-15 10:30:45 done", "created [TIMESTAMP] done"},
		{"none", "fintech/seed/India", "fintech/seed/India"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, testutil.ScrubTimestamps(tt.input), tt.want)
		})
	}
}

func TestScrubUUIDs(t *testing.T) {
	got := testutil.ScrubUUIDs("run 550e8400-e29b-41d4-a716-446655440000 done")
	testutil.AssertEqual(t, got, "run [UUID] done")
}

func TestGolden_Assert(t *testing.T) {
	dir := testutil.TempDir(t)
	testutil.TempFile(t, dir, "report.golden", "line1\r\nline2  \n")

	testutil.NewGolden(t, dir).AssertString("report", "line1\nline2\n")
}
