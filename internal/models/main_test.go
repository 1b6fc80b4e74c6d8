package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTaskStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    TaskStatus
		wantErr bool
	}{
		{"", StatusTodo, false},
		{"TODO", StatusTodo, false},
		{"IN_PROGRESS", StatusInProgress, false},
		{"DONE", StatusDone, false},
		{"done", "", true},
		{"BLOCKED", "", true},
	}

	for _, tc := range cases {
		got, err := ParseTaskStatus(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTaskStatus(%q) = %q; want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTaskStatus(%q) returned error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTaskStatus(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2026, time.December, 31)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(data) != `"2026-12-31"` {
		t.Errorf("Marshal = %s; want %q", data, `"2026-12-31"`)
	}

	var parsed Date
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if !parsed.Equal(d.Time) {
		t.Errorf("round trip = %v; want %v", parsed, d)
	}
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	for _, raw := range []string{`"31-12-2026"`, `"2026-13-01"`, `123`, `"not-a-date"`} {
		var d Date
		if err := json.Unmarshal([]byte(raw), &d); err == nil {
			t.Errorf("Unmarshal(%s) did not return error", raw)
		}
	}
}
