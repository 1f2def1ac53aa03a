package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestBar(buf *bytes.Buffer, total int) (*Bar, *time.Time) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	b := New(buf, total, "decoding")
	b.now = func() time.Time { return now }
	b.startTime = now
	return b, &now
}

func lastLine(s string) string {
	parts := strings.Split(s, "\r")
	return parts[len(parts)-1]
}

func TestBarRendersAndThrottles(t *testing.T) {
	var buf bytes.Buffer
	b, now := newTestBar(&buf, 4)

	b.Add(true)
	want := "decoding [" + strings.Repeat("=", 10) + ">" + strings.Repeat("-", 29) + "] 1/4 (25.0%) | elapsed: 0ms"
	if got := lastLine(buf.String()); got != want {
		t.Fatalf("first render = %q, want %q", got, want)
	}

	before := buf.Len()
	b.Add(false)
	if buf.Len() != before {
		t.Error("render within the interval should be throttled")
	}

	*now = now.Add(200 * time.Millisecond)
	b.Add(true)
	if got := lastLine(buf.String()); !strings.Contains(got, "3/4 (75.0%) | failed: 1 | elapsed: 200ms") {
		t.Errorf("render = %q", got)
	}

	// The last payload always renders.
	b.Add(true)
	if got := lastLine(buf.String()); !strings.Contains(got, "["+strings.Repeat("=", barWidth)+"] 4/4 (100.0%)") {
		t.Errorf("final render = %q", got)
	}

	b.Finish()
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("Finish should end the line")
	}
	if b.Done() != 4 || b.Failed() != 1 {
		t.Errorf("done/failed = %d/%d", b.Done(), b.Failed())
	}
}

func TestBarDisabled(t *testing.T) {
	var buf bytes.Buffer
	b, _ := newTestBar(&buf, 2)
	b.Disable()
	b.Add(true)
	b.Finish()
	if buf.Len() != 0 {
		t.Errorf("disabled bar wrote %q", buf.String())
	}
	if b.Done() != 1 {
		t.Errorf("disabled bar should still count, done = %d", b.Done())
	}

	nilBar := New(nil, 3, "x")
	nilBar.Add(false)
	nilBar.Finish()
	if nilBar.Failed() != 1 {
		t.Errorf("failed = %d", nilBar.Failed())
	}
}

func TestBarZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	b, _ := newTestBar(&buf, 0)
	b.Finish()
	if !strings.Contains(buf.String(), "0/0 (0.0%)") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
		{5*time.Minute + 5*time.Second, "5m5s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
