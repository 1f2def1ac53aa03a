package progress

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	barWidth       = 40
	renderInterval = 100 * time.Millisecond
)

// Bar reports progress through a batch of payload decodes on a terminal
// line, counting failures alongside the total.
type Bar struct {
	label      string
	total      int
	done       int
	failed     int
	startTime  time.Time
	lastRender time.Time
	output     io.Writer
	enabled    bool
	now        func() time.Time
}

// New creates a bar for total payloads writing to w. A nil w disables it.
func New(w io.Writer, total int, label string) *Bar {
	b := &Bar{
		label:   label,
		total:   total,
		output:  w,
		enabled: w != nil,
		now:     time.Now,
	}
	b.startTime = b.now()
	return b
}

// Disable suppresses all further output
func (b *Bar) Disable() {
	b.enabled = false
}

// Add records one decoded payload; ok is false when decoding failed.
func (b *Bar) Add(ok bool) {
	b.done++
	if !ok {
		b.failed++
	}
	b.render(false)
}

// Done returns the number of payloads recorded so far.
func (b *Bar) Done() int {
	return b.done
}

// Failed returns the number of failed payloads recorded so far.
func (b *Bar) Failed() int {
	return b.failed
}

// Finish renders the final state and ends the line.
func (b *Bar) Finish() {
	if !b.enabled {
		return
	}
	b.render(true)
	fmt.Fprint(b.output, "\n")
}

func (b *Bar) render(force bool) {
	if !b.enabled {
		return
	}

	now := b.now()
	if !force && b.done < b.total && now.Sub(b.lastRender) < renderInterval {
		return
	}
	b.lastRender = now

	var percent float64
	if b.total > 0 {
		percent = float64(b.done) / float64(b.total) * 100
	}
	filled := int(float64(barWidth) * percent / 100)
	if filled > barWidth {
		filled = barWidth
	}

	var bar strings.Builder
	bar.WriteString(strings.Repeat("=", filled))
	if filled < barWidth {
		bar.WriteByte('>')
		bar.WriteString(strings.Repeat("-", barWidth-filled-1))
	}

	line := fmt.Sprintf("\r%s [%s] %d/%d (%.1f%%)", b.label, bar.String(), b.done, b.total, percent)
	if b.failed > 0 {
		line += fmt.Sprintf(" | failed: %d", b.failed)
	}
	line += " | elapsed: " + formatDuration(now.Sub(b.startTime))
	fmt.Fprint(b.output, line)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}
