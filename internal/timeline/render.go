package timeline

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MinBarWidthPct keeps very short sections visible
	MinBarWidthPct = 0.2
	// LabelMinWidthPct is the narrowest bar that still shows its name
	LabelMinWidthPct = 4.0
)

// Bar is the rendered view of one section
type Bar struct {
	SectionID string
	Name      string
	LeftPct   float64
	WidthPct  float64
	Dragging  bool
	ShowLabel bool
	Title     string
}

// Bars returns one bar per renderable section, using live drag values for
// the section being resized
func (t *Timeline) Bars() []Bar {
	t.mu.Lock()
	defer t.mu.Unlock()

	bars := make([]Bar, 0, len(t.sections))
	for _, s := range t.sections {
		dragging := t.state == Resizing && t.drag.sectionID == s.ID
		start, end := s.StartSeconds, s.EndSeconds
		if dragging {
			start, end = t.drag.currentStart, t.drag.currentEnd
		}

		left := t.Pct(start)
		width := math.Max(MinBarWidthPct, t.Pct(end)-left)
		if end <= start || left >= 100 {
			continue
		}
		width = math.Min(width, 100-left)

		title := fmt.Sprintf("%s (%s - %s)", s.Name, FormatTime(s.StartSeconds), FormatTime(s.EndSeconds))
		if dragging {
			title = fmt.Sprintf("%s (Dragging: %s - %s)", s.Name, FormatTime(start), FormatTime(end))
		}

		bars = append(bars, Bar{
			SectionID: s.ID,
			Name:      s.Name,
			LeftPct:   left,
			WidthPct:  width,
			Dragging:  dragging,
			ShowLabel: width >= LabelMinWidthPct,
			Title:     title,
		})
	}
	return bars
}

// FormatTime renders seconds as M:SS. Negative or NaN input is 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		return "0:00"
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// RenderText draws the track as a row of width cells followed by the time
// labels, one line per bar so overlapping sections stay readable
func (t *Timeline) RenderText(width int) string {
	if width < 10 {
		width = 10
	}

	var b strings.Builder
	ruler := strings.Repeat("-", width)
	b.WriteString("|" + ruler + "|\n")

	for _, bar := range t.Bars() {
		from := int(math.Floor(bar.LeftPct / 100 * float64(width)))
		to := int(math.Ceil((bar.LeftPct + bar.WidthPct) / 100 * float64(width)))
		if to <= from {
			to = from + 1
		}
		if to > width {
			to = width
		}
		if from >= width {
			from = width - 1
		}

		row := []rune(strings.Repeat(" ", width))
		for i := from; i < to; i++ {
			row[i] = '#'
		}
		if bar.ShowLabel {
			label := []rune(bar.Name)
			for i := 0; i < len(label) && from+i < to; i++ {
				row[from+i] = label[i]
			}
		}
		b.WriteString("|" + string(row) + "| " + bar.Title + "\n")
	}

	end := FormatTime(t.duration)
	gap := width + 2 - len("0:00") - len(end)
	if gap < 1 {
		gap = 1
	}
	b.WriteString("0:00" + strings.Repeat(" ", gap) + end + "\n")
	return b.String()
}
