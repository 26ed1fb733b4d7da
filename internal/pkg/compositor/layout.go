package compositor

import "strings"

// MeasureFunc returns the rendered width of s in pixels.
type MeasureFunc func(s string) float64

// Wrap splits text on single spaces and greedily packs words into lines.
// A word joins the current line only while the joined width stays strictly
// below maxWidth; a single word wider than maxWidth gets a line of its own.
func Wrap(text string, maxWidth float64, measure MeasureFunc) []string {
	words := strings.Split(text, " ")

	lines := make([]string, 0, 1)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(candidate) < maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// Layout is the vertical placement of wrapped text on a canvas.
type Layout struct {
	Lines      []string
	Width      int
	StartY     float64
	LineHeight int
}

func NewLayout(lines []string, width, height int) Layout {
	return Layout{
		Lines:      lines,
		Width:      width,
		StartY:     float64(height-len(lines)*LineHeight) / 2,
		LineHeight: LineHeight,
	}
}

// LineY is the vertical middle of line i.
func (l Layout) LineY(i int) float64 {
	return l.StartY + float64(i*l.LineHeight)
}
