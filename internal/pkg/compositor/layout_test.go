package compositor

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// tenPerRune measures every rune as 10px wide.
func tenPerRune(s string) float64 {
	return float64(utf8.RuneCountInString(s) * 10)
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{
			name:     "single word",
			text:     "Hello",
			maxWidth: 800,
			want:     []string{"Hello"},
		},
		{
			name:     "fits on one line",
			text:     "Hello World",
			maxWidth: 800,
			want:     []string{"Hello World"},
		},
		{
			name:     "equal width breaks the line",
			text:     "aaaa bbbb",
			maxWidth: 90,
			want:     []string{"aaaa", "bbbb"},
		},
		{
			name:     "one pixel more keeps it",
			text:     "aaaa bbbb",
			maxWidth: 91,
			want:     []string{"aaaa bbbb"},
		},
		{
			name:     "three lines",
			text:     "the quick brown fox jumps over the lazy dog",
			maxWidth: 160,
			want:     []string{"the quick brown", "fox jumps over", "the lazy dog"},
		},
		{
			name:     "overlong word stays whole",
			text:     "a supercalifragilistic b",
			maxWidth: 100,
			want:     []string{"a", "supercalifragilistic", "b"},
		},
		{
			name:     "double space keeps empty word",
			text:     "a  b",
			maxWidth: 1000,
			want:     []string{"a  b"},
		},
		{
			name:     "empty text",
			text:     "",
			maxWidth: 100,
			want:     []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.text, tt.maxWidth, tenPerRune))
		})
	}
}

func TestWrapLinesFitOrAreSingleWords(t *testing.T) {
	face := newFace()
	defer face.Close()
	measure := faceMeasure(face)

	texts := []string{
		"Hello World",
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt",
		"Pneumonoultramicroscopicsilicovolcanoconiosis is a long word indeed",
		"x",
	}
	widths := []int{120, 400, 800, 1920}

	for _, text := range texts {
		for _, width := range widths {
			lines := Wrap(text, float64(width), measure)
			assert.NotEmpty(t, lines)
			assert.Equal(t, text, strings.Join(lines, " "))
			for _, line := range lines {
				if strings.Contains(line, " ") {
					assert.Less(t, measure(line), float64(width), "line %q at width %d", line, width)
				}
			}
		}
	}
}

func TestNewLayout(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		height int
		startY float64
	}{
		{name: "one line", lines: []string{"a"}, height: 600, startY: 265},
		{name: "three lines", lines: []string{"a", "b", "c"}, height: 600, startY: 195},
		{name: "odd remainder", lines: []string{"a"}, height: 101, startY: 15.5},
		{name: "taller than canvas", lines: []string{"a", "b", "c"}, height: 100, startY: -55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayout(tt.lines, 800, tt.height)
			assert.Equal(t, tt.startY, l.StartY)
			assert.Equal(t, LineHeight, l.LineHeight)
			for i := range tt.lines {
				assert.Equal(t, tt.startY+float64(70*i), l.LineY(i))
			}
		})
	}
}
