package compositor

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ds124wfegd/imagecomposer/internal/entity"
)

// ParseHexColor accepts rgb, rgba, rrggbb and rrggbbaa, with or without a
// leading '#'.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(hex) {
	case 3, 4:
		var expanded strings.Builder
		for _, r := range hex {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		hex = expanded.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", entity.ErrInvalidColor, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", entity.ErrInvalidColor, s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// ResolveTextColor maps the text-color parameter to a fill colour. An empty
// value yields DefaultTextColor with ok true; an unparsable one yields
// DefaultTextColor with ok false.
func ResolveTextColor(param string) (color.NRGBA, bool) {
	if strings.TrimSpace(param) == "" {
		return DefaultTextColor, true
	}
	c, err := ParseHexColor(param)
	if err != nil {
		return DefaultTextColor, false
	}
	return c, true
}
