package preview

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// fallbackColor is used for empty or unrecognized color strings.
var fallbackColor = color.NRGBA{99, 110, 250, 255}

var namedColors = map[string]color.NRGBA{
	"black":  {0, 0, 0, 255},
	"white":  {255, 255, 255, 255},
	"red":    {255, 0, 0, 255},
	"green":  {0, 128, 0, 255},
	"blue":   {0, 0, 255, 255},
	"orange": {255, 165, 0, 255},
	"purple": {128, 0, 128, 255},
	"gray":   {128, 128, 128, 255},
	"grey":   {128, 128, 128, 255},
}

// ParseColor reads the color strings chart descriptions carry: "#rgb",
// "#rrggbb", "rgb(r, g, b)", "rgba(r, g, b, a)" with a in [0, 1], and a
// few CSS names.
func ParseColor(s string) color.NRGBA {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c
	}
	if strings.HasPrefix(s, "#") {
		if c, ok := parseHex(s[1:]); ok {
			return c
		}
		return fallbackColor
	}
	if c, ok := parseFunc(s); ok {
		return c
	}
	return fallbackColor
}

func parseHex(h string) (color.NRGBA, bool) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, true
}

func parseFunc(s string) (color.NRGBA, bool) {
	var r, g, b int
	a := 1.0
	var n int
	var err error
	switch {
	case strings.HasPrefix(s, "rgba("):
		n, err = fmt.Sscanf(s, "rgba(%d, %d, %d, %g)", &r, &g, &b, &a)
		if n != 4 {
			return color.NRGBA{}, false
		}
	case strings.HasPrefix(s, "rgb("):
		n, err = fmt.Sscanf(s, "rgb(%d, %d, %d)", &r, &g, &b)
		if n != 3 {
			return color.NRGBA{}, false
		}
	default:
		return color.NRGBA{}, false
	}
	if err != nil || !byteRange(r) || !byteRange(g) || !byteRange(b) || a < 0 || a > 1 {
		return color.NRGBA{}, false
	}
	return color.NRGBA{uint8(r), uint8(g), uint8(b), uint8(a*255 + 0.5)}, true
}

func byteRange(v int) bool { return v >= 0 && v <= 255 }
