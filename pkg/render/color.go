package render

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
)

// Transparent is the default background.
var Transparent = color.NRGBA{}

// ParseColor parses a background colour. Accepted forms are an SVG colour
// name ("black", "cornflowerblue"), "transparent", "#rgb", "#rrggbb" and
// "#rrggbbaa". The empty string is transparent.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "transparent" || s == "none":
		return Transparent, nil
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return Transparent, perrors.New(perrors.ErrCodeInvalidParameter, "unknown colour %q", s)
}

func parseHex(s string) (color.NRGBA, error) {
	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Transparent, perrors.Wrap(perrors.ErrCodeInvalidParameter, err, "invalid alpha in colour %q", s)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	if len(s) != 4 && len(s) != 7 {
		return Transparent, perrors.New(perrors.ErrCodeInvalidParameter, "invalid hex colour %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Transparent, perrors.Wrap(perrors.ErrCodeInvalidParameter, err, "invalid hex colour %q", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
