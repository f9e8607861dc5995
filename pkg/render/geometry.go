package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// A4 paper dimensions. Every backend converges on the same physical page.
const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
	mmPerInch    = 25.4
)

// pageGeometry is the canonical page-layout struct every backend-specific
// option mapping derives from. Keeping one canonical form plus three
// independent mappers keeps each translation unit-testable in isolation.
type pageGeometry struct {
	MarginMM float64
	WidthMM  float64
	HeightMM float64
}

// resolveGeometry parses a CSS length into the canonical geometry. A bare
// number is treated as pixels, matching how browsers consume the value.
func resolveGeometry(margin string) (pageGeometry, error) {
	mm, err := cssLengthToMM(margin)
	if err != nil {
		return pageGeometry{}, err
	}
	if mm < 0 {
		return pageGeometry{}, fmt.Errorf("negative margin %q", margin)
	}
	return pageGeometry{MarginMM: mm, WidthMM: pageWidthMM, HeightMM: pageHeightMM}, nil
}

// cssLengthToMM converts a CSS length string (px, pt, mm, cm, in, or
// unitless) into millimeters.
func cssLengthToMM(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}

	unit := ""
	for _, u := range []string{"px", "pt", "mm", "cm", "in"} {
		if strings.HasSuffix(s, u) {
			unit = u
			s = strings.TrimSuffix(s, u)
			break
		}
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid CSS length %q", s)
	}

	switch unit {
	case "mm":
		return value, nil
	case "cm":
		return value * 10, nil
	case "in":
		return value * mmPerInch, nil
	case "pt":
		return value * mmPerInch / 72, nil
	default: // px or unitless
		return value * mmPerInch / 96, nil
	}
}

// embeddedMargins maps the canonical geometry onto the embedded backend's
// vocabulary: left/top/right margins plus the auto-page-break bottom
// margin, all in millimeters.
func embeddedMargins(g pageGeometry) (left, top, right, bottom float64) {
	return g.MarginMM, g.MarginMM, g.MarginMM, g.MarginMM
}

// wkhtmltopdfMargins maps the canonical geometry onto wkhtmltopdf's flat
// per-edge option map, which takes whole millimeters.
func wkhtmltopdfMargins(g pageGeometry) uint {
	return uint(math.Round(g.MarginMM))
}

// chromiumGeometry maps the canonical geometry onto the DevTools
// PrintToPDF vocabulary: per-edge margins and paper dimensions in inches.
func chromiumGeometry(g pageGeometry) (marginIn, paperWidthIn, paperHeightIn float64) {
	return g.MarginMM / mmPerInch, g.WidthMM / mmPerInch, g.HeightMM / mmPerInch
}
