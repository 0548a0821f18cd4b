package export

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	colorBackdrop = color.RGBA{0xf9, 0xf9, 0xf8, 0xff}
	colorAxis     = color.RGBA{0x44, 0x44, 0x44, 0xff}
	colorGrid     = color.RGBA{0xe2, 0xe2, 0xe2, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorMissing  = color.RGBA{0x9e, 0x9e, 0x9e, 0xff}
)

// matterScale is the cmocean "matter" colorscale, light to dark.
var matterScale = []string{
	"#FDEDB0", "#FACD91", "#F6AD77", "#F08E62", "#E76D54", "#D85053",
	"#C3385A", "#A82860", "#8A1D63", "#6B185D", "#4C1550", "#2F0F3D",
}

// parseColor accepts "#RGB", "#RRGGBB", "rgb(r,g,b)" and "rgba(r,g,b,a)".
// Anything else maps to the missing-data gray.
func parseColor(s string) color.RGBA {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		if len(s) == 4 {
			s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return colorMissing
		}
		return toRGBA(c)
	}
	lower := strings.ToLower(s)
	for _, prefix := range []string{"rgba(", "rgb("} {
		if !strings.HasPrefix(lower, prefix) || !strings.HasSuffix(lower, ")") {
			continue
		}
		parts := strings.Split(lower[len(prefix):len(lower)-1], ",")
		if len(parts) < 3 {
			return colorMissing
		}
		var rgb [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || v < 0 || v > 255 {
				return colorMissing
			}
			rgb[i] = uint8(v)
		}
		alpha := uint8(0xff)
		if len(parts) == 4 {
			if a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64); err == nil {
				alpha = uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))
			}
		}
		return color.RGBA{rgb[0], rgb[1], rgb[2], alpha}
	}
	return colorMissing
}

// scaleColor maps v in [lo, hi] onto the matter colorscale.
func scaleColor(v, lo, hi float64) color.RGBA {
	t := 0.0
	if hi > lo {
		t = math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
	}
	pos := t * float64(len(matterScale)-1)
	i := int(math.Floor(pos))
	if i >= len(matterScale)-1 {
		return parseColor(matterScale[len(matterScale)-1])
	}
	a, _ := colorful.Hex(matterScale[i])
	b, _ := colorful.Hex(matterScale[i+1])
	return toRGBA(a.BlendRgb(b, pos-float64(i)))
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{r, g, b, 0xff}
}
