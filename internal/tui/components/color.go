package components

import "github.com/lucasb-eyer/go-colorful"

const (
	lightText = "#ffffff"
	darkText  = "#111827"
)

// readableOn picks a label color that stays legible on the given hex background.
func readableOn(hex string) string {
	bg, err := colorful.Hex(hex)
	if err != nil {
		return lightText
	}
	light, _ := colorful.Hex(lightText)
	dark, _ := colorful.Hex(darkText)
	if bg.DistanceCIE94(light) >= bg.DistanceCIE94(dark) {
		return lightText
	}
	return darkText
}

// lighten moves a hex color toward white by percentage.
func lighten(hex string, percentage int) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, l := c.Hsl()
	l += (1 - l) * float64(percentage) / 100
	return colorful.Hsl(h, s, l).Clamped().Hex()
}

// darken moves a hex color toward black by percentage.
func darken(hex string, percentage int) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, l := c.Hsl()
	l -= l * float64(percentage) / 100
	return colorful.Hsl(h, s, l).Clamped().Hex()
}
