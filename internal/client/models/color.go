package models

// ThemeColor packs an RGBA color into a single integer column.
type ThemeColor uint32

// NewThemeColor packs the four channels into a ThemeColor.
func NewThemeColor(r, g, b, a uint8) ThemeColor {
	return ThemeColor(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// RGBA unpacks the four channels.
func (c ThemeColor) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}
