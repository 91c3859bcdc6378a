package core

// RGB stores explicit 8-bit color channels, decoupled from tcell
type RGB struct {
	R, G, B uint8
}

// Predefined colors
var (
	RGBBlack  = RGB{0, 0, 0}
	RGBOnTime = RGB{G: 255}
	RGBLate   = RGB{R: 255}
)

// JitterHeat maps an observed dispatch lateness to a color on a green
// (on-time) to red (capUs or later) gradient by its magnitude, so an
// early dispatch is colored like an equally late one; anything at or
// beyond capUs either way is pure red.
func JitterHeat(deltaUs, capUs int64) RGB {
	if deltaUs < 0 {
		deltaUs = -deltaUs
	}
	if capUs <= 0 {
		return RGBOnTime
	}
	frac := float64(deltaUs) / float64(capUs)
	if frac > 1 {
		frac = 1
	}
	return RGBOnTime.Blend(RGBLate, frac)
}

// Blend performs alpha blending: result = src*alpha + dst*(1-alpha)
func (c RGB) Blend(src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return c
	}
	if alpha >= 1 {
		return src
	}
	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(c.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(c.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(c.B)*inv),
	}
}

// Scale multiplies each channel by factor (for fading effects)
func (c RGB) Scale(factor float64) RGB {
	if factor <= 0 {
		return RGBBlack
	}
	if factor >= 1 {
		return c
	}
	return RGB{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
	}
}