package projection

// RenderAttributes is the pure magnitude mapping a renderer consumes. Equal
// magnitudes always yield equal attributes; there is no hidden state.
type RenderAttributes struct {
	Size      float64 // point diameter in pixels at reference scale
	Color     string  // hex RGB
	Alpha     float64 // [0,1]
	GlowSize  float64 // halo diameter, 0 disables the glow pass
	GlowColor string
	GlowAlpha float64
}

// magnitude bands, brightest first. Size, alpha, and glow are monotone in
// brightness across the bands.
var attributeBands = []struct {
	maxMag float64
	attrs  RenderAttributes
}{
	{0.0, RenderAttributes{Size: 14, Color: "#ffffff", Alpha: 1.00, GlowSize: 22, GlowColor: "#aac7ff", GlowAlpha: 0.60}},
	{1.0, RenderAttributes{Size: 11, Color: "#fbfaff", Alpha: 0.95, GlowSize: 18, GlowColor: "#aac7ff", GlowAlpha: 0.45}},
	{2.0, RenderAttributes{Size: 9, Color: "#f2f1f7", Alpha: 0.85, GlowSize: 14, GlowColor: "#9fb8e8", GlowAlpha: 0.30}},
	{3.0, RenderAttributes{Size: 7, Color: "#e4e3ec", Alpha: 0.70, GlowSize: 10, GlowColor: "#8fa8d6", GlowAlpha: 0.18}},
	{4.5, RenderAttributes{Size: 5, Color: "#cfcede", Alpha: 0.55, GlowSize: 6, GlowColor: "#8097c2", GlowAlpha: 0.08}},
}

// dimmest stars get a bare dot and no glow pass.
var attributeFloor = RenderAttributes{Size: 3, Color: "#b4b3c4", Alpha: 0.40}

// AttributesForMagnitude maps an apparent magnitude to render attributes via
// fixed bands. Lower (brighter) magnitudes receive monotonically larger
// size, higher alpha, and a stronger glow.
func AttributesForMagnitude(mag float64) RenderAttributes {
	for _, band := range attributeBands {
		if mag <= band.maxMag {
			return band.attrs
		}
	}
	return attributeFloor
}
