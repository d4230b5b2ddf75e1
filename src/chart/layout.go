package chart

// ComputeChartDimensions applies the width/height clamp rules for sensor
// panels. Input: desired raw width (e.g. ~95% of the window width). Returns
// clamped width & height keeping a wide aspect so the time axis gets room.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 480 {
		w = 480
	}
	h := int(float32(w) * 0.4)
	if h < 220 {
		h = 220
	}
	if h > 400 {
		h = 400
	}
	return w, h
}
