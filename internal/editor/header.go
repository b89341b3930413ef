package editor

import "math"

// baseWidth is the frame width the header layout was tuned for.
const baseWidth = 1920.0

// Header is the text and layout of the bar drawn above the frame.
type Header struct {
	Status      string
	Instruction string
	Metrics     HeaderMetrics
}

// HeaderMetrics sizes the header bar and its two text lines.
type HeaderMetrics struct {
	Height int

	StatusScale          float64
	StatusThickness      int
	InstructionScale     float64
	InstructionThickness int

	PaddingX     int
	StatusY      int
	InstructionY int
}

// HeaderMetricsFor scales the header to a w x h frame: the bar is 7% of the
// frame height within [80, 150] px, text scales with width relative to
// 1920 px.
func HeaderMetricsFor(w, h int) HeaderMetrics {
	sf := float64(w) / baseWidth
	return HeaderMetrics{
		Height:               clampInt(int(float64(h)*0.07), 80, 150),
		StatusScale:          clamp(0.6*sf, 0.5, 1.2),
		StatusThickness:      max(1, int(2*sf)),
		InstructionScale:     clamp(0.7*sf, 0.5, 1.2),
		InstructionThickness: max(2, int(3*sf)),
		PaddingX:             max(10, int(10*sf)),
		StatusY:              max(25, int(25*sf)),
		InstructionY:         max(55, int(55*sf)),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
