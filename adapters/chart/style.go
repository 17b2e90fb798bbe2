package chart

// Style is the explicit plotting configuration handed to every builder.
// It replaces process-wide theme state: callers own it and pass it down.
type Style struct {
	Palette   string  `json:"palette"`
	FigWidth  float64 `json:"fig_width"`
	FigHeight float64 `json:"fig_height"`
}

// DefaultStyle mirrors the notebook theme used for the FOG figures
func DefaultStyle() Style {
	return Style{
		Palette:   "Blues_r",
		FigWidth:  12,
		FigHeight: 3,
	}
}
