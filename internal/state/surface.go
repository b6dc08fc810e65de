package state

// Surface is the 2D drawing target the core renders onto. Styles are CSS-like
// hex colors ("#fff", "#a5a5a5").
type Surface interface {
	// Fill paints the whole surface with a solid color.
	Fill(style string)
	// Clear resets the surface to transparent.
	Clear()
	SetStrokeStyle(style string)
	// StrokeLine draws a round-capped line in the current stroke style.
	StrokeLine(from, to Point, width float64)
	// IsPointInStroke reports whether probe is within StrokeTolerance of the
	// line from-to.
	IsPointInStroke(from, to, probe Point) bool
	StrokeTolerance() float64
}
