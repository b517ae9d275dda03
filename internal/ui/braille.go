package ui

// brailleClock holds single-cell glyphs in rotation order. Callers map an
// external step counter to a glyph rather than ticking an animation.
var brailleClock = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// BrailleGlyph returns the glyph for a rotation step, wrapping around the
// cycle. Negative steps rotate the other way.
func BrailleGlyph(step int) string {
	n := len(brailleClock)
	idx := ((step % n) + n) % n
	return brailleClock[idx]
}
