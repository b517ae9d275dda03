package ui

// Standard modal widths. Callers still clamp to the screen before use.
const (
	ModalWidthSmall  = 44
	ModalWidthMedium = 56
	ModalWidthLarge  = 72
)
