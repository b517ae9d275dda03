package interaction

import "math/rand/v2"

// Default tuning values for the evasive control. The click threshold and
// escape ranges can be overridden through config; the cosmetic increments
// are fixed.
const (
	DefaultClickThreshold = 3
	RotationIncrement     = 15.0
	ScaleDecrement        = 0.1
	MinScale              = 0.5
	DefaultFatigueAfter   = 5
	DefaultEscapeMin      = 6
	DefaultEscapeMax      = 14
	DefaultFatiguedMin    = 2
	DefaultFatiguedMax    = 5
)

// Tuning holds the adjustable knobs for click gating and hover escapes.
// Zero values are invalid; construct via DefaultTuning and override fields.
type Tuning struct {
	ClickThreshold int // clicks required before the confirm dialog opens
	FatigueAfter   int // escapes before the magnitude range shrinks
	EscapeMin      int // cells, inclusive lower bound of a fresh escape
	EscapeMax      int // cells, inclusive upper bound of a fresh escape
	FatiguedMin    int // cells, lower bound once fatigued
	FatiguedMax    int // cells, upper bound once fatigued
}

// DefaultTuning returns the stock tuning.
func DefaultTuning() Tuning {
	return Tuning{
		ClickThreshold: DefaultClickThreshold,
		FatigueAfter:   DefaultFatigueAfter,
		EscapeMin:      DefaultEscapeMin,
		EscapeMax:      DefaultEscapeMax,
		FatiguedMin:    DefaultFatiguedMin,
		FatiguedMax:    DefaultFatiguedMax,
	}
}

// State is the full interaction state of one evasive control. Transitions
// are value-semantic: each returns a new State and never mutates the input,
// so a prior value can be compared against the next to detect edges.
type State struct {
	ClickCount      int
	RotationDegrees float64
	ScaleFactor     float64
	DialogStage     int // 0 = closed, 1..Stages() = message shown
	OffsetX         float64
	OffsetY         float64 // always 0, escapes are horizontal only
	EscapeDirection int     // +1 or -1, flips on each escape
	EscapeCount     int
	Complete        bool
}

// NewState returns the initial state for a fresh control.
func NewState() State {
	return State{
		ScaleFactor:     1.0,
		EscapeDirection: 1,
	}
}

// Click records a click attempt. Once the accumulated count meets the
// threshold while no dialog is open, the confirm dialog opens at stage 1.
// The count keeps growing while the dialog is open or after a cancel, so
// a cancelled user reenters the sequence on their next click.
// No-op once complete.
func Click(s State, t Tuning) State {
	if s.Complete {
		return s
	}
	s.ClickCount++
	s.RotationDegrees += RotationIncrement
	s.ScaleFactor -= ScaleDecrement
	if s.ScaleFactor < MinScale {
		s.ScaleFactor = MinScale
	}
	if s.DialogStage == 0 && s.ClickCount >= t.ClickThreshold {
		s.DialogStage = 1
	}
	return s
}

// Hover makes the control escape sideways: a fresh horizontal offset with
// magnitude drawn from the tuned range (the smaller fatigued range once
// enough escapes have happened), in the direction opposite the previous
// escape. rng may be nil to use the shared source. No-op once complete.
func Hover(s State, t Tuning, rng *rand.Rand) State {
	if s.Complete {
		return s
	}
	lo, hi := t.EscapeMin, t.EscapeMax
	if s.EscapeCount >= t.FatigueAfter {
		lo, hi = t.FatiguedMin, t.FatiguedMax
	}
	magnitude := lo
	if hi > lo {
		if rng != nil {
			magnitude = lo + rng.IntN(hi-lo+1)
		} else {
			magnitude = lo + rand.IntN(hi-lo+1)
		}
	}
	s.EscapeDirection = -s.EscapeDirection
	s.OffsetX = float64(magnitude * s.EscapeDirection)
	s.OffsetY = 0
	s.EscapeCount++
	return s
}

// Confirm advances the dialog one stage. Advancing past the final message
// marks the control complete and closes the dialog; the click count is
// never touched. No-op once complete.
func Confirm(s State) State {
	if s.Complete {
		return s
	}
	s.DialogStage++
	if s.DialogStage > Stages() {
		s.Complete = true
		s.DialogStage = 0
	}
	return s
}

// Cancel closes the dialog without forgiving accumulated clicks: only the
// stage resets, everything else is preserved. No-op once complete.
func Cancel(s State) State {
	if s.Complete {
		return s
	}
	s.DialogStage = 0
	return s
}

// Reset returns every field to its initial value.
func Reset(State) State {
	return NewState()
}

// ResetDisplacement zeroes the escape fields only, leaving clicks, dialog
// stage, and completion untouched. Owners call this when the pointer leaves
// the row or a sibling takes the active displacement slot.
func ResetDisplacement(s State) State {
	s.OffsetX = 0
	s.OffsetY = 0
	s.EscapeDirection = 1
	s.EscapeCount = 0
	return s
}

// CurrentMessage returns the confirm message for the open dialog stage,
// or ok=false when no dialog is open.
func CurrentMessage(s State) (msg string, ok bool) {
	if s.DialogStage < 1 || s.DialogStage > Stages() {
		return "", false
	}
	return confirmMessages[s.DialogStage-1], true
}

// EffectiveOffsetX is the offset a renderer may actually apply. Controls
// that do not hold the coordinator's active slot render at zero regardless
// of their stored offset.
func EffectiveOffsetX(s State, active bool) float64 {
	if !active {
		return 0
	}
	return s.OffsetX
}
