package todos

import (
	"math"
	"math/rand/v2"

	"github.com/wilbur182/grudge/internal/interaction"
	"github.com/wilbur182/grudge/internal/ui"
)

// Control drives the completion control for one todo row. The default
// variant resists: clicks spin and shrink the button, hovering makes it
// slide away, and completion hides behind the staged confirm dialog. The
// kind variant completes on the first activation with none of that.
//
// The completion callback fires exactly once per completion edge, however
// the edge is reached; later transitions and renders never re-fire it.
// Reset rearms the callback along with everything else.
type Control struct {
	id         string
	coord      *interaction.Coordinator
	tuning     interaction.Tuning
	rng        *rand.Rand
	kind       bool
	onComplete func(id string)

	state interaction.State
	fired bool
}

// ControlConfig carries the optional knobs for NewControl. The zero value
// gives stock tuning, the shared random source, and the default variant.
type ControlConfig struct {
	Tuning     interaction.Tuning
	Rand       *rand.Rand
	Kind       bool
	OnComplete func(id string)
}

// NewControl builds the control for a todo row. Every control needs the
// list's displacement coordinator; passing nil is a programmer error.
func NewControl(id string, coord *interaction.Coordinator, cfg ControlConfig) *Control {
	if coord == nil {
		panic("todos: NewControl requires a displacement coordinator")
	}
	if cfg.Tuning == (interaction.Tuning{}) {
		cfg.Tuning = interaction.DefaultTuning()
	}
	return &Control{
		id:         id,
		coord:      coord,
		tuning:     cfg.Tuning,
		rng:        cfg.Rand,
		kind:       cfg.Kind,
		onComplete: cfg.OnComplete,
		state:      interaction.NewState(),
	}
}

// ID returns the owning todo's ID.
func (c *Control) ID() string { return c.id }

// State returns a copy of the current interaction state.
func (c *Control) State() interaction.State { return c.state }

// Complete reports whether the control has resolved to done.
func (c *Control) Complete() bool { return c.state.Complete }

// Kind reports whether this control is the single-activation variant.
func (c *Control) Kind() bool { return c.kind }

// Click records an activation attempt: a mouse press on the button, or
// enter/space while the row is focused. The kind variant completes
// immediately; the default variant spins, shrinks, and opens the confirm
// dialog once the click gate is met.
func (c *Control) Click() {
	if c.kind {
		if c.state.Complete {
			return
		}
		next := c.state
		next.Complete = true
		next.DialogStage = 0
		c.commit(next)
		return
	}
	c.commit(interaction.Click(c.state, c.tuning))
}

// Hover makes the button escape sideways and claims the list's active
// displacement slot. The kind variant never moves.
func (c *Control) Hover() {
	if c.kind || c.state.Complete {
		return
	}
	c.commit(interaction.Hover(c.state, c.tuning, c.rng))
	c.coord.SetActive(c.id)
}

// Confirm advances the open dialog one stage; the final stage completes.
func (c *Control) Confirm() {
	if c.kind {
		return
	}
	c.commit(interaction.Confirm(c.state))
}

// CancelDialog closes the dialog and restarts the sequence. Accumulated
// clicks are not forgiven, so the next click reopens stage one.
func (c *Control) CancelDialog() {
	if c.kind {
		return
	}
	c.commit(interaction.Cancel(c.state))
}

// ResetDisplacement zeroes the stored offset and releases the active
// slot. The owning list calls this when the pointer leaves the row or a
// sibling control starts escaping.
func (c *Control) ResetDisplacement() {
	c.state = interaction.ResetDisplacement(c.state)
	c.coord.Clear(c.id)
}

// Reset restores the initial state and rearms the completion callback.
func (c *Control) Reset() {
	c.state = interaction.Reset(c.state)
	c.fired = false
	c.coord.Clear(c.id)
}

// commit applies the next state and fires the completion callback on the
// incomplete-to-complete edge, at most once until Reset.
func (c *Control) commit(next interaction.State) {
	prev := c.state
	c.state = next
	if next.Complete && !prev.Complete && !c.fired {
		c.fired = true
		if c.onComplete != nil {
			c.onComplete(c.id)
		}
	}
}

// DialogOpen reports whether the staged confirm dialog should be shown.
func (c *Control) DialogOpen() bool { return c.state.DialogStage >= 1 }

// Stage returns the 1-based dialog stage, 0 when the dialog is closed.
func (c *Control) Stage() int { return c.state.DialogStage }

// Message returns the confirm message for the open dialog stage.
func (c *Control) Message() (string, bool) {
	return interaction.CurrentMessage(c.state)
}

// OffsetX is the horizontal displacement to render this frame. Controls
// that do not hold the coordinator's active slot render at zero no matter
// what their stored offset says.
func (c *Control) OffsetX() int {
	return int(interaction.EffectiveOffsetX(c.state, c.coord.IsActive(c.id)))
}

// Glyph returns the spinner frame for the accumulated rotation, one frame
// per click.
func (c *Control) Glyph() string {
	return ui.BrailleGlyph(int(c.state.RotationDegrees / interaction.RotationIncrement))
}

// LabelPadding maps the scale factor to horizontal button padding: three
// cells untouched, shrinking to one at the scale floor.
func (c *Control) LabelPadding() int {
	pad := int(math.Round((c.state.ScaleFactor - interaction.MinScale) * 4))
	if pad < 0 {
		pad = 0
	}
	return 1 + pad
}
