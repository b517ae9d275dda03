package interaction

// Coordinator tracks which single control among a list of siblings is
// allowed to render a nonzero displacement. One Coordinator is created per
// rendered list and dies with it; it is never shared across lists or kept
// as process state.
//
// All mutation happens inside the single-threaded update loop, so there is
// no lock: last writer wins. The coordinator only tracks identity. It never
// zeroes a displaced sibling's own offset; the owner does that through
// ResetDisplacement when the pointer leaves. If the host drops motion
// events (no all-motion reporting, or a multiplexer swallowing them) that
// release can be missed, so renderers must gate on IsActive rather than
// trusting a control's stored offset.
type Coordinator struct {
	activeID string
}

// NewCoordinator returns an empty registry with no active control.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// SetActive marks id as the one control allowed to displace. Idempotent;
// whoever hovered last wins.
func (c *Coordinator) SetActive(id string) {
	c.activeID = id
}

// IsActive reports whether id currently holds the displacement slot.
func (c *Coordinator) IsActive(id string) bool {
	return c.activeID == id
}

// Clear releases the slot, but only if id still holds it. A stale clear
// from a control that already lost the slot must not evict the new holder.
func (c *Coordinator) Clear(id string) {
	if c.activeID == id {
		c.activeID = ""
	}
}

// ActiveID returns the id holding the slot, or "" when none does.
func (c *Coordinator) ActiveID() string {
	return c.activeID
}
