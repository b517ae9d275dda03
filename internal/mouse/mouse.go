// Package mouse provides rectangle hit testing for terminal mouse
// events. Renderers register regions each frame; update paths resolve
// incoming events against the last frame's map.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Two left clicks on the same region within this window count as a
// double-click.
const doubleClickWindow = 400 * time.Millisecond

// scrollStep is the row delta reported per wheel notch.
const scrollStep = 3

// ActionType classifies a processed mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionScrollUp
	ActionScrollDown
	ActionHover
)

// MouseAction is a resolved mouse event: what happened, where, and the
// region it landed on. Region is nil when the event landed on bare
// ground.
type MouseAction struct {
	Type   ActionType
	Region *Region
	X, Y   int
	Delta  int
}

// Rect is a half-open rectangle: x in [X, X+W), y in [Y, Y+H).
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named hit rectangle. Data carries whatever the renderer
// wants back on a hit, typically a row index.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap is the set of regions registered during the last render.
type HitMap struct {
	regions []Region
}

func NewHitMap() *HitMap {
	return &HitMap{regions: make([]Region, 0, 32)}
}

// Clear drops all regions, keeping the backing array for the next
// frame.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// AddRect registers a region. Regions added later sit on top.
func (h *HitMap) AddRect(id string, x, y, w, height int, data any) {
	h.regions = append(h.regions, Region{
		ID:   id,
		Rect: Rect{X: x, Y: y, W: w, H: height},
		Data: data,
	})
}

// Test returns the topmost region containing the point, nil when none
// does.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			return &h.regions[i]
		}
	}
	return nil
}

// Regions returns a copy of the registered regions.
func (h *HitMap) Regions() []Region {
	return append([]Region(nil), h.regions...)
}

// Handler resolves raw tea mouse events against a HitMap and tracks
// click timing for double-click detection.
type Handler struct {
	HitMap *HitMap

	lastClickID string
	lastClickAt time.Time
}

func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// Clear resets the hit map. Click timing survives so a double-click
// spanning two frames still registers.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// ClickResult is the outcome of one left click.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// HandleClick resolves a left click at (x, y). A second click on the
// same region within doubleClickWindow upgrades to a double-click; the
// timer then resets so a third click starts a fresh single.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	if region == nil {
		return ClickResult{}
	}
	return ClickResult{Region: region, IsDoubleClick: h.trackClick(region.ID)}
}

func (h *Handler) trackClick(id string) bool {
	now := time.Now()
	if id == h.lastClickID && now.Sub(h.lastClickAt) < doubleClickWindow {
		h.lastClickID = ""
		h.lastClickAt = time.Time{}
		return true
	}
	h.lastClickID = id
	h.lastClickAt = now
	return false
}

// HandleMouse turns a tea.MouseMsg into a MouseAction. Hover is
// reported for every motion event, region or not, so callers can clear
// stale highlights.
func (h *Handler) HandleMouse(msg tea.MouseMsg) MouseAction {
	at := func() *Region { return h.HitMap.Test(msg.X, msg.Y) }

	switch msg.Action {
	case tea.MouseActionMotion:
		return MouseAction{Type: ActionHover, Region: at(), X: msg.X, Y: msg.Y}

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			res := h.HandleClick(msg.X, msg.Y)
			if res.Region == nil {
				break
			}
			t := ActionClick
			if res.IsDoubleClick {
				t = ActionDoubleClick
			}
			return MouseAction{Type: t, Region: res.Region, X: msg.X, Y: msg.Y}

		case tea.MouseButtonWheelUp:
			return MouseAction{Type: ActionScrollUp, Region: at(), X: msg.X, Y: msg.Y, Delta: -scrollStep}

		case tea.MouseButtonWheelDown:
			return MouseAction{Type: ActionScrollDown, Region: at(), X: msg.X, Y: msg.Y, Delta: scrollStep}
		}
	}

	return MouseAction{Type: ActionNone}
}
