package todos

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/grudge/internal/journal"
	"github.com/wilbur182/grudge/internal/mouse"
	"github.com/wilbur182/grudge/internal/plugin"
)

// Mouse region identifiers
const (
	regionTodoList    = "todo-list"    // Whole panel, for wheel scrolling
	regionTodoRow     = "todo-row"     // One visible row (Data: list index)
	regionTodoControl = "todo-control" // A row's done control (Data: todo ID)
)

// handleMouse routes mouse events to whichever surface owns input.
func (p *Plugin) handleMouse(msg tea.MouseMsg) (plugin.Plugin, tea.Cmd) {
	switch p.mode {
	case modeAdd, modeEdit:
		cmd, _ := p.handleTaskModalMouse(msg)
		return p, cmd
	case modeDelete:
		cmd, _ := p.handleDeleteModalMouse(msg)
		return p, cmd
	case modeConfirm:
		cmd, _ := p.handleConfirmModalMouse(msg)
		return p, cmd
	case modeExport:
		cmd, _ := p.handleExportModalMouse(msg)
		return p, cmd
	}
	return p.handleListMouse(msg)
}

// handleListMouse handles mouse input over the plain list.
func (p *Plugin) handleListMouse(msg tea.MouseMsg) (plugin.Plugin, tea.Cmd) {
	if p.loading || p.loadErr != nil {
		return p, nil
	}

	action := p.mouseHandler.HandleMouse(msg)
	switch action.Type {
	case mouse.ActionHover:
		p.handleListHover(action)

	case mouse.ActionClick, mouse.ActionDoubleClick:
		if action.Region == nil {
			return p, nil
		}
		switch action.Region.ID {
		case regionTodoControl:
			// A double click is just two clicks as far as the control
			// is concerned; rapid clicking is half the fun.
			if id, ok := action.Region.Data.(string); ok {
				if idx := p.indexOfTodo(id); idx >= 0 {
					p.cursor = idx
				}
				return p, p.clickControl(id)
			}
		case regionTodoRow:
			if idx, ok := action.Region.Data.(int); ok && idx >= 0 && idx < len(p.todos) {
				p.cursor = idx
				if action.Type == mouse.ActionDoubleClick {
					return p, p.openTaskModal(p.todos[idx].ID)
				}
			}
		}

	case mouse.ActionScrollUp:
		p.moveCursor(-1)

	case mouse.ActionScrollDown:
		p.moveCursor(1)
	}
	return p, nil
}

// handleListHover drives the escape behavior. Hovering a control makes it
// flee and claims the list's single active displacement slot; the slot
// releases when the pointer leaves the control's row or lands on a
// sibling control.
func (p *Plugin) handleListHover(action mouse.MouseAction) {
	region := action.Region

	if region != nil && region.ID == regionTodoControl {
		id, ok := region.Data.(string)
		if !ok {
			return
		}
		if active := p.coord.ActiveID(); active != "" && active != id {
			if prev := p.controls[active]; prev != nil {
				prev.ResetDisplacement()
			} else {
				p.coord.Clear(active)
			}
		}
		if ctrl := p.controls[id]; ctrl != nil && !ctrl.Kind() && !ctrl.Complete() {
			ctrl.Hover()
			p.recordEvent(id, journal.EventEscape, ctrl.State().EscapeCount)
		}
		return
	}

	// Pointer anywhere else: the active control keeps its offset only
	// while the pointer stays somewhere on its own row.
	active := p.coord.ActiveID()
	if active == "" {
		return
	}
	if region != nil && region.ID == regionTodoRow {
		if idx, ok := region.Data.(int); ok && idx == p.indexOfTodo(active) {
			return
		}
	}
	if ctrl := p.controls[active]; ctrl != nil {
		ctrl.ResetDisplacement()
	} else {
		p.coord.Clear(active)
	}
}

// registerMouseRegions rebuilds the hit map for the current frame. More
// specific regions are added last so they win the reverse-order hit test.
// The control region is registered at its displaced position, so the
// pointer has to chase the button to press it.
func (p *Plugin) registerMouseRegions() {
	p.mouseHandler.Clear()
	if p.width == 0 || p.height == 0 {
		return
	}

	p.mouseHandler.HitMap.AddRect(regionTodoList, 0, 0, p.width, p.height, nil)

	if p.loading || p.loadErr != nil || len(p.todos) == 0 {
		return
	}

	rowsH := p.rowsHeight()
	rowW := p.rowWidth()
	p.ensureCursorVisible(rowsH, len(p.todos))

	end := p.scrollOff + rowsH
	if end > len(p.todos) {
		end = len(p.todos)
	}

	for i := p.scrollOff; i < end; i++ {
		y := listTopY + (i - p.scrollOff)
		p.mouseHandler.HitMap.AddRect(regionTodoRow, contentX, y, rowW, 1, i)
		if x, bw, ok := p.controlGeometry(p.todos[i], rowW); ok {
			p.mouseHandler.HitMap.AddRect(regionTodoControl, contentX+x, y, bw, 1, p.todos[i].ID)
		}
	}
}
