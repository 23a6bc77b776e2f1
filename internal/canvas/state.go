// Package canvas models the pointer-driven interaction on the free-form
// block canvas: panning the viewport, dragging and resizing blocks, and
// clamped zooming. It holds display state only; the single persistence call
// per gesture goes through a BlockPatcher at pointer-up.
package canvas

import "context"

type State int

const (
	StateIdle State = iota
	StatePanning
	StateDragging
	StateResizing
)

func (s State) String() string {
	switch s {
	case StatePanning:
		return "panning"
	case StateDragging:
		return "dragging-object"
	case StateResizing:
		return "resizing-object"
	default:
		return "idle"
	}
}

// Target classifies what sits under the pointer at pointer-down.
type Target int

const (
	// TargetBackground is empty canvas; pointer-down starts a pan.
	TargetBackground Target = iota
	// TargetBlock is a non-interactive part of a block; pointer-down starts a drag.
	TargetBlock
	// TargetBlockInteractive is an interactive child (text input, button);
	// pointer-down is left alone so normal editing works.
	TargetBlockInteractive
	// TargetResizeHandle starts a resize of the block.
	TargetResizeHandle
)

type Point struct {
	X, Y float64
}

// Rect is a block's position and size on the canvas.
type Rect struct {
	X, Y, Width, Height float64
}

// BlockPatcher persists a block's final rect. Implemented by the page service
// (bulk patch with the one changed block).
type BlockPatcher interface {
	PatchBlockRect(ctx context.Context, pageID, blockID string, rect Rect) error
}

const (
	MinZoom = 0.1
	MaxZoom = 5.0

	minBlockSize = 16.0
)

// Machine is the canvas interaction state machine for one page. It is not
// safe for concurrent use; pointer events arrive from a single event loop.
type Machine struct {
	patcher BlockPatcher
	pageID  string

	state State
	zoom  float64
	pan   Point

	// gesture bookkeeping
	activeBlock string
	snapshot    Rect  // block rect at pointer-down, the rollback target
	panStart    Point // pan offset at pointer-down
	origin      Point // pointer position at pointer-down
	delta       Point // accumulated pointer delta for the current gesture
	display     Rect  // rect currently rendered for the active block
}

func NewMachine(pageID string, patcher BlockPatcher) *Machine {
	return &Machine{
		patcher: patcher,
		pageID:  pageID,
		state:   StateIdle,
		zoom:    1.0,
	}
}

func (m *Machine) State() State { return m.state }
func (m *Machine) Zoom() float64 { return m.zoom }
func (m *Machine) Pan() Point { return m.pan }

// PointerDown starts a gesture depending on what was hit. blockRect is the
// block's current rect and is ignored for background hits. A pointer-down on
// an interactive child element deliberately leaves the machine idle so the
// event can propagate to the element itself.
func (m *Machine) PointerDown(target Target, blockID string, at Point, blockRect Rect) {
	if m.state != StateIdle {
		return
	}

	m.origin = at
	m.delta = Point{}

	switch target {
	case TargetBackground:
		m.state = StatePanning
		m.panStart = m.pan
	case TargetBlock:
		m.state = StateDragging
		m.activeBlock = blockID
		m.snapshot = blockRect
		m.display = blockRect
	case TargetResizeHandle:
		m.state = StateResizing
		m.activeBlock = blockID
		m.snapshot = blockRect
		m.display = blockRect
	case TargetBlockInteractive:
		// stay idle; the event belongs to the child element
	}
}

// PointerMove updates the displayed state only. Nothing is persisted here:
// the final rect at pointer-up is recomputed from the snapshot plus the total
// delta, so a stale intermediate move can never leak into storage.
func (m *Machine) PointerMove(at Point) {
	if m.state == StateIdle {
		return
	}

	m.delta = Point{X: at.X - m.origin.X, Y: at.Y - m.origin.Y}

	switch m.state {
	case StatePanning:
		m.pan = Point{X: m.panStart.X + m.delta.X, Y: m.panStart.Y + m.delta.Y}
	case StateDragging:
		m.display = Rect{
			X:      m.snapshot.X + m.delta.X/m.zoom,
			Y:      m.snapshot.Y + m.delta.Y/m.zoom,
			Width:  m.snapshot.Width,
			Height: m.snapshot.Height,
		}
	case StateResizing:
		m.display = Rect{
			X:      m.snapshot.X,
			Y:      m.snapshot.Y,
			Width:  max(minBlockSize, m.snapshot.Width+m.delta.X/m.zoom),
			Height: max(minBlockSize, m.snapshot.Height+m.delta.Y/m.zoom),
		}
	}
}

// PointerUp ends the gesture and, for drag/resize, persists the final rect
// exactly once. On persistence failure the machine runs its compensating
// transition: the snapshot rect is restored as the displayed state and the
// error is returned to the caller.
func (m *Machine) PointerUp(ctx context.Context) (Rect, error) {
	state := m.state
	m.state = StateIdle

	if state != StateDragging && state != StateResizing {
		return Rect{}, nil
	}

	final := m.finalRect(state)
	blockID := m.activeBlock
	m.activeBlock = ""

	if err := m.patcher.PatchBlockRect(ctx, m.pageID, blockID, final); err != nil {
		m.display = m.snapshot
		return m.snapshot, err
	}

	m.display = final
	return final, nil
}

// finalRect recomputes the authoritative rect from the pointer-down snapshot
// and the accumulated delta, never from the last displayed value.
func (m *Machine) finalRect(state State) Rect {
	if state == StateResizing {
		return Rect{
			X:      m.snapshot.X,
			Y:      m.snapshot.Y,
			Width:  max(minBlockSize, m.snapshot.Width+m.delta.X/m.zoom),
			Height: max(minBlockSize, m.snapshot.Height+m.delta.Y/m.zoom),
		}
	}
	return Rect{
		X:      m.snapshot.X + m.delta.X/m.zoom,
		Y:      m.snapshot.Y + m.delta.Y/m.zoom,
		Width:  m.snapshot.Width,
		Height: m.snapshot.Height,
	}
}

// DisplayRect returns the rect currently rendered for the active block.
func (m *Machine) DisplayRect() Rect { return m.display }

// Wheel handles a wheel event. Only the modifier gesture zooms; a plain wheel
// scroll is ignored entirely so browser-native scrolling can't disturb the
// canvas. Returns the zoom factor in effect afterwards.
func (m *Machine) Wheel(deltaY float64, modifier bool) float64 {
	if !modifier {
		return m.zoom
	}

	// standard exponential zoom step
	factor := 1.0
	if deltaY < 0 {
		factor = 1.1
	} else if deltaY > 0 {
		factor = 1.0 / 1.1
	}
	return m.SetZoom(m.zoom * factor)
}

// SetZoom clamps the requested factor into [MinZoom, MaxZoom] instead of
// rejecting it.
func (m *Machine) SetZoom(factor float64) float64 {
	if factor < MinZoom {
		factor = MinZoom
	}
	if factor > MaxZoom {
		factor = MaxZoom
	}
	m.zoom = factor
	return m.zoom
}
