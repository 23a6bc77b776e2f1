package canvas

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingPatcher counts persistence calls and records the last rect
type recordingPatcher struct {
	calls  int
	lastID string
	last   Rect
	err    error
}

func (p *recordingPatcher) PatchBlockRect(ctx context.Context, pageID, blockID string, rect Rect) error {
	p.calls++
	p.lastID = blockID
	p.last = rect
	return p.err
}

func TestDrag_PersistsFinalPositionExactlyOnce(t *testing.T) {
	patcher := &recordingPatcher{}
	m := NewMachine("page-1", patcher)

	start := Rect{X: 100, Y: 50, Width: 200, Height: 120}
	m.PointerDown(TargetBlock, "block-1", Point{X: 10, Y: 10}, start)
	assert.Equal(t, StateDragging, m.State())

	// several intermediate moves, none of which may persist
	m.PointerMove(Point{X: 20, Y: 5})
	m.PointerMove(Point{X: 35, Y: 2})
	m.PointerMove(Point{X: 40, Y: 0})
	assert.Equal(t, 0, patcher.calls)

	final, err := m.PointerUp(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, StateIdle, m.State())

	// total delta (30, -10) from the snapshot, not from intermediate values
	assert.Equal(t, Rect{X: 130, Y: 40, Width: 200, Height: 120}, final)
	assert.Equal(t, 1, patcher.calls)
	assert.Equal(t, "block-1", patcher.lastID)
	assert.Equal(t, final, patcher.last)
}

func TestDrag_FinalRectIgnoresStaleIntermediateMove(t *testing.T) {
	patcher := &recordingPatcher{}
	m := NewMachine("page-1", patcher)

	m.PointerDown(TargetBlock, "block-1", Point{X: 0, Y: 0}, Rect{X: 100, Y: 50})

	// out-of-order events: a late move lands after the "real" last one
	m.PointerMove(Point{X: 30, Y: -10})
	m.PointerMove(Point{X: 12, Y: 3})

	final, err := m.PointerUp(context.Background())
	assert.NoError(t, err)

	// snapshot + delta of the move that actually arrived last
	assert.Equal(t, 112.0, final.X)
	assert.Equal(t, 53.0, final.Y)
}

func TestPointerDown_InteractiveChildStaysIdle(t *testing.T) {
	patcher := &recordingPatcher{}
	m := NewMachine("page-1", patcher)

	m.PointerDown(TargetBlockInteractive, "block-1", Point{X: 5, Y: 5}, Rect{X: 0, Y: 0})
	assert.Equal(t, StateIdle, m.State())

	m.PointerMove(Point{X: 50, Y: 50})
	_, err := m.PointerUp(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, patcher.calls)
}

func TestPan_DoesNotPersist(t *testing.T) {
	patcher := &recordingPatcher{}
	m := NewMachine("page-1", patcher)

	m.PointerDown(TargetBackground, "", Point{X: 0, Y: 0}, Rect{})
	assert.Equal(t, StatePanning, m.State())

	m.PointerMove(Point{X: -40, Y: 25})
	_, err := m.PointerUp(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, Point{X: -40, Y: 25}, m.Pan())
	assert.Equal(t, 0, patcher.calls)
	assert.Equal(t, StateIdle, m.State())
}

func TestResize_ClampsToMinimumSize(t *testing.T) {
	patcher := &recordingPatcher{}
	m := NewMachine("page-1", patcher)

	m.PointerDown(TargetResizeHandle, "block-1", Point{X: 0, Y: 0}, Rect{X: 10, Y: 10, Width: 100, Height: 80})
	assert.Equal(t, StateResizing, m.State())

	m.PointerMove(Point{X: -500, Y: -500})
	final, err := m.PointerUp(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, minBlockSize, final.Width)
	assert.Equal(t, minBlockSize, final.Height)
	// resize keeps the anchor corner
	assert.Equal(t, 10.0, final.X)
	assert.Equal(t, 10.0, final.Y)
	assert.Equal(t, 1, patcher.calls)
}

func TestPersistFailure_RollsBackToSnapshot(t *testing.T) {
	patcher := &recordingPatcher{err: errors.New("network down")}
	m := NewMachine("page-1", patcher)

	start := Rect{X: 100, Y: 50, Width: 60, Height: 40}
	m.PointerDown(TargetBlock, "block-1", Point{X: 0, Y: 0}, start)
	m.PointerMove(Point{X: 30, Y: -10})

	rect, err := m.PointerUp(context.Background())
	assert.Error(t, err)

	// compensating transition: displayed state snaps back to the snapshot
	assert.Equal(t, start, rect)
	assert.Equal(t, start, m.DisplayRect())
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 1, patcher.calls)
}

func TestZoom_ClampsToRange(t *testing.T) {
	m := NewMachine("page-1", &recordingPatcher{})

	assert.Equal(t, MaxZoom, m.SetZoom(12.0))
	assert.Equal(t, MinZoom, m.SetZoom(0.01))
	assert.Equal(t, 2.5, m.SetZoom(2.5))
}

func TestWheel_PlainScrollIsIgnored(t *testing.T) {
	m := NewMachine("page-1", &recordingPatcher{})

	got := m.Wheel(-120, false)
	assert.Equal(t, 1.0, got)
	assert.Equal(t, 1.0, m.Zoom())

	got = m.Wheel(-120, true)
	assert.InDelta(t, 1.1, got, 1e-9)
}

func TestWheel_ZoomStopsAtBounds(t *testing.T) {
	m := NewMachine("page-1", &recordingPatcher{})

	for i := 0; i < 100; i++ {
		m.Wheel(-120, true)
	}
	assert.Equal(t, MaxZoom, m.Zoom())

	for i := 0; i < 200; i++ {
		m.Wheel(120, true)
	}
	assert.Equal(t, MinZoom, m.Zoom())
}

func TestDrag_DeltaScalesWithZoom(t *testing.T) {
	patcher := &recordingPatcher{}
	m := NewMachine("page-1", patcher)
	m.SetZoom(2.0)

	m.PointerDown(TargetBlock, "block-1", Point{X: 0, Y: 0}, Rect{X: 10, Y: 10})
	m.PointerMove(Point{X: 40, Y: 20})

	final, err := m.PointerUp(context.Background())
	assert.NoError(t, err)

	// screen-space delta is divided by the zoom factor
	assert.Equal(t, 30.0, final.X)
	assert.Equal(t, 20.0, final.Y)
}
