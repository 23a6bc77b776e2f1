package page

import (
	"agency-workspace/internal/canvas"
	"context"
)

// CanvasPatcher adapts the page service to the canvas machine's persistence
// interface: a completed drag or resize becomes a bulk patch carrying the one
// changed block.
type CanvasPatcher struct {
	service Service
	ownerID uint64
}

func NewCanvasPatcher(service Service, ownerID uint64) *CanvasPatcher {
	return &CanvasPatcher{service: service, ownerID: ownerID}
}

func (p *CanvasPatcher) PatchBlockRect(ctx context.Context, pageID, blockID string, rect canvas.Rect) error {
	x, y := rect.X, rect.Y
	w, h := rect.Width, rect.Height

	return p.service.BulkPatchBlocks(ctx, p.ownerID, pageID, []BlockPatch{
		{
			ID:     blockID,
			X:      &x,
			Y:      &y,
			Width:  &w,
			Height: &h,
		},
	})
}
