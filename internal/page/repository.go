package page

import (
	"agency-workspace/internal/domain"
	"context"
	"encoding/json"
	defError "errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotOwned is returned when a block exists but its parent page belongs to
// someone else. Callers map it to a 401, distinct from plain NotFound.
var ErrNotOwned = defError.New("block page owned by another user")

// PageSummary is the list-view projection of a page.
type PageSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Icon       string    `json:"icon"`
	UpdatedAt  time.Time `json:"updated_at"`
	BlockCount int64     `json:"block_count"`
}

// BlockPatch is one partial update inside a bulk patch. Nil fields are left
// untouched. Content is applied verbatim, never inspected.
type BlockPatch struct {
	ID      string          `json:"id" binding:"required"`
	Type    *string         `json:"type"`
	Content json.RawMessage `json:"content"`
	Order   *int            `json:"order"`
	X       *float64        `json:"x"`
	Y       *float64        `json:"y"`
	Width   *float64        `json:"width"`
	Height  *float64        `json:"height"`
}

type PageRepository interface {
	Create(ctx context.Context, page *domain.Page) error
	List(ctx context.Context, ownerID uint64) ([]PageSummary, error)
	FindWithBlocks(ctx context.Context, ownerID uint64, publicID string) (*domain.Page, error)
	FindRow(ctx context.Context, ownerID uint64, publicID string) (*domain.Page, error)
	UpdateMeta(ctx context.Context, ownerID uint64, publicID string, title, icon *string) (*domain.Page, error)
	Delete(ctx context.Context, ownerID uint64, publicID string) error
	CreateBlock(ctx context.Context, block *domain.Block) error
	BulkPatchBlocks(ctx context.Context, pageID uint64, patches []BlockPatch) error
	DeleteBlock(ctx context.Context, blockPublicID string, requesterID uint64) error
}

type PageRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new page repository
func NewRepository(db *gorm.DB) PageRepository {
	return &PageRepositoryImpl{db: db}
}

// Create inserts the page together with its seed block in one transaction.
// The page's sort order is appended after the owner's existing pages.
func (r *PageRepositoryImpl) Create(ctx context.Context, page *domain.Page) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nextOrder int
		if err := tx.Model(&domain.Page{}).
			Where("owner_id = ?", page.OwnerID).
			Select("COALESCE(MAX(sort_order) + 1, 0)").
			Scan(&nextOrder).Error; err != nil {
			return err
		}

		page.SortOrder = nextOrder
		now := time.Now().UTC()
		page.CreatedAt = now
		page.UpdatedAt = now

		return tx.Create(page).Error
	})
}

func (r *PageRepositoryImpl) List(ctx context.Context, ownerID uint64) ([]PageSummary, error) {
	summaries := []PageSummary{}
	err := r.db.WithContext(ctx).Model(&domain.Page{}).
		Select("pages.public_id AS id, pages.title, pages.icon, pages.updated_at, COUNT(blocks.id) AS block_count").
		Joins("LEFT JOIN blocks ON blocks.page_id = pages.id").
		Where("pages.owner_id = ?", ownerID).
		Group("pages.id").
		Order("pages.sort_order ASC, pages.updated_at DESC").
		Scan(&summaries).Error
	return summaries, err
}

// FindWithBlocks loads a page and its blocks ordered by sort order, insertion
// order breaking ties. The (public_id, owner_id) filter makes a foreign page
// indistinguishable from a missing one.
func (r *PageRepositoryImpl) FindWithBlocks(ctx context.Context, ownerID uint64, publicID string) (*domain.Page, error) {
	var page domain.Page
	err := r.db.WithContext(ctx).
		Preload("Blocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("blocks.sort_order ASC, blocks.id ASC")
		}).
		Where("public_id = ? AND owner_id = ?", publicID, ownerID).
		First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// FindRow loads the bare page row under the same ownership rule as
// FindWithBlocks.
func (r *PageRepositoryImpl) FindRow(ctx context.Context, ownerID uint64, publicID string) (*domain.Page, error) {
	var page domain.Page
	err := r.db.WithContext(ctx).
		Where("public_id = ? AND owner_id = ?", publicID, ownerID).
		First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *PageRepositoryImpl) UpdateMeta(ctx context.Context, ownerID uint64, publicID string, title, icon *string) (*domain.Page, error) {
	page, err := r.FindRow(ctx, ownerID, publicID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		page.Title = *title
	}
	if icon != nil {
		page.Icon = *icon
	}
	page.UpdatedAt = time.Now().UTC()

	if err := r.db.WithContext(ctx).Save(page).Error; err != nil {
		return nil, err
	}
	return page, nil
}

// Delete removes the page and cascades to all of its blocks. Zero matched
// rows surfaces as ErrRecordNotFound whether the page is missing or foreign.
func (r *PageRepositoryImpl) Delete(ctx context.Context, ownerID uint64, publicID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var page domain.Page
		if err := tx.Where("public_id = ? AND owner_id = ?", publicID, ownerID).
			First(&page).Error; err != nil {
			return err
		}

		if err := tx.Where("page_id = ?", page.ID).Delete(&domain.Block{}).Error; err != nil {
			return err
		}

		return tx.Delete(&page).Error
	})
}

// CreateBlock trusts that the caller already verified ownership of the parent
// page; it performs no check of its own.
func (r *PageRepositoryImpl) CreateBlock(ctx context.Context, block *domain.Block) error {
	now := time.Now().UTC()
	block.CreatedAt = now
	block.UpdatedAt = now
	return r.db.WithContext(ctx).Create(block).Error
}

// BulkPatchBlocks applies every patch inside a single transaction: a patch
// that matches no block on the page aborts and rolls back the whole batch.
// Ownership of the page is the caller's responsibility, checked once before
// this is invoked.
func (r *PageRepositoryImpl) BulkPatchBlocks(ctx context.Context, pageID uint64, patches []BlockPatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, p := range patches {
			updates := map[string]any{"updated_at": now}
			if p.Type != nil {
				updates["type"] = *p.Type
			}
			if p.Content != nil {
				updates["content"] = []byte(p.Content)
			}
			if p.Order != nil {
				updates["sort_order"] = *p.Order
			}
			if p.X != nil {
				updates["x"] = *p.X
			}
			if p.Y != nil {
				updates["y"] = *p.Y
			}
			if p.Width != nil {
				updates["width"] = *p.Width
			}
			if p.Height != nil {
				updates["height"] = *p.Height
			}

			result := tx.Model(&domain.Block{}).
				Where("public_id = ? AND page_id = ?", p.ID, pageID).
				Updates(updates)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

// DeleteBlock verifies ownership by joining through the parent page, unlike
// the page-level operations which filter on (id, owner) directly.
func (r *PageRepositoryImpl) DeleteBlock(ctx context.Context, blockPublicID string, requesterID uint64) error {
	var row struct {
		BlockID uint64
		OwnerID uint64
	}

	err := r.db.WithContext(ctx).Model(&domain.Block{}).
		Select("blocks.id AS block_id, pages.owner_id AS owner_id").
		Joins("JOIN pages ON pages.id = blocks.page_id").
		Where("blocks.public_id = ?", blockPublicID).
		First(&row).Error
	if err != nil {
		return err
	}

	if row.OwnerID != requesterID {
		return ErrNotOwned
	}

	return r.db.WithContext(ctx).Delete(&domain.Block{}, row.BlockID).Error
}
