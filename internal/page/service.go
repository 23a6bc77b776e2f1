package page

import (
	"agency-workspace/internal/domain"
	"agency-workspace/internal/errors"
	"agency-workspace/internal/worker"
	"agency-workspace/redis"
	"context"
	"encoding/json"
	defError "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultTitle = "Untitled"
	defaultIcon  = "📄"
)

type Service interface {
	CreatePage(ctx context.Context, ownerID uint64, title, icon, seedType string) (*PageSummary, error)
	ListPages(ctx context.Context, ownerID uint64) ([]PageSummary, error)
	GetPage(ctx context.Context, ownerID uint64, pageID string) (*domain.Page, error)
	PatchPageMeta(ctx context.Context, ownerID uint64, pageID string, title, icon *string) (*domain.Page, error)
	DeletePage(ctx context.Context, ownerID uint64, pageID string) error
	CreateBlock(ctx context.Context, ownerID uint64, pageID string, block *domain.Block) error
	BulkPatchBlocks(ctx context.Context, ownerID uint64, pageID string, patches []BlockPatch) error
	DeleteBlock(ctx context.Context, ownerID uint64, blockID string) error
}

type DefaultService struct {
	repository PageRepository
	cache      *redis.Cache
	jobs       *worker.Pool
}

func NewService(repository PageRepository, cache *redis.Cache, jobs *worker.Pool) Service {
	return &DefaultService{
		repository: repository,
		cache:      cache,
		jobs:       jobs,
	}
}

// CreatePage creates a page with exactly one seed block at order 0. The seed
// block's type defaults to text and its content starts empty.
func (s *DefaultService) CreatePage(ctx context.Context, ownerID uint64, title, icon, seedType string) (*PageSummary, error) {
	if title == "" {
		title = defaultTitle
	}
	if icon == "" {
		icon = defaultIcon
	}
	if seedType == "" {
		seedType = "text"
	}

	page := &domain.Page{
		PublicID: uuid.NewString(),
		OwnerID:  ownerID,
		Title:    title,
		Icon:     icon,
		Blocks: []domain.Block{
			{
				PublicID:  uuid.NewString(),
				Type:      seedType,
				Content:   json.RawMessage(`{"text":""}`),
				SortOrder: 0,
			},
		},
	}

	if err := s.repository.Create(ctx, page); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx, ownerID)

	return &PageSummary{
		ID:         page.PublicID,
		Title:      page.Title,
		Icon:       page.Icon,
		UpdatedAt:  page.UpdatedAt,
		BlockCount: 1,
	}, nil
}

func (s *DefaultService) ListPages(ctx context.Context, ownerID uint64) ([]PageSummary, error) {
	versionKey := fmt.Sprintf("user:%d:pages:version", ownerID)
	v := s.cache.GetVersion(ctx, versionKey)
	cacheKey := fmt.Sprintf("pages:u:%d:v:%d", ownerID, v)

	var cached []PageSummary
	found, _ := s.cache.Get(ctx, cacheKey, &cached)
	if found {
		return cached, nil
	}

	summaries, err := s.repository.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	s.jobs.Submit(func(ctx context.Context) error {
		return s.cache.Set(ctx, cacheKey, summaries, 24*time.Hour)
	})

	return summaries, nil
}

// GetPage hides existence: a page owned by someone else yields the exact same
// NotFound as a page that was never created.
func (s *DefaultService) GetPage(ctx context.Context, ownerID uint64, pageID string) (*domain.Page, error) {
	page, err := s.repository.FindWithBlocks(ctx, ownerID, pageID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Page not found", err)
		}
		return nil, err
	}
	return page, nil
}

func (s *DefaultService) PatchPageMeta(ctx context.Context, ownerID uint64, pageID string, title, icon *string) (*domain.Page, error) {
	page, err := s.repository.UpdateMeta(ctx, ownerID, pageID, title, icon)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Page not found", err)
		}
		return nil, err
	}

	s.invalidateListCache(ctx, ownerID)
	return page, nil
}

func (s *DefaultService) DeletePage(ctx context.Context, ownerID uint64, pageID string) error {
	if err := s.repository.Delete(ctx, ownerID, pageID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Page not found", err)
		}
		return err
	}

	s.invalidateListCache(ctx, ownerID)
	return nil
}

// requireOwnedPage is the single ownership gate every block mutation goes
// through before touching storage. The store-level block operations trust it.
func (s *DefaultService) requireOwnedPage(ctx context.Context, ownerID uint64, pageID string) (*domain.Page, error) {
	page, err := s.repository.FindRow(ctx, ownerID, pageID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Page not found", err)
		}
		return nil, err
	}
	return page, nil
}

func (s *DefaultService) CreateBlock(ctx context.Context, ownerID uint64, pageID string, block *domain.Block) error {
	page, err := s.requireOwnedPage(ctx, ownerID, pageID)
	if err != nil {
		return err
	}

	block.PublicID = uuid.NewString()
	block.PageID = page.ID
	if block.Content == nil {
		block.Content = json.RawMessage(`{}`)
	}

	if err := s.repository.CreateBlock(ctx, block); err != nil {
		return err
	}

	s.invalidateListCache(ctx, ownerID)
	return nil
}

// BulkPatchBlocks checks page ownership exactly once, then hands the batch to
// the store, which applies it atomically.
func (s *DefaultService) BulkPatchBlocks(ctx context.Context, ownerID uint64, pageID string, patches []BlockPatch) error {
	page, err := s.requireOwnedPage(ctx, ownerID, pageID)
	if err != nil {
		return err
	}

	if len(patches) == 0 {
		return nil
	}

	if err := s.repository.BulkPatchBlocks(ctx, page.ID, patches); err != nil {
		return errors.Internal(err)
	}

	s.invalidateListCache(ctx, ownerID)
	return nil
}

func (s *DefaultService) DeleteBlock(ctx context.Context, ownerID uint64, blockID string) error {
	err := s.repository.DeleteBlock(ctx, blockID, ownerID)
	if err != nil {
		if defError.Is(err, ErrNotOwned) {
			return errors.Unauthorized("Unauthorized", err)
		}
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Block not found", err)
		}
		return err
	}

	s.invalidateListCache(ctx, ownerID)
	return nil
}

// invalidateListCache bumps the version key so any cached page list for this
// owner is skipped on the next read.
func (s *DefaultService) invalidateListCache(ctx context.Context, ownerID uint64) {
	versionKey := fmt.Sprintf("user:%d:pages:version", ownerID)
	s.cache.IncrementVersion(ctx, versionKey)
}
