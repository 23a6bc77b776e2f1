package invoice

import (
	"agency-workspace/internal/domain"
	"agency-workspace/internal/utils"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	FindByID(ctx context.Context, id uint64) (*domain.Invoice, error)
	List(ctx context.Context, page, pageSize int) ([]domain.Invoice, utils.Meta, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Delete(ctx context.Context, id uint64) error
}

type InvoiceRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) InvoiceRepository {
	return &InvoiceRepositoryImpl{db: db}
}

// Create inserts the invoice with its items and assigns the sequential
// invoice number from the generated primary key, all in one transaction.
func (r *InvoiceRepositoryImpl) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		invoice.CreatedAt = now
		invoice.UpdatedAt = now
		// provisional value keeps the unique index happy until the real
		// number is derived from the generated id below
		invoice.Number = "PENDING-" + uuid.NewString()

		if err := tx.Create(invoice).Error; err != nil {
			return err
		}

		invoice.Number = fmt.Sprintf("INV-%06d", invoice.ID)
		return tx.Model(invoice).Update("number", invoice.Number).Error
	})
}

func (r *InvoiceRepositoryImpl) FindByID(ctx context.Context, id uint64) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).Preload("Items").First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepositoryImpl) List(ctx context.Context, page, pageSize int) ([]domain.Invoice, utils.Meta, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Invoice{}).Count(&total).Error; err != nil {
		return nil, utils.Meta{}, err
	}

	var invoices []domain.Invoice
	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&invoices).Error

	return invoices, utils.NewMeta(total, page, pageSize), err
}

func (r *InvoiceRepositoryImpl) UpdateStatus(ctx context.Context, id uint64, status string) error {
	return r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *InvoiceRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&domain.InvoiceItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&domain.Invoice{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
