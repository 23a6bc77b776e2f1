package invoice

import (
	"agency-workspace/internal/domain"
	"agency-workspace/internal/errors"
	"agency-workspace/internal/utils"
	"context"
	defError "errors"

	"gorm.io/gorm"
)

// ItemInput is one line item as submitted by the client. Amounts are always
// recomputed server-side.
type ItemInput struct {
	Description    string `json:"description" binding:"required,max=512"`
	Quantity       int    `json:"quantity" binding:"required,min=1"`
	UnitPriceCents int64  `json:"unit_price_cents" binding:"required,min=0"`
}

type Service interface {
	CreateInvoice(ctx context.Context, creatorID uint64, clientName string, items []ItemInput) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, id uint64) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, page, pageSize int) ([]domain.Invoice, utils.Meta, error)
	ChangeStatus(ctx context.Context, id uint64, status string) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, id uint64) error
}

type DefaultService struct {
	repository InvoiceRepository
}

func NewService(repository InvoiceRepository) Service {
	return &DefaultService{repository: repository}
}

func (s *DefaultService) CreateInvoice(ctx context.Context, creatorID uint64, clientName string, items []ItemInput) (*domain.Invoice, error) {
	if len(items) == 0 {
		return nil, errors.UnprocessableEntity("Invoice needs at least one item", nil)
	}

	invoice := &domain.Invoice{
		ClientName:  clientName,
		Status:      domain.InvoiceStatusDraft,
		CreatedByID: creatorID,
		Items:       make([]domain.InvoiceItem, 0, len(items)),
	}

	var total int64
	for _, item := range items {
		amount := int64(item.Quantity) * item.UnitPriceCents
		total += amount
		invoice.Items = append(invoice.Items, domain.InvoiceItem{
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			AmountCents:    amount,
		})
	}
	invoice.TotalCents = total

	if err := s.repository.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *DefaultService) GetInvoice(ctx context.Context, id uint64) (*domain.Invoice, error) {
	invoice, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Invoice not found", err)
		}
		return nil, err
	}
	return invoice, nil
}

func (s *DefaultService) ListInvoices(ctx context.Context, page, pageSize int) ([]domain.Invoice, utils.Meta, error) {
	return s.repository.List(ctx, page, pageSize)
}

// legalTransition encodes the draft -> sent -> paid lifecycle.
func legalTransition(from, to string) bool {
	switch from {
	case domain.InvoiceStatusDraft:
		return to == domain.InvoiceStatusSent
	case domain.InvoiceStatusSent:
		return to == domain.InvoiceStatusPaid
	default:
		return false
	}
}

func (s *DefaultService) ChangeStatus(ctx context.Context, id uint64, status string) (*domain.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if !legalTransition(invoice.Status, status) {
		return nil, errors.Conflict("Illegal invoice status transition", nil)
	}

	if err := s.repository.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	invoice.Status = status
	return invoice, nil
}

// DeleteInvoice only removes drafts; anything already sent is immutable
// history.
func (s *DefaultService) DeleteInvoice(ctx context.Context, id uint64) error {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return err
	}

	if invoice.Status != domain.InvoiceStatusDraft {
		return errors.Conflict("Only draft invoices can be deleted", nil)
	}

	return s.repository.Delete(ctx, id)
}
