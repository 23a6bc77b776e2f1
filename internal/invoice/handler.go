package invoice

import (
	"agency-workspace/internal/errors"
	"agency-workspace/internal/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler is mounted behind the manager/admin role middleware; role checks
// don't repeat here.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreateInvoiceRequest struct {
	ClientName string      `json:"client_name" binding:"required,max=255"`
	Items      []ItemInput `json:"items" binding:"required,min=1,dive"`
}

func (h *Handler) Create(c *gin.Context) {
	var form CreateInvoiceRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	invoice, err := h.service.CreateInvoice(c.Request.Context(), c.GetUint64("user_id"), form.ClientName, form.Items)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

func (h *Handler) List(c *gin.Context) {
	page, pageSize := utils.GetPaginationParams(c)

	invoices, meta, err := h.service.ListInvoices(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoices, "meta": meta})
}

func (h *Handler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid invoice id", err))
		return
	}

	invoice, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft sent paid"`
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid invoice id", err))
		return
	}

	var form ChangeStatusRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	invoice, err := h.service.ChangeStatus(c.Request.Context(), id, form.Status)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid invoice id", err))
		return
	}

	if err := h.service.DeleteInvoice(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
