package leave

import (
	"agency-workspace/internal/domain"
	"agency-workspace/internal/errors"
	"agency-workspace/internal/utils"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type RequestLeaveForm struct {
	Type      string `json:"type" binding:"required,max=32"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"max=1024"`
}

func (h *Handler) Create(c *gin.Context) {
	var form RequestLeaveForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	start, err := time.Parse("2006-01-02", form.StartDate)
	if err != nil {
		c.Error(errors.UnprocessableEntity("Invalid start_date", err))
		return
	}
	end, err := time.Parse("2006-01-02", form.EndDate)
	if err != nil {
		c.Error(errors.UnprocessableEntity("Invalid end_date", err))
		return
	}

	request := &domain.LeaveRequest{
		UserID:    c.GetUint64("user_id"),
		Type:      form.Type,
		StartDate: start,
		EndDate:   end,
		Reason:    form.Reason,
	}

	if err := h.service.RequestLeave(c.Request.Context(), request); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *Handler) ListOwn(c *gin.Context) {
	page, pageSize := utils.GetPaginationParams(c)

	requests, meta, err := h.service.ListOwn(c.Request.Context(), c.GetUint64("user_id"), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": requests, "meta": meta})
}

func (h *Handler) ListPending(c *gin.Context) {
	page, pageSize := utils.GetPaginationParams(c)

	requester := &domain.User{
		ID:   c.GetUint64("user_id"),
		Role: c.GetString("user_role"),
	}

	requests, meta, err := h.service.ListPending(c.Request.Context(), requester, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": requests, "meta": meta})
}

type DecideLeaveForm struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

func (h *Handler) Decide(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid leave request id", err))
		return
	}

	var form DecideLeaveForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	requester := &domain.User{
		ID:   c.GetUint64("user_id"),
		Role: c.GetString("user_role"),
	}

	request, err := h.service.Decide(c.Request.Context(), requester, id, form.Status)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, request)
}
