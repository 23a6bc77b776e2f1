package attendance

import (
	"agency-workspace/internal/errors"
	"agency-workspace/internal/utils"
	defError "errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ClockIn(c *gin.Context) {
	record, err := h.service.ClockIn(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *Handler) ClockOut(c *gin.Context) {
	record, err := h.service.ClockOut(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// Today returns the open or closed record for the current day. A day with no
// clock-in yet is not an error to the client.
func (h *Handler) Today(c *gin.Context) {
	record, err := h.service.Today(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		var apiErr *errors.APIError
		if defError.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			c.JSON(http.StatusOK, gin.H{"clocked_in": false})
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clocked_in": true, "record": record})
}

func (h *Handler) History(c *gin.Context) {
	page, pageSize := utils.GetPaginationParams(c)

	records, meta, err := h.service.History(c.Request.Context(), c.GetUint64("user_id"), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records, "meta": meta})
}
