package page

import (
	"agency-workspace/internal/domain"
	"agency-workspace/internal/errors"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreatePageRequest struct {
	Title string `json:"title" binding:"omitempty,max=255"`
	Icon  string `json:"icon" binding:"omitempty,max=16"`
	Type  string `json:"type" binding:"omitempty,max=32"` // seed block type
}

func (h *Handler) Create(c *gin.Context) {
	var form CreatePageRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID := c.GetUint64("user_id")

	summary, err := h.service.CreatePage(c.Request.Context(), userID, form.Title, form.Icon, form.Type)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetUint64("user_id")

	summaries, err := h.service.ListPages(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *Handler) Show(c *gin.Context) {
	userID := c.GetUint64("user_id")

	page, err := h.service.GetPage(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

type PatchPageRequest struct {
	Title *string `json:"title" binding:"omitempty,max=255"`
	Icon  *string `json:"icon" binding:"omitempty,max=16"`
}

func (h *Handler) PatchMeta(c *gin.Context) {
	var form PatchPageRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID := c.GetUint64("user_id")

	page, err := h.service.PatchPageMeta(c.Request.Context(), userID, c.Param("id"), form.Title, form.Icon)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) Delete(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := h.service.DeletePage(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type CreateBlockRequest struct {
	Type    string          `json:"type" binding:"required,max=32"`
	Content json.RawMessage `json:"content"`
	Order   int             `json:"order"`
	X       *float64        `json:"x"`
	Y       *float64        `json:"y"`
	Width   *float64        `json:"width"`
	Height  *float64        `json:"height"`
}

func (h *Handler) CreateBlock(c *gin.Context) {
	var form CreateBlockRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID := c.GetUint64("user_id")

	block := &domain.Block{
		Type:      form.Type,
		Content:   form.Content,
		SortOrder: form.Order,
		X:         form.X,
		Y:         form.Y,
		Width:     form.Width,
		Height:    form.Height,
	}

	if err := h.service.CreateBlock(c.Request.Context(), userID, c.Param("id"), block); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, block)
}

type BulkPatchRequest struct {
	Blocks []BlockPatch `json:"blocks" binding:"required"`
}

func (h *Handler) PatchBlocks(c *gin.Context) {
	var form BulkPatchRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID := c.GetUint64("user_id")

	if err := h.service.BulkPatchBlocks(c.Request.Context(), userID, c.Param("id"), form.Blocks); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) DeleteBlock(c *gin.Context) {
	blockID := c.Query("blockId")
	if blockID == "" {
		c.Error(errors.BadRequest("blockId is required", nil))
		return
	}

	userID := c.GetUint64("user_id")

	if err := h.service.DeleteBlock(c.Request.Context(), userID, blockID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
