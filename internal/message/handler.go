package message

import (
	"agency-workspace/internal/errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type SendMessageForm struct {
	RecipientID uint64 `json:"recipient_id" binding:"required"`
	Body        string `json:"body" binding:"required,max=4096"`
}

func (h *Handler) Send(c *gin.Context) {
	var form SendMessageForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	message, err := h.service.SendMessage(c.Request.Context(), c.GetUint64("user_id"), form.RecipientID, form.Body)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *Handler) ListConversations(c *gin.Context) {
	summaries, err := h.service.ListConversations(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summaries})
}

func (h *Handler) conversationID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid conversation id", err))
		return 0, false
	}
	return id, true
}

// Poll returns messages newer than ?after= and marks the rest as read.
// Clients call it on a short interval instead of holding a socket open.
func (h *Handler) Poll(c *gin.Context) {
	id, ok := h.conversationID(c)
	if !ok {
		return
	}

	afterID, _ := strconv.ParseUint(c.DefaultQuery("after", "0"), 10, 64)

	messages, err := h.service.PollMessages(c.Request.Context(), c.GetUint64("user_id"), id, afterID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": messages})
}

func (h *Handler) SetTyping(c *gin.Context) {
	id, ok := h.conversationID(c)
	if !ok {
		return
	}

	if err := h.service.SetTyping(c.Request.Context(), c.GetUint64("user_id"), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) PeerTyping(c *gin.Context) {
	id, ok := h.conversationID(c)
	if !ok {
		return
	}

	typing, err := h.service.PeerTyping(c.Request.Context(), c.GetUint64("user_id"), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"typing": typing})
}
