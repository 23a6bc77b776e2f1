package task

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

func requesterFromContext(c *gin.Context) *domain.User {
	return &domain.User{
		ID:   c.GetUint64("user_id"),
		Role: c.GetString("user_role"),
	}
}

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Description string  `json:"description"`
	AssigneeID  *uint64 `json:"assignee_id"`
	DueDate     *string `json:"due_date"` // RFC3339
}

func (h *Handler) Create(c *gin.Context) {
	var form CreateTaskRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	task := &domain.Task{
		Title:       form.Title,
		Description: form.Description,
		CreatorID:   c.GetUint64("user_id"),
		AssigneeID:  form.AssigneeID,
	}

	if form.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *form.DueDate)
		if err != nil {
			c.Error(errors.UnprocessableEntity("Invalid due_date", err))
			return
		}
		task.DueDate = &due
	}

	if err := h.service.CreateTask(c.Request.Context(), task); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *Handler) List(c *gin.Context) {
	page, pageSize := utils.GetPaginationParams(c)

	filter := ListFilter{Status: c.Query("status")}
	if assignee := c.Query("assignee_id"); assignee != "" {
		id, err := strconv.ParseUint(assignee, 10, 64)
		if err != nil {
			c.Error(errors.BadRequest("Invalid assignee_id", err))
			return
		}
		filter.AssigneeID = id
	}

	tasks, meta, err := h.service.ListTasks(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tasks, "meta": meta})
}

func (h *Handler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid task id", err))
		return
	}

	task, err := h.service.GetTask(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, task)
}

type PatchTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssigneeID  *uint64 `json:"assignee_id"`
	DueDate     *string `json:"due_date"`
}

func (h *Handler) Patch(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid task id", err))
		return
	}

	var form PatchTaskRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	var due *time.Time
	if form.DueDate != nil {
		parsed, err := time.Parse(time.RFC3339, *form.DueDate)
		if err != nil {
			c.Error(errors.UnprocessableEntity("Invalid due_date", err))
			return
		}
		due = &parsed
	}

	task, err := h.service.UpdateTask(c.Request.Context(), requesterFromContext(c), id, func(t *domain.Task) {
		if form.Title != nil {
			t.Title = *form.Title
		}
		if form.Description != nil {
			t.Description = *form.Description
		}
		if form.Status != nil {
			t.Status = *form.Status
		}
		if form.AssigneeID != nil {
			t.AssigneeID = form.AssigneeID
		}
		if due != nil {
			t.DueDate = due
		}
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid task id", err))
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), requesterFromContext(c), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
