package handlers

import (
	"net/http"
	"time"

	"taskmanager/internal/domain"
	"taskmanager/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// createTaskRequest ignores any client-supplied completed flag.
type createTaskRequest struct {
	Title       *string           `json:"title" binding:"required"`
	Description *string           `json:"description"`
	DueDate     *domain.Timestamp `json:"due_date"`
}

type updateTaskRequest struct {
	Title       domain.Field[string]           `json:"title"`
	Description domain.Field[string]           `json:"description"`
	DueDate     domain.Field[domain.Timestamp] `json:"due_date"`
	Completed   domain.Field[bool]             `json:"completed"`
}

func (r updateTaskRequest) patch() (domain.TaskPatch, string) {
	if r.Title.Set && r.Title.Null {
		return domain.TaskPatch{}, "title: may not be null"
	}
	if r.Completed.Set && r.Completed.Null {
		return domain.TaskPatch{}, "completed: may not be null"
	}

	p := domain.TaskPatch{
		Title:       r.Title.Ptr(),
		Description: r.Description,
		Completed:   r.Completed.Ptr(),
	}
	if r.DueDate.Set {
		p.DueDate = domain.Field[time.Time]{Set: true, Null: r.DueDate.Null, Value: r.DueDate.Value.Time}
	}
	return p, ""
}

func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	in := domain.NewTask{Title: *req.Title, Description: req.Description}
	if req.DueDate != nil {
		due := req.DueDate.Time
		in.DueDate = &due
	}

	task, err := h.Tasks.Create(c.Request.Context(), userID, in)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.Tasks.List(c.Request.Context())
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.Tasks.Get(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	patch, problem := req.patch()
	if problem != "" {
		validationError(c, problem)
		return
	}

	task, err := h.Tasks.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask answers 200 with a JSON null body.
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), id); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, nil)
}
