package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"taskmanager/internal/logger"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	Tasks *service.TaskService
}

func NewHandler(tasks *service.TaskService) *Handler {
	return &Handler{Tasks: tasks}
}

// Welcome answers GET /.
func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Task Manager API!"})
}

func taskIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("task_id"), 10, 64)
	if err != nil {
		validationError(c, "task_id must be an integer")
		return 0, false
	}
	return id, true
}

func validationError(c *gin.Context, detail string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
}

// bindError turns a gin binding failure into a 422 with a readable detail.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field())
			if fe.Tag() == "required" {
				msgs = append(msgs, fmt.Sprintf("%s: field required", field))
				continue
			}
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", field, fe.Tag()))
		}
		validationError(c, strings.Join(msgs, "; "))
		return
	}
	validationError(c, "invalid request body: "+err.Error())
}

func (h *Handler) serviceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrTaskNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
		return
	}
	logger.WithContext(c.Request.Context()).Error("request failed", "route", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
}
