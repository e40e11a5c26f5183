package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/services"
)

type ProjectHandler struct {
	log         *logger.Logger
	projects    services.ProjectService
	chatService services.ChatService
}

func NewProjectHandler(log *logger.Logger, projects services.ProjectService, chatService services.ChatService) *ProjectHandler {
	return &ProjectHandler{
		log:         log.With("handler", "ProjectHandler"),
		projects:    projects,
		chatService: chatService,
	}
}

// GET /api/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}

	view, err := h.projects.GetProjectForFrontend(c.Request.Context(), projectID)
	if err != nil {
		h.log.Error("Failed to load project", "projectID", projectID, "error", err)
		RespondError(c, http.StatusInternalServerError, "project_load_failed", err)
		return
	}
	if view == nil {
		RespondError(c, http.StatusNotFound, "project_not_found", fmt.Errorf("project %s not found", projectID))
		return
	}
	RespondOK(c, view)
}

type chatRequest struct {
	Message string `json:"message"`
}

// POST /api/projects/:id/chat
func (h *ProjectHandler) Chat(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		RespondError(c, http.StatusBadRequest, "missing_message", errors.New("message is required"))
		return
	}

	result, err := h.chatService.ProcessMessage(c.Request.Context(), projectID, req.Message)
	if err != nil {
		h.log.Error("Chat processing failed", "projectID", projectID, "error", err)
		RespondError(c, http.StatusInternalServerError, "chat_failed", err)
		return
	}
	RespondOK(c, result)
}
