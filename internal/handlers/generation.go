package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/services"
	"github.com/epitomehq/callsheet-backend/internal/sse"
)

// attachmentSizeLimit caps uploads; crew lists and call sheet PDFs are small.
const attachmentSizeLimit = 20 << 20

type GenerationHandler struct {
	log        *logger.Logger
	genService services.GenerationService
	hub        *sse.SSEHub
}

func NewGenerationHandler(log *logger.Logger, genService services.GenerationService, hub *sse.SSEHub) *GenerationHandler {
	return &GenerationHandler{
		log:        log.With("handler", "GenerationHandler"),
		genService: genService,
		hub:        hub,
	}
}

// POST /api/generate
// Multipart form: prompt (required), file (optional CSV/PDF/TXT/DOCX).
// Returns a job ID; progress streams on /api/progress/:jobID.
func (h *GenerationHandler) Generate(c *gin.Context) {
	prompt := strings.TrimSpace(c.PostForm("prompt"))
	if prompt == "" {
		RespondError(c, http.StatusBadRequest, "missing_prompt", errors.New("prompt is required"))
		return
	}

	var attachedText string
	fileHeader, err := c.FormFile("file")
	if err == nil && fileHeader != nil {
		if fileHeader.Size > attachmentSizeLimit {
			RespondError(c, http.StatusBadRequest, "file_too_large", fmt.Errorf("attachment exceeds %d bytes", attachmentSizeLimit))
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "file_read_failed", err)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "file_read_failed", err)
			return
		}
		attachedText, err = services.ExtractAttachmentText(fileHeader.Filename, data)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "file_unsupported", err)
			return
		}
	}

	jobID := h.genService.StartGeneration(prompt, attachedText)
	h.log.Info("Generation started", "jobID", jobID, "hasAttachment", attachedText != "")
	RespondOK(c, gin.H{"job_id": jobID, "status": "started"})
}

// GET /api/progress/:jobID
// SSE stream of progress events; closes after download_ready or error.
func (h *GenerationHandler) Progress(c *gin.Context) {
	jobID := c.Param("jobID")
	if _, ok := h.genService.GetResult(jobID); !ok {
		RespondError(c, http.StatusNotFound, "job_not_found", fmt.Errorf("job %s not found", jobID))
		return
	}

	client := h.hub.NewSSEClient()
	h.hub.AddChannel(client, sse.JobChannel(jobID))
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}

// GET /api/result/:jobID
func (h *GenerationHandler) Result(c *gin.Context) {
	jobID := c.Param("jobID")
	result, ok := h.genService.GetResult(jobID)
	if !ok || result.Status == "running" {
		RespondError(c, http.StatusNotFound, "result_not_found", fmt.Errorf("result for job %s not found", jobID))
		return
	}
	RespondOK(c, gin.H{
		"status":            result.Status,
		"project_id":        result.ProjectID,
		"data":              result.Data,
		"download_filename": result.DownloadFilename,
		"error":             result.Error,
	})
}

// GET /api/download/:filename
func (h *GenerationHandler) Download(c *gin.Context) {
	// Base strips any path components a crafted filename could smuggle in.
	safeName := filepath.Base(c.Param("filename"))
	if safeName == "." || safeName == ".." || safeName == "/" {
		RespondError(c, http.StatusBadRequest, "invalid_filename", errors.New("invalid filename"))
		return
	}

	outputDir := h.genService.OutputDir()
	fullPath := filepath.Join(outputDir, safeName)

	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "path_resolve_failed", err)
		return
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil || !strings.HasPrefix(absPath, absDir+string(os.PathSeparator)) {
		RespondError(c, http.StatusForbidden, "access_denied", errors.New("access denied"))
		return
	}

	if _, err := os.Stat(absPath); err != nil {
		RespondError(c, http.StatusNotFound, "file_not_found", errors.New("file not found"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", safeName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(absPath)
}
