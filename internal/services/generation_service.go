package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/epitomehq/callsheet-backend/internal/enrichment"
	"github.com/epitomehq/callsheet-backend/internal/extraction"
	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/production"
	"github.com/epitomehq/callsheet-backend/internal/sse"
	"github.com/epitomehq/callsheet-backend/internal/utils"
	"github.com/epitomehq/callsheet-backend/internal/workbook"
)

// generationTimeout bounds one full extract+enrich+render+persist run.
const generationTimeout = 10 * time.Minute

// ProgressPayload is the data body of one progress SSE event.
type ProgressPayload struct {
	StageID   string `json:"stage_id"`
	Percent   int    `json:"percent"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// GenerationResult is what /api/result returns once a job finishes. Jobs that
// persist successfully carry the project ID; persistence failures degrade to
// an in-memory result so the workbook download still works.
type GenerationResult struct {
	Status           string                       `json:"status"`
	ProjectID        *uuid.UUID                   `json:"project_id,omitempty"`
	Data             *production.ProductionRecord `json:"data,omitempty"`
	DownloadFilename string                       `json:"download_filename,omitempty"`
	Error            string                       `json:"error,omitempty"`
}

type GenerationService interface {
	StartGeneration(prompt, attachedText string) string
	GetResult(jobID string) (*GenerationResult, bool)
	OutputDir() string
}

type generationService struct {
	log       *logger.Logger
	hub       *sse.SSEHub
	extractor *extraction.Extractor
	enricher  *enrichment.Orchestrator
	workbook  *workbook.Generator
	projects  ProjectService
	outputDir string

	mu      sync.RWMutex
	results map[string]*GenerationResult
}

func NewGenerationService(
	log *logger.Logger,
	hub *sse.SSEHub,
	extractor *extraction.Extractor,
	enricher *enrichment.Orchestrator,
	wb *workbook.Generator,
	projects ProjectService,
) (GenerationService, error) {
	outputDir := utils.GetEnv("OUTPUT_DIR", "output", log)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &generationService{
		log:       log.With("service", "GenerationService"),
		hub:       hub,
		extractor: extractor,
		enricher:  enricher,
		workbook:  wb,
		projects:  projects,
		outputDir: outputDir,
		results:   make(map[string]*GenerationResult),
	}, nil
}

func (s *generationService) OutputDir() string {
	return s.outputDir
}

func (s *generationService) GetResult(jobID string) (*GenerationResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[jobID]
	return result, ok
}

func (s *generationService) setResult(jobID string, result *GenerationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[jobID] = result
}

// StartGeneration registers a job and runs the pipeline in the background.
// Progress is published on the job's SSE channel; the HTTP request returns
// immediately with the job ID.
func (s *generationService) StartGeneration(prompt, attachedText string) string {
	jobID := uuid.NewString()
	s.setResult(jobID, &GenerationResult{Status: "running"})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
		defer cancel()
		s.run(ctx, jobID, prompt, attachedText)
	}()

	return jobID
}

func (s *generationService) emit(jobID, stageID string, percent int, message string) {
	event := sse.SSEEventProgress
	if stageID == "error" {
		event = sse.SSEEventError
	} else if stageID == "download_ready" {
		event = sse.SSEEventDownloadReady
	}
	s.hub.Broadcast(sse.SSEMessage{
		Channel: sse.JobChannel(jobID),
		Event:   event,
		Data: ProgressPayload{
			StageID:   stageID,
			Percent:   percent,
			Message:   message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *generationService) run(ctx context.Context, jobID, prompt, attachedText string) {
	log := s.log.With("jobID", jobID)

	fail := func(err error) {
		log.Error("Generation failed", "error", err)
		s.setResult(jobID, &GenerationResult{Status: "error", Error: err.Error()})
		s.emit(jobID, "error", -1, fmt.Sprintf("Error: %v", err))
	}

	s.emit(jobID, "extracting_data", 10, "Extracting production data...")
	record, err := s.extractor.Extract(ctx, prompt, attachedText)
	if err != nil {
		fail(err)
		return
	}

	if err := s.enricher.Enrich(ctx, record, func(stageID string, percent int, message string) {
		s.emit(jobID, stageID, percent, message)
	}); err != nil {
		fail(err)
		return
	}

	s.emit(jobID, "generating_workbook", 90, "Generating workbook...")
	filename := fmt.Sprintf("Epitome_Workbook_%s_%s.xlsx", jobID[:8], time.Now().Format("20060102_150405"))
	if err := s.workbook.Write(record, filepath.Join(s.outputDir, filename)); err != nil {
		fail(err)
		return
	}

	s.emit(jobID, "saving", 95, "Saving project...")
	result := &GenerationResult{
		Status:           "complete",
		Data:             record,
		DownloadFilename: filename,
	}
	projectID, err := s.projects.SaveGeneration(ctx, record)
	if err != nil {
		// The workbook already exists on disk; keep the job usable and
		// serve the result from memory only.
		log.Warn("Persisting generation failed; keeping in-memory result", "error", err)
	} else {
		result.ProjectID = &projectID
	}
	s.setResult(jobID, result)

	payload, _ := json.Marshal(map[string]string{"filename": filename})
	s.emit(jobID, "download_ready", 100, string(payload))
	log.Info("Generation complete", "filename", filename)
}
