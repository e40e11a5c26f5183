package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/epitomehq/callsheet-backend/internal/cache"
	"github.com/epitomehq/callsheet-backend/internal/enrichment"
	"github.com/epitomehq/callsheet-backend/internal/extraction"
	"github.com/epitomehq/callsheet-backend/internal/sse"
	"github.com/epitomehq/callsheet-backend/internal/workbook"
)

const extractionReply = `{
	"production_info": {
		"job_name": "Acme Spring Promo",
		"client": "",
		"production_company": "Epitome",
		"job_number": "EP-ACME-100"
	},
	"logistics": {"locations": []},
	"schedule_days": [
		{"day_number": 1, "date": "TBD", "crew_call": "7:00 AM"}
	],
	"crew_list": [
		{"department": "production", "role": "Director", "name": "Sam Ortiz"}
	]
}`

func newTestGenerationService(t *testing.T, llm extraction.Completer) (GenerationService, *fakeProjects) {
	t.Helper()
	t.Setenv("OUTPUT_DIR", t.TempDir())

	log := testLogger()
	projects := newFakeProjects(nil)
	svc, err := NewGenerationService(
		log,
		sse.NewSSEHub(log),
		extraction.NewExtractor(log, llm),
		enrichment.NewOrchestrator(log, enrichment.NewClient(log, cache.NewMemoryStore())),
		workbook.NewGenerator(log),
		projects,
	)
	if err != nil {
		t.Fatalf("NewGenerationService: %v", err)
	}
	return svc, projects
}

func waitForResult(t *testing.T, svc GenerationService, jobID string) *GenerationResult {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		result, ok := svc.GetResult(jobID)
		if !ok {
			t.Fatalf("job %s disappeared from the result map", jobID)
		}
		if result.Status != "running" {
			return result
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", jobID)
	return nil
}

func TestStartGenerationCompletes(t *testing.T) {
	svc, _ := newTestGenerationService(t, &fakeCompleter{reply: extractionReply})

	jobID := svc.StartGeneration("call sheet for the Acme spring promo", "")

	if _, ok := svc.GetResult(jobID); !ok {
		t.Fatal("job must be registered immediately")
	}

	result := waitForResult(t, svc, jobID)
	if result.Status != "complete" {
		t.Fatalf("status = %q (error %q), want complete", result.Status, result.Error)
	}
	if result.Data == nil || result.Data.ProductionInfo.JobName != "Acme Spring Promo" {
		t.Errorf("result data missing extracted record: %+v", result.Data)
	}
	if result.ProjectID == nil {
		t.Error("projectID must be set when persistence succeeds")
	}
	if result.DownloadFilename == "" {
		t.Fatal("download filename must be set")
	}

	path := filepath.Join(svc.OutputDir(), result.DownloadFilename)
	if _, err := os.Stat(path); err != nil {
		t.Errorf("workbook file not written: %v", err)
	}
}

func TestStartGenerationSurvivesPersistenceFailure(t *testing.T) {
	svc, projects := newTestGenerationService(t, &fakeCompleter{reply: extractionReply})
	projects.saveErr = errors.New("connection refused")

	jobID := svc.StartGeneration("call sheet for the Acme spring promo", "")
	result := waitForResult(t, svc, jobID)

	if result.Status != "complete" {
		t.Fatalf("status = %q (error %q), want complete despite save failure", result.Status, result.Error)
	}
	if projects.saveCalls != 1 {
		t.Fatalf("saveCalls = %d, want 1", projects.saveCalls)
	}
	if result.ProjectID != nil {
		t.Errorf("projectID = %v, want nil when persistence failed", result.ProjectID)
	}
	if result.Data == nil || result.Data.ProductionInfo.JobName != "Acme Spring Promo" {
		t.Errorf("record must be retained in memory: %+v", result.Data)
	}
	if result.DownloadFilename == "" {
		t.Fatal("download filename must be set")
	}
	if _, err := os.Stat(filepath.Join(svc.OutputDir(), result.DownloadFilename)); err != nil {
		t.Errorf("workbook must still be downloadable: %v", err)
	}
}

func TestStartGenerationExtractionFailure(t *testing.T) {
	svc, _ := newTestGenerationService(t, &fakeCompleter{reply: "no json here at all"})

	jobID := svc.StartGeneration("broken request", "")
	result := waitForResult(t, svc, jobID)

	if result.Status != "error" {
		t.Fatalf("status = %q, want error", result.Status)
	}
	if result.Error == "" {
		t.Error("error message must be populated")
	}
}

func TestGetResultUnknownJob(t *testing.T) {
	svc, _ := newTestGenerationService(t, &fakeCompleter{reply: extractionReply})
	if _, ok := svc.GetResult("not-a-job"); ok {
		t.Fatal("unknown job must not resolve")
	}
}
