package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/epitomehq/callsheet-backend/internal/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type fakeCompleter struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	return f.reply, f.err
}

func newTestExtractor(f *fakeCompleter) *Extractor {
	e := NewExtractor(testLogger(), f)
	e.now = func() time.Time {
		return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	}
	return e
}

func TestLocateJSON(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\": 1}\n```":           `{"a": 1}`,
		"Here you go:\n```\n{\"a\": 1}\n```": `{"a": 1}`,
		"prefix {\"a\": {\"b\": 2}} suffix":  `{"a": {"b": 2}}`,
		"no json here":                       "no json here",
		// Closing fence cut off mid-stream: take everything to EOF.
		"```json\n{\"a\": 1": `{"a": 1`,
	}
	for in, want := range cases {
		if got := LocateJSON(in); got != want {
			t.Fatalf("LocateJSON(%q): want %q, got %q", in, want, got)
		}
	}
}

const validReply = "```json\n" + `{
  "production_info": {"job_name": "Nike Campaign", "client": "Nike", "job_number": "EP-NIKE-001", "production_company": "Epitome"},
  "logistics": {"locations": [{"name": "Venice Beach", "address": "Ocean Front Walk", "parking": "Lot 4"}]},
  "schedule_days": [{"day_number": 1, "date": "2026-01-20", "crew_call": "07:00 AM"}],
  "crew_list": [{"department": "G&E", "role": "Gaffer", "rate": 950}]
}` + "\n```"

func TestExtractParsesFencedReply(t *testing.T) {
	f := &fakeCompleter{reply: validReply}
	e := newTestExtractor(f)

	record, err := e.Extract(context.Background(), "3 day shoot for Nike", "")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if record.ProductionInfo.JobName != "Nike Campaign" {
		t.Fatalf("job name: got %q", record.ProductionInfo.JobName)
	}
	if len(record.ScheduleDays) != 1 || record.ScheduleDays[0].Date != "2026-01-20" {
		t.Fatalf("schedule days mangled: %+v", record.ScheduleDays)
	}
	if record.CrewList[0].Rate.String() != "950" {
		t.Fatalf("numeric rate: got %q", record.CrewList[0].Rate)
	}

	if f.lastSystem != ExtractionSystemPrompt {
		t.Fatalf("wrong system prompt sent")
	}
	if !strings.Contains(f.lastUser, "Today's date: 2026-01-15 (Thursday)") {
		t.Fatalf("user message missing today's date:\n%s", f.lastUser)
	}
	if !strings.Contains(f.lastUser, "User Prompt: 3 day shoot for Nike") {
		t.Fatalf("user message missing prompt:\n%s", f.lastUser)
	}
}

func TestExtractIncludesAttachedText(t *testing.T) {
	f := &fakeCompleter{reply: validReply}
	e := newTestExtractor(f)

	if _, err := e.Extract(context.Background(), "shoot", "Name,Role\nJane,Gaffer"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(f.lastUser, "Attached File Content:\nName,Role\nJane,Gaffer") {
		t.Fatalf("attached text missing:\n%s", f.lastUser)
	}
}

func TestExtractRepairsTruncatedReply(t *testing.T) {
	truncated := "```json\n" + `{"production_info": {"job_name": "Nike Campaign", "client": "Nike`
	f := &fakeCompleter{reply: truncated}
	e := newTestExtractor(f)

	record, err := e.Extract(context.Background(), "shoot", "")
	if err != nil {
		t.Fatalf("extract should recover from truncation: %v", err)
	}
	if record.ProductionInfo.JobName != "Nike Campaign" {
		t.Fatalf("job name lost in repair: %+v", record.ProductionInfo)
	}
	if record.ProductionInfo.Client != "Nike" {
		t.Fatalf("client lost in repair: %+v", record.ProductionInfo)
	}
}

func TestExtractTerminalErrorCarriesRawPrefix(t *testing.T) {
	f := &fakeCompleter{reply: "I'm sorry, I can't produce JSON for that."}
	e := newTestExtractor(f)

	_, err := e.Extract(context.Background(), "shoot", "")
	if err == nil {
		t.Fatalf("expected terminal error")
	}
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("want ExtractionError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "I'm sorry") {
		t.Fatalf("error missing raw prefix: %v", err)
	}
}

func TestExtractPropagatesLLMError(t *testing.T) {
	f := &fakeCompleter{err: errors.New("upstream 503")}
	e := newTestExtractor(f)

	_, err := e.Extract(context.Background(), "shoot", "")
	if err == nil || !strings.Contains(err.Error(), "upstream 503") {
		t.Fatalf("want wrapped llm error, got %v", err)
	}
}
