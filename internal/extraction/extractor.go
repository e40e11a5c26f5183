// Package extraction turns a natural-language production request into a typed
// production record by prompting an LLM and parsing its reply, repairing
// truncated JSON when needed.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/epitomehq/callsheet-backend/internal/jsonrepair"
	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/production"
)

// Completer is the single LLM operation extraction needs. The concrete Gemini
// client lives in services.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ExtractionError is terminal: the model reply could not be parsed even after
// repair. It carries a prefix of the raw reply for diagnosis.
type ExtractionError struct {
	Raw string
	Err error
}

const rawPrefixLen = 500

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %v; raw reply prefix: %q", e.Err, truncate(e.Raw, rawPrefixLen))
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

type Extractor struct {
	log *logger.Logger
	llm Completer

	// Overridable in tests so relative-date prompts stay deterministic.
	now func() time.Time
}

func NewExtractor(log *logger.Logger, llm Completer) *Extractor {
	return &Extractor{
		log: log.With("service", "Extractor"),
		llm: llm,
		now: time.Now,
	}
}

// Extract prompts the model with the user request plus any attached document
// text and parses the JSON reply into a record. A reply that fails to parse
// is repaired once and reparsed; a second failure is terminal.
func (e *Extractor) Extract(ctx context.Context, promptText, attachedText string) (*production.ProductionRecord, error) {
	userPrompt := e.buildUserMessage(promptText, attachedText)

	reply, err := e.llm.Complete(ctx, ExtractionSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	jsonText := LocateJSON(reply)

	var record production.ProductionRecord
	if err := json.Unmarshal([]byte(jsonText), &record); err == nil {
		return &record, nil
	}

	repaired := jsonrepair.Repair(jsonText)
	if err := json.Unmarshal([]byte(repaired), &record); err != nil {
		e.log.Error("Model reply unparseable after repair", "error", err)
		return nil, &ExtractionError{Raw: reply, Err: jsonrepair.ContextualizeError(repaired, err)}
	}
	e.log.Warn("Model reply required JSON repair", "raw_len", len(reply))
	return &record, nil
}

func (e *Extractor) buildUserMessage(promptText, attachedText string) string {
	var b strings.Builder
	now := e.now()
	fmt.Fprintf(&b, "Today's date: %s (%s)\n\n", now.Format("2006-01-02"), now.Weekday())
	fmt.Fprintf(&b, "User Prompt: %s\n\n", promptText)
	if attachedText != "" {
		fmt.Fprintf(&b, "Attached File Content:\n%s\n\n", attachedText)
	}
	b.WriteString("Please extract the production information and return ONLY valid JSON following the schema above. Do not include any markdown formatting or explanations, just the JSON object.")
	return b.String()
}

// LocateJSON finds the JSON payload inside a model reply: a fenced block
// first (greedy to EOF when the closing fence was cut off), then the span
// from the first '{' to the last '}', then the whole text.
func LocateJSON(reply string) string {
	if i := strings.Index(reply, "```json"); i >= 0 {
		return fencedBody(reply[i+len("```json"):])
	}
	if i := strings.Index(reply, "```"); i >= 0 {
		return fencedBody(reply[i+3:])
	}
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start >= 0 && end > start {
		return reply[start : end+1]
	}
	return reply
}

func fencedBody(rest string) string {
	if end := strings.Index(rest, "```"); end >= 0 {
		return strings.TrimSpace(rest[:end])
	}
	return strings.TrimSpace(rest)
}
