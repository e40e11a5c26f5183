package jsonrepair

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestRepairValidInputUnchanged(t *testing.T) {
	cases := []string{
		`{}`,
		`[]`,
		`{"a": 1}`,
		`{"a": [1, 2, 3], "b": {"c": "d"}}`,
		`{"name": "Venice \"Beach\"", "ok": true, "n": null}`,
		`[{"x": -1.5e10}, {"y": "é"}]`,
		`"just a string"`,
		`42`,
	}
	for _, in := range cases {
		if got := Repair(in); got != in {
			t.Fatalf("Repair(%q): want unchanged, got %q", in, got)
		}
	}
}

func TestRepairAllTruncations(t *testing.T) {
	doc := `{
		"production_info": {"job_name": "Nike Campaign", "job_number": "EP-001"},
		"logistics": {
			"locations": [
				{"name": "Venice \"Beach\"", "address": "Ocean Front Walk", "parking": null}
			],
			"weather": {"high": "75F", "low": "60F"}
		},
		"schedule_days": [
			{"day_number": 1, "date": "2026-01-20", "ok": true, "rate": -1.5e3},
			{"day_number": 2, "date": "2026-01-21", "ok": false}
		],
		"notes": "café on site"
	}`
	if !json.Valid([]byte(doc)) {
		t.Fatalf("test document must be valid JSON")
	}
	for i := 1; i < len(doc); i++ {
		repaired := Repair(doc[:i])
		if !json.Valid([]byte(repaired)) {
			t.Fatalf("truncation at %d: repaired output not valid JSON\ninput:  %q\noutput: %q", i, doc[:i], repaired)
		}
	}
}

// A key cut off from its value gets an explicit null rather than being left
// as `"key":}`; the generic close alone would produce unparseable output.
func TestRepairDanglingKey(t *testing.T) {
	cases := map[string]string{
		`{"key"`:        `{"key": null}`,
		`{"key":`:       `{"key": null}`,
		`{"a": 1, "b"`:  `{"a": 1, "b": null}`,
		`{"a": 1, "b":`: `{"a": 1, "b": null}`,
	}
	for in, want := range cases {
		if got := Repair(in); got != want {
			t.Fatalf("Repair(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestRepairUnterminatedString(t *testing.T) {
	cases := map[string]string{
		`{"name": "Veni`:     `{"name": "Veni"}`,
		`{"name": "say \"hi`: `{"name": "say \"hi"}`,
		`{"name": "tail\`:    `{"name": "tail"}`,
		`{"name": "\u00e`:    `{"name": ""}`,
	}
	for in, want := range cases {
		got := Repair(in)
		if got != want {
			t.Fatalf("Repair(%q): want %q, got %q", in, want, got)
		}
		if !json.Valid([]byte(got)) {
			t.Fatalf("Repair(%q): output %q not valid JSON", in, got)
		}
	}
}

func TestRepairStripsTrailingComma(t *testing.T) {
	cases := map[string]string{
		`{"a": 1,`:   `{"a": 1}`,
		`[1, 2,`:     `[1, 2]`,
		`{"a": [1, `: `{"a": [1]}`,
	}
	for in, want := range cases {
		if got := Repair(in); got != want {
			t.Fatalf("Repair(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestRepairClosesInnermostFirst(t *testing.T) {
	got := Repair(`{"a": [1, 2`)
	want := `{"a": [1, 2]}`
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	got = Repair(`[{"a": 1`)
	want = `[{"a": 1}]`
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRepairCompletesLiterals(t *testing.T) {
	cases := map[string]string{
		`{"ok": tru`:    `{"ok": true}`,
		`{"ok": f`:      `{"ok": false}`,
		`{"ok": n`:      `{"ok": null}`,
		`{"rate": 1.5e`: `{"rate": 1.5}`,
		`{"rate": -`:    `{"rate": null}`,
	}
	for in, want := range cases {
		if got := Repair(in); got != want {
			t.Fatalf("Repair(%q): want %q, got %q", in, want, got)
		}
	}
}

// Prose is not a truncated JSON value; collapsing it to null would hide the
// failure from the caller's reparse.
func TestRepairLeavesProseAlone(t *testing.T) {
	cases := []string{
		"I'm sorry, I can't produce JSON for that.",
		"ERROR: quota exceeded",
	}
	for _, in := range cases {
		if got := Repair(in); got != in {
			t.Fatalf("Repair(%q): want unchanged, got %q", in, got)
		}
	}
}

func TestContextualizeError(t *testing.T) {
	text := strings.Repeat("x", 600) + "{bad"
	var v any
	err := json.Unmarshal([]byte(text), &v)
	if err == nil {
		t.Fatalf("expected parse failure")
	}
	wrapped := ContextualizeError(text, err)
	msg := wrapped.Error()
	if !strings.Contains(msg, "offset") {
		t.Fatalf("expected offset in error, got %q", msg)
	}
	if !strings.Contains(msg, "xxx") {
		t.Fatalf("expected surrounding context in error, got %q", msg)
	}
}

func TestContextualizeErrorUnwrapsWrappedSyntaxError(t *testing.T) {
	text := `{"a": [1, 2,}`
	var v any
	err := json.Unmarshal([]byte(text), &v)
	if err == nil {
		t.Fatalf("expected parse failure")
	}
	wrapped := ContextualizeError(text, fmt.Errorf("decode reply: %w", err))
	if !strings.Contains(wrapped.Error(), "offset") {
		t.Fatalf("expected offset from the wrapped syntax error, got %q", wrapped.Error())
	}
}

func TestContextualizeErrorNil(t *testing.T) {
	if err := ContextualizeError("{}", nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}
