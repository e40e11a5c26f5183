// Package jsonrepair closes structures left open when a JSON document is cut
// off mid-stream, so a truncated model response can still be parsed.
package jsonrepair

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type frameKind int

const (
	frameObject frameKind = iota
	frameArray
)

type memberState int

const (
	stateExpectKey memberState = iota
	stateAfterKey
	stateExpectValue
	stateAfterValue
)

type frame struct {
	kind  frameKind
	state memberState
}

// Repair returns text with every structure that is genuinely open at its end
// closed off: unterminated strings get their quote, a key cut off from its
// value gets an explicit null, truncated literals are completed or replaced,
// hanging commas are stripped, and open objects/arrays are closed innermost
// first. Valid input comes back unchanged. The result is best-effort: callers
// must still parse it and treat a second failure as terminal.
func Repair(text string) string {
	var (
		stack      []frame
		inString   bool
		escaped    bool
		tokenStart = -1 // start of the current bare (non-string) token
	)

	setState := func(s memberState) {
		if len(stack) > 0 {
			stack[len(stack)-1].state = s
		}
	}
	closeStringState := func() {
		if len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.kind == frameObject && top.state == stateExpectKey {
				top.state = stateAfterKey
			} else {
				top.state = stateAfterValue
			}
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
				closeStringState()
			}
			continue
		}

		switch c {
		case '"':
			inString = true
			tokenStart = -1
		case '{':
			stack = append(stack, frame{kind: frameObject, state: stateExpectKey})
			tokenStart = -1
		case '[':
			stack = append(stack, frame{kind: frameArray, state: stateExpectValue})
			tokenStart = -1
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			setState(stateAfterValue)
			tokenStart = -1
		case ':':
			setState(stateExpectValue)
			tokenStart = -1
		case ',':
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.kind == frameObject {
					top.state = stateExpectKey
				} else {
					top.state = stateExpectValue
				}
			}
			tokenStart = -1
		case ' ', '\t', '\n', '\r':
			// whitespace ends nothing we track
		default:
			if tokenStart == -1 {
				tokenStart = i
			}
		}
	}

	if len(stack) == 0 && !inString && tokenStart == -1 {
		return text
	}

	base := text

	if inString {
		base = closeOpenString(base, escaped)
		closeStringState()
	} else if tokenStart >= 0 {
		completed, ok := completeLiteral(base, tokenStart)
		if !ok && len(stack) == 0 {
			// Bare prose, not a truncated JSON value. Leave it alone so the
			// caller's reparse fails loudly instead of collapsing to null.
			return text
		}
		base = completed
		setState(stateAfterValue)
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		switch {
		case top.kind == frameObject && top.state == stateAfterKey:
			// `"key"` with the value lost to truncation; `"key"}` would fail
			// the reparse and turn a recoverable cut into a terminal error.
			base += ": null"
		case top.kind == frameObject && top.state == stateExpectValue:
			base += " null"
		default:
			base = stripTrailingComma(base)
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].kind == frameObject {
			base += "}"
		} else {
			base += "]"
		}
	}
	return base
}

// closeOpenString terminates an unterminated string literal. A trailing lone
// backslash or half-written \uXXXX escape is cut first so the added quote is
// not itself escaped.
func closeOpenString(base string, escaped bool) string {
	if escaped {
		return base[:len(base)-1] + `"`
	}
	if i := incompleteUnicodeEscape(base); i >= 0 {
		return base[:i] + `"`
	}
	return base + `"`
}

// incompleteUnicodeEscape reports the index of a trailing `\u` escape with
// fewer than four hex digits, or -1. Only called while inside a string, so an
// odd run of backslashes before the `u` means the escape is genuinely open.
func incompleteUnicodeEscape(s string) int {
	end := len(s)
	hex := 0
	for end-hex-1 >= 0 && hex < 4 && isHex(s[end-hex-1]) {
		hex++
	}
	if hex == 4 {
		return -1
	}
	pos := end - hex
	if pos < 2 || s[pos-1] != 'u' || s[pos-2] != '\\' {
		return -1
	}
	backslashes := 0
	for i := pos - 2; i >= 0 && s[i] == '\\'; i-- {
		backslashes++
	}
	if backslashes%2 == 0 {
		return -1
	}
	return pos - 2
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// completeLiteral fixes a bare token cut off at the end of the input:
// prefixes of true/false/null are finished, numbers are trimmed back to their
// last digit, anything unsalvageable becomes null (ok=false flags the null
// fallback so a top-level caller can decline it).
func completeLiteral(base string, tokenStart int) (string, bool) {
	token := strings.TrimRight(base[tokenStart:], " \t\n\r")
	end := tokenStart + len(token)

	for _, lit := range []string{"true", "false", "null"} {
		if strings.HasPrefix(lit, token) {
			return base[:end] + lit[len(token):], true
		}
	}
	if json.Valid([]byte(token)) {
		return base, true
	}
	trimmed := strings.TrimRight(token, "-+.eE")
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return base[:tokenStart] + trimmed, true
	}
	return base[:tokenStart] + "null", false
}

func stripTrailingComma(s string) string {
	trimmed := strings.TrimRight(s, " \t\n\r")
	if strings.HasSuffix(trimmed, ",") {
		return trimmed[:len(trimmed)-1]
	}
	return s
}

// ContextualizeError rewraps a JSON parse failure with the byte offset and
// surrounding text so a malformed model reply can be diagnosed from logs
// alone.
func ContextualizeError(text string, err error) error {
	if err == nil {
		return nil
	}
	var syn *json.SyntaxError
	offset := int64(-1)
	if errors.As(err, &syn) {
		offset = syn.Offset
	}
	if offset < 0 {
		return fmt.Errorf("json parse failed: %w", err)
	}
	const window = 500
	start := offset - window
	if start < 0 {
		start = 0
	}
	end := offset + window
	if end > int64(len(text)) {
		end = int64(len(text))
	}
	return fmt.Errorf("json parse failed at offset %d: %w; context: %q", offset, err, text[start:end])
}
