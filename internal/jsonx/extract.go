// Package jsonx recovers JSON values from generative-model output. Model
// text routinely wraps JSON in markdown fences, prepends prose, leaves
// trailing commas or embeds raw control characters; everything downstream
// that consumes model JSON goes through Extract so those defects are
// handled in exactly one place.
package jsonx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the tagged outcome of an extraction. Exactly one of Value or
// Err is meaningful; callers must branch on Ok rather than assume success.
type Result struct {
	Value json.RawMessage
	Err   error
}

// Ok reports whether the extraction produced a valid JSON value.
func (r Result) Ok() bool { return r.Err == nil }

// Extract pulls the first complete JSON value out of raw model text.
// It strips markdown code fences, surrounding prose, trailing commas and
// control characters before validating. It never panics; a text with no
// recoverable JSON value yields a Result with Err set.
func Extract(raw string) Result {
	s := stripFences(raw)
	s = strings.TrimSpace(s)
	if s == "" {
		return Result{Err: fmt.Errorf("empty model output")}
	}

	if body, ok := balancedValue(s); ok {
		s = body
	}
	s = sanitize(s)

	if !json.Valid([]byte(s)) {
		return Result{Err: fmt.Errorf("no JSON value found in model output")}
	}
	return Result{Value: json.RawMessage(s)}
}

// Decode extracts a JSON value from raw and unmarshals it into v.
func Decode(raw string, v any) error {
	res := Extract(raw)
	if !res.Ok() {
		return res.Err
	}
	if err := json.Unmarshal(res.Value, v); err != nil {
		return fmt.Errorf("decoding extracted JSON: %w", err)
	}
	return nil
}

// stripFences removes markdown code fences (``` or ```json) so that the
// fenced body is scanned as plain text.
func stripFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// balancedValue locates the first balanced {...} or [...] region, tracking
// string and escape state so braces inside string literals do not count.
func balancedValue(s string) (string, bool) {
	start := -1
	var open, close byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' {
			start, open, close = i, '{', '}'
			break
		}
		if s[i] == '[' {
			start, open, close = i, '[', ']'
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// sanitize drops control characters and trailing commas outside string
// literals. Compact JSON never contains raw control characters (they are
// escaped inside strings), so removal cannot corrupt a well-formed value.
func sanitize(s string) string {
	out := make([]byte, 0, len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 && c != '\n' && c != '\t' && !inString {
			continue
		}
		if inString {
			if c < 0x20 {
				continue
			}
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			out = append(out, c)
			continue
		}
		switch c {
		case '"':
			inString = true
			out = append(out, c)
		case ',':
			if j := nextNonSpace(s, i+1); j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

func nextNonSpace(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}
