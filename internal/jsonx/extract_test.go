package jsonx

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExtractPlainObject(t *testing.T) {
	res := Extract(`{"price": 2100, "trend": "rising"}`)
	if !res.Ok() {
		t.Fatalf("extract failed: %v", res.Err)
	}
	var got map[string]any
	if err := json.Unmarshal(res.Value, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["trend"] != "rising" {
		t.Fatalf("unexpected value: %+v", got)
	}
}

func TestExtractFencedWithProse(t *testing.T) {
	raw := "Here is the requested analysis:\n```json\n{\"modalPrice\": 2250,\n\"confidence\": \"high\"}\n```\nLet me know if you need anything else."
	var got struct {
		ModalPrice float64 `json:"modalPrice"`
		Confidence string  `json:"confidence"`
	}
	if err := Decode(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ModalPrice != 2250 || got.Confidence != "high" {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestExtractTrailingCommas(t *testing.T) {
	raw := "{\"factors\": [\"rainfall\", \"arrivals\",], \"trend\": \"stable\",}"
	var got struct {
		Factors []string `json:"factors"`
		Trend   string   `json:"trend"`
	}
	if err := Decode(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Factors) != 2 || got.Trend != "stable" {
		t.Fatalf("unexpected: %+v", got)
	}
}

// Round-trip: marshal an object, wrap it in a fence with trailing commas
// and control characters, and extraction must recover the same object.
func TestExtractRoundTrip(t *testing.T) {
	orig := map[string]any{
		"crop":     "Wheat",
		"price":    2312.5,
		"markets":  []any{"Khanna", "Ludhiana"},
		"nested":   map[string]any{"trend": "rising", "confidence": "medium"},
		"advisory": "sell within 2 weeks",
	}
	b, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	noisy := "```json\n" + string(b[:len(b)-1]) + ",\x07\x1f}\n```"

	res := Extract(noisy)
	if !res.Ok() {
		t.Fatalf("extract failed: %v", res.Err)
	}
	var got map[string]any
	if err := json.Unmarshal(res.Value, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(orig, got) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", orig, got)
	}
}

func TestExtractBracesInsideStrings(t *testing.T) {
	raw := `noise {"note": "use {curly} braces", "n": 1} trailing`
	var got struct {
		Note string `json:"note"`
		N    int    `json:"n"`
	}
	if err := Decode(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Note != "use {curly} braces" || got.N != 1 {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestExtractNoJSON(t *testing.T) {
	for _, raw := range []string{"", "   ", "I could not produce a result.", "``` ```"} {
		if res := Extract(raw); res.Ok() {
			t.Fatalf("expected error for %q, got %s", raw, res.Value)
		}
	}
}

func TestDecodeArray(t *testing.T) {
	var got []string
	if err := Decode("The factors are:\n[\"monsoon\", \"exports\"]", &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0] != "monsoon" {
		t.Fatalf("unexpected: %+v", got)
	}
}
