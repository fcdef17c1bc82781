package llm

import (
	"errors"
	"testing"
)

func TestDecodeJSON_Plain(t *testing.T) {
	var out map[string]any
	if err := DecodeJSON(`{"ready": true}`, &out); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if out["ready"] != true {
		t.Errorf("out = %v", out)
	}
}

func TestDecodeJSON_MarkdownFence(t *testing.T) {
	content := "```json\n{\"mode\": \"direct\"}\n```"
	var out struct {
		Mode string `json:"mode"`
	}
	if err := DecodeJSON(content, &out); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if out.Mode != "direct" {
		t.Errorf("mode = %q", out.Mode)
	}
}

func TestDecodeJSON_ProseWrapped(t *testing.T) {
	content := `Here is your itinerary: {"title": "5 Days in Tokyo", "note": "has {braces} inside"} Hope you like it!`
	var out struct {
		Title string `json:"title"`
		Note  string `json:"note"`
	}
	if err := DecodeJSON(content, &out); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if out.Title != "5 Days in Tokyo" {
		t.Errorf("title = %q", out.Title)
	}
	if out.Note != "has {braces} inside" {
		t.Errorf("note = %q", out.Note)
	}
}

func TestDecodeJSON_Array(t *testing.T) {
	var out []int
	if err := DecodeJSON("Sure:\n[1, 2, 3]", &out); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if len(out) != 3 {
		t.Errorf("out = %v", out)
	}
}

func TestDecodeJSON_NoJSON(t *testing.T) {
	var out map[string]any
	err := DecodeJSON("I could not produce a result.", &out)
	if err == nil {
		t.Fatal("DecodeJSON() should fail on prose-only content")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error is %T, want *DecodeError", err)
	}
	if decodeErr.Raw == "" {
		t.Error("DecodeError.Raw should carry the original content")
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	var out map[string]any
	err := DecodeJSON(`{"title": unquoted}`, &out)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error is %T, want *DecodeError", err)
	}
}

func TestExtractJSON_EscapedQuotes(t *testing.T) {
	got := extractJSON(`prefix {"a": "quote \" and brace }"} suffix`)
	want := `{"a": "quote \" and brace }"}`
	if got != want {
		t.Errorf("extractJSON() = %q, want %q", got, want)
	}
}
