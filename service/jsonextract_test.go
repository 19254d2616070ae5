package service

import "testing"

func TestExtractJSONArray(t *testing.T) {
	raw := "Here are your questions:\n```json\n[{\"question\": \"Why Go?\"}]\n```\nGood luck!"
	got, ok := extractJSONArray(raw)
	if !ok {
		t.Fatalf("expected array to be found")
	}
	if got != `[{"question": "Why Go?"}]` {
		t.Fatalf("unexpected extraction: %s", got)
	}
}

func TestExtractJSONArrayNested(t *testing.T) {
	raw := `prefix [[1, 2], [3]] suffix [4]`
	got, ok := extractJSONArray(raw)
	if !ok {
		t.Fatalf("expected array to be found")
	}
	if got != `[[1, 2], [3]]` {
		t.Fatalf("unexpected extraction: %s", got)
	}
}

func TestExtractJSONObjectBracketsInStrings(t *testing.T) {
	raw := `note {"feedback": "use {braces} and \"quotes\" carefully", "score": 7} trailing`
	got, ok := extractJSONObject(raw)
	if !ok {
		t.Fatalf("expected object to be found")
	}
	if got != `{"feedback": "use {braces} and \"quotes\" carefully", "score": 7}` {
		t.Fatalf("unexpected extraction: %s", got)
	}
}

func TestExtractJSONObjectMissing(t *testing.T) {
	if _, ok := extractJSONObject("no json here"); ok {
		t.Fatalf("expected no object")
	}
	if _, ok := extractJSONObject(`{"unterminated": true`); ok {
		t.Fatalf("expected unbalanced object to be rejected")
	}
}
