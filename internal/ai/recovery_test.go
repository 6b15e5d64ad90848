package ai

import (
	"reflect"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Sure! Here you go: {\"a\":1} Hope it helps.", `{"a":1}`},
		{"nested", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`},
		{"no braces", "no json here", "no json here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.input); got != tt.expected {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		max      int
		expected []string
	}{
		{"truncates", `["a","b","c","d"]`, 2, []string{"a", "b"}},
		{"fewer than max", `["a"]`, 5, []string{"a"}},
		{"unbounded", `["a","b","c"]`, 0, []string{"a", "b", "c"}},
		{"not an array", `"a"`, 5, []string{}},
		{"mixed values", `["a", 3, null, {"x":1}, "  "]`, 0, []string{"a", "3"}},
		{"empty array", `[]`, 5, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stringList([]byte(tt.raw), tt.max)
			if got == nil {
				t.Fatal("stringList returned nil")
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("stringList(%s, %d) = %v, want %v", tt.raw, tt.max, got, tt.expected)
			}
		})
	}
}

func TestNumberValue(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
		ok       bool
	}{
		{`1250`, 1250, true},
		{`2.5`, 2.5, true},
		{`"50,000"`, 50000, true},
		{`"$0.85"`, 0.85, true},
		{`"3.2x"`, 3.2, true},
		{`"lots"`, 0, false},
		{`[1]`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := numberValue([]byte(tt.raw))
			if ok != tt.ok || got != tt.expected {
				t.Errorf("numberValue(%s) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestScanSectionsAssignsItemsToLatestHeader(t *testing.T) {
	text := `Intro line with no section.
- dropped because no header yet
Headlines:
1. First headline
2. "Second headline"
Descriptions:
- A description
• Another description
Call to action:
1. Shop Now
2. Call Us Today
Headlines again:
3. Third headline`

	got := scanSections(text, adCopySections)

	expected := map[string][]string{
		"headlines":     {"First headline", "Second headline", "Third headline"},
		"descriptions":  {"A description", "Another description"},
		"callsToAction": {"Shop Now", "Call Us Today"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("scanSections() = %v, want %v", got, expected)
	}
}

func TestScanSectionsRespectsCaps(t *testing.T) {
	text := "Descriptions:\n- one\n- two\n- three\n- four\n- five"
	got := scanSections(text, adCopySections)
	if len(got["descriptions"]) != maxDescriptions {
		t.Errorf("got %d descriptions, want %d", len(got["descriptions"]), maxDescriptions)
	}
}

func TestScanSectionsNumberedHeader(t *testing.T) {
	text := "1. Headlines:\n- Alpha\n2. Descriptions:\n- Beta"
	got := scanSections(text, adCopySections)
	if !reflect.DeepEqual(got["headlines"], []string{"Alpha"}) {
		t.Errorf("headlines = %v", got["headlines"])
	}
	if !reflect.DeepEqual(got["descriptions"], []string{"Beta"}) {
		t.Errorf("descriptions = %v", got["descriptions"])
	}
}

func TestOrFallbackNeverNil(t *testing.T) {
	if got := orFallback(nil, nil, 0); got == nil {
		t.Error("orFallback(nil, nil, 0) returned nil")
	}
	fb := []string{"x"}
	got := orFallback(nil, fb, 0)
	got[0] = "mutated"
	if fb[0] != "x" {
		t.Error("orFallback must not alias the fallback slice")
	}
}
