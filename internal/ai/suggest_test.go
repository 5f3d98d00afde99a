package ai

import (
	"encoding/json"
	"testing"

	"github.com/caloq-app/caloq/internal/nutrition"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`{"name":"Oatmeal"}`, `{"name":"Oatmeal"}`},
		{"```json\n{\"name\":\"Oatmeal\"}\n```", `{"name":"Oatmeal"}`},
		{"Here you go: {\"kcal\": 372} hope it helps", `{"kcal": 372}`},
		{"no json here", ""},
		{"} backwards {", ""},
	}
	for _, tc := range cases {
		if got := extractJSON(tc.input); got != tc.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSuggestionProfile(t *testing.T) {
	raw := `{"name":"Oatmeal","kcal":372,"protein":14,"sugar":1,"fat":7,"fiber":10,"carbs":59,"confidence":"high"}`

	var s Suggestion
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Name != "Oatmeal" || s.Confidence != "high" {
		t.Errorf("suggestion = %+v", s)
	}

	want := nutrition.Vector{Kcal: 372, Protein: 14, Sugar: 1, Fat: 7, Fiber: 10, Carbs: 59}
	if got := s.Profile(); got != want {
		t.Errorf("Profile() = %+v, want %+v", got, want)
	}
}
