package bot

import (
	"testing"

	"github.com/caloq-app/caloq/internal/nutrition"
)

func TestParseProfileLine(t *testing.T) {
	got := parseProfileLine("372 14 1 7 10 59")
	want := nutrition.Vector{Kcal: 372, Protein: 14, Sugar: 1, Fat: 7, Fiber: 10, Carbs: 59}
	if got != want {
		t.Errorf("parseProfileLine = %+v, want %+v", got, want)
	}
}

func TestParseProfileLineShortInput(t *testing.T) {
	got := parseProfileLine("372 14")
	want := nutrition.Vector{Kcal: 372, Protein: 14}
	if got != want {
		t.Errorf("parseProfileLine = %+v, want trailing metrics zero", got)
	}
}

func TestParseProfileLineGarbageFieldsAreZero(t *testing.T) {
	got := parseProfileLine("372 abc 1")
	want := nutrition.Vector{Kcal: 372, Sugar: 1}
	if got != want {
		t.Errorf("parseProfileLine = %+v, want %+v", got, want)
	}
}
