package tagger

import (
	"reflect"
	"testing"

	"github.com/amonks/smarttodo/task"
)

func TestSuggestUrgentDoctorAppointment(t *testing.T) {
	got := Suggest("urgent doctor appointment")
	want := []Suggestion{
		{Kind: KindCategory, Value: "health", Confidence: Confidence},
		{Kind: KindPriority, Value: "high", Confidence: Confidence},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestSuggestSurfacesEveryMatch(t *testing.T) {
	got := Suggest("Buy a birthday present for the office party, no rush")

	var values []string
	for _, s := range got {
		values = append(values, string(s.Kind)+":"+s.Value)
	}
	want := []string{"category:work", "category:personal", "category:shopping", "priority:low"}
	if !reflect.DeepEqual(values, want) {
		t.Fatalf("expected %v, got %v", want, values)
	}
}

func TestSuggestRespectsWordBoundaries(t *testing.T) {
	cases := map[string]int{
		"":                         0,
		"   ":                      0,
		"rerun the benchmarks":     0,
		"networking dinner":        0,
		"SHOP for shoes":           1,
		"finish it by next month.": 1,
	}
	for input, want := range cases {
		if got := len(Suggest(input)); got != want {
			t.Errorf("Suggest(%q): expected %d suggestions, got %d", input, want, got)
		}
	}
}

func TestBest(t *testing.T) {
	category, priority := Best("Important client meeting tomorrow")
	if category != task.CategoryWork || priority != task.PriorityHigh {
		t.Fatalf("expected work/high, got %s/%s", category, priority)
	}

	category, priority = Best("water the plants")
	if category != "" || priority != "" {
		t.Fatalf("expected no match, got %q/%q", category, priority)
	}
}
