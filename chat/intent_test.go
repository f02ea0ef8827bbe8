package chat

import (
	"testing"
	"time"

	"github.com/amonks/smarttodo/task"
)

var monday = time.Date(2026, time.March, 9, 10, 0, 0, 0, time.Local)

func TestParseIntentReportByFriday(t *testing.T) {
	intent := ParseIntent("I need to finish the report by Friday", monday)

	if !intent.IsTaskCreation {
		t.Fatalf("expected task creation intent")
	}
	if intent.Title != "Finish the report" {
		t.Fatalf("expected title %q, got %q", "Finish the report", intent.Title)
	}
	if intent.Category != task.CategoryWork {
		t.Fatalf("expected work category, got %q", intent.Category)
	}
	if intent.Priority != task.PriorityMedium {
		t.Fatalf("expected medium priority, got %q", intent.Priority)
	}
	want := task.Date{Year: 2026, Month: time.March, Day: 12}
	if intent.DueDate == nil || *intent.DueDate != want {
		t.Fatalf("expected due date %s, got %v", want, intent.DueDate)
	}
}

func TestParseIntentTitles(t *testing.T) {
	cases := []struct {
		message  string
		title    string
		category task.Category
		priority task.Priority
		due      bool
	}{
		{"I have to buy a birthday gift on March 3rd.", "Buy a birthday gift", task.CategoryShopping, task.PriorityMedium, true},
		{"I must see the doctor before next week, it's urgent", "See the doctor , it's urgent", task.CategoryHealth, task.PriorityHigh, true},
		{"I want to call a friend high priority", "Call a friend", task.CategoryPersonal, task.PriorityHigh, false},
		{"I'm going to work on the slides by tomorrow", "Work on the slides", task.CategoryWork, task.PriorityMedium, true},
		{"I should water the plants low priority", "Water the plants", task.CategoryOther, task.PriorityLow, false},
		{"I need to pay rent due on Friday, not urgent", "Pay rent , not urgent", task.CategoryOther, task.PriorityLow, true},
		{"I need to pay rent by Friday, it is not urgent", "Pay rent , it is not urgent", task.CategoryOther, task.PriorityLow, true},
		{"Need to pay rent by Friday", "Pay rent", task.CategoryOther, task.PriorityMedium, true},
		{"Must renew my passport before next week", "Renew my passport", task.CategoryOther, task.PriorityMedium, true},
		{"going to clean the garage on Sunday", "Clean the garage", task.CategoryOther, task.PriorityMedium, true},
	}

	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			intent := ParseIntent(tc.message, monday)
			if !intent.IsTaskCreation {
				t.Fatalf("expected task creation intent")
			}
			if intent.Title != tc.title {
				t.Fatalf("expected title %q, got %q", tc.title, intent.Title)
			}
			if intent.Category != tc.category {
				t.Fatalf("expected category %q, got %q", tc.category, intent.Category)
			}
			if intent.Priority != tc.priority {
				t.Fatalf("expected priority %q, got %q", tc.priority, intent.Priority)
			}
			if (intent.DueDate != nil) != tc.due {
				t.Fatalf("expected due date set=%v, got %v", tc.due, intent.DueDate)
			}
		})
	}
}

func TestParseIntentIgnoresQuestions(t *testing.T) {
	for _, message := range []string{
		"What tasks do I have today?",
		"What health-related tasks do I have?",
		"I need to relax",
		"Is the report due on Friday?",
		"",
	} {
		if intent := ParseIntent(message, monday); intent.IsTaskCreation {
			t.Fatalf("expected %q not to create a task, got %+v", message, intent)
		}
	}
}

func TestIntentSuggestion(t *testing.T) {
	intent := ParseIntent("I need to book the gym by Friday high priority", monday)
	s := intent.Suggestion()
	if s.Title != "Book the gym" || s.Category != task.CategoryHealth || s.Priority != task.PriorityHigh {
		t.Fatalf("unexpected suggestion %+v", s)
	}
	if s.DueDate == nil || s.DueDate == intent.DueDate {
		t.Fatalf("expected a copied due date")
	}
}
