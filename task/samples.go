package task

import (
	"time"

	"github.com/amonks/smarttodo/internal/ids"
)

// SampleTasks returns the starter tasks shown to a user with no stored data.
func SampleTasks(now time.Time) []Task {
	today := Today(now)
	tomorrow := today.AddDays(1)
	yesterday := today.AddDays(-1)
	yesterdayTime := now.AddDate(0, 0, -1)

	samples := []Task{
		{
			Title:       "Complete project proposal",
			Description: "Finish the draft and send it to the team for review",
			CreatedAt:   yesterdayTime,
			DueDate:     DatePtr(today),
			Priority:    PriorityHigh,
			Category:    CategoryWork,
		},
		{
			Title:       "Buy groceries",
			Description: "Milk, eggs, bread, fruits",
			Completed:   true,
			CreatedAt:   yesterdayTime,
			DueDate:     DatePtr(yesterday),
			Priority:    PriorityMedium,
			Category:    CategoryShopping,
		},
		{
			Title:       "Morning yoga session",
			Description: "30 minute morning routine",
			CreatedAt:   now,
			DueDate:     DatePtr(today),
			Priority:    PriorityLow,
			Category:    CategoryHealth,
		},
		{
			Title:     "Call mom",
			CreatedAt: now,
			DueDate:   DatePtr(tomorrow),
			Priority:  PriorityMedium,
			Category:  CategoryPersonal,
		},
		{
			Title:       "Review team's work",
			Description: "Check progress and provide feedback",
			CreatedAt:   yesterdayTime,
			DueDate:     DatePtr(tomorrow),
			Priority:    PriorityHigh,
			Category:    CategoryWork,
		},
	}
	for i := range samples {
		samples[i].ID = ids.ForTask(samples[i].Title, samples[i].CreatedAt)
	}
	return samples
}
