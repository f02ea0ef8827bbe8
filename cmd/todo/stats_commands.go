package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/smarttodo/internal/ui"
	"github.com/amonks/smarttodo/query"
	"github.com/amonks/smarttodo/task"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show tasks created and completed over the last week",
	Args:  cobra.NoArgs,
	RunE:  runActivity,
}

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Show recurring tasks and their streaks",
	Args:  cobra.NoArgs,
	RunE:  runStreaks,
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show which of the last seven days had a task done",
	Args:  cobra.NoArgs,
	RunE:  runWeek,
}

var (
	statsJSON    bool
	activityJSON bool
	streaksJSON  bool
	weekJSON     bool
)

type statsOutput struct {
	query.Stats
	CompletionRate float64 `json:"completionRate"`
}

func init() {
	rootCmd.AddCommand(statsCmd, activityCmd, streaksCmd, weekCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	activityCmd.Flags().BoolVar(&activityJSON, "json", false, "Output as JSON")
	streaksCmd.Flags().BoolVar(&streaksJSON, "json", false, "Output as JSON")
	weekCmd.Flags().BoolVar(&weekJSON, "json", false, "Output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	store, _, err := loadTaskStore(cmd.Context())
	if err != nil {
		return err
	}
	stats := query.ComputeStats(store.List(), store.Now())
	if statsJSON {
		return encodeJSONToStdout(statsOutput{Stats: stats, CompletionRate: stats.CompletionRate()})
	}
	fmt.Print(formatStats(stats))
	return nil
}

func formatStats(stats query.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total:      %d\n", stats.Total)
	fmt.Fprintf(&b, "Completed:  %d (%s)\n", stats.Completed, ui.FormatPercent(stats.CompletionRate()))
	fmt.Fprintf(&b, "Pending:    %d\n", stats.Pending)
	fmt.Fprintf(&b, "Overdue:    %d\n", stats.Overdue)

	b.WriteString("\nPending by priority:\n")
	priorities := ui.NewTableBuilder([]string{"PRIORITY", "COUNT"}, 3)
	for _, p := range []task.Priority{task.PriorityHigh, task.PriorityMedium, task.PriorityLow} {
		priorities.AddRow([]string{ui.Priority(p), strconv.Itoa(stats.ByPriority[p])})
	}
	b.WriteString(priorities.String())

	b.WriteString("\nPending by category:\n")
	categories := ui.NewTableBuilder([]string{"CATEGORY", "COUNT"}, 5)
	for _, c := range task.ValidCategories() {
		categories.AddRow([]string{ui.Category(c), strconv.Itoa(stats.ByCategory[c])})
	}
	b.WriteString(categories.String())
	return b.String()
}

func runActivity(cmd *cobra.Command, args []string) error {
	store, _, err := loadTaskStore(cmd.Context())
	if err != nil {
		return err
	}
	days := query.WeeklyActivity(store.List(), store.Now())
	if activityJSON {
		return encodeJSONToStdout(days)
	}

	builder := ui.NewTableBuilder([]string{"DAY", "DATE", "CREATED", "COMPLETED"}, len(days))
	for _, day := range days {
		builder.AddRow([]string{
			weekdayLabel(day.Date),
			day.Date.String(),
			strconv.Itoa(day.Created),
			strconv.Itoa(day.Completed),
		})
	}
	fmt.Print(builder.String())
	return nil
}

func runStreaks(cmd *cobra.Command, args []string) error {
	store, _, err := loadTaskStore(cmd.Context())
	if err != nil {
		return err
	}
	now := store.Now()
	streaks := query.Streaks(store.List(), now)
	if streaksJSON {
		if streaks == nil {
			streaks = []query.Streak{}
		}
		return encodeJSONToStdout(streaks)
	}
	if len(streaks) == 0 {
		fmt.Println("No recurring tasks yet.")
		return nil
	}

	builder := ui.NewTableBuilder([]string{"TITLE", "CATEGORY", "SEEN", "STREAK", "MISSED", "LAST"}, len(streaks))
	for _, s := range streaks {
		builder.AddRow([]string{
			ui.TruncateTableCell(s.Title),
			ui.Category(s.Category),
			strconv.Itoa(s.Occurrences),
			pluralize(s.Streak, "day", "days"),
			strconv.Itoa(s.MissedDays),
			ui.FormatTimeAgo(s.LastCreated, now),
		})
	}
	fmt.Print(builder.String())
	return nil
}

func runWeek(cmd *cobra.Command, args []string) error {
	store, _, err := loadTaskStore(cmd.Context())
	if err != nil {
		return err
	}
	days := query.WeekView(store.List(), store.Now())
	if weekJSON {
		return encodeJSONToStdout(days)
	}
	fmt.Println(formatWeek(days))
	return nil
}

func formatWeek(days []query.WeekDay) string {
	labels := make([]string, 0, len(days))
	marks := make([]string, 0, len(days))
	for _, day := range days {
		labels = append(labels, weekdayLabel(day.Date))
		mark := " . "
		if day.Done {
			mark = " x "
		}
		marks = append(marks, mark)
	}
	return strings.Join(labels, " ") + "\n" + strings.Join(marks, " ")
}

func weekdayLabel(d task.Date) string {
	return d.Time(time.Local).Format("Mon")
}
