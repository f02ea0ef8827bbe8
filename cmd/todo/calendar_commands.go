package main

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/amonks/smarttodo/calendar"
	"github.com/amonks/smarttodo/internal/auth"
	"github.com/amonks/smarttodo/task"
	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "View and sync tasks by due date",
}

var calendarShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a month of tasks",
	Args:  cobra.NoArgs,
	RunE:  runCalendarShow,
}

var (
	calendarShowMonth string
	calendarShowDay   string
	calendarShowJSON  bool
)

var calendarSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror dated, pending tasks into Google Calendar",
	Args:  cobra.NoArgs,
	RunE:  runCalendarSync,
}

var calendarAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize Google Calendar access",
	Args:  cobra.NoArgs,
	RunE:  runCalendarAuth,
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.AddCommand(calendarShowCmd, calendarSyncCmd, calendarAuthCmd)

	calendarShowCmd.Flags().StringVar(&calendarShowMonth, "month", "", "Month to show (YYYY-MM, default current)")
	calendarShowCmd.Flags().StringVar(&calendarShowDay, "day", "", "Also list the tasks due on this date (YYYY-MM-DD)")
	calendarShowCmd.Flags().BoolVar(&calendarShowJSON, "json", false, "Output as JSON")
}

func runCalendarShow(cmd *cobra.Command, args []string) error {
	store, _, err := loadTaskStore(cmd.Context())
	if err != nil {
		return err
	}
	now := store.Now()
	year, month, err := parseMonth(calendarShowMonth, now)
	if err != nil {
		return err
	}

	var day *task.Date
	if strings.TrimSpace(calendarShowDay) != "" {
		parsed, err := task.ParseDate(strings.TrimSpace(calendarShowDay))
		if err != nil {
			return exitError{code: exitInvalid, err: err}
		}
		day = &parsed
	}

	tasks := store.List()
	grid := calendar.Month(tasks, year, month)
	if calendarShowJSON {
		return encodeJSONToStdout(grid)
	}

	fmt.Print(calendar.Render(grid, task.Today(now)))
	if day != nil {
		fmt.Printf("\n%s\n", day.Time(time.Local).Format("Monday, January 2"))
		printTaskTable(calendar.TasksOn(tasks, *day), store.IDIndex().PrefixLengths(), now)
	}
	return nil
}

func parseMonth(value string, now time.Time) (int, time.Month, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		today := task.Today(now)
		return today.Year, today.Month, nil
	}
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, exitError{code: exitInvalid, err: fmt.Errorf("invalid month %q (want YYYY-MM)", value)}
	}
	return parsed.Year(), parsed.Month(), nil
}

func runCalendarSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, cfg, err := loadTaskStore(ctx)
	if err != nil {
		return err
	}

	srv, err := auth.CalendarService(ctx, cfg.Calendar.Credentials, cfg.Calendar.Token)
	if err != nil {
		return err
	}
	events := calendar.NewGoogleEvents(srv)
	calendarID, err := calendar.FindCalendar(ctx, events, cfg.Calendar.Name)
	if err != nil {
		return err
	}

	result, syncErr := calendar.Sync(ctx, events, calendarID, store.List())
	fmt.Printf("Synced to %s: %d created, %d updated, %d unchanged, %d skipped\n",
		cfg.Calendar.Name, result.Created, result.Updated, result.Unchanged, result.Skipped)
	return syncErr
}

func runCalendarAuth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	oauthConfig, err := auth.Config(cfg.Calendar.Credentials, auth.CalendarScopes...)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listen for authorization callback: %w", err)
	}
	defer listener.Close()

	tok, err := auth.Authorize(cmd.Context(), oauthConfig, listener, func(url string) {
		fmt.Printf("Open this URL in your browser to authorize calendar access:\n\n%s\n\n", url)
	})
	if err != nil {
		return err
	}
	if err := auth.SaveToken(cfg.Calendar.Token, tok); err != nil {
		return err
	}
	fmt.Printf("Saved token to %s\n", cfg.Calendar.Token)
	return nil
}
