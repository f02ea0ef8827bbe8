package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/smarttodo/chat"
	"github.com/amonks/smarttodo/internal/chattui"
	"github.com/amonks/smarttodo/internal/markdown"
	"github.com/amonks/smarttodo/internal/ui"
	"github.com/amonks/smarttodo/tagger"
	"github.com/amonks/smarttodo/task"
	"github.com/spf13/cobra"
)

var errAnalysisNotConfigured = errors.New("analysis endpoint is not configured; set [analysis] endpoint")

var suggestCmd = &cobra.Command{
	Use:   "suggest <text>...",
	Short: "Suggest a category and priority for a task description",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

var suggestJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Ask the analysis service for insights on your tasks",
	Args:  cobra.NoArgs,
	RunE:  runAnalyze,
}

var analyzeJSON bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the task assistant",
	Long: `Chat with the task assistant.

Without --message, opens an interactive chat. Mentioning something you
need to do with a deadline or priority ("I need to renew my passport by
Friday") produces a task suggestion you can add or dismiss.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

var (
	chatMessage string
	chatAccept  bool
)

type suggestOutput struct {
	Suggestions []tagger.Suggestion `json:"suggestions"`
	Category    task.Category       `json:"category"`
	Priority    task.Priority       `json:"priority"`
}

func init() {
	rootCmd.AddCommand(suggestCmd, analyzeCmd, chatCmd)

	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "Output as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output as JSON")
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send one message and print the reply")
	chatCmd.Flags().BoolVar(&chatAccept, "accept", false, "With --message, add the suggested task")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	suggestions := tagger.Suggest(text)
	category, priority := tagger.Best(text)
	if suggestJSON {
		if suggestions == nil {
			suggestions = []tagger.Suggestion{}
		}
		return encodeJSONToStdout(suggestOutput{Suggestions: suggestions, Category: category, Priority: priority})
	}

	if len(suggestions) == 0 {
		fmt.Println("No suggestions.")
		return nil
	}
	builder := ui.NewTableBuilder([]string{"KIND", "VALUE", "CONFIDENCE"}, len(suggestions))
	for _, s := range suggestions {
		builder.AddRow([]string{string(s.Kind), s.Value, ui.FormatPercent(s.Confidence * 100)})
	}
	fmt.Print(builder.String())
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, cfg, err := loadTaskStore(ctx)
	if err != nil {
		return err
	}
	client, err := newAnalysisClient(cfg)
	if err != nil {
		return err
	}
	if client == nil {
		return errAnalysisNotConfigured
	}

	result, err := client.Analyze(ctx, store.List())
	if err != nil {
		return err
	}
	if analyzeJSON {
		return encodeJSONToStdout(result)
	}

	fmt.Println(markdown.Render(markdownStyle(), ui.TerminalWidth(80), result.Summary))
	if len(result.Suggestions) == 0 {
		return nil
	}
	fmt.Println()
	builder := ui.NewTableBuilder([]string{"SUGGESTED TASK", "CATEGORY", "PRIORITY", "DUE"}, len(result.Suggestions))
	for _, s := range result.Suggestions {
		builder.AddRow([]string{
			ui.TruncateTableCell(s.Title),
			ui.Category(s.Category),
			ui.Priority(s.Priority),
			ui.FormatDue(s.DueDate, store.Now()),
		})
	}
	fmt.Print(builder.String())
	return nil
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, cfg, err := loadTaskStore(ctx)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	assistant, err := newAssistant(cfg, store, logger)
	if err != nil {
		return err
	}

	if strings.TrimSpace(chatMessage) == "" {
		if chatAccept {
			return exitError{code: exitInvalid, err: fmt.Errorf("--accept requires --message")}
		}
		return chattui.Run(ctx, assistant)
	}

	added := assistant.Send(ctx, chatMessage)
	var suggestion *chat.Message
	for i := range added {
		msg := added[i]
		if msg.Role == chat.RoleUser {
			continue
		}
		printChatMessage(msg)
		if msg.Role == chat.RoleSuggestion {
			suggestion = &added[i]
		}
	}
	if !chatAccept {
		return nil
	}
	if suggestion == nil {
		return fmt.Errorf("no task suggestion to accept")
	}

	result, err := assistant.Accept(ctx, suggestion.ID)
	if err != nil {
		return err
	}
	if result.Notice != "" {
		fmt.Println(result.Notice)
	}
	fmt.Printf("Created task %s: %s\n", result.Task.ID, result.Task.Title)
	return nil
}

func printChatMessage(msg chat.Message) {
	if msg.Role != chat.RoleSuggestion || msg.Suggestion == nil {
		fmt.Println(markdown.Render(markdownStyle(), ui.TerminalWidth(80), msg.Content))
		return
	}
	s := msg.Suggestion
	fmt.Printf("Suggested task: %s\n", s.Title)
	fmt.Printf("  category: %s\n", s.Category)
	fmt.Printf("  priority: %s\n", s.Priority)
	if s.DueDate != nil {
		fmt.Printf("  due:      %s\n", s.DueDate)
	}
	fmt.Println(msg.Content)
}

func markdownStyle() markdown.Style {
	if ui.ColorEnabled() {
		return markdown.StyleDark
	}
	return markdown.StylePlain
}
