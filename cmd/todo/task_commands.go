package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/amonks/smarttodo/internal/editor"
	internalstrings "github.com/amonks/smarttodo/internal/strings"
	"github.com/amonks/smarttodo/internal/ui"
	"github.com/amonks/smarttodo/query"
	"github.com/amonks/smarttodo/tagger"
	"github.com/amonks/smarttodo/task"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// todo add
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a task",
	Long: `Add a task.

By default, opens $EDITOR on a TOML representation of the task when
running interactively. Use --no-edit to skip the editor, or --edit to
force it. With --auto, a category or priority that was not given is
guessed from the title and description.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

var (
	addDescription string
	addPriority    string
	addCategory    string
	addDue         string
	addAuto        bool
	addEdit        bool
	addNoEdit      bool
)

// todo list
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var (
	listSearch   string
	listCategory string
	listPriority string
	listStatus   string
	listGroup    bool
	listJSON     bool
)

// todo show
var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show tasks in detail",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var showJSON bool

// todo edit
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task",
	Long: `Edit a task.

With no field flags, opens $EDITOR when running interactively. Use
--no-edit to skip the editor, or --edit to force it.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTitle       string
	editDescription string
	editPriority    string
	editCategory    string
	editDue         string
	editClearDue    bool
	editEdit        bool
	editNoEdit      bool
)

// todo toggle
var toggleCmd = &cobra.Command{
	Use:   "toggle <id>...",
	Short: "Flip the completion state of tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runToggle,
}

// todo delete
var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDelete,
}

// todo clear
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every completed task",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(addCmd, listCmd, showCmd, editCmd, toggleCmd, deleteCmd, clearCmd)
	addDescriptionFlagAliases(addCmd, editCmd)

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description (use '-' to read from stdin)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", string(task.PriorityMedium), "Priority (low, medium, high)")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", string(task.CategoryOther), "Category (work, personal, health, shopping, other)")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().BoolVar(&addAuto, "auto", false, "Guess category and priority that were not given")
	addCmd.Flags().BoolVarP(&addEdit, "edit", "e", false, "Open $EDITOR (default if interactive)")
	addCmd.Flags().BoolVar(&addNoEdit, "no-edit", false, "Do not open $EDITOR")

	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by title or description substring")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	listCmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority")
	listCmd.Flags().StringVar(&listStatus, "status", string(query.StatusAll), "Filter by status (all, pending, completed, overdue)")
	listCmd.Flags().BoolVar(&listGroup, "group", false, "Group by due date")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description (use '-' to read from stdin)")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority (low, medium, high)")
	editCmd.Flags().StringVarP(&editCategory, "category", "c", "", "New category")
	editCmd.Flags().StringVar(&editDue, "due", "", "New due date (YYYY-MM-DD)")
	editCmd.Flags().BoolVar(&editClearDue, "clear-due", false, "Remove the due date")
	editCmd.Flags().BoolVarP(&editEdit, "edit", "e", false, "Open $EDITOR (default if interactive without field flags)")
	editCmd.Flags().BoolVar(&editNoEdit, "no-edit", false, "Do not open $EDITOR")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(addDescription, os.Stdin)
		if err != nil {
			return err
		}
		addDescription = desc
	}

	var title string
	if len(args) > 0 {
		title = args[0]
	}

	useEditor := addEdit || (!addNoEdit && editor.IsInteractive())
	var (
		opts task.CreateOptions
		err  error
	)
	if useEditor {
		priority, category, err := addClassification(cmd.Flags(), title)
		if err != nil {
			return err
		}
		data := editor.DefaultCreateData()
		data.Title = title
		data.Description = addDescription
		data.Priority = priority
		data.Category = category
		data.Due = strings.TrimSpace(addDue)
		parsed, err := editor.EditTaskWithData(data)
		if err != nil {
			return err
		}
		title = parsed.Title
		opts = parsed.CreateOptions()
	} else {
		if title == "" {
			return exitError{code: exitInvalid, err: fmt.Errorf("title is required (use --edit to open editor)")}
		}
		opts, err = addOptionsFromFlags(cmd, title)
		if err != nil {
			return err
		}
	}

	store, _, err := loadTaskStore(cmd.Context())
	if err != nil {
		return err
	}
	created, err := store.Create(cmd.Context(), title, opts)
	if err != nil {
		return err
	}

	prefixLengths := store.IDIndex().PrefixLengths()
	fmt.Printf("Created task %s: %s\n", ui.HighlightID(created.ID, prefixLengths[strings.ToLower(created.ID)]), created.Title)
	return nil
}

func addOptionsFromFlags(cmd *cobra.Command, title string) (task.CreateOptions, error) {
	opts := task.CreateOptions{Description: addDescription}

	priority, category, err := addClassification(cmd.Flags(), title)
	if err != nil {
		return opts, err
	}
	opts.Priority = priority
	opts.Category = category

	if strings.TrimSpace(addDue) != "" {
		due, err := task.ParseDate(strings.TrimSpace(addDue))
		if err != nil {
			return opts, exitError{code: exitInvalid, err: err}
		}
		opts.DueDate = &due
	}
	return opts, nil
}

// addClassification resolves the add flags into a priority and category.
// Empty values fall back to the defaults. With --auto, values that were not
// given on the command line are guessed from the title and description.
func addClassification(flags *pflag.FlagSet, title string) (task.Priority, task.Category, error) {
	priority := task.PriorityMedium
	if !internalstrings.IsBlank(addPriority) {
		p, err := task.ParsePriority(addPriority)
		if err != nil {
			return "", "", err
		}
		priority = p
	}
	category := task.CategoryOther
	if !internalstrings.IsBlank(addCategory) {
		c, err := task.ParseCategory(addCategory)
		if err != nil {
			return "", "", err
		}
		category = c
	}
	if addAuto {
		guessedCategory, guessedPriority := tagger.Best(title + " " + addDescription)
		if guessedCategory != "" && !flags.Changed("category") {
			category = guessedCategory
		}
		if guessedPriority != "" && !flags.Changed("priority") {
			priority = guessedPriority
		}
	}
	return priority, category, nil
}

func runList(cmd *cobra.Command, args []string) error {
	criteria, err := listCriteria()
	if err != nil {
		return err
	}

	store, _, err := loadTaskStore(cmd.Context())
	if err != nil {
		return err
	}
	now := store.Now()
	tasks := query.Sort(query.Filter(store.List(), criteria, now))

	if listGroup {
		groups := query.GroupByDate(tasks)
		if listJSON {
			return encodeJSONToStdout(groups)
		}
		prefixLengths := store.IDIndex().PrefixLengths()
		for i, group := range groups {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s (%s)\n", group.Key, pluralize(len(group.Tasks), "task", "tasks"))
			printTaskTable(group.Tasks, prefixLengths, now)
		}
		if len(groups) == 0 {
			fmt.Println("No tasks found.")
		}
		return nil
	}

	if listJSON {
		if tasks == nil {
			tasks = []task.Task{}
		}
		return encodeJSONToStdout(tasks)
	}
	printTaskTable(tasks, store.IDIndex().PrefixLengths(), now)
	return nil
}

func listCriteria() (query.Criteria, error) {
	criteria := query.DefaultCriteria()
	criteria.SearchQuery = listSearch

	status := query.Status(strings.ToLower(strings.TrimSpace(listStatus)))
	if err := status.Validate(); err != nil {
		return criteria, exitError{code: exitInvalid, err: err}
	}
	if status != "" {
		criteria.Status = status
	}
	if strings.TrimSpace(listCategory) != "" {
		category, err := task.ParseCategory(listCategory)
		if err != nil {
			return criteria, err
		}
		criteria.Category = category
	}
	if strings.TrimSpace(listPriority) != "" {
		priority, err := task.ParsePriority(listPriority)
		if err != nil {
			return criteria, err
		}
		criteria.Priority = priority
	}
	return criteria, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	store, _, err := loadTaskStore(cmd.Context())
	if err != nil {
		return err
	}

	items := make([]task.Task, 0, len(args))
	for _, id := range args {
		item, err := store.Show(id)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	if showJSON {
		return encodeJSONToStdout(items)
	}
	prefixLengths := store.IDIndex().PrefixLengths()
	width := ui.TerminalWidth(80)
	for i, item := range items {
		if i > 0 {
			fmt.Println()
		}
		fmt.Print(formatTaskDetail(item, ui.HighlightID, prefixLengths[strings.ToLower(item.ID)], store.Now(), width))
	}
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(editDescription, os.Stdin)
		if err != nil {
			return err
		}
		editDescription = desc
	}

	store, _, err := loadTaskStore(cmd.Context())
	if err != nil {
		return err
	}
	existing, err := store.Show(args[0])
	if err != nil {
		return err
	}

	hasFlags := cmd.Flags().Changed("title") ||
		cmd.Flags().Changed("description") ||
		cmd.Flags().Changed("priority") ||
		cmd.Flags().Changed("category") ||
		cmd.Flags().Changed("due") ||
		cmd.Flags().Changed("clear-due")

	var opts task.UpdateOptions
	if shouldUseEditEditor(hasFlags, editEdit, editNoEdit, editor.IsInteractive()) {
		data := editor.DataFromTask(existing)
		if err := applyEditFlagsToData(cmd.Flags(), &data); err != nil {
			return err
		}
		parsed, err := editor.EditTaskWithData(data)
		if err != nil {
			return err
		}
		opts = parsed.UpdateOptions()
	} else {
		opts, err = editOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
	}
	if !opts.HasChanges() {
		return exitError{code: exitInvalid, err: fmt.Errorf("no changes requested")}
	}

	updated, err := store.Update(cmd.Context(), existing.ID, opts)
	if err != nil {
		return err
	}
	prefixLengths := store.IDIndex().PrefixLengths()
	fmt.Printf("Updated task %s: %s\n", ui.HighlightID(updated.ID, prefixLengths[strings.ToLower(updated.ID)]), updated.Title)
	return nil
}

func shouldUseEditEditor(hasFlags, forceEdit, noEdit, interactive bool) bool {
	if forceEdit {
		return true
	}
	if noEdit {
		return false
	}
	return !hasFlags && interactive
}

func applyEditFlagsToData(flags *pflag.FlagSet, data *editor.TaskData) error {
	if flags.Changed("title") {
		data.Title = editTitle
	}
	if flags.Changed("description") {
		data.Description = editDescription
	}
	if flags.Changed("priority") {
		priority, err := task.ParsePriority(editPriority)
		if err != nil {
			return err
		}
		data.Priority = priority
	}
	if flags.Changed("category") {
		category, err := task.ParseCategory(editCategory)
		if err != nil {
			return err
		}
		data.Category = category
	}
	if flags.Changed("due") {
		data.Due = strings.TrimSpace(editDue)
	}
	if editClearDue {
		data.Due = ""
	}
	return nil
}

func editOptionsFromFlags(cmd *cobra.Command) (task.UpdateOptions, error) {
	var opts task.UpdateOptions
	if cmd.Flags().Changed("title") {
		opts.Title = &editTitle
	}
	if cmd.Flags().Changed("description") {
		opts.Description = &editDescription
	}
	if cmd.Flags().Changed("priority") {
		priority, err := task.ParsePriority(editPriority)
		if err != nil {
			return opts, err
		}
		opts.Priority = &priority
	}
	if cmd.Flags().Changed("category") {
		category, err := task.ParseCategory(editCategory)
		if err != nil {
			return opts, err
		}
		opts.Category = &category
	}
	if cmd.Flags().Changed("due") {
		if editClearDue {
			return opts, exitError{code: exitInvalid, err: fmt.Errorf("--due and --clear-due are mutually exclusive")}
		}
		due, err := task.ParseDate(strings.TrimSpace(editDue))
		if err != nil {
			return opts, exitError{code: exitInvalid, err: err}
		}
		opts.DueDate = &due
	}
	opts.ClearDueDate = editClearDue
	return opts, nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	store, _, err := loadTaskStore(cmd.Context())
	if err != nil {
		return err
	}
	for _, id := range args {
		toggled, err := store.Toggle(cmd.Context(), id)
		if err != nil {
			return err
		}
		verb := "Reopened"
		if toggled.Completed {
			verb = "Completed"
		}
		prefixLengths := store.IDIndex().PrefixLengths()
		fmt.Printf("%s task %s: %s\n", verb, ui.HighlightID(toggled.ID, prefixLengths[strings.ToLower(toggled.ID)]), toggled.Title)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	store, _, err := loadTaskStore(cmd.Context())
	if err != nil {
		return err
	}
	for _, id := range args {
		deleted, err := store.Delete(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted task %s: %s\n", deleted.ID, deleted.Title)
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	store, _, err := loadTaskStore(cmd.Context())
	if err != nil {
		return err
	}
	removed, err := store.ClearCompleted(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Removed %s.\n", pluralize(removed, "completed task", "completed tasks"))
	return nil
}
