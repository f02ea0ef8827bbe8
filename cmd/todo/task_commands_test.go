package main

import (
	"testing"

	"github.com/amonks/smarttodo/internal/editor"
	"github.com/amonks/smarttodo/task"
	"github.com/spf13/pflag"
)

func resetAddFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	saved := []any{addPriority, addCategory, addDescription, addAuto}
	t.Cleanup(func() {
		addPriority = saved[0].(string)
		addCategory = saved[1].(string)
		addDescription = saved[2].(string)
		addAuto = saved[3].(bool)
	})

	flags := pflag.NewFlagSet("add", pflag.ContinueOnError)
	flags.StringVar(&addPriority, "priority", string(task.PriorityMedium), "")
	flags.StringVar(&addCategory, "category", string(task.CategoryOther), "")
	flags.StringVar(&addDescription, "description", "", "")
	flags.BoolVar(&addAuto, "auto", false, "")
	return flags
}

func TestAddClassificationParsesFlags(t *testing.T) {
	flags := resetAddFlags(t)
	if err := flags.Parse([]string{"--priority", "HIGH", "--category", " work "}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	priority, category, err := addClassification(flags, "Write report")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if priority != task.PriorityHigh || category != task.CategoryWork {
		t.Fatalf("unexpected classification %q %q", priority, category)
	}
}

func TestAddClassificationRejectsInvalidPriority(t *testing.T) {
	flags := resetAddFlags(t)
	if err := flags.Parse([]string{"--priority", "urgent"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, _, err := addClassification(flags, "Write report"); err == nil {
		t.Fatalf("expected error for invalid priority")
	}
}

func TestAddClassificationAutoKeepsExplicitFlags(t *testing.T) {
	flags := resetAddFlags(t)
	if err := flags.Parse([]string{"--auto", "--category", "personal"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	priority, category, err := addClassification(flags, "urgent doctor appointment")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if category != task.CategoryPersonal {
		t.Fatalf("expected explicit category to win, got %q", category)
	}
	if priority != task.PriorityHigh {
		t.Fatalf("expected guessed priority high, got %q", priority)
	}
}

func TestAddClassificationAutoWithoutMatchKeepsDefaults(t *testing.T) {
	flags := resetAddFlags(t)
	if err := flags.Parse([]string{"--auto"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	priority, category, err := addClassification(flags, "zzz")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if priority != task.PriorityMedium || category != task.CategoryOther {
		t.Fatalf("expected defaults, got %q %q", priority, category)
	}
}

func TestApplyEditFlagsToData(t *testing.T) {
	savedPriority, savedCategory, savedDue := editPriority, editCategory, editDue
	t.Cleanup(func() {
		editPriority, editCategory, editDue = savedPriority, savedCategory, savedDue
	})

	flags := pflag.NewFlagSet("edit", pflag.ContinueOnError)
	flags.StringVar(&editPriority, "priority", "", "")
	flags.StringVar(&editCategory, "category", "", "")
	flags.StringVar(&editDue, "due", "", "")
	if err := flags.Parse([]string{"--priority", "Low", "--due", " 2026-04-01 "}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	data := editor.DataFromTask(task.Task{ID: "abcd2345", Title: "Write report", Priority: task.PriorityHigh, Category: task.CategoryWork})
	if err := applyEditFlagsToData(flags, &data); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if data.Priority != task.PriorityLow || data.Category != task.CategoryWork || data.Due != "2026-04-01" {
		t.Fatalf("unexpected data %+v", data)
	}

	if err := flags.Set("category", "chores"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := applyEditFlagsToData(flags, &data); err == nil {
		t.Fatalf("expected error for invalid category")
	}
}
