package calendar

import (
	"context"
	"crypto/sha256"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/amonks/smarttodo/task"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// PrimaryCalendar is the ID Google uses for a user's default calendar.
const PrimaryCalendar = "primary"

// TaskIDProperty is the private extended property linking an event to its
// task.
const TaskIDProperty = "smarttodo_id"

// ErrCalendarNotFound is returned when no calendar has the requested name.
var ErrCalendarNotFound = errors.New("calendar not found")

// EventService is the slice of the Google Calendar API that Sync uses.
type EventService interface {
	Calendars(ctx context.Context) ([]*gcal.CalendarListEntry, error)
	GetEvent(ctx context.Context, calendarID, eventID string) (*gcal.Event, error)
	InsertEvent(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error)
	PatchEvent(ctx context.Context, calendarID, eventID string, patch *gcal.Event) (*gcal.Event, error)
}

// SyncResult counts what Sync did.
type SyncResult struct {
	Created   int
	Updated   int
	Unchanged int
	// Skipped counts completed and undated tasks.
	Skipped int
}

// Sync mirrors every dated, incomplete task as an all-day event. Events are
// keyed by EventID, so repeated syncs patch rather than duplicate. Failures
// for individual tasks are joined and returned after the remaining tasks
// have been attempted.
func Sync(ctx context.Context, svc EventService, calendarID string, tasks []task.Task) (SyncResult, error) {
	var result SyncResult
	var errs []error

	for _, t := range tasks {
		if t.Completed || t.DueDate == nil {
			result.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		target := EventFor(t)
		existing, err := svc.GetEvent(ctx, calendarID, target.Id)
		switch {
		case isNotFound(err):
			if _, err := svc.InsertEvent(ctx, calendarID, target); err != nil {
				errs = append(errs, fmt.Errorf("insert event for %q: %w", t.Title, err))
				continue
			}
			result.Created++
		case err != nil:
			errs = append(errs, fmt.Errorf("get event for %q: %w", t.Title, err))
		default:
			patch := eventPatch(existing, target)
			if patch == nil {
				result.Unchanged++
				continue
			}
			if _, err := svc.PatchEvent(ctx, calendarID, target.Id, patch); err != nil {
				errs = append(errs, fmt.Errorf("patch event for %q: %w", t.Title, err))
				continue
			}
			result.Updated++
		}
	}
	return result, errors.Join(errs...)
}

// FindCalendar resolves a calendar name to its ID. An empty name or
// "primary" selects the primary calendar without a lookup.
func FindCalendar(ctx context.Context, svc EventService, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, PrimaryCalendar) {
		return PrimaryCalendar, nil
	}

	calendars, err := svc.Calendars(ctx)
	if err != nil {
		return "", fmt.Errorf("list calendars: %w", err)
	}
	for _, c := range calendars {
		if c.Summary == name || c.SummaryOverride == name {
			return c.Id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrCalendarNotFound, name)
}

var eventIDEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// EventID derives a stable Google event ID from a task ID. Event IDs may
// only use the base32hex alphabet in lower case.
func EventID(taskID string) string {
	sum := sha256.Sum256([]byte(TaskIDProperty + ":" + taskID))
	return strings.ToLower(eventIDEncoding.EncodeToString(sum[:20]))
}

// categoryColors maps categories to Google Calendar event color IDs.
var categoryColors = map[task.Category]string{
	task.CategoryWork:     "9",
	task.CategoryPersonal: "4",
	task.CategoryHealth:   "2",
	task.CategoryShopping: "6",
	task.CategoryOther:    "8",
}

// EventFor builds the all-day event mirroring t. The task must have a due
// date.
func EventFor(t task.Task) *gcal.Event {
	summary := t.Title
	if t.Priority == task.PriorityHigh {
		summary = "! " + summary
	}
	due := *t.DueDate
	return &gcal.Event{
		Id:           EventID(t.ID),
		Summary:      summary,
		Description:  t.Description,
		ColorId:      categoryColors[t.Category],
		Start:        &gcal.EventDateTime{Date: due.String()},
		End:          &gcal.EventDateTime{Date: due.AddDays(1).String()},
		Transparency: "transparent",
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{TaskIDProperty: t.ID},
		},
	}
}

// eventPatch returns the fields of target that differ from existing, or nil
// when the event is already up to date.
func eventPatch(existing, target *gcal.Event) *gcal.Event {
	patch := &gcal.Event{}
	changed := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		changed = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		if target.Description == "" {
			patch.NullFields = append(patch.NullFields, "Description")
		}
		changed = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		changed = true
	}
	if eventDate(existing.Start) != target.Start.Date || eventDate(existing.End) != target.End.Date {
		patch.Start = target.Start
		patch.End = target.End
		changed = true
	}
	if existing.Status == "cancelled" {
		patch.Status = "confirmed"
		changed = true
	}

	if !changed {
		return nil
	}
	return patch
}

func eventDate(dt *gcal.EventDateTime) string {
	if dt == nil {
		return ""
	}
	return dt.Date
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone)
}
