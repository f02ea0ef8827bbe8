package calendar

import (
	"context"

	gcal "google.golang.org/api/calendar/v3"
)

// GoogleEvents implements EventService on the Calendar v3 API.
type GoogleEvents struct {
	srv *gcal.Service
}

// NewGoogleEvents wraps an authenticated calendar service.
func NewGoogleEvents(srv *gcal.Service) *GoogleEvents {
	return &GoogleEvents{srv: srv}
}

func (g *GoogleEvents) Calendars(ctx context.Context) ([]*gcal.CalendarListEntry, error) {
	var entries []*gcal.CalendarListEntry
	err := g.srv.CalendarList.List().Pages(ctx, func(page *gcal.CalendarList) error {
		entries = append(entries, page.Items...)
		return nil
	})
	return entries, err
}

func (g *GoogleEvents) GetEvent(ctx context.Context, calendarID, eventID string) (*gcal.Event, error) {
	return g.srv.Events.Get(calendarID, eventID).Context(ctx).Do()
}

func (g *GoogleEvents) InsertEvent(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
	return g.srv.Events.Insert(calendarID, event).Context(ctx).Do()
}

func (g *GoogleEvents) PatchEvent(ctx context.Context, calendarID, eventID string, patch *gcal.Event) (*gcal.Event, error) {
	return g.srv.Events.Patch(calendarID, eventID, patch).Context(ctx).Do()
}
