package googlecal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"projecthub/internal/domain"
)

// holidayCalendarIDs maps a region key to the public Google holiday
// calendar for that region.
var holidayCalendarIDs = map[string]string{
	"indian": "en.indian#holiday@group.v.calendar.google.com",
	"usa":    "en.usa#holiday@group.v.calendar.google.com",
}

// Client fetches holiday events from the Google Calendar API and
// normalizes them into the domain event shape. It is read-only: nothing it
// returns is ever persisted locally.
type Client struct {
	service    *calendar.Service
	calendarID string
}

// NewClient builds a Client for the given region using a service account
// key in JSON form. An unknown region is a configuration defect and fails
// construction rather than being validated per request.
func NewClient(ctx context.Context, credentialsJSON []byte, region string) (*Client, error) {
	calendarID, ok := holidayCalendarIDs[region]
	if !ok {
		return nil, fmt.Errorf("unsupported holiday region %q", region)
	}

	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("load google credentials: %w", err)
	}
	service, err := calendar.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Client{service: service, calendarID: calendarID}, nil
}

// HolidayEvents returns holiday events between from and to (to may be nil
// for an open range), capped at limit. Provider failures are returned as
// plain errors; the caller decides how they surface.
func (c *Client) HolidayEvents(ctx context.Context, from time.Time, to *time.Time, limit int) ([]*domain.Event, error) {
	call := c.service.Events.List(c.calendarID).
		Context(ctx).
		TimeMin(from.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")
	if to != nil {
		call = call.TimeMax(to.Format(time.RFC3339))
	}
	if limit > 0 {
		call = call.MaxResults(int64(limit))
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("fetch holiday events: %w", err)
	}

	events := make([]*domain.Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		events = append(events, normalizeItem(item))
	}
	return events, nil
}

// normalizeItem maps a provider event onto the domain shape: category is
// always holiday, an unrecognized provider status falls back to tentative,
// and there is no local creator.
func normalizeItem(item *calendar.Event) *domain.Event {
	e := &domain.Event{
		ID:       item.Id,
		Name:     item.Summary,
		Status:   domain.ParseEventStatus(item.Status, domain.StatusTentative),
		Category: domain.CategoryHoliday,
		StartAt:  eventTime(item.Start),
		EndAt:    eventTime(item.End),
	}
	if item.Description != "" {
		desc := item.Description
		e.Description = &desc
	}
	if t, err := time.Parse(time.RFC3339, item.Created); err == nil {
		e.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, item.Updated); err == nil {
		e.UpdatedAt = t
	}
	return e
}

// eventTime handles both all-day events (Date) and timed events (DateTime).
// Holiday feeds use all-day dates.
func eventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.Date != "" {
		t, _ := time.Parse("2006-01-02", edt.Date)
		return t
	}
	t, _ := time.Parse(time.RFC3339, edt.DateTime)
	return t
}
