package googlecalendar

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Event is the portable slice of a calendar event this app cares about.
type Event struct {
	ID       string
	MeetLink string
}

type EventRequest struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimezoneID  string
	Attendees   []string
	WithMeet    bool
}

type Provider interface {
	InsertEvent(ctx context.Context, accessToken string, req EventRequest) (*Event, error)
	PatchEvent(ctx context.Context, accessToken, eventID string, req EventRequest) (*Event, error)
	DeleteEvent(ctx context.Context, accessToken, eventID string) error
}

var Instance Provider

func NewProvider() {
	Instance = &impl{}
}

type impl struct{}

func (i impl) service(ctx context.Context, accessToken string) (*calendar.Service, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := calendar.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, errors.Wrap(err, "calendar service init failed")
	}
	return svc, nil
}

func buildEvent(req EventRequest) *calendar.Event {
	event := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: req.Start.Format(time.RFC3339),
			TimeZone: req.TimezoneID,
		},
		End: &calendar.EventDateTime{
			DateTime: req.End.Format(time.RFC3339),
			TimeZone: req.TimezoneID,
		},
	}
	for _, email := range req.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}
	if req.WithMeet {
		event.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		}
	}
	return event
}

func meetLink(event *calendar.Event) string {
	if event.ConferenceData == nil {
		return event.HangoutLink
	}
	for _, entry := range event.ConferenceData.EntryPoints {
		if entry.EntryPointType == "video" {
			return entry.Uri
		}
	}
	return event.HangoutLink
}

func (i impl) InsertEvent(ctx context.Context, accessToken string, req EventRequest) (*Event, error) {
	svc, err := i.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	call := svc.Events.Insert("primary", buildEvent(req)).Context(ctx)
	if req.WithMeet {
		call = call.ConferenceDataVersion(1)
	}
	created, err := call.Do()
	if err != nil {
		return nil, errors.Wrap(err, "calendar event insert failed")
	}
	return &Event{ID: created.Id, MeetLink: meetLink(created)}, nil
}

func (i impl) PatchEvent(ctx context.Context, accessToken, eventID string, req EventRequest) (*Event, error) {
	svc, err := i.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	patched, err := svc.Events.Patch("primary", eventID, buildEvent(req)).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "calendar event patch failed")
	}
	return &Event{ID: patched.Id, MeetLink: meetLink(patched)}, nil
}

func (i impl) DeleteEvent(ctx context.Context, accessToken, eventID string) error {
	svc, err := i.service(ctx, accessToken)
	if err != nil {
		return err
	}
	err = svc.Events.Delete("primary", eventID).Context(ctx).Do()
	if err != nil {
		return errors.Wrap(err, "calendar event delete failed")
	}
	return nil
}
