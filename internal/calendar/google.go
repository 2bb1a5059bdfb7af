package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type GoogleSyncer struct {
	service    *gcal.Service
	calendarID string
	logger     *zap.Logger
}

// GoogleOAuthConfig конфиг для desktop-потока авторизации
func GoogleOAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{gcal.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}
}

func NewGoogleSyncer(ctx context.Context, clientID, clientSecret, tokenFile, calendarID string, logger *zap.Logger) (*GoogleSyncer, error) {
	token, err := LoadToken(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("load google token (run google-auth first): %w", err)
	}

	client := GoogleOAuthConfig(clientID, clientSecret).Client(ctx, token)
	service, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create google calendar service: %w", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleSyncer{service: service, calendarID: calendarID, logger: logger}, nil
}

func (s *GoogleSyncer) Upsert(ctx context.Context, e Event) (string, error) {
	ev := &gcal.Event{
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Start:       &gcal.EventDateTime{DateTime: e.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: e.End.Format(time.RFC3339)},
	}
	for _, a := range e.Attendees {
		ev.Attendees = append(ev.Attendees, &gcal.EventAttendee{Email: a})
	}

	created, err := s.service.Events.Insert(s.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert google event: %w", err)
	}

	s.logger.Debug("Google event created", zap.String("event_id", created.Id))
	return created.Id, nil
}

func (s *GoogleSyncer) Remove(ctx context.Context, eventID string) error {
	if err := s.service.Events.Delete(s.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete google event: %w", err)
	}
	return nil
}

func LoadToken(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func SaveToken(file string, token *oauth2.Token) error {
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
