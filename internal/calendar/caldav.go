package calendar

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"go.uber.org/zap"
)

type CalDAVSyncer struct {
	caldavClient *caldav.Client
	webdavClient *webdav.Client
	calendarPath string
	logger       *zap.Logger
}

// NewCalDAVSyncer находит календарь по имени через principal и home set
func NewCalDAVSyncer(ctx context.Context, endpoint, username, password, calendarName string, logger *zap.Logger) (*CalDAVSyncer, error) {
	httpClient := webdav.HTTPClientWithBasicAuth(&http.Client{Timeout: 30 * time.Second}, username, password)

	caldavClient, err := caldav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("create caldav client: %w", err)
	}
	webdavClient, err := webdav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("create webdav client: %w", err)
	}

	s := &CalDAVSyncer{
		caldavClient: caldavClient,
		webdavClient: webdavClient,
		logger:       logger,
	}

	calendarPath, err := s.findCalendar(ctx, calendarName)
	if err != nil {
		return nil, fmt.Errorf("find calendar %q: %w", calendarName, err)
	}
	s.calendarPath = calendarPath

	logger.Info("CalDAV calendar found", zap.String("path", calendarPath))
	return s, nil
}

func (s *CalDAVSyncer) eventPath(uid string) string {
	return path.Join(s.calendarPath, uid+".ics")
}

func (s *CalDAVSyncer) Upsert(ctx context.Context, e Event) (string, error) {
	p := s.eventPath(e.UID)

	w, err := s.webdavClient.Create(ctx, p)
	if err != nil {
		return "", fmt.Errorf("create caldav event: %w", err)
	}
	if err := ical.NewEncoder(w).Encode(newCalendar(e, time.Now())); err != nil {
		w.Close()
		return "", fmt.Errorf("encode caldav event: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload caldav event: %w", err)
	}

	s.logger.Debug("CalDAV event synced", zap.String("uid", e.UID))
	return e.UID, nil
}

func (s *CalDAVSyncer) Remove(ctx context.Context, eventID string) error {
	if err := s.webdavClient.RemoveAll(ctx, s.eventPath(eventID)); err != nil {
		return fmt.Errorf("remove caldav event: %w", err)
	}
	return nil
}

func (s *CalDAVSyncer) findCalendar(ctx context.Context, name string) (string, error) {
	principal, err := s.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("find principal: %w", err)
	}
	homeSet, err := s.caldavClient.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("find calendar home set: %w", err)
	}
	calendars, err := s.caldavClient.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("find calendars: %w", err)
	}

	for _, c := range calendars {
		if strings.EqualFold(c.Name, name) {
			return c.Path, nil
		}
	}
	return "", fmt.Errorf("no calendar named %q", name)
}
