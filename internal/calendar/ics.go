// Package calendar строит .ics встреч и синхронизирует их с внешними календарями.
package calendar

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
)

const productID = "-//officehours_bot//RU"

type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Organizer   string
	Attendees   []string
}

// Syncer зеркалирует подтверждённые встречи во внешний календарь.
// Upsert возвращает идентификатор события на стороне календаря.
type Syncer interface {
	Upsert(ctx context.Context, e Event) (string, error)
	Remove(ctx context.Context, eventID string) error
}

func newCalendar(e Event, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, toVEvent(e, stamp))
	return cal
}

func toVEvent(e Event, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.UID)
	ve.Props.SetText(ical.PropSummary, e.Summary)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, e.End.UTC())

	if e.Description != "" {
		ve.Props.SetText(ical.PropDescription, e.Description)
	}
	if e.Location != "" {
		ve.Props.SetText(ical.PropLocation, e.Location)
	}
	if e.Organizer != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.SetText("mailto:" + e.Organizer)
		ve.Props.Add(p)
	}
	for _, a := range e.Attendees {
		p := ical.NewProp(ical.PropAttendee)
		p.SetText("mailto:" + a)
		ve.Props.Add(p)
	}
	return ve
}

// BuildICS кодирует событие в iCalendar для вложения в письмо
func BuildICS(e Event) ([]byte, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(newCalendar(e, time.Now())); err != nil {
		return nil, fmt.Errorf("encode ics: %w", err)
	}
	return buf.Bytes(), nil
}
