package model

import (
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/scheduling"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
)

type AvailabilityStatus string

const (
	AvailabilityStatusActive   AvailabilityStatus = "active"
	AvailabilityStatusInactive AvailabilityStatus = "inactive"
)

type Availability struct {
	ID        int64                `json:"id"`
	HostID    int64                `json:"host_id"`
	ProgramID int64                `json:"program_id"`
	Date      time.Time            `json:"date"`
	StartTime timewindow.TimeOfDay `json:"start_time"`
	EndTime   timewindow.TimeOfDay `json:"end_time"`
	Status    AvailabilityStatus   `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

func (a *Availability) Window() scheduling.Window {
	return scheduling.Window{Start: a.StartTime, End: a.EndTime}
}

func (a *Availability) IsActive() bool {
	return a.Status == AvailabilityStatusActive
}
