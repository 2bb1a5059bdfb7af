package model

import (
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/scheduling"
)

// Program тип консультаций хоста: длительность слота, политика одобрения и лимиты
type Program struct {
	ID               int64     `json:"id"`
	HostID           int64     `json:"host_id"`
	GroupID          *int64    `json:"group_id"` // nil: глобальная программа
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	PhysicalLocation string    `json:"physical_location"`
	MeetingURL       string    `json:"meeting_url"`
	Duration         int       `json:"duration"` // в минутах, 0 без нарезки
	AutoApprove      bool      `json:"auto_approve"`
	MaxDaily         *int      `json:"max_daily_meetings"`
	MaxWeekly        *int      `json:"max_weekly_meetings"`
	MaxMonthly       *int      `json:"max_monthly_meetings"`
	IsDropIn         bool      `json:"is_drop_in"`
	IsRangeBased     bool      `json:"is_range_based"`
	CreatedAt        time.Time `json:"created_at"`
}

func (p *Program) Limits() scheduling.Limits {
	return scheduling.Limits{
		Daily:   p.MaxDaily,
		Weekly:  p.MaxWeekly,
		Monthly: p.MaxMonthly,
	}
}
