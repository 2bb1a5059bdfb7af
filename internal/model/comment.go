package model

import "time"

type AppointmentComment struct {
	ID            int64     `json:"id"`
	AppointmentID int64     `json:"appointment_id"`
	AuthorID      int64     `json:"author_id"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"created_at"`
}
