package model

import "time"

// Feedback отзыв по встрече: у каждой стороны своя оценка и заметки
type Feedback struct {
	ID             int64     `json:"id"`
	AppointmentID  int64     `json:"appointment_id"`
	AttendeeID     *int64    `json:"attendee_id"`
	HostID         int64     `json:"host_id"`
	AttendeeRating *int      `json:"attendee_rating"`
	AttendeeNotes  string    `json:"attendee_notes"`
	HostRating     *int      `json:"host_rating"`
	HostNotes      string    `json:"host_notes"`
	UpdatedAt      time.Time `json:"updated_at"`
}
