package model

import (
	"strings"
	"time"
)

// Role роль пользователя, выдаётся провайдером идентичности
type Role string

const (
	RoleAttendee Role = "attendee"
	RoleHost     Role = "host"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAttendee, RoleHost, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	LanguageCode string    `json:"language_code"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) IsHost() bool     { return u.Role == RoleHost }
func (u *User) IsAttendee() bool { return u.Role == RoleAttendee }
func (u *User) IsAdmin() bool    { return u.Role == RoleAdmin }

// DisplayName имя для уведомлений и подписей
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.Email
}
