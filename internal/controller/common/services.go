package common

import "github.com/Freeeeeet/officehours_bot/internal/service"

// Services сервисный слой, доступный обработчикам команд и callback'ов
type Services struct {
	Users        *service.UserService
	Programs     *service.ProgramService
	Availability *service.AvailabilityService
	Reservations *service.ReservationService
	Comments     *service.CommentService
	Feedback     *service.FeedbackService
}
