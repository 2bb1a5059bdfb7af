package state

// UserState текущий шаг диалога пользователя
type UserState string

const (
	StateNone UserState = ""

	// Участник выбрал слот и вводит тему встречи
	StateReserveNotes UserState = "reserve_notes"
)

// Ключи временных данных диалога
const (
	KeyAppointmentID = "appointment_id"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]any
}
