package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
)

// StatusDisplay emoji и подпись статуса встречи
type StatusDisplay struct {
	Emoji string
	Text  string
}

var statusDisplays = map[model.AppointmentStatus]StatusDisplay{
	model.AppointmentStatusPosted:    {"🟢", "Свободно"},
	model.AppointmentStatusPending:   {"⏳", "Ожидает подтверждения"},
	model.AppointmentStatusReserved:  {"✅", "Забронировано"},
	model.AppointmentStatusRejected:  {"🚫", "Отклонено"},
	model.AppointmentStatusInactive:  {"⚪", "Недоступно"},
	model.AppointmentStatusCanceled:  {"❌", "Отменено"},
	model.AppointmentStatusCompleted: {"🏁", "Состоялась"},
	model.AppointmentStatusMissed:    {"👻", "Пропущена"},
}

func GetStatusDisplay(status model.AppointmentStatus) StatusDisplay {
	if d, ok := statusDisplays[status]; ok {
		return d
	}
	return StatusDisplay{Emoji: "❔", Text: string(status)}
}

var weekdays = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// FormatDate 10.03.2025 (Пн)
func FormatDate(d time.Time) string {
	return fmt.Sprintf("%s (%s)", d.Format("02.01.2006"), weekdays[d.Weekday()])
}

// FormatSlot короткая строка слота для кнопок и списков
func FormatSlot(a *model.Appointment) string {
	return fmt.Sprintf("%s %s-%s", a.Date.Format("02.01"), a.StartTime, a.EndTime)
}

// FormatAppointment карточка встречи
func FormatAppointment(a *model.Appointment) string {
	d := GetStatusDisplay(a.Status)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Встреча #%d\n", d.Emoji, a.ID)
	if a.Program != nil {
		fmt.Fprintf(&sb, "📚 %s\n", a.Program.Name)
	}
	fmt.Fprintf(&sb, "📅 %s, %s-%s\n", FormatDate(a.Date), a.StartTime, a.EndTime)
	fmt.Fprintf(&sb, "📊 %s\n", d.Text)
	if a.Host != nil {
		fmt.Fprintf(&sb, "👤 Ведущий: %s\n", a.Host.DisplayName())
	}
	if a.Attendee != nil {
		fmt.Fprintf(&sb, "🙋 Участник: %s\n", a.Attendee.DisplayName())
	}
	if a.PhysicalLocation != "" {
		fmt.Fprintf(&sb, "📍 %s\n", a.PhysicalLocation)
	}
	if a.MeetingURL != "" {
		fmt.Fprintf(&sb, "🔗 %s\n", a.MeetingURL)
	}
	if a.Notes != "" {
		fmt.Fprintf(&sb, "📝 %s\n", a.Notes)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatProgram описание программы для хоста
func FormatProgram(p *model.Program) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 #%d %s\n", p.ID, p.Name)
	switch {
	case p.IsDropIn:
		sb.WriteString("🚪 Drop-in, без записи\n")
	case p.Duration == 0:
		sb.WriteString("⏱ Одно окно целиком\n")
	default:
		fmt.Fprintf(&sb, "⏱ Слоты по %d мин\n", p.Duration)
	}
	if !p.IsDropIn {
		if p.AutoApprove {
			sb.WriteString("✅ Подтверждение автоматически\n")
		} else {
			sb.WriteString("⏳ Требуется подтверждение\n")
		}
		fmt.Fprintf(&sb, "📈 Лимиты: %s\n", FormatLimits(p))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatLimits день/неделя/месяц, "-" когда лимита нет
func FormatLimits(p *model.Program) string {
	part := func(v *int) string {
		if v == nil || *v == 0 {
			return "-"
		}
		return fmt.Sprint(*v)
	}
	return fmt.Sprintf("день %s, неделя %s, месяц %s", part(p.MaxDaily), part(p.MaxWeekly), part(p.MaxMonthly))
}

func FormatAvailability(a *model.Availability) string {
	status := "🟢"
	if !a.IsActive() {
		status = "⚪"
	}
	return fmt.Sprintf("%s #%d %s %s-%s", status, a.ID, FormatDate(a.Date), a.StartTime, a.EndTime)
}
