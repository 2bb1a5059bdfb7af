package timewindow

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// DefaultMinWindow минимальная длительность окна доступности
	DefaultMinWindow = 30 * time.Minute
)

var ErrInvalidFormat = errors.New("invalid format")

// TimeOfDay время суток в минутах от полуночи
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Add сдвигает время на заданное число минут
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// Until возвращает длительность от t до end
func (t TimeOfDay) Until(end TimeOfDay) time.Duration {
	return time.Duration(end-t) * time.Minute
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	d, err := time.Parse(DateLayout, s)
	if err != nil || len(s) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("%w: date %q, expected YYYY-MM-DD", ErrInvalidFormat, s)
	}
	return d, nil
}

// ParseTime разбирает время в 24-часовом формате HH:MM
func ParseTime(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(TimeLayout, s)
	if err != nil || len(s) != len(TimeLayout) {
		return 0, fmt.Errorf("%w: time %q, expected HH:MM", ErrInvalidFormat, s)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

// FormatDate форматирует дату обратно в YYYY-MM-DD
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// IsAtLeast проверяет что end > start и окно не короче min
func IsAtLeast(min time.Duration, start, end TimeOfDay) bool {
	return end > start && start.Until(end) >= min
}

// DateOf отбрасывает время и зону, оставляя календарный день в UTC
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Combine собирает абсолютный момент из календарного дня и времени суток в зоне loc
func Combine(date time.Time, tod TimeOfDay, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour(), tod.Minute(), 0, 0, loc)
}

// DayRange день как диапазон из одной даты
func DayRange(date time.Time) (time.Time, time.Time) {
	d := DateOf(date)
	return d, d
}

// WeekRange возвращает понедельник и воскресенье недели, содержащей date
func WeekRange(date time.Time) (time.Time, time.Time) {
	d := DateOf(date)
	offset := (int(d.Weekday()) + 6) % 7
	start := d.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// MonthRange возвращает первый и последний день месяца
func MonthRange(date time.Time) (time.Time, time.Time) {
	d := DateOf(date)
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// LoadLocation возвращает опорную зону сервиса: по имени IANA либо фиксированное смещение
func LoadLocation(name string, offsetMinutes int) (*time.Location, error) {
	if name = strings.TrimSpace(name); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("load location %q: %w", name, err)
		}
		return loc, nil
	}
	sign := "+"
	abs := offsetMinutes
	if offsetMinutes < 0 {
		sign = "-"
		abs = -offsetMinutes
	}
	label := fmt.Sprintf("UTC%s%02d:%02d", sign, abs/60, abs%60)
	return time.FixedZone(label, offsetMinutes*60), nil
}
