package scheduling

import (
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
)

// Scope гранулярность лимита встреч
type Scope int

const (
	ScopeNone Scope = iota
	ScopeDay
	ScopeWeek
	ScopeMonth
)

func (s Scope) String() string {
	switch s {
	case ScopeDay:
		return "daily"
	case ScopeWeek:
		return "weekly"
	case ScopeMonth:
		return "monthly"
	default:
		return "none"
	}
}

// Limits лимиты программы; nil означает отсутствие ограничения
type Limits struct {
	Daily   *int
	Weekly  *int
	Monthly *int
}

func (l Limits) IsZero() bool {
	return l.Daily == nil && l.Weekly == nil && l.Monthly == nil
}

// Counts число reserved+pending встреч хоста в каждом окне
type Counts struct {
	Daily   int
	Weekly  int
	Monthly int
}

// Decision результат проверки лимитов
type Decision struct {
	Admit   bool
	Blocked Scope
}

// Evaluate решает, можно ли принять ещё одну встречу.
// Проверки идут от месяца к дню, поэтому при нескольких нарушениях
// в Blocked остаётся самая мелкая гранулярность.
func Evaluate(counts Counts, limits Limits) Decision {
	d := Decision{Admit: true, Blocked: ScopeNone}
	if exceeded(counts.Monthly, limits.Monthly) {
		d = Decision{Admit: false, Blocked: ScopeMonth}
	}
	if exceeded(counts.Weekly, limits.Weekly) {
		d = Decision{Admit: false, Blocked: ScopeWeek}
	}
	if exceeded(counts.Daily, limits.Daily) {
		d = Decision{Admit: false, Blocked: ScopeDay}
	}
	return d
}

// FilledScope возвращает окно, которое заполнится принятием ещё одной встречи
// (count+1 == limit). Приоритет: день, неделя, месяц.
func FilledScope(before Counts, limits Limits) Scope {
	switch {
	case fills(before.Daily, limits.Daily):
		return ScopeDay
	case fills(before.Weekly, limits.Weekly):
		return ScopeWeek
	case fills(before.Monthly, limits.Monthly):
		return ScopeMonth
	default:
		return ScopeNone
	}
}

// ScopeRange возвращает границы окна (включительно) для даты
func ScopeRange(scope Scope, date time.Time) (time.Time, time.Time) {
	switch scope {
	case ScopeWeek:
		return timewindow.WeekRange(date)
	case ScopeMonth:
		return timewindow.MonthRange(date)
	default:
		return timewindow.DayRange(date)
	}
}

func exceeded(count int, limit *int) bool {
	return limit != nil && count >= *limit
}

func fills(count int, limit *int) bool {
	return limit != nil && count+1 == *limit
}
