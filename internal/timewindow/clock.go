package timewindow

import "time"

// Clock источник текущего времени в опорной зоне
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock всегда возвращает одно и то же время
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

// Today возвращает текущий календарный день по часам clock
func Today(clock Clock) time.Time {
	return DateOf(clock.Now())
}

// IsFutureOrToday проверяет что дата не раньше сегодняшней
func IsFutureOrToday(clock Clock, date time.Time) bool {
	return !DateOf(date).Before(Today(clock))
}
