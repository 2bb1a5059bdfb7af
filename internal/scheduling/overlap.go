package scheduling

import "github.com/Freeeeeet/officehours_bot/internal/timewindow"

// Window полуинтервал [Start, End) внутри одного дня
type Window struct {
	Start timewindow.TimeOfDay
	End   timewindow.TimeOfDay
}

func (w Window) Minutes() int {
	return int(w.End - w.Start)
}

// Overlaps проверяет пересечение полуинтервалов [s1,e1) и [s2,e2).
// Касание концами пересечением не считается.
func Overlaps(s1, e1, s2, e2 timewindow.TimeOfDay) bool {
	return s1 < e2 && e1 > s2
}

// HasConflict проверяет, пересекается ли candidate хотя бы с одним окном
func HasConflict(candidate Window, existing []Window) bool {
	for _, w := range existing {
		if Overlaps(candidate.Start, candidate.End, w.Start, w.End) {
			return true
		}
	}
	return false
}
