package scheduling

import (
	"testing"

	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/stretchr/testify/assert"
)

func tod(h, m int) timewindow.TimeOfDay { return timewindow.NewTimeOfDay(h, m) }

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 timewindow.TimeOfDay
		want           bool
	}{
		{"disjoint", tod(9, 0), tod(10, 0), tod(11, 0), tod(12, 0), false},
		{"touching", tod(9, 0), tod(10, 0), tod(10, 0), tod(11, 0), false},
		{"partial", tod(14, 0), tod(15, 0), tod(14, 30), tod(15, 30), true},
		{"contained", tod(9, 0), tod(12, 0), tod(10, 0), tod(11, 0), true},
		{"identical", tod(9, 0), tod(10, 0), tod(9, 0), tod(10, 0), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.s1, tc.e1, tc.s2, tc.e2))
			assert.Equal(t, tc.want, Overlaps(tc.s2, tc.e2, tc.s1, tc.e1))
		})
	}
}

func TestOverlapsExhaustive(t *testing.T) {
	// все пары интервалов на сетке 15 минут в пределах трёх часов
	var points []timewindow.TimeOfDay
	for m := 0; m <= 180; m += 15 {
		points = append(points, tod(9, 0).Add(m))
	}
	for _, s1 := range points {
		for _, e1 := range points {
			if e1 <= s1 {
				continue
			}
			for _, s2 := range points {
				for _, e2 := range points {
					if e2 <= s2 {
						continue
					}
					got := Overlaps(s1, e1, s2, e2)
					if got != Overlaps(s2, e2, s1, e1) {
						t.Fatalf("not symmetric: [%s,%s) [%s,%s)", s1, e1, s2, e2)
					}
					if e1 == s2 && got {
						t.Fatalf("touching intervals conflict: [%s,%s) [%s,%s)", s1, e1, s2, e2)
					}
				}
			}
		}
	}
}

func TestHasConflict(t *testing.T) {
	existing := []Window{{tod(9, 0), tod(10, 0)}, {tod(14, 0), tod(15, 0)}}

	assert.True(t, HasConflict(Window{tod(14, 30), tod(15, 30)}, existing))
	assert.False(t, HasConflict(Window{tod(10, 0), tod(14, 0)}, existing))
	assert.False(t, HasConflict(Window{tod(9, 0), tod(10, 0)}, nil))
}
