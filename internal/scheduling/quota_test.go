package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func limit(n int) *int { return &n }

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name   string
		counts Counts
		limits Limits
		want   Decision
	}{
		{"no limits", Counts{10, 10, 10}, Limits{}, Decision{Admit: true}},
		{"under all", Counts{0, 1, 2}, Limits{limit(1), limit(2), limit(3)}, Decision{Admit: true}},
		{"daily hit", Counts{1, 1, 1}, Limits{Daily: limit(1)}, Decision{Blocked: ScopeDay}},
		{"weekly hit", Counts{0, 3, 3}, Limits{Daily: limit(2), Weekly: limit(3)}, Decision{Blocked: ScopeWeek}},
		{"monthly hit", Counts{0, 0, 5}, Limits{Monthly: limit(5)}, Decision{Blocked: ScopeMonth}},
		{"monthly and weekly", Counts{0, 4, 8}, Limits{Weekly: limit(4), Monthly: limit(8)}, Decision{Blocked: ScopeWeek}},
		{"all three", Counts{2, 4, 8}, Limits{limit(2), limit(4), limit(8)}, Decision{Blocked: ScopeDay}},
		{"zero limit", Counts{}, Limits{Daily: limit(0)}, Decision{Blocked: ScopeDay}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.counts, tc.limits))
		})
	}
}

func TestFilledScope(t *testing.T) {
	assert.Equal(t, ScopeNone, FilledScope(Counts{}, Limits{}))
	assert.Equal(t, ScopeDay, FilledScope(Counts{0, 0, 0}, Limits{Daily: limit(1)}))
	assert.Equal(t, ScopeDay, FilledScope(Counts{1, 2, 3}, Limits{limit(2), limit(3), limit(4)}))
	assert.Equal(t, ScopeWeek, FilledScope(Counts{0, 2, 2}, Limits{limit(2), limit(3), limit(3)}))
	assert.Equal(t, ScopeMonth, FilledScope(Counts{0, 0, 9}, Limits{Monthly: limit(10)}))
	assert.Equal(t, ScopeNone, FilledScope(Counts{0, 0, 5}, Limits{Monthly: limit(10)}))
}

func TestQuotaSequence(t *testing.T) {
	// при дневном лимите N принимаются ровно N встреч, последняя закрывает день
	const n = 3
	limits := Limits{Daily: limit(n)}
	var counts Counts
	for i := 0; i < n; i++ {
		d := Evaluate(counts, limits)
		assert.True(t, d.Admit, "attempt %d", i+1)
		if i == n-1 {
			assert.Equal(t, ScopeDay, FilledScope(counts, limits))
		} else {
			assert.Equal(t, ScopeNone, FilledScope(counts, limits))
		}
		counts.Daily++
	}
	assert.Equal(t, Decision{Blocked: ScopeDay}, Evaluate(counts, limits))
}

func TestScopeRange(t *testing.T) {
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	from, to := ScopeRange(ScopeDay, date)
	assert.Equal(t, date, from)
	assert.Equal(t, date, to)

	from, to = ScopeRange(ScopeWeek, date)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), to)

	from, to = ScopeRange(ScopeMonth, date)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), to)
}
