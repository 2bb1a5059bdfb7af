package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlots(t *testing.T) {
	slots := GenerateSlots(Window{tod(9, 0), tod(10, 0)}, 30)
	require.Len(t, slots, 2)
	assert.Equal(t, Window{tod(9, 0), tod(9, 30)}, slots[0])
	assert.Equal(t, Window{tod(9, 30), tod(10, 0)}, slots[1])
}

func TestGenerateSlotsSingleBlock(t *testing.T) {
	w := Window{tod(14, 0), tod(15, 0)}
	assert.Equal(t, []Window{w}, GenerateSlots(w, 0))
}

func TestGenerateSlotsDropsRemainder(t *testing.T) {
	slots := GenerateSlots(Window{tod(9, 0), tod(10, 10)}, 20)
	require.Len(t, slots, 3)
	assert.Equal(t, tod(10, 0), slots[2].End)
}

func TestGenerateSlotsShorterThanSlice(t *testing.T) {
	assert.Empty(t, GenerateSlots(Window{tod(9, 0), tod(9, 20)}, 30))
	assert.Empty(t, GenerateSlots(Window{tod(9, 0), tod(9, 0)}, 0))
}

func TestGenerateSlotsProperties(t *testing.T) {
	for start := 0; start < 120; start += 5 {
		for length := 1; length <= 240; length += 7 {
			for _, d := range []int{5, 15, 20, 30, 45, 60} {
				w := Window{tod(8, 0).Add(start), tod(8, 0).Add(start + length)}
				slots := GenerateSlots(w, d)

				if len(slots) == 0 {
					if length >= d {
						t.Fatalf("no slots for %v with slice %d", w, d)
					}
					continue
				}
				if slots[0].Start != w.Start {
					t.Fatalf("first slot %v does not start at %s", slots[0], w.Start)
				}
				for i, s := range slots {
					if s.Minutes() != d {
						t.Fatalf("slot %v has length %d, want %d", s, s.Minutes(), d)
					}
					if i > 0 && s.Start != slots[i-1].End {
						t.Fatalf("slots %v and %v are not contiguous", slots[i-1], s)
					}
				}
				last := slots[len(slots)-1]
				if last.End > w.End || int(w.End-last.End) >= d {
					t.Fatalf("bad tail %v for window %v slice %d", last, w, d)
				}
			}
		}
	}
}
