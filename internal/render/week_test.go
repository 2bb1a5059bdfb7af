package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekImage(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	appts := []*model.Appointment{
		{ID: 1, Date: monday, StartTime: timewindow.NewTimeOfDay(9, 0), EndTime: timewindow.NewTimeOfDay(9, 30), Status: model.AppointmentStatusReserved},
		{ID: 2, Date: monday, StartTime: timewindow.NewTimeOfDay(9, 30), EndTime: timewindow.NewTimeOfDay(10, 0), Status: model.AppointmentStatusPosted},
		{ID: 3, Date: monday.AddDate(0, 0, 14), StartTime: timewindow.NewTimeOfDay(6, 0), EndTime: timewindow.NewTimeOfDay(7, 0)},
	}

	data, err := WeekImage(monday.AddDate(0, 0, 3), time.Date(2025, 3, 11, 9, 15, 0, 0, time.UTC), appts, map[int64]string{1: "Анна Иванова-Петрова"})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestVisibleHours(t *testing.T) {
	h := visibleHours([]*model.Appointment{
		{StartTime: timewindow.NewTimeOfDay(9, 0), EndTime: timewindow.NewTimeOfDay(10, 30)},
	})
	assert.Equal(t, hourRange{start: 8, end: 12, total: 4}, h)

	assert.Equal(t, hourRange{start: 7, end: 21, total: 14}, visibleHours(nil))

	late := visibleHours([]*model.Appointment{
		{StartTime: timewindow.NewTimeOfDay(22, 0), EndTime: timewindow.NewTimeOfDay(23, 59)},
	})
	assert.Equal(t, 24, late.end)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "короткое", truncate("короткое", 10))
	assert.Equal(t, "очень длин…", truncate("очень длинная подпись", 11))
}
