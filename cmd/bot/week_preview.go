package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/render"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/urfave/cli/v2"
)

// weekPreviewCommand рисует сетку недели на демо-данных, чтобы проверить вёрстку без бота и базы
func weekPreviewCommand() *cli.Command {
	return &cli.Command{
		Name:  "week-preview",
		Usage: "Сохранить пример картинки недели в PNG",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "week_preview.png"},
		},
		Action: func(c *cli.Context) error {
			now := time.Now()
			monday, _ := timewindow.WeekRange(now)

			slot := func(id int64, day, hour, minute, length int, status model.AppointmentStatus) *model.Appointment {
				start := timewindow.NewTimeOfDay(hour, minute)
				return &model.Appointment{
					ID:        id,
					Date:      monday.AddDate(0, 0, day),
					StartTime: start,
					EndTime:   start.Add(length),
					Status:    status,
				}
			}

			appointments := []*model.Appointment{
				slot(1, 0, 9, 0, 30, model.AppointmentStatusReserved),
				slot(2, 0, 9, 30, 30, model.AppointmentStatusPosted),
				slot(3, 0, 10, 0, 30, model.AppointmentStatusPending),
				slot(4, 2, 14, 0, 60, model.AppointmentStatusReserved),
				slot(5, 2, 15, 0, 60, model.AppointmentStatusInactive),
				slot(6, 4, 11, 0, 90, model.AppointmentStatusPosted),
				slot(7, 5, 16, 0, 45, model.AppointmentStatusCompleted),
			}
			labels := map[int64]string{1: "Иван Петров", 3: "Анна Смирнова", 4: "Мария Иванова"}

			image, err := render.WeekImage(now, now, appointments, labels)
			if err != nil {
				return err
			}

			out := c.String("out")
			if err := os.WriteFile(out, image, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(c.App.Writer, "Картинка сохранена в %s (%d байт)\n", out, len(image))
			return nil
		},
	}
}
