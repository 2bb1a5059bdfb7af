// Package render рисует недельное расписание хоста в PNG.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type fontStyle int

const (
	fontRegular fontStyle = iota
	fontMedium
	fontBold
)

const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 150
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	daysInWeek       = 7
	hourPadding      = 1
)

const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 16.0
	slotTimeFontSize   = 15.0
	legendItemFontSize = 13.0
)

var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 90}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{225, 225, 225, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}
	slotTextColor    = color.RGBA{20, 24, 28, 230}
	slotShadowColor  = color.RGBA{0, 0, 0, 20}
	legendItemColor  = color.RGBA{70, 74, 78, 220}
)

// Цвет слота по статусу встречи
var statusColors = map[model.AppointmentStatus]color.RGBA{
	model.AppointmentStatusPosted:    {133, 193, 85, 220},
	model.AppointmentStatusPending:   {255, 206, 84, 230},
	model.AppointmentStatusReserved:  {255, 182, 193, 255},
	model.AppointmentStatusInactive:  {190, 190, 190, 200},
	model.AppointmentStatusCompleted: {140, 170, 220, 220},
}

var defaultSlotColor = color.RGBA{220, 220, 220, 200}

var legend = []struct {
	label  string
	status model.AppointmentStatus
}{
	{"Свободно", model.AppointmentStatusPosted},
	{"Ожидает", model.AppointmentStatusPending},
	{"Забронировано", model.AppointmentStatusReserved},
	{"Выключено", model.AppointmentStatusInactive},
	{"Прошло", model.AppointmentStatusCompleted},
}

var fonts = struct {
	once   sync.Once
	parsed map[fontStyle]*opentype.Font
}{}

func parseFonts() {
	fonts.parsed = make(map[fontStyle]*opentype.Font)
	for style, data := range map[fontStyle][]byte{
		fontRegular: goregular.TTF,
		fontMedium:  gomedium.TTF,
		fontBold:    gobold.TTF,
	} {
		if f, err := opentype.Parse(data); err == nil {
			fonts.parsed[style] = f
		}
	}
}

// setFont ставит шрифт нужного размера, при ошибке откатывается на basicfont
func setFont(dc *gg.Context, size float64, style fontStyle) {
	fonts.once.Do(parseFonts)

	if f := fonts.parsed[style]; f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

type hourRange struct {
	start int
	end   int
	total int
}

// WeekImage рисует неделю, содержащую day. Встречи вне недели пропускаются.
// labels: подписи к слотам по id встречи (например, имя участника).
func WeekImage(day, now time.Time, appointments []*model.Appointment, labels map[int64]string) ([]byte, error) {
	weekStart, weekEnd := timewindow.WeekRange(day)
	today := timewindow.DateOf(now)
	highlightToday := !today.Before(weekStart) && !today.After(weekEnd)

	byDay := make(map[string][]*model.Appointment)
	var inWeek []*model.Appointment
	for _, a := range appointments {
		d := timewindow.DateOf(a.Date)
		if d.Before(weekStart) || d.After(weekEnd) {
			continue
		}
		key := timewindow.FormatDate(d)
		byDay[key] = append(byDay[key], a)
		inWeek = append(inWeek, a)
	}
	hours := visibleHours(inWeek)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / daysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawTitle(dc, weekStart, weekEnd)
	drawHourLabels(dc, hours, cellHeight)

	for i := 0; i < daysInWeek; i++ {
		date := weekStart.AddDate(0, 0, i)
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)

		switch {
		case highlightToday && date.Equal(today):
			dc.SetColor(todayBgColor)
		case i%2 == 0:
			dc.SetColor(evenDayColor)
		default:
			dc.SetColor(oddDayColor)
		}
		dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
		dc.Fill()

		setFont(dc, dayFontSize, fontBold)
		dc.SetColor(textColor)
		dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
		dc.DrawStringAnchored(weekdayShort[date.Weekday()], x+float64(dayWidth)/2, y, 0.5, -0.2)

		dc.SetLineWidth(0.3)
		dc.SetColor(hourLineColor)
		for h := 0; h <= hours.total; h++ {
			hy := y + float64(h)*cellHeight
			dc.DrawLine(x, hy, x+float64(dayWidth), hy)
			dc.Stroke()
		}

		for _, a := range byDay[timewindow.FormatDate(date)] {
			drawAppointment(dc, a, labels[a.ID], x, y, dayWidth, hours, cellHeight)
		}
	}

	if highlightToday {
		drawNowLine(dc, now, hours, cellHeight, dayWidth)
	}
	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}

// visibleHours диапазон часов по встречам с запасом; без встреч рабочий день
func visibleHours(list []*model.Appointment) hourRange {
	minHour, maxHour := 24, 0
	for _, a := range list {
		end := a.EndTime.Hour()
		if a.EndTime.Minute() > 0 {
			end++
		}
		minHour = min(minHour, a.StartTime.Hour())
		maxHour = max(maxHour, end)
	}
	if minHour == 24 {
		minHour, maxHour = 8, 20
	}

	start := max(minHour-hourPadding, 0)
	end := min(maxHour+hourPadding, 24)
	return hourRange{start: start, end: end, total: end - start}
}

func drawTitle(dc *gg.Context, start, end time.Time) {
	title := monthNames[start.Month()]
	if start.Month() != end.Month() {
		title += " - " + monthNames[end.Month()]
	}
	title += fmt.Sprintf(" %d", end.Year())

	setFont(dc, titleFontSize, fontBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/4, 0, 0.5)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	setFont(dc, hourLabelFontSize, fontMedium)
	dc.SetColor(hourLabelColor)
	for h := 0; h <= hours.total; h++ {
		y := float64(headerHeight) + float64(h)*cellHeight
		label := timewindow.NewTimeOfDay((hours.start+h)%24, 0).String()
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawAppointment(dc *gg.Context, a *model.Appointment, label string, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := float64(a.StartTime) / 60
	endHour := float64(a.EndTime) / 60

	slotY := y + (startHour-float64(hours.start))*cellHeight
	slotHeight := max((endHour-startHour)*cellHeight, minSlotHeight)
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	fill, ok := statusColors[a.Status]
	if !ok {
		fill = defaultSlotColor
	}

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darken(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Stroke()

	txtX := x + dayPaddingX + 8
	txtY := slotY + 18
	setFont(dc, slotTimeFontSize, fontMedium)
	dc.SetColor(slotTextColor)
	dc.DrawStringAnchored(a.StartTime.String(), txtX, txtY, 0, 0)

	if label != "" && slotHeight > 36 {
		setFont(dc, slotTimeFontSize-2, fontRegular)
		dc.DrawStringAnchored(truncate(label, 18), txtX, txtY+16, 0, 0)
	}
}

func drawNowLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	current := float64(now.Hour()) + float64(now.Minute())/60
	if current < float64(hours.start) || current > float64(hours.end) {
		return
	}

	y := float64(headerHeight) + (current-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2)
	dc.DrawLine(float64(leftLabelsWidth), y, float64(leftLabelsWidth+daysInWeek*dayWidth), y)
	dc.Stroke()
}

func drawLegend(dc *gg.Context, dayWidth int) {
	const boxW, boxH = 20.0, 14.0
	x := float64(leftLabelsWidth + daysInWeek*dayWidth + 10)
	y := float64(imageHeight) - float64(len(legend))*(boxH+14) - 20

	setFont(dc, legendItemFontSize, fontRegular)
	for _, item := range legend {
		dc.SetColor(statusColors[item.status])
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.label, x+boxW+8, y+boxH/2+1, 0, 0.2)
		y += boxH + 14
	}
}

func darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// truncate режет по рунам, а не байтам: подписи обычно на кириллице
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

var weekdayShort = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

var monthNames = map[time.Month]string{
	time.January:   "Январь",
	time.February:  "Февраль",
	time.March:     "Март",
	time.April:     "Апрель",
	time.May:       "Май",
	time.June:      "Июнь",
	time.July:      "Июль",
	time.August:    "Август",
	time.September: "Сентябрь",
	time.October:   "Октябрь",
	time.November:  "Ноябрь",
	time.December:  "Декабрь",
}
