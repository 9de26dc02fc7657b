// Package dates содержит календарную арифметику для окна действия членства.
package dates

import (
	"time"
)

// Today возвращает сегодняшнюю дату в UTC без компоненты времени.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// EndDate считает дату окончания членства: к дате начала прибавляется
// длительность плана в полных месяцах. Если в целевом месяце меньше дней,
// чем в дате начала, день прижимается к последнему дню месяца
// (31 января + 1 месяц = 29 февраля, не 2 марта). Дата фиксируется один
// раз при создании или смене плана и позже не пересчитывается.
func EndDate(start time.Time, durationMonths int) time.Time {
	year, month, day := start.Date()
	firstOfTarget := time.Date(year, month+time.Month(durationMonths), 1, 0, 0, 0, 0, start.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, start.Location())
}

// IsExpired сообщает, прошла ли дата окончания относительно now.
// Предикат используется только для отображения: активность членства
// определяется флагом, а не датой.
func IsExpired(end, now time.Time) bool {
	return now.After(end)
}
