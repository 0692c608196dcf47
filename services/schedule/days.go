package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/Adriel2503/agente-reserva/models"
)

const (
	dateLayout = "2006-01-02"

	DefaultDurationMinutes = 60
	DefaultSlots           = 60
)

// ScheduleProvider is satisfied by *Fetcher.
type ScheduleProvider interface {
	FetchSchedule(ctx context.Context, companyID int) (models.WeeklySchedule, error)
}

// Day entries that mean the company does not take appointments that day.
var closedSentinels = map[string]struct{}{
	"NO DISPONIBLE": {},
	"CERRADO":       {},
	"NO ATIENDE":    {},
	"-":             {},
	"N/A":           {},
	"":              {},
}

// IsClosed reports whether a day entry is one of the closed sentinels.
func IsClosed(entry string) bool {
	_, closed := closedSentinels[strings.ToUpper(strings.TrimSpace(entry))]
	return closed
}

// isoWeekday maps Monday to 0 and Sunday to 6.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
