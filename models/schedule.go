package models

// ScheduleDayKeys are the information service fields for each weekday, Monday first.
var ScheduleDayKeys = [7]string{
	"reunion_lunes",
	"reunion_martes",
	"reunion_miercoles",
	"reunion_jueves",
	"reunion_viernes",
	"reunion_sabado",
	"reunion_domingo",
}

// WeekdayNames follows the same Monday-first order as ScheduleDayKeys.
var WeekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// BlockKind tells which shape the blocked ranges arrived in.
type BlockKind int

const (
	BlocksNone BlockKind = iota
	BlocksStructured
	BlocksFreeText
)

// BlockedRange is one structured blocked interval.
type BlockedRange struct {
	Date  string `json:"fecha"`  // "2025-03-14"
	Start string `json:"inicio"` // "10:00 AM" or "10:00"
	End   string `json:"fin"`    // exclusive
}

// BlockedRanges holds structured blocks and free-text entries. Kind is
// BlocksStructured whenever any object entry was present; a mixed array keeps both.
type BlockedRanges struct {
	Kind    BlockKind      `json:"kind"`
	Blocks  []BlockedRange `json:"blocks,omitempty"`
	Entries []string       `json:"entries,omitempty"` // "<date> <start>-<end>"
}

// WeeklySchedule is a company's opening hours.
type WeeklySchedule struct {
	Days    [7]string     `json:"days"` // ISO weekday index; "" means not configured
	Blocked BlockedRanges `json:"blocked"`
}

// Day returns the raw entry for an ISO weekday (Monday=0) and whether it is configured.
func (w WeeklySchedule) Day(isoWeekday int) (string, bool) {
	if isoWeekday < 0 || isoWeekday > 6 {
		return "", false
	}
	entry := w.Days[isoWeekday]
	return entry, entry != ""
}
