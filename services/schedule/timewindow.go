package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidTimeFormat  = errors.New("invalid time format")
	ErrInvalidRangeFormat = errors.New("invalid time range format")
)

// Accepted time-of-day layouts, tried in order against the upper-cased input.
var timeLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Minutes returns the minutes elapsed since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Minutes() < o.Minutes()
}

// On places the time of day on the calendar date of d, in d's location.
func (t TimeOfDay) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, 0, 0, d.Location())
}

// String renders the 12-hour form used in customer-facing text, e.g. "09:00 AM".
func (t TimeOfDay) String() string {
	return time.Date(2000, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format("03:04 PM")
}

// TimeWindow is a same-day interval with Start strictly before End.
type TimeWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Contains reports whether t falls in [Start, End).
func (w TimeWindow) Contains(t TimeOfDay) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%s - %s", w.Start, w.End)
}

// ParseTimeOfDay accepts "10:30 AM", "10:30AM" and "14:30", case-insensitive.
func ParseTimeOfDay(text string) (TimeOfDay, error) {
	normalized := strings.ToUpper(strings.TrimSpace(text))
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, normalized); err == nil {
			return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
}

// ParseTimeRange parses "<start>-<end>". Spaces are dropped before splitting on "-";
// if that does not give two parts the original text is split on " - " instead.
func ParseTimeRange(text string) (TimeWindow, error) {
	parts := strings.Split(strings.ReplaceAll(text, " ", ""), "-")
	if len(parts) != 2 {
		parts = strings.Split(text, " - ")
	}
	if len(parts) != 2 {
		return TimeWindow{}, fmt.Errorf("%w: %q", ErrInvalidRangeFormat, text)
	}

	start, err := ParseTimeOfDay(parts[0])
	if err != nil {
		return TimeWindow{}, fmt.Errorf("%w: %q: %v", ErrInvalidRangeFormat, text, err)
	}
	end, err := ParseTimeOfDay(parts[1])
	if err != nil {
		return TimeWindow{}, fmt.Errorf("%w: %q: %v", ErrInvalidRangeFormat, text, err)
	}
	if !start.Before(end) {
		return TimeWindow{}, fmt.Errorf("%w: %q does not end after it starts", ErrInvalidRangeFormat, text)
	}
	return TimeWindow{Start: start, End: end}, nil
}
