package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/Adriel2503/agente-reserva/services/remote"
)

var lima = time.FixedZone("PET", -5*60*60)

// Monday 2 March 2026, 08:00 in Lima.
var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, lima)

const (
	nextMonday    = "2026-03-09"
	nextTuesday   = "2026-03-03"
	nextWednesday = "2026-03-04"
)

type stubProvider struct {
	schedule models.WeeklySchedule
	err      error
	calls    int
}

func (p *stubProvider) FetchSchedule(ctx context.Context, companyID int) (models.WeeklySchedule, error) {
	p.calls++
	return p.schedule, p.err
}

type stubAvailability struct {
	available bool
	err       error
	calls     int
	last      remote.AvailabilityQuery
}

func (a *stubAvailability) CheckAvailability(ctx context.Context, q remote.AvailabilityQuery) (bool, error) {
	a.calls++
	a.last = q
	return a.available, a.err
}

func newTestValidator(schedule models.WeeklySchedule) (*Validator, *stubProvider, *stubAvailability) {
	provider := &stubProvider{schedule: schedule}
	availability := &stubAvailability{available: true}
	v := &Validator{
		Schedules:    provider,
		Availability: availability,
		Location:     lima,
		Now:          func() time.Time { return testNow },
	}
	return v, provider, availability
}

func request(date, clock string, minutes int) models.ValidationRequest {
	return models.ValidationRequest{CompanyID: 1, Date: date, Time: clock, DurationMinutes: minutes}
}

func TestValidateWithinHours(t *testing.T) {
	v, _, availability := newTestValidator(mondayOnly("09:00-18:00"))

	result := v.Validate(context.Background(), request(nextMonday, "10:00 AM", 60))

	assert.True(t, result.Valid, result.Reason)
	require.Equal(t, 1, availability.calls)
	assert.Equal(t, time.Date(2026, 3, 9, 10, 0, 0, 0, lima), availability.last.Start)
	assert.Equal(t, time.Date(2026, 3, 9, 11, 0, 0, 0, lima), availability.last.End)
	assert.Equal(t, DefaultSlots, availability.last.Slots)
}

func TestValidateDurationOverflow(t *testing.T) {
	v, _, availability := newTestValidator(mondayOnly("09:00-18:00"))

	result := v.Validate(context.Background(), request(nextMonday, "05:30 PM", 90))

	assert.False(t, result.Valid)
	assert.Contains(t, result.Reason, "would exceed closing time")
	assert.Contains(t, result.Reason, "90-minute")
	assert.Zero(t, availability.calls)
}

func TestValidateClosedDay(t *testing.T) {
	var schedule models.WeeklySchedule
	schedule.Days[1] = "NO DISPONIBLE"
	v, _, _ := newTestValidator(schedule)

	for _, clock := range []string{"09:00 AM", "12:00", "03:45 PM"} {
		result := v.Validate(context.Background(), request(nextTuesday, clock, 60))
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reason, "closed on Tuesday")
	}
}

func TestValidateClosedSentinels(t *testing.T) {
	for _, entry := range []string{"cerrado", " No Atiende ", "-", "n/a", "   "} {
		t.Run(entry, func(t *testing.T) {
			v, _, _ := newTestValidator(mondayOnly(entry))
			result := v.Validate(context.Background(), request(nextMonday, "10:00 AM", 60))
			assert.False(t, result.Valid)
			assert.Contains(t, result.Reason, "closed on Monday")
		})
	}
}

func TestValidatePastIsRejectedBeforeSchedule(t *testing.T) {
	v, provider, _ := newTestValidator(mondayOnly("00:00-23:59"))

	for _, clock := range []string{"07:00 AM", "08:00 AM"} {
		result := v.Validate(context.Background(), request("2026-03-02", clock, 60))
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reason, "already passed")
	}
	result := v.Validate(context.Background(), request("2025-12-31", "10:00 AM", 60))
	assert.Contains(t, result.Reason, "already passed")

	assert.Zero(t, provider.calls)
}

func TestValidateScheduleUnavailableDegradesOpen(t *testing.T) {
	v, provider, availability := newTestValidator(models.WeeklySchedule{})
	provider.err = &remote.Error{Op: "OBTENER_HORARIO_REUNIONES", Kind: remote.KindTimeout}

	result := v.Validate(context.Background(), request(nextMonday, "11:00 PM", 60))

	assert.True(t, result.Valid)
	assert.Equal(t, 1, availability.calls)
}

func TestValidateBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		clock   string
		minutes int
		valid   bool
		reason  string
	}{
		{"at opening", "09:00 AM", 60, true, ""},
		{"one minute before opening", "08:59 AM", 60, false, "outside opening hours"},
		{"at closing", "06:00 PM", 30, false, "outside opening hours"},
		{"ends at closing", "05:00 PM", 60, true, ""},
		{"ends one minute past closing", "05:01 PM", 60, false, "would exceed closing time"},
		{"default duration", "05:30 PM", 0, false, "60-minute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _, _ := newTestValidator(mondayOnly("09:00 AM - 06:00 PM"))
			result := v.Validate(context.Background(), request(nextMonday, tt.clock, tt.minutes))
			assert.Equal(t, tt.valid, result.Valid, result.Reason)
			if tt.reason != "" {
				assert.Contains(t, result.Reason, tt.reason)
			}
		})
	}
}

func TestValidateInputErrors(t *testing.T) {
	v, provider, _ := newTestValidator(mondayOnly("09:00-18:00"))

	result := v.Validate(context.Background(), request("09/03/2026", "10:00 AM", 60))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Reason, "Invalid date format")

	result = v.Validate(context.Background(), request(nextMonday, "10am", 60))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Reason, "Invalid time format")

	assert.Zero(t, provider.calls)
}

func TestValidateMissingDay(t *testing.T) {
	v, _, _ := newTestValidator(mondayOnly("09:00-18:00"))

	result := v.Validate(context.Background(), request(nextWednesday, "10:00 AM", 60))

	assert.False(t, result.Valid)
	assert.Contains(t, result.Reason, "no opening hours configured for Wednesday")
}

func TestValidateUnparseableDayIsOpen(t *testing.T) {
	v, _, _ := newTestValidator(mondayOnly("all day"))

	result := v.Validate(context.Background(), request(nextMonday, "11:30 PM", 120))

	assert.True(t, result.Valid)
}

func TestValidateBlockedRanges(t *testing.T) {
	structured := models.BlockedRanges{
		Kind: models.BlocksStructured,
		Blocks: []models.BlockedRange{
			{Date: nextMonday, Start: "10:00", End: "11:00"},
			{Date: "2026-03-16", Start: "02:00 PM", End: "03:00 PM"},
			{Date: nextMonday, Start: "garbage", End: "12:00"},
		},
	}
	freeText := models.BlockedRanges{
		Kind:    models.BlocksFreeText,
		Entries: []string{"2026-03-09 02:00 PM - 03:00 PM", "not a range 2026-03-09"},
	}

	mixed := models.BlockedRanges{
		Kind:    models.BlocksStructured,
		Blocks:  []models.BlockedRange{{Date: nextMonday, Start: "10:00", End: "11:00"}},
		Entries: []string{nextMonday + " 14:00-15:00"},
	}

	tests := []struct {
		name    string
		blocked models.BlockedRanges
		clock   string
		valid   bool
	}{
		{"structured inside", structured, "10:30 AM", false},
		{"structured start", structured, "10:00 AM", false},
		{"structured end is free", structured, "11:00 AM", true},
		{"structured other date", structured, "02:30 PM", true},
		{"free text inside", freeText, "02:00 PM", false},
		{"free text outside", freeText, "03:00 PM", true},
		{"nothing blocked", models.BlockedRanges{}, "10:30 AM", true},
		{"mixed structured inside", mixed, "10:30 AM", false},
		{"mixed free text inside", mixed, "02:30 PM", false},
		{"mixed outside both", mixed, "12:00 PM", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := mondayOnly("09:00-18:00")
			schedule.Blocked = tt.blocked
			v, _, _ := newTestValidator(schedule)

			result := v.Validate(context.Background(), request(nextMonday, tt.clock, 30))
			assert.Equal(t, tt.valid, result.Valid, result.Reason)
			if !tt.valid {
				assert.Contains(t, result.Reason, "time slot is blocked")
			}
		})
	}
}

func TestValidateAvailability(t *testing.T) {
	v, _, availability := newTestValidator(mondayOnly("09:00-18:00"))

	availability.available = false
	result := v.Validate(context.Background(), request(nextMonday, "10:00 AM", 60))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Reason, "already taken")

	availability.err = errors.New("connection refused")
	result = v.Validate(context.Background(), request(nextMonday, "10:00 AM", 60))
	assert.True(t, result.Valid, "availability failures must not block a booking")
}

func TestValidateForwardsSchedulingFlags(t *testing.T) {
	v, _, availability := newTestValidator(mondayOnly("09:00-18:00"))
	req := request(nextMonday, "10:00 AM", 30)
	req.Slots = 15
	req.SchedulingFlags = models.SchedulingFlags{ByBranch: true, Branch: "Miraflores"}

	v.Validate(context.Background(), req)

	assert.Equal(t, 15, availability.last.Slots)
	assert.Equal(t, req.SchedulingFlags, availability.last.Flags)
	assert.Equal(t, time.Date(2026, 3, 9, 10, 30, 0, 0, lima), availability.last.End)
}
