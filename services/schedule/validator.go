package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/Adriel2503/agente-reserva/services/remote"
	"go.uber.org/zap"
)

// AvailabilityChecker asks the booking service whether an interval is still free.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, q remote.AvailabilityQuery) (bool, error)
}

const (
	msgBadDate      = "Invalid date format. Use YYYY-MM-DD (for example 2026-01-25)."
	msgBadTime      = "Invalid time format. Use HH:MM AM/PM (for example 10:30 AM) or 24-hour HH:MM."
	msgPast         = "That date and time have already passed. Please choose a future date and time."
	msgNoHours      = "There are no opening hours configured for %s. Please choose another day."
	msgClosed       = "We are closed on %s. Please choose another day."
	msgBeforeOpen   = "The selected time is outside opening hours (before opening). On %s we are open %s."
	msgAfterClose   = "The selected time is outside opening hours (after closing). On %s we are open %s."
	msgOverflow     = "A %d-minute appointment would exceed closing time (%s). On %s we are open %s. Please choose an earlier time."
	msgBlocked      = "That time slot is blocked. Please choose another time."
	msgAlreadyTaken = "That time slot is already taken. Please choose another time or date."
)

// Validator decides whether an appointment may be placed.
type Validator struct {
	Schedules    ScheduleProvider
	Availability AvailabilityChecker
	Location     *time.Location
	Now          Clock
	Logger       *zap.Logger
}

// Validate runs the checks in order and stops at the first failure. Input errors are
// hard rejections; failures of the schedule or availability services let the booking through.
func (v *Validator) Validate(ctx context.Context, req models.ValidationRequest) models.ValidationResult {
	logger := v.logger().With(zap.Int("companyID", req.CompanyID), zap.String("date", req.Date), zap.String("time", req.Time))
	loc := v.location()

	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.Date), loc)
	if err != nil {
		return invalid(msgBadDate)
	}
	start, err := ParseTimeOfDay(req.Time)
	if err != nil {
		return invalid(msgBadTime)
	}
	startsAt := start.On(date)
	if !startsAt.After(v.now().In(loc)) {
		return invalid(msgPast)
	}
	duration := time.Duration(orDefault(req.DurationMinutes, DefaultDurationMinutes)) * time.Minute

	schedule, err := v.Schedules.FetchSchedule(ctx, req.CompanyID)
	if err != nil {
		logger.Warn("Schedule unavailable, treating day as open", zap.Error(err))
		return v.checkAvailability(ctx, req, startsAt, duration, logger)
	}

	weekday := isoWeekday(date)
	dayName := models.WeekdayNames[weekday]
	entry, ok := schedule.Day(weekday)
	if !ok {
		return invalid(fmt.Sprintf(msgNoHours, dayName))
	}
	if IsClosed(entry) {
		return invalid(fmt.Sprintf(msgClosed, dayName))
	}

	window, err := ParseTimeRange(entry)
	if err != nil {
		logger.Warn("Day hours not understood, treating day as open", zap.String("entry", entry), zap.Error(err))
	} else {
		if start.Before(window.Start) {
			return invalid(fmt.Sprintf(msgBeforeOpen, dayName, window))
		}
		if !start.Before(window.End) {
			return invalid(fmt.Sprintf(msgAfterClose, dayName, window))
		}
		if startsAt.Add(duration).After(window.End.On(date)) {
			return invalid(fmt.Sprintf(msgOverflow, int(duration.Minutes()), window.End, dayName, window))
		}
	}

	if isBlocked(schedule.Blocked, date.Format(dateLayout), start, logger) {
		return invalid(msgBlocked)
	}

	return v.checkAvailability(ctx, req, startsAt, duration, logger)
}

func (v *Validator) checkAvailability(ctx context.Context, req models.ValidationRequest, startsAt time.Time, duration time.Duration, logger *zap.Logger) models.ValidationResult {
	if v.Availability == nil {
		return models.ValidationResult{Valid: true}
	}

	available, err := v.Availability.CheckAvailability(ctx, remote.AvailabilityQuery{
		CompanyID: req.CompanyID,
		Start:     startsAt,
		End:       startsAt.Add(duration),
		Slots:     orDefault(req.Slots, DefaultSlots),
		Flags:     req.SchedulingFlags,
	})
	if err != nil {
		logger.Warn("Availability check failed, allowing booking", zap.Error(err))
		return models.ValidationResult{Valid: true}
	}
	if !available {
		return invalid(msgAlreadyTaken)
	}

	logger.Info("Appointment time is valid")
	return models.ValidationResult{Valid: true}
}

func (v *Validator) logger() *zap.Logger {
	if v.Logger == nil {
		return zap.NewNop()
	}
	return v.Logger
}

func (v *Validator) location() *time.Location {
	if v.Location == nil {
		return time.Local
	}
	return v.Location
}

func (v *Validator) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}

func invalid(reason string) models.ValidationResult {
	return models.ValidationResult{Valid: false, Reason: reason}
}
