package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/Adriel2503/agente-reserva/services/remote"
	"github.com/Adriel2503/agente-reserva/services/schedule"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	defaultBranch  = "No branch registered"
	titlePrefix    = "Meeting for: "
	confirmedText  = "Booking confirmed"
	unknownFailure = "Unknown error"
)

// Failure reasons reported to metrics and callers.
const (
	ReasonInvalidInput    = "invalid_input"
	ReasonUnavailable     = "unavailable"
	ReasonInvalidDateTime = "invalid_datetime"
	ReasonAPIError        = "api_error"
	ReasonTimeout         = "timeout"
	ReasonConnection      = "connection_error"
	ReasonUnknown         = "unknown_error"
)

// ScheduleChecker validates a slot before it is written.
type ScheduleChecker interface {
	Validate(ctx context.Context, req models.ValidationRequest) models.ValidationResult
}

// Confirmer writes the appointment to the booking service.
type Confirmer interface {
	ConfirmBooking(ctx context.Context, c remote.Confirmation) (string, error)
}

// Recorder receives booking metrics. *metrics.Recorder satisfies it.
type Recorder interface {
	RecordBookingAttempt()
	RecordBookingSuccess()
	RecordBookingFailure(reason string)
}

// Service validates and confirms bookings requested by the agent.
type Service struct {
	Schedule  ScheduleChecker
	Confirmer Confirmer
	Metrics   Recorder
	Inputs    *validator.Validate
	Location  *time.Location
	Logger    *zap.Logger
}

var defaultInputs = NewValidator()

// Confirm validates the customer's data, re-checks the slot and writes the appointment.
// The outcome message is ready to hand back to the customer.
func (s *Service) Confirm(ctx context.Context, bc models.BookingContext, req models.BookingRequest) models.BookingOutcome {
	logger := s.logger().With(zap.Int("companyID", bc.CompanyID), zap.String("date", req.Date), zap.String("time", req.Time))

	req, err := ValidateRequest(s.inputs(), req)
	if err != nil {
		logger.Warn("Invalid booking data", zap.Error(err))
		return models.BookingOutcome{
			Message: fmt.Sprintf("Invalid booking details: %s\n\nPlease check the information.", err),
			Reason:  ReasonInvalidInput,
		}
	}

	hours := req.DurationHours
	if hours <= 0 {
		hours = 1
	}
	duration := time.Duration(hours) * time.Hour

	if s.Schedule != nil {
		verdict := s.Schedule.Validate(ctx, models.ValidationRequest{
			CompanyID:       bc.CompanyID,
			Date:            req.Date,
			Time:            req.Time,
			DurationMinutes: int(duration.Minutes()),
			Slots:           bc.Slots,
			SchedulingFlags: bc.SchedulingFlags,
		})
		if !verdict.Valid {
			logger.Info("Requested slot rejected", zap.String("reason", verdict.Reason))
			return models.BookingOutcome{
				Message: verdict.Reason + "\n\nPlease choose another date or time.",
				Reason:  ReasonUnavailable,
			}
		}
	}

	s.metrics().RecordBookingAttempt()

	startsAt, err := s.startTime(req.Date, req.Time)
	if err != nil {
		logger.Warn("Invalid booking date/time", zap.Error(err))
		return s.fail(ReasonInvalidDateTime, "Invalid date or time format")
	}

	branch := strings.TrimSpace(bc.Branch)
	if req.Branch != "" {
		branch = req.Branch
	}
	if branch == "" {
		branch = defaultBranch
	}
	flags := bc.SchedulingFlags
	flags.Branch = branch

	logger.Debug("Confirming booking", zap.String("service", req.Service), zap.String("customer", req.CustomerName))
	msg, err := s.Confirmer.ConfirmBooking(ctx, remote.Confirmation{
		CompanyID:  bc.CompanyID,
		ProspectID: bc.ProspectID,
		Title:      titlePrefix + req.CustomerName,
		Start:      startsAt,
		End:        startsAt.Add(duration),
		Flags:      flags,
	})
	if err != nil {
		reason, text := classify(err)
		logger.Warn("Booking confirmation failed", zap.String("reason", reason), zap.Error(err))
		return s.fail(reason, text)
	}

	if msg == "" {
		msg = confirmedText
	}
	s.metrics().RecordBookingSuccess()
	logger.Info("Booking confirmed", zap.String("message", msg))

	return models.BookingOutcome{
		Success: true,
		Message: fmt.Sprintf("%s\n\nDetails:\n• Service: %s\n• Date: %s\n• Time: %s\n• Name: %s\n\nWe look forward to seeing you!",
			msg, req.Service, req.Date, req.Time, req.CustomerName),
	}
}

func (s *Service) startTime(date, clock string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, s.location())
	if err != nil {
		return time.Time{}, err
	}
	tod, err := schedule.ParseTimeOfDay(clock)
	if err != nil {
		return time.Time{}, err
	}
	return tod.On(day), nil
}

func (s *Service) fail(reason, text string) models.BookingOutcome {
	s.metrics().RecordBookingFailure(reason)
	return models.BookingOutcome{Message: text + "\n\nPlease try again.", Reason: reason}
}

// classify maps a confirmation error to a metrics reason and a customer-facing sentence.
func classify(err error) (string, string) {
	var rerr *remote.Error
	if !errors.As(err, &rerr) {
		return ReasonUnknown, "Unexpected error while confirming the booking"
	}
	switch rerr.Kind {
	case remote.KindRejected:
		if rerr.Message != "" {
			return ReasonAPIError, rerr.Message
		}
		return ReasonAPIError, unknownFailure
	case remote.KindTimeout:
		return ReasonTimeout, "The connection took too long"
	case remote.KindHTTP:
		return fmt.Sprintf("http_%d", rerr.Status), fmt.Sprintf("Server error (%d)", rerr.Status)
	case remote.KindTransport:
		return ReasonConnection, "Could not connect to the server"
	}
	return ReasonUnknown, "Unexpected error while confirming the booking"
}

func (s *Service) inputs() *validator.Validate {
	if s.Inputs == nil {
		return defaultInputs
	}
	return s.Inputs
}

func (s *Service) metrics() Recorder {
	if s.Metrics == nil {
		return noopRecorder{}
	}
	return s.Metrics
}

func (s *Service) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

type noopRecorder struct{}

func (noopRecorder) RecordBookingAttempt()       {}
func (noopRecorder) RecordBookingSuccess()       {}
func (noopRecorder) RecordBookingFailure(string) {}
