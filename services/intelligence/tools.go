package ai

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

const (
	ToolCheckAvailability = "check_availability"
	ToolCreateBooking     = "create_booking"
)

const genericHoursText = "Typical available times:\n• Morning: 09:00, 10:00, 11:00\n• Afternoon: 14:00, 15:00, 16:00"

// ScheduleValidator checks one concrete slot.
type ScheduleValidator interface {
	Validate(ctx context.Context, req models.ValidationRequest) models.ValidationResult
}

// SlotRecommender proposes times when the customer has not picked one.
type SlotRecommender interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) models.Recommendation
}

// BookingConfirmer writes a booking.
type BookingConfirmer interface {
	Confirm(ctx context.Context, bc models.BookingContext, req models.BookingRequest) models.BookingOutcome
}

// ToolRecorder receives tool metrics. *metrics.Recorder satisfies it.
type ToolRecorder interface {
	RecordToolCall(toolName string, d time.Duration, errorType string)
}

// SessionContext is what a tool knows about the conversation it runs in.
type SessionContext struct {
	models.BookingContext
	DurationMinutes int
}

// ToolExecutor runs the functions the model is allowed to call.
type ToolExecutor struct {
	Validator   ScheduleValidator
	Recommender SlotRecommender
	Booking     BookingConfirmer
	Metrics     ToolRecorder
	Logger      *zap.Logger
}

// Tools declares the callable functions to the model.
func (e *ToolExecutor) Tools() []*genai.Tool {
	return []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name: ToolCheckAvailability,
				Description: "Checks available times for a service on a date, optionally at a given start time. " +
					"Use it when the customer asks about availability or proposes a date or time.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"service":        {Type: genai.TypeString, Description: "Exact service name from the list"},
						"date":           {Type: genai.TypeString, Description: "Date in YYYY-MM-DD format"},
						"time":           {Type: genai.TypeString, Description: "Optional start time in HH:MM AM/PM format"},
						"duration_hours": {Type: genai.TypeInteger, Description: "Duration in hours, 1 by default"},
					},
					Required: []string{"service", "date"},
				},
			},
			{
				Name: ToolCreateBooking,
				Description: "Creates a booking once every detail has been collected and confirmed by the customer. " +
					"The slot is validated again before it is written.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"service":          {Type: genai.TypeString, Description: "Exact service name from the list"},
						"date":             {Type: genai.TypeString, Description: "Date in YYYY-MM-DD format"},
						"time":             {Type: genai.TypeString, Description: "Start time in HH:MM AM/PM format"},
						"duration_hours":   {Type: genai.TypeInteger, Description: "Duration in hours"},
						"customer_name":    {Type: genai.TypeString, Description: "Customer's full name"},
						"customer_contact": {Type: genai.TypeString, Description: "Customer's e-mail or mobile phone"},
						"branch":           {Type: genai.TypeString, Description: "Exact branch name, or \"No branch\" when none are listed"},
					},
					Required: []string{"service", "date", "time", "duration_hours", "customer_name", "customer_contact", "branch"},
				},
			},
		},
	}}
}

// Execute runs one function call and returns the text handed back to the model.
func (e *ToolExecutor) Execute(ctx context.Context, call genai.FunctionCall, sc SessionContext) string {
	started := time.Now()
	logger := e.logger().With(zap.String("tool", call.Name), zap.Int("companyID", sc.CompanyID))

	var (
		result    string
		errorType string
	)
	switch call.Name {
	case ToolCheckAvailability:
		result, errorType = e.checkAvailability(ctx, call.Args, sc, logger)
	case ToolCreateBooking:
		result, errorType = e.createBooking(ctx, call.Args, sc, logger)
	default:
		result, errorType = fmt.Sprintf("Unknown tool %q.", call.Name), "unknown_tool"
	}

	if e.Metrics != nil {
		e.Metrics.RecordToolCall(call.Name, time.Since(started), errorType)
	}
	logger.Debug("Tool executed", zap.Duration("elapsed", time.Since(started)), zap.String("errorType", errorType))
	return result
}

func (e *ToolExecutor) checkAvailability(ctx context.Context, args map[string]any, sc SessionContext, logger *zap.Logger) (string, string) {
	service := argString(args, "service")
	date := argString(args, "date")
	clock := argString(args, "time")
	minutes := durationMinutes(argInt(args, "duration_hours"), sc.DurationMinutes)

	if date == "" {
		return "Please provide the date in YYYY-MM-DD format.", "invalid_args"
	}

	if clock != "" && e.Validator != nil {
		verdict := e.Validator.Validate(ctx, models.ValidationRequest{
			CompanyID:       sc.CompanyID,
			Date:            date,
			Time:            clock,
			DurationMinutes: minutes,
			Slots:           sc.Slots,
			SchedulingFlags: sc.SchedulingFlags,
		})
		if verdict.Valid {
			return fmt.Sprintf("%s on %s at %s is available.", orService(service), date, clock), ""
		}
		logger.Info("Requested slot not available", zap.String("reason", verdict.Reason))
		text := verdict.Reason
		if alt := e.recommend(ctx, date, "", minutes, sc); alt != "" {
			text += "\n\n" + alt
		}
		return text, ""
	}

	if alt := e.recommend(ctx, date, clock, minutes, sc); alt != "" {
		return alt, ""
	}
	logger.Warn("No recommendation available, using generic text")
	if e.Recommender == nil {
		return genericHoursText, "no_recommender"
	}
	return fmt.Sprintf("Available times for %s on %s. Please contact us directly for more details.", orService(service), date), ""
}

func (e *ToolExecutor) recommend(ctx context.Context, date, clock string, minutes int, sc SessionContext) string {
	if e.Recommender == nil {
		return ""
	}
	rec := e.Recommender.Recommend(ctx, models.RecommendationRequest{
		CompanyID:       sc.CompanyID,
		Date:            date,
		Time:            clock,
		DurationMinutes: minutes,
		Slots:           sc.Slots,
		SchedulingFlags: sc.SchedulingFlags,
	})
	return rec.Text
}

func (e *ToolExecutor) createBooking(ctx context.Context, args map[string]any, sc SessionContext, logger *zap.Logger) (string, string) {
	if e.Booking == nil {
		return "Bookings are not available right now.", "no_booking_service"
	}
	branch := argString(args, "branch")
	if strings.EqualFold(branch, "no branch") {
		branch = ""
	}
	out := e.Booking.Confirm(ctx, sc.BookingContext, models.BookingRequest{
		Service:         argString(args, "service"),
		Date:            argString(args, "date"),
		Time:            argString(args, "time"),
		DurationHours:   argInt(args, "duration_hours"),
		CustomerName:    argString(args, "customer_name"),
		CustomerContact: argString(args, "customer_contact"),
		Branch:          branch,
	})
	if !out.Success {
		logger.Warn("Booking not created", zap.String("reason", out.Reason))
		return out.Message, out.Reason
	}
	return out.Message, ""
}

func (e *ToolExecutor) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func durationMinutes(hours, fallback int) int {
	if hours > 0 {
		return hours * 60
	}
	if fallback > 0 {
		return fallback
	}
	return 60
}

func orService(s string) string {
	if s == "" {
		return "The appointment"
	}
	return s
}

func argString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// argInt reads an integer argument. Models send numbers as float64 and sometimes as strings.
func argInt(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(math.Round(v))
	case int:
		return v
	case int64:
		return int(v)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return int(math.Round(n))
	}
	return 0
}
