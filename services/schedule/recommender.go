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

// SlotSuggester asks the booking service for free slots today and tomorrow.
type SlotSuggester interface {
	SuggestSlots(ctx context.Context, q remote.SuggestionQuery) (remote.Suggestions, error)
}

// DefaultHoursText is shown when neither suggestions nor a schedule are available.
const DefaultHoursText = "Available hours:\n• Monday to Friday: 09:00 AM - 06:00 PM\n• Saturday: 09:00 AM - 01:00 PM"

const (
	noOpenDaysText   = "Please contact us directly to check available hours."
	suggestionHeader = "These are the next available times:"
)

// Recommender turns schedules and remote suggestions into text the agent can show.
type Recommender struct {
	Schedules ScheduleProvider
	Suggester SlotSuggester
	Location  *time.Location
	Now       Clock
	Logger    *zap.Logger
}

// Recommend never fails. Dates other than today and tomorrow get that day's hours
// without asking the booking service, since its suggestions only cover those two days.
func (r *Recommender) Recommend(ctx context.Context, req models.RecommendationRequest) models.Recommendation {
	logger := r.logger().With(zap.Int("companyID", req.CompanyID), zap.String("date", req.Date))
	loc := r.location()
	today := startOfDay(r.now().In(loc))
	tomorrow := today.AddDate(0, 0, 1)

	if requested := strings.TrimSpace(req.Date); requested != "" {
		date, err := time.ParseInLocation(dateLayout, requested, loc)
		if err != nil {
			logger.Debug("Requested date not understood, summarising the week")
			return r.weeklySummary(ctx, req.CompanyID, logger)
		}
		if !sameDay(date, today) && !sameDay(date, tomorrow) {
			return r.daySummary(ctx, req.CompanyID, date, logger)
		}
	}

	if rec, ok := r.suggestions(ctx, req, today, tomorrow, logger); ok {
		return rec
	}
	return r.weeklySummary(ctx, req.CompanyID, logger)
}

func (r *Recommender) suggestions(ctx context.Context, req models.RecommendationRequest, today, tomorrow time.Time, logger *zap.Logger) (models.Recommendation, bool) {
	if r.Suggester == nil {
		return models.Recommendation{}, false
	}
	result, err := r.Suggester.SuggestSlots(ctx, remote.SuggestionQuery{
		CompanyID:       req.CompanyID,
		DurationMinutes: orDefault(req.DurationMinutes, DefaultDurationMinutes),
		Slots:           orDefault(req.Slots, DefaultSlots),
		Flags:           req.SchedulingFlags,
		Date:            strings.TrimSpace(req.Date),
		Time:            strings.TrimSpace(req.Time),
	})
	if err != nil {
		logger.Warn("Slot suggestions unavailable", zap.Error(err))
		return models.Recommendation{}, false
	}
	if len(result.Items) == 0 {
		logger.Debug("No slot suggestions returned")
		return models.Recommendation{}, false
	}

	slots := make([]models.SuggestedSlot, 0, len(result.Items))
	lines := make([]string, 0, len(result.Items)+1)
	header := result.Message
	if header == "" {
		header = suggestionHeader
	}
	lines = append(lines, header)

	for i, item := range result.Items {
		slot := r.toSlot(item, today, tomorrow)
		slots = append(slots, slot)

		line := fmt.Sprintf("%d. %s %s", i+1, slot.DayLabel, slot.Time)
		if !slot.Available {
			line += " (unavailable)"
		}
		lines = append(lines, line)
	}

	return models.Recommendation{
		Slots:   slots,
		Message: result.Message,
		Total:   result.Total,
		Text:    strings.Join(lines, "\n"),
		Source:  models.SourceSuggestions,
	}, true
}

func (r *Recommender) toSlot(item remote.Suggestion, today, tomorrow time.Time) models.SuggestedSlot {
	slot := models.SuggestedSlot{
		DayLabel:  strings.TrimSpace(item.Day),
		Time:      strings.TrimSpace(item.Time),
		Available: item.Available == nil || bool(*item.Available),
	}

	if startsAt, err := time.ParseInLocation(remote.DateTimeLayout, strings.TrimSpace(item.StartsAt), r.location()); err == nil {
		slot.StartsAt = &startsAt
		slot.DayLabel = dayLabel(startsAt, today, tomorrow)
		if slot.Time == "" {
			slot.Time = startsAt.Format("03:04 PM")
		}
		return slot
	}

	switch strings.ToLower(slot.DayLabel) {
	case "hoy", "today":
		slot.DayLabel = "Today"
	case "mañana", "manana", "tomorrow":
		slot.DayLabel = "Tomorrow"
	}
	return slot
}

func dayLabel(t, today, tomorrow time.Time) string {
	switch {
	case sameDay(t, today):
		return "Today"
	case sameDay(t, tomorrow):
		return "Tomorrow"
	default:
		return models.WeekdayNames[isoWeekday(t)] + " " + t.Format(dateLayout)
	}
}

func (r *Recommender) daySummary(ctx context.Context, companyID int, date time.Time, logger *zap.Logger) models.Recommendation {
	schedule, err := r.Schedules.FetchSchedule(ctx, companyID)
	if err != nil {
		logger.Warn("Schedule unavailable, using default hours", zap.Error(err))
		return defaultRecommendation()
	}

	label := models.WeekdayNames[isoWeekday(date)] + " " + date.Format(dateLayout)
	entry, ok := schedule.Day(isoWeekday(date))
	var text string
	switch {
	case !ok:
		text = fmt.Sprintf("No opening hours are configured for %s.", label)
	case IsClosed(entry):
		text = fmt.Sprintf("We are closed on %s.", label)
	default:
		hours := strings.TrimSpace(entry)
		if window, err := ParseTimeRange(entry); err == nil {
			hours = window.String()
		}
		text = fmt.Sprintf("Opening hours for %s are %s.", label, hours)
	}
	return models.Recommendation{Text: text, Source: models.SourceDay}
}

func (r *Recommender) weeklySummary(ctx context.Context, companyID int, logger *zap.Logger) models.Recommendation {
	schedule, err := r.Schedules.FetchSchedule(ctx, companyID)
	if err != nil {
		logger.Warn("Schedule unavailable, using default hours", zap.Error(err))
		return defaultRecommendation()
	}

	var lines []string
	for i, name := range models.WeekdayNames {
		entry, ok := schedule.Day(i)
		if !ok || IsClosed(entry) {
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s: %s", name, strings.TrimSpace(entry)))
	}

	text := noOpenDaysText
	if len(lines) > 0 {
		text = "Available hours:\n" + strings.Join(lines, "\n")
	}
	return models.Recommendation{Text: text, Source: models.SourceWeekly}
}

func defaultRecommendation() models.Recommendation {
	return models.Recommendation{Text: DefaultHoursText, Source: models.SourceDefault}
}

func (r *Recommender) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Recommender) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

func (r *Recommender) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
