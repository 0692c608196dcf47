package ai

import (
	"context"
	"testing"

	"github.com/Adriel2503/agente-reserva/models"
	genai "github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session() SessionContext {
	return SessionContext{
		BookingContext: models.BookingContext{
			CompanyID:       7,
			ProspectID:      99,
			Slots:           30,
			SchedulingFlags: models.SchedulingFlags{ByUser: true},
		},
		DurationMinutes: 45,
	}
}

func TestToolsDeclaration(t *testing.T) {
	tools := (&ToolExecutor{}).Tools()

	require.Len(t, tools, 1)
	decls := tools[0].FunctionDeclarations
	require.Len(t, decls, 2)
	assert.Equal(t, ToolCheckAvailability, decls[0].Name)
	assert.Equal(t, []string{"service", "date"}, decls[0].Parameters.Required)
	assert.Equal(t, ToolCreateBooking, decls[1].Name)
	assert.Contains(t, decls[1].Parameters.Required, "customer_contact")
}

func TestCheckAvailabilityWithTimeValid(t *testing.T) {
	v := &stubValidator{result: models.ValidationResult{Valid: true}}
	rec := &recorder{}
	exec := &ToolExecutor{Validator: v, Recommender: &stubRecommender{}, Metrics: rec}

	out := exec.Execute(context.Background(), genai.FunctionCall{
		Name: ToolCheckAvailability,
		Args: map[string]any{"service": "Haircut", "date": "2026-03-09", "time": "10:00 AM", "duration_hours": float64(2)},
	}, session())

	assert.Equal(t, "Haircut on 2026-03-09 at 10:00 AM is available.", out)
	require.Len(t, v.got, 1)
	assert.Equal(t, 120, v.got[0].DurationMinutes)
	assert.Equal(t, 7, v.got[0].CompanyID)
	assert.Equal(t, 30, v.got[0].Slots)
	assert.Equal(t, []string{ToolCheckAvailability}, rec.toolCalls)
	assert.Empty(t, rec.toolErrors)
}

func TestCheckAvailabilityWithTimeInvalidAddsAlternatives(t *testing.T) {
	v := &stubValidator{result: models.ValidationResult{Reason: "We are closed on Sunday. Please choose another day."}}
	r := &stubRecommender{text: "Opening hours for Monday 2026-03-09 are 09:00 AM - 06:00 PM."}
	exec := &ToolExecutor{Validator: v, Recommender: r}

	out := exec.Execute(context.Background(), genai.FunctionCall{
		Name: ToolCheckAvailability,
		Args: map[string]any{"service": "Haircut", "date": "2026-03-08", "time": "10:00 AM"},
	}, session())

	assert.Equal(t, "We are closed on Sunday. Please choose another day.\n\nOpening hours for Monday 2026-03-09 are 09:00 AM - 06:00 PM.", out)
	require.Len(t, r.got, 1)
	assert.Empty(t, r.got[0].Time)
	assert.Equal(t, 45, r.got[0].DurationMinutes, "falls back to the configured duration")
}

func TestCheckAvailabilityWithoutTimeRecommends(t *testing.T) {
	v := &stubValidator{}
	r := &stubRecommender{text: "These are the next available times:"}
	exec := &ToolExecutor{Validator: v, Recommender: r}

	out := exec.Execute(context.Background(), genai.FunctionCall{
		Name: ToolCheckAvailability,
		Args: map[string]any{"service": "Haircut", "date": "2026-03-02", "duration_hours": "1"},
	}, session())

	assert.Equal(t, "These are the next available times:", out)
	assert.Empty(t, v.got)
	require.Len(t, r.got, 1)
	assert.Equal(t, 60, r.got[0].DurationMinutes)
}

func TestCheckAvailabilityFallbacks(t *testing.T) {
	out := (&ToolExecutor{Recommender: &stubRecommender{}}).Execute(context.Background(), genai.FunctionCall{
		Name: ToolCheckAvailability,
		Args: map[string]any{"service": "Haircut", "date": "2026-03-02"},
	}, session())
	assert.Equal(t, "Available times for Haircut on 2026-03-02. Please contact us directly for more details.", out)

	out = (&ToolExecutor{}).Execute(context.Background(), genai.FunctionCall{
		Name: ToolCheckAvailability,
		Args: map[string]any{"date": "2026-03-02"},
	}, session())
	assert.Equal(t, genericHoursText, out)

	rec := &recorder{}
	out = (&ToolExecutor{Metrics: rec}).Execute(context.Background(), genai.FunctionCall{Name: ToolCheckAvailability}, session())
	assert.Contains(t, out, "YYYY-MM-DD")
	assert.Equal(t, []string{"invalid_args"}, rec.toolErrors)
}

func TestCreateBooking(t *testing.T) {
	b := &stubBooking{outcome: models.BookingOutcome{Success: true, Message: "Booking confirmed"}}
	rec := &recorder{}
	exec := &ToolExecutor{Booking: b, Metrics: rec}

	out := exec.Execute(context.Background(), genai.FunctionCall{
		Name: ToolCreateBooking,
		Args: map[string]any{
			"service":          "Haircut",
			"date":             "2026-03-09",
			"time":             "10:00 AM",
			"duration_hours":   float64(1),
			"customer_name":    "Ana Torres",
			"customer_contact": "987654321",
			"branch":           "No branch",
		},
	}, session())

	assert.Equal(t, "Booking confirmed", out)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 99, b.gotCtx.ProspectID)
	assert.Equal(t, 1, b.gotReq.DurationHours)
	assert.Empty(t, b.gotReq.Branch)
	assert.Empty(t, rec.toolErrors)
}

func TestCreateBookingFailureIsRecorded(t *testing.T) {
	b := &stubBooking{outcome: models.BookingOutcome{Message: "The connection took too long\n\nPlease try again.", Reason: "timeout"}}
	rec := &recorder{}

	out := (&ToolExecutor{Booking: b, Metrics: rec}).Execute(context.Background(), genai.FunctionCall{
		Name: ToolCreateBooking,
		Args: map[string]any{"service": "Haircut"},
	}, session())

	assert.Contains(t, out, "took too long")
	assert.Equal(t, []string{"timeout"}, rec.toolErrors)
}

func TestUnknownTool(t *testing.T) {
	rec := &recorder{}
	out := (&ToolExecutor{Metrics: rec}).Execute(context.Background(), genai.FunctionCall{Name: "delete_everything"}, session())

	assert.Contains(t, out, "Unknown tool")
	assert.Equal(t, []string{"unknown_tool"}, rec.toolErrors)
}

func TestArgInt(t *testing.T) {
	args := map[string]any{"a": float64(2.6), "b": "3", "c": "x", "d": 4}

	assert.Equal(t, 3, argInt(args, "a"))
	assert.Equal(t, 3, argInt(args, "b"))
	assert.Equal(t, 0, argInt(args, "c"))
	assert.Equal(t, 4, argInt(args, "d"))
	assert.Equal(t, 0, argInt(args, "missing"))
}
