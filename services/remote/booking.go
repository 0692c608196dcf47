package remote

import (
	"context"
	"time"

	"github.com/Adriel2503/agente-reserva/models"
)

const (
	opCheckAvailability = "CONSULTAR_DISPONIBILIDAD"
	opSuggestSlots      = "SUGERIR_HORARIOS"
	opConfirmBooking    = "AGENDAR_REUNION"

	// DateTimeLayout is the timestamp format the booking service reads and writes.
	DateTimeLayout = "2006-01-02 15:04:05"
)

// AvailabilityQuery asks whether [Start, End) is free.
type AvailabilityQuery struct {
	CompanyID int
	Start     time.Time
	End       time.Time
	Slots     int
	Flags     models.SchedulingFlags
}

// SuggestionQuery asks for free slots today and tomorrow.
type SuggestionQuery struct {
	CompanyID       int
	DurationMinutes int
	Slots           int
	Flags           models.SchedulingFlags
	Date            string // optional YYYY-MM-DD
	Time            string // optional
}

// Suggestion is one slot proposed by the booking service.
type Suggestion struct {
	Day       string       `json:"dia"`          // "hoy", "mañana" or a date
	Time      string       `json:"hora"`         // display time
	StartsAt  string       `json:"fecha_inicio"` // DateTimeLayout
	Available *models.Flag `json:"disponible"`   // nil means free
}

// Suggestions is the decoded SUGERIR_HORARIOS reply.
type Suggestions struct {
	Message string
	Total   int
	Items   []Suggestion
}

// Confirmation is an AGENDAR_REUNION request.
type Confirmation struct {
	CompanyID  int
	ProspectID int
	Title      string
	Start      time.Time
	End        time.Time
	Flags      models.SchedulingFlags
}

type availabilityRequest struct {
	CodOpe    string `json:"codOpe"`
	CompanyID int    `json:"id_empresa"`
	Start     string `json:"fecha_inicio"`
	End       string `json:"fecha_fin"`
	Slots     int    `json:"slots"`
	ByUser    int    `json:"agendar_usuario"`
	ByBranch  int    `json:"agendar_sucursal"`
	Branch    string `json:"sucursal,omitempty"`
}

type availabilityResponse struct {
	Success   bool         `json:"success"`
	Error     string       `json:"error"`
	Available *models.Flag `json:"disponible"`
}

type suggestionRequest struct {
	CodOpe          string `json:"codOpe"`
	CompanyID       int    `json:"id_empresa"`
	DurationMinutes int    `json:"duracion_minutos"`
	Slots           int    `json:"slots"`
	ByUser          int    `json:"agendar_usuario"`
	ByBranch        int    `json:"agendar_sucursal"`
	Date            string `json:"fecha_solicitada,omitempty"`
	Time            string `json:"hora_solicitada,omitempty"`
	Branch          string `json:"sucursal,omitempty"`
}

type suggestionResponse struct {
	Success     bool          `json:"success"`
	Message     string        `json:"mensaje"`
	Total       models.Amount `json:"total"`
	Suggestions []Suggestion  `json:"sugerencias"`
}

type confirmationRequest struct {
	CodOpe     string `json:"codOpe"`
	CompanyID  int    `json:"id_empresa"`
	Title      string `json:"titulo"`
	Start      string `json:"fecha_inicio"`
	End        string `json:"fecha_fin"`
	ProspectID int    `json:"id_prospecto"`
	ByUser     int    `json:"agendar_usuario"`
	ByBranch   int    `json:"agendar_sucursal"`
	Branch     string `json:"sucursal"`
}

type confirmationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// BookingClient talks to the booking (agendar reunión) service.
type BookingClient struct {
	client *Client
	url    string
}

func NewBookingClient(client *Client, url string) *BookingClient {
	return &BookingClient{client: client, url: url}
}

// CheckAvailability returns false only when the service explicitly reports a conflict.
// A reply without success or without a verdict is an error so callers can decide how to degrade.
func (bc *BookingClient) CheckAvailability(ctx context.Context, q AvailabilityQuery) (bool, error) {
	req := availabilityRequest{
		CodOpe:    opCheckAvailability,
		CompanyID: q.CompanyID,
		Start:     q.Start.Format(DateTimeLayout),
		End:       q.End.Format(DateTimeLayout),
		Slots:     q.Slots,
		ByUser:    q.Flags.ByUser.Int(),
		ByBranch:  q.Flags.ByBranch.Int(),
		Branch:    q.Flags.Branch,
	}
	var resp availabilityResponse
	if err := bc.client.post(ctx, opCheckAvailability, "consultar_disponibilidad", bc.url, req, &resp); err != nil {
		return false, err
	}
	if !resp.Success {
		return false, &Error{Op: opCheckAvailability, Kind: KindRejected, Message: resp.Error}
	}
	if resp.Available == nil {
		return false, &Error{Op: opCheckAvailability, Kind: KindEmpty}
	}
	return bool(*resp.Available), nil
}

// SuggestSlots asks the service for candidate start times.
func (bc *BookingClient) SuggestSlots(ctx context.Context, q SuggestionQuery) (Suggestions, error) {
	req := suggestionRequest{
		CodOpe:          opSuggestSlots,
		CompanyID:       q.CompanyID,
		DurationMinutes: q.DurationMinutes,
		Slots:           q.Slots,
		ByUser:          q.Flags.ByUser.Int(),
		ByBranch:        q.Flags.ByBranch.Int(),
		Date:            q.Date,
		Time:            q.Time,
		Branch:          q.Flags.Branch,
	}
	var resp suggestionResponse
	if err := bc.client.post(ctx, opSuggestSlots, "sugerir_horarios", bc.url, req, &resp); err != nil {
		return Suggestions{}, err
	}
	if !resp.Success {
		return Suggestions{}, &Error{Op: opSuggestSlots, Kind: KindRejected, Message: resp.Message}
	}

	total := len(resp.Suggestions)
	if resp.Total.Value != nil {
		total = int(*resp.Total.Value)
	}
	return Suggestions{Message: resp.Message, Total: total, Items: resp.Suggestions}, nil
}

// ConfirmBooking writes the appointment and returns the service's confirmation message.
func (bc *BookingClient) ConfirmBooking(ctx context.Context, c Confirmation) (string, error) {
	req := confirmationRequest{
		CodOpe:     opConfirmBooking,
		CompanyID:  c.CompanyID,
		Title:      c.Title,
		Start:      c.Start.Format(DateTimeLayout),
		End:        c.End.Format(DateTimeLayout),
		ProspectID: c.ProspectID,
		ByUser:     c.Flags.ByUser.Int(),
		ByBranch:   c.Flags.ByBranch.Int(),
		Branch:     c.Flags.Branch,
	}
	var resp confirmationResponse
	if err := bc.client.post(ctx, opConfirmBooking, "agendar_reunion", bc.url, req, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = resp.Error
		}
		return "", &Error{Op: opConfirmBooking, Kind: KindRejected, Message: msg}
	}
	return resp.Message, nil
}
