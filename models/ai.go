package models

import "time"

// ChatRequest is the payload the orchestrator posts to /chat.
type ChatRequest struct {
	Message   string      `json:"message" binding:"required"`
	SessionID int         `json:"session_id"`
	Context   ChatContext `json:"context"`
}

type ChatContext struct {
	Config AgentConfig `json:"config"`
}

// ChatResponse is returned for every /chat call, including degraded ones.
type ChatResponse struct {
	Reply     string         `json:"reply"`
	SessionID int            `json:"session_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// AgentConfig is the per-company agent setup sent along with each message.
type AgentConfig struct {
	CompanyID        int    `json:"id_empresa"`
	DurationMinutes  int    `json:"duracion_cita_minutos"`
	Slots            int    `json:"slots"`
	ScheduleByUser   *Flag  `json:"agendar_usuario"`
	ScheduleByBranch *Flag  `json:"agendar_sucursal"`
	Personality      string `json:"personalidad"`
	BotName          string `json:"nombre_bot"`
	ProspectID       int    `json:"id_prospecto"`
}

// Flags resolves the scheduling flags with their defaults (by user on, by branch off).
func (c AgentConfig) Flags() SchedulingFlags {
	flags := SchedulingFlags{ByUser: true}
	if c.ScheduleByUser != nil {
		flags.ByUser = *c.ScheduleByUser
	}
	if c.ScheduleByBranch != nil {
		flags.ByBranch = *c.ScheduleByBranch
	}
	return flags
}

// ConversationTurn is one exchange kept in session memory.
type ConversationTurn struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	At        time.Time `json:"at"`
}
