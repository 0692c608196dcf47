package ai

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
	"time"

	"github.com/Adriel2503/agente-reserva/models"
)

const (
	DefaultPersonality = "friendly, professional and efficient"
	DefaultBotName     = "the booking assistant"
)

//go:embed prompts/system.tmpl
var systemTemplateText string

var systemTemplate = template.Must(template.New("system").Parse(systemTemplateText))

// PromptData fills the system prompt template.
type PromptData struct {
	BotName         string
	Personality     string
	Today           string
	Weekday         string
	Clock           string
	Timezone        string
	DurationMinutes int
	Branches        string
	Services        string
}

// NewPromptData applies the agent configuration defaults and stamps the current time.
func NewPromptData(cfg models.AgentConfig, now time.Time, branches, services string) PromptData {
	personality := strings.TrimSpace(cfg.Personality)
	if personality == "" {
		personality = DefaultPersonality
	}
	botName := strings.TrimSpace(cfg.BotName)
	if botName == "" {
		botName = DefaultBotName
	}
	duration := cfg.DurationMinutes
	if duration <= 0 {
		duration = 60
	}
	return PromptData{
		BotName:         botName,
		Personality:     personality,
		Today:           now.Format("2006-01-02"),
		Weekday:         now.Weekday().String(),
		Clock:           now.Format("03:04 PM"),
		Timezone:        now.Location().String(),
		DurationMinutes: duration,
		Branches:        branches,
		Services:        services,
	}
}

// BuildSystemPrompt renders the system instruction for one conversation turn.
func BuildSystemPrompt(data PromptData) (string, error) {
	var buf bytes.Buffer
	if err := systemTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
