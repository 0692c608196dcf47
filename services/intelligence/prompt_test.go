package ai

import (
	"testing"
	"time"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSystemPromptDefaults(t *testing.T) {
	now := time.Date(2026, 3, 6, 15, 30, 0, 0, time.UTC)

	prompt, err := BuildSystemPrompt(NewPromptData(models.AgentConfig{CompanyID: 1}, now, "No branches loaded.", "No services loaded."))
	require.NoError(t, err)

	assert.Contains(t, prompt, "You are the booking assistant")
	assert.Contains(t, prompt, "Your personality is friendly, professional and efficient.")
	assert.Contains(t, prompt, "Today is Friday 2026-03-06, and the current time is 03:30 PM (UTC).")
	assert.Contains(t, prompt, "Appointments default to 60 minutes")
	assert.Contains(t, prompt, "No branches loaded.")
	assert.Contains(t, prompt, "No services loaded.")
}

func TestBuildSystemPromptDoesNotEscapeMarkdown(t *testing.T) {
	prompt, err := BuildSystemPrompt(NewPromptData(models.AgentConfig{}, time.Now(), "- **Address:** Av. O'Higgins & Co", ""))
	require.NoError(t, err)

	assert.Contains(t, prompt, "- **Address:** Av. O'Higgins & Co")
}
