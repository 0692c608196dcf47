package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/Adriel2503/agente-reserva/services/catalog"
	genai "github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	replyEmptyMessage = "I didn't receive your message. Could you repeat it?"
	replyBadSession   = "I couldn't identify this conversation. Please start again."
	replyConfigError  = "Configuration error: context is missing required keys in config: [id_empresa]"
	replyPromptError  = "Sorry, I had a configuration problem. Could you try again?"
	replyLLMError     = "Sorry, I had a problem processing your message. Could you try again?"
	replyNoAnswer     = "Sorry, I couldn't process your request."
)

var tracer trace.Tracer = otel.Tracer("github.com/Adriel2503/agente-reserva/services/intelligence")

// CatalogLoader provides the branch and service sections of the prompt.
type CatalogLoader interface {
	Load(ctx context.Context, companyID int) catalog.Texts
}

// AgentRecorder receives chat metrics. *metrics.Recorder satisfies it.
type AgentRecorder interface {
	RecordChatRequest()
	RecordChatError(errorType string)
	ObserveChatDuration(d time.Duration)
	ObserveLLMCall(d time.Duration)
}

// Agent answers booking conversations through the model, the tools and session memory.
type Agent struct {
	Model    ChatModel
	Tools    *ToolExecutor
	Catalog  CatalogLoader
	Memory   MemoryStore
	Metrics  AgentRecorder
	Location *time.Location
	Now      func() time.Time
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Process handles one customer message. It always returns a reply; failures become
// apologetic replies and are counted in chat_errors_total.
func (a *Agent) Process(ctx context.Context, req models.ChatRequest) models.ChatResponse {
	started := time.Now()
	cfg := req.Context.Config
	logger := a.logger().With(zap.Int("sessionID", req.SessionID), zap.Int("companyID", cfg.CompanyID))

	ctx, span := tracer.Start(ctx, "agent.process", trace.WithAttributes(
		attribute.Int("session.id", req.SessionID),
		attribute.Int("company.id", cfg.CompanyID),
	))
	defer span.End()

	reply := func(text, errorType string, meta map[string]any) models.ChatResponse {
		if errorType != "" {
			a.recordError(errorType)
			span.SetStatus(codes.Error, errorType)
		}
		a.observeChat(time.Since(started))
		return models.ChatResponse{Reply: text, SessionID: req.SessionID, Metadata: meta}
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return reply(replyEmptyMessage, "", nil)
	}
	if a.Metrics != nil {
		a.Metrics.RecordChatRequest()
	}
	if req.SessionID < 0 {
		logger.Warn("Negative session id")
		return reply(replyBadSession, "invalid_session", nil)
	}
	if cfg.CompanyID <= 0 {
		logger.Error("Context missing id_empresa")
		return reply(replyConfigError, "context_error", nil)
	}

	now := a.now().In(a.location())
	texts := a.loadCatalog(ctx, cfg.CompanyID)
	prompt, err := BuildSystemPrompt(NewPromptData(cfg, now, texts.Branches, texts.Services))
	if err != nil {
		logger.Error("Failed to build system prompt", zap.Error(err))
		return reply(replyPromptError, "agent_creation_error", nil)
	}

	var history []models.ConversationTurn
	if a.Memory != nil {
		if history, err = a.Memory.History(ctx, req.SessionID); err != nil {
			logger.Warn("Could not load conversation history", zap.Error(err))
			history = nil
		}
	}

	sc := SessionContext{
		BookingContext: models.BookingContext{
			CompanyID:       cfg.CompanyID,
			ProspectID:      prospectID(cfg, req.SessionID),
			Slots:           cfg.Slots,
			SchedulingFlags: cfg.Flags(),
		},
		DurationMinutes: cfg.DurationMinutes,
	}

	llmCtx := ctx
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		llmCtx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	logger.Info("Invoking model", zap.String("message", truncate(message, 100)), zap.Int("historyTurns", len(history)))
	llmStarted := time.Now()
	session := a.Model.StartChat(prompt, historyContents(history), a.Tools.Tools())
	answer, used, err := Converse(llmCtx, session, message, func(ctx context.Context, call genai.FunctionCall) string {
		return a.Tools.Execute(ctx, call, sc)
	})
	if a.Metrics != nil {
		a.Metrics.ObserveLLMCall(time.Since(llmStarted))
	}
	if err != nil {
		logger.Error("Model call failed", zap.Error(err), zap.Strings("tools", used))
		span.RecordError(err)
		return reply(replyLLMError, "agent_execution_error", nil)
	}
	if answer == "" {
		answer = replyNoAnswer
	}

	turn := models.ConversationTurn{User: message, Assistant: answer, At: now}
	if a.Memory != nil {
		if err := a.Memory.Append(ctx, req.SessionID, turn); err != nil {
			logger.Warn("Could not store conversation turn", zap.Error(err))
		}
	}

	logger.Info("Reply generated", zap.String("reply", truncate(answer, 200)), zap.Strings("tools", used))
	var meta map[string]any
	if len(used) > 0 {
		meta = map[string]any{"tools_used": used}
	}
	return reply(answer, "", meta)
}

func (a *Agent) loadCatalog(ctx context.Context, companyID int) catalog.Texts {
	if a.Catalog == nil {
		return catalog.Texts{Branches: catalog.NoBranchesText, Services: catalog.NoServicesText}
	}
	return a.Catalog.Load(ctx, companyID)
}

// prospectID falls back to the session id, which the orchestrator uses as the prospect.
func prospectID(cfg models.AgentConfig, sessionID int) int {
	if cfg.ProspectID > 0 {
		return cfg.ProspectID
	}
	return sessionID
}

func (a *Agent) recordError(errorType string) {
	if a.Metrics != nil {
		a.Metrics.RecordChatError(errorType)
	}
}

func (a *Agent) observeChat(d time.Duration) {
	if a.Metrics != nil {
		a.Metrics.ObserveChatDuration(d)
	}
}

func (a *Agent) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func (a *Agent) location() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

func (a *Agent) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return fmt.Sprintf("%s...", string(r[:n]))
}
