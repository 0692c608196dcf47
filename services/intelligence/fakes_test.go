package ai

import (
	"context"
	"sync"
	"time"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/Adriel2503/agente-reserva/services/catalog"
	genai "github.com/google/generative-ai-go/genai"
)

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(text)}},
	}}}
}

func callResponse(name string, args map[string]any) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Role: "model", Parts: []genai.Part{genai.FunctionCall{Name: name, Args: args}}},
	}}}
}

// fakeSession replays scripted responses and records what it was sent.
type fakeSession struct {
	mu        sync.Mutex
	responses []*genai.GenerateContentResponse
	err       error
	sent      [][]genai.Part
}

func (s *fakeSession) SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, parts)
	if s.err != nil {
		return nil, s.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.responses) == 0 {
		return textResponse(""), nil
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

type fakeModel struct {
	session *fakeSession
	prompt  string
	history []*genai.Content
	tools   []*genai.Tool
}

func (m *fakeModel) StartChat(systemPrompt string, history []*genai.Content, tools []*genai.Tool) ChatSession {
	m.prompt = systemPrompt
	m.history = history
	m.tools = tools
	return m.session
}

type stubValidator struct {
	result models.ValidationResult
	got    []models.ValidationRequest
}

func (v *stubValidator) Validate(_ context.Context, req models.ValidationRequest) models.ValidationResult {
	v.got = append(v.got, req)
	return v.result
}

type stubRecommender struct {
	text string
	got  []models.RecommendationRequest
}

func (r *stubRecommender) Recommend(_ context.Context, req models.RecommendationRequest) models.Recommendation {
	r.got = append(r.got, req)
	return models.Recommendation{Text: r.text}
}

type stubBooking struct {
	outcome models.BookingOutcome
	gotCtx  models.BookingContext
	gotReq  models.BookingRequest
	calls   int
}

func (b *stubBooking) Confirm(_ context.Context, bc models.BookingContext, req models.BookingRequest) models.BookingOutcome {
	b.calls++
	b.gotCtx = bc
	b.gotReq = req
	return b.outcome
}

type stubCatalog struct{}

func (stubCatalog) Load(context.Context, int) catalog.Texts {
	return catalog.Texts{Branches: "### Branch 1: Miraflores", Services: "### Haircut"}
}

type recorder struct {
	mu         sync.Mutex
	requests   int
	chatErrors []string
	toolCalls  []string
	toolErrors []string
	llmCalls   int
	chats      int
}

func (r *recorder) RecordChatRequest() { r.mu.Lock(); r.requests++; r.mu.Unlock() }
func (r *recorder) RecordChatError(t string) {
	r.mu.Lock()
	r.chatErrors = append(r.chatErrors, t)
	r.mu.Unlock()
}
func (r *recorder) ObserveChatDuration(time.Duration) { r.mu.Lock(); r.chats++; r.mu.Unlock() }
func (r *recorder) ObserveLLMCall(time.Duration)      { r.mu.Lock(); r.llmCalls++; r.mu.Unlock() }
func (r *recorder) RecordToolCall(name string, _ time.Duration, errorType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toolCalls = append(r.toolCalls, name)
	if errorType != "" {
		r.toolErrors = append(r.toolErrors, errorType)
	}
}
