package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Adriel2503/agente-reserva/models"
	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// maxToolRounds bounds how many times the model may call tools within one message.
const maxToolRounds = 5

var (
	ErrNoCandidates  = errors.New("model returned no candidates")
	ErrTooManyRounds = errors.New("model kept calling tools without answering")
)

// ChatSession is one multi-turn exchange with the model. *genai.ChatSession satisfies it.
type ChatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// ChatModel starts a chat with a system instruction, prior history and callable tools.
type ChatModel interface {
	StartChat(systemPrompt string, history []*genai.Content, tools []*genai.Tool) ChatSession
}

// GeminiModel is the ChatModel backed by the Gemini API.
type GeminiModel struct {
	client      *genai.Client
	name        string
	temperature float32
	maxTokens   int32
}

// NewGeminiModel opens a Gemini client. Close releases it.
func NewGeminiModel(ctx context.Context, apiKey, name string, temperature float32, maxTokens int32) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiModel{client: client, name: name, temperature: temperature, maxTokens: maxTokens}, nil
}

func (g *GeminiModel) Name() string {
	return g.name
}

// StartChat builds a fresh model handle per conversation so the system
// instruction of one company never leaks into another.
func (g *GeminiModel) StartChat(systemPrompt string, history []*genai.Content, tools []*genai.Tool) ChatSession {
	model := g.client.GenerativeModel(g.name)
	model.SetTemperature(g.temperature)
	if g.maxTokens > 0 {
		model.SetMaxOutputTokens(g.maxTokens)
	}
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	model.Tools = tools

	cs := model.StartChat()
	cs.History = history
	return cs
}

func (g *GeminiModel) Close() error {
	return g.client.Close()
}

// ToolRunner executes a function call requested by the model.
type ToolRunner func(ctx context.Context, call genai.FunctionCall) string

// Converse sends message and keeps answering the model's function calls until it
// produces text. It returns the reply and the names of the tools that ran.
func Converse(ctx context.Context, cs ChatSession, message string, run ToolRunner) (string, []string, error) {
	var used []string

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	for round := 0; ; round++ {
		if err != nil {
			return "", used, fmt.Errorf("gemini generate error: %w", err)
		}
		text, calls, err := splitResponse(resp)
		if err != nil {
			return "", used, err
		}
		if len(calls) == 0 {
			return text, used, nil
		}
		if round >= maxToolRounds {
			return "", used, ErrTooManyRounds
		}

		replies := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			used = append(used, call.Name)
			replies = append(replies, genai.FunctionResponse{
				Name:     call.Name,
				Response: map[string]any{"result": run(ctx, call)},
			})
		}
		resp, err = cs.SendMessage(ctx, replies...)
	}
}

func splitResponse(resp *genai.GenerateContentResponse) (string, []genai.FunctionCall, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil, ErrNoCandidates
	}

	var (
		sb    strings.Builder
		calls []genai.FunctionCall
	)
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			sb.WriteString(string(p))
		case genai.FunctionCall:
			calls = append(calls, p)
		}
	}
	return strings.TrimSpace(sb.String()), calls, nil
}

// historyContents turns stored turns into alternating user/model contents.
func historyContents(turns []models.ConversationTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns)*2)
	for _, t := range turns {
		contents = append(contents,
			&genai.Content{Role: "user", Parts: []genai.Part{genai.Text(t.User)}},
			&genai.Content{Role: "model", Parts: []genai.Part{genai.Text(t.Assistant)}},
		)
	}
	return contents
}

// unavailableModel answers every chat with err, so the agent replies with its
// fallback text while the rest of the service keeps running.
type unavailableModel struct {
	err error
}

// NewUnavailableModel returns a ChatModel that always fails with err.
func NewUnavailableModel(err error) ChatModel {
	return unavailableModel{err: err}
}

func (m unavailableModel) StartChat(string, []*genai.Content, []*genai.Tool) ChatSession {
	return m
}

func (m unavailableModel) SendMessage(context.Context, ...genai.Part) (*genai.GenerateContentResponse, error) {
	return nil, m.err
}
