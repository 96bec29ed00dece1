package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"example.com/tripplanner/log"
	"example.com/tripplanner/plugins"
	"example.com/tripplanner/tools"
	"github.com/firebase/genkit/go/genkit"
)

// ErrMaxSteps is returned when a cycle exhausts its iteration cap without
// producing a final answer.
var ErrMaxSteps = errors.New("max steps exceeded")

const systemPromptTemplate = `You are a helpful trip-planning assistant. You have access to the following tools:

%s

Protocol:
1. To call a tool, output ONLY a JSON object in this format: {"tool": "toolName", "input": "argument string"}
2. Every tool takes a single string argument. Do not add any text before or after the JSON when calling a tool.
3. When you receive a Tool Output, use it to proceed.
4. If you have the final answer, output the text directly (no JSON).

Current Date: %s

%sUser Query: %s`

// CycleInput carries one user message plus the conversation so far into a
// reasoning cycle.
type CycleInput struct {
	Query   string             `json:"query"`
	History []ConversationTurn `json:"history,omitempty"`
}

// FlowRunner defines the interface for running a reasoning cycle
type FlowRunner interface {
	Run(ctx context.Context, input CycleInput) (string, error)
}

// Agent runs the reasoning loop: it prompts the model with the tool registry
// and conversation state, dispatches requested tool calls, and returns the
// model's final text answer.
type Agent struct {
	flow     FlowRunner
	registry *tools.Registry
	llm      plugins.LLMClient
	maxSteps int
	now      func() time.Time
}

// New creates an Agent backed by a Genkit flow
func New(gk *genkit.Genkit, registry *tools.Registry, llm plugins.LLMClient, maxSteps int) (*Agent, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if llm == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if maxSteps <= 0 {
		return nil, fmt.Errorf("maxSteps must be positive, got %d", maxSteps)
	}

	a := &Agent{
		registry: registry,
		llm:      llm,
		maxSteps: maxSteps,
		now:      time.Now,
	}

	a.flow = genkit.DefineFlow(
		gk,
		"chatCycleFlow",
		func(ctx context.Context, input CycleInput) (string, error) {
			return a.runLoop(ctx, input)
		},
	)

	return a, nil
}

// RunCycle processes one user message against the given history and returns
// the final answer text. Tool dispatches happen synchronously inside the
// cycle; the call blocks until the model produces an answer, the context is
// cancelled, or the step cap is hit (ErrMaxSteps).
func (a *Agent) RunCycle(ctx context.Context, userText string, history []ConversationTurn) (string, error) {
	return a.flow.Run(ctx, CycleInput{Query: userText, History: history})
}

// toolCall is the JSON shape the model emits to request a tool. Input is
// kept raw: well-behaved models send a JSON string, but anything else is
// passed through verbatim as the tool's raw argument.
type toolCall struct {
	Tool  string          `json:"tool"`
	Input json.RawMessage `json:"input"`
}

func (c *toolCall) rawInput() string {
	var s string
	if err := json.Unmarshal(c.Input, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(c.Input))
}

func (a *Agent) runLoop(ctx context.Context, input CycleInput) (string, error) {
	log.Debugf(ctx, "Starting chat cycle with query: %q", input.Query)

	systemPrompt := fmt.Sprintf(
		systemPromptTemplate,
		a.registry.Describe(),
		a.now().Format(time.RFC3339),
		renderHistory(input.History),
		input.Query,
	)

	transcript := systemPrompt

	for i := 0; i < a.maxSteps; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		log.Debugf(ctx, "Step %d/%d: prompting LLM", i+1, a.maxSteps)

		resp, err := a.llm.GenerateContent(ctx, transcript)
		if err != nil {
			log.Errorf(ctx, "LLM generation failed: %v", err)
			return "", fmt.Errorf("llm generation failed: %w", err)
		}

		call, ok := parseToolCall(resp)
		if !ok {
			// Not a tool call, so this is the final answer
			log.Debugf(ctx, "Returning final answer: %q", resp)
			return resp, nil
		}

		// Append the model's own request to the transcript so it remembers
		// that it asked for this tool.
		transcript += fmt.Sprintf("\nModel Response: %s\n", resp)

		raw := call.rawInput()
		log.Infof(ctx, "Tool call: %s(%q)", call.Tool, raw)

		out, err := a.registry.Invoke(ctx, call.Tool, raw)
		if err != nil {
			log.Errorf(ctx, "Tool %s failed: %v", call.Tool, err)
			transcript += fmt.Sprintf("\nTool '%s' Error: %v\n", call.Tool, err)
			continue
		}

		transcript += fmt.Sprintf("\nTool '%s' Output: %s\n", call.Tool, out)
	}

	log.Warnf(ctx, "Cycle hit the step cap (%d) without a final answer", a.maxSteps)
	return "", ErrMaxSteps
}

// parseToolCall scans a model response for a tool-call JSON object. The scan
// covers the first '{' through the last '}' to tolerate markdown fences or
// preamble around the JSON.
func parseToolCall(resp string) (*toolCall, bool) {
	start := strings.Index(resp, "{")
	end := strings.LastIndex(resp, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}

	var call toolCall
	if err := json.Unmarshal([]byte(resp[start:end+1]), &call); err != nil {
		return nil, false
	}
	// Require the tool field to avoid false positives on random JSON in text
	if call.Tool == "" {
		return nil, false
	}
	return &call, true
}

func renderHistory(history []ConversationTurn) string {
	if len(history) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for _, turn := range history {
		switch turn.Role {
		case RoleUser:
			fmt.Fprintf(&b, "User: %s\n", turn.Text)
		case RoleAgent:
			fmt.Fprintf(&b, "Assistant: %s\n", turn.Text)
		}
	}
	b.WriteString("\n")
	return b.String()
}
