package agent_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"example.com/tripplanner/agent"
	"example.com/tripplanner/plugins/tripadvisor"
	"example.com/tripplanner/tools"
	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
)

func mockHotelServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/location/nearby_search" || r.URL.Query().Get("category") != "hotels" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data": [{"location_id": "190454", "name": "The Example Hotel"}]}`)
	}))
}

// scriptedLLM plays back canned responses and records every prompt it saw
type scriptedLLM struct {
	responses []string
	prompts   []string
}

func (s *scriptedLLM) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.prompts) > len(s.responses) {
		return "", fmt.Errorf("no scripted response for call %d", len(s.prompts))
	}
	return s.responses[len(s.prompts)-1], nil
}

// loopingLLM requests the same tool forever
type loopingLLM struct {
	call string
}

func (l *loopingLLM) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return l.call, nil
}

type stubTool struct {
	name   string
	output string
	inputs []string
}

func (t *stubTool) Name() string        { return t.name }
func (t *stubTool) Description() string { return "stub" }
func (t *stubTool) InputSpec() string   { return "any text" }
func (t *stubTool) Invoke(ctx context.Context, input string) (string, error) {
	t.inputs = append(t.inputs, input)
	return t.output, nil
}

func newTestAgent(t *testing.T, registry *tools.Registry, llm interface {
	GenerateContent(context.Context, string) (string, error)
}, maxSteps int) *agent.Agent {
	t.Helper()
	gk := genkit.Init(context.Background())
	a, err := agent.New(gk, registry, llm, maxSteps)
	assert.NoError(t, err)
	return a
}

func TestNew_Validation(t *testing.T) {
	gk := genkit.Init(context.Background())
	llm := &scriptedLLM{}

	_, err := agent.New(gk, nil, llm, 10)
	assert.Error(t, err)

	_, err = agent.New(gk, tools.NewRegistry(), nil, 10)
	assert.Error(t, err)

	_, err = agent.New(gk, tools.NewRegistry(), llm, 0)
	assert.Error(t, err)
}

func TestRunCycle_DirectAnswer(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"Mexico City is lovely in May."}}
	a := newTestAgent(t, tools.NewRegistry(), llm, 10)

	answer, err := a.RunCycle(context.Background(), "Is May a good time for Mexico City?", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Mexico City is lovely in May.", answer)
	assert.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "User Query: Is May a good time for Mexico City?")
}

func TestRunCycle_ToolDispatch(t *testing.T) {
	registry := tools.NewRegistry()
	stub := &stubTool{name: "airportIdTool", output: "Airport ID: JFK.AIRPORT\n"}
	registry.Register(nil, stub)

	llm := &scriptedLLM{responses: []string{
		`{"tool": "airportIdTool", "input": "New York"}`,
		"The airport ID for New York is JFK.AIRPORT.",
	}}
	a := newTestAgent(t, registry, llm, 10)

	answer, err := a.RunCycle(context.Background(), "What is the airport ID for New York?", nil)
	assert.NoError(t, err)
	assert.Equal(t, "The airport ID for New York is JFK.AIRPORT.", answer)
	assert.Equal(t, []string{"New York"}, stub.inputs)
	// The tool output is fed back into the next prompt
	assert.Contains(t, llm.prompts[1], "Tool 'airportIdTool' Output: Airport ID: JFK.AIRPORT")
}

func TestRunCycle_ToolCallInMarkdownFence(t *testing.T) {
	registry := tools.NewRegistry()
	stub := &stubTool{name: "dateTool", output: "2024-05-01T00:00:00Z"}
	registry.Register(nil, stub)

	llm := &scriptedLLM{responses: []string{
		"```json\n{\"tool\": \"dateTool\", \"input\": \"new Date(now)\"}\n```",
		"Today is May 1, 2024.",
	}}
	a := newTestAgent(t, registry, llm, 10)

	answer, err := a.RunCycle(context.Background(), "What day is it?", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Today is May 1, 2024.", answer)
	assert.Equal(t, []string{"new Date(now)"}, stub.inputs)
}

func TestRunCycle_UnknownToolFailsClosed(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"tool": "bookPrivateJetTool", "input": "now"}`,
		"I don't have a tool for that.",
	}}
	a := newTestAgent(t, tools.NewRegistry(), llm, 10)

	answer, err := a.RunCycle(context.Background(), "Book me a jet", nil)
	assert.NoError(t, err)
	assert.Equal(t, "I don't have a tool for that.", answer)
	// The dispatch failure is reported back to the model as text
	assert.Contains(t, llm.prompts[1], "Tool 'bookPrivateJetTool' Error: tool not found: bookPrivateJetTool")
}

func TestRunCycle_MaxStepsExceeded(t *testing.T) {
	registry := tools.NewRegistry()
	registry.Register(nil, &stubTool{name: "dateTool", output: "2024-05-01T00:00:00Z"})

	llm := &loopingLLM{call: `{"tool": "dateTool", "input": "new Date(now)"}`}
	a := newTestAgent(t, registry, llm, 5)

	_, err := a.RunCycle(context.Background(), "Loop forever", nil)
	assert.ErrorIs(t, err, agent.ErrMaxSteps)
}

func TestRunCycle_ContextCancellation(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"unused"}}
	a := newTestAgent(t, tools.NewRegistry(), llm, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.RunCycle(ctx, "test query", nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunCycle_HistoryInPrompt(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"Yes, JFK is in Queens."}}
	a := newTestAgent(t, tools.NewRegistry(), llm, 10)

	history := []agent.ConversationTurn{
		{Role: agent.RoleUser, Text: "What is the airport ID for New York?"},
		{Role: agent.RoleAgent, Text: "The airport ID is JFK.AIRPORT."},
	}

	_, err := a.RunCycle(context.Background(), "Is that in Queens?", history)
	assert.NoError(t, err)
	assert.Contains(t, llm.prompts[0], "Conversation so far:")
	assert.Contains(t, llm.prompts[0], "User: What is the airport ID for New York?")
	assert.Contains(t, llm.prompts[0], "Assistant: The airport ID is JFK.AIRPORT.")
}

// End-to-end: the model asks for hotels near Seattle, the place provider is
// mocked, and the rendered tool output flows into the final answer prompt.
func TestRunCycle_HotelSearchEndToEnd(t *testing.T) {
	ts := mockHotelServer()
	defer ts.Close()

	registry := tools.NewRegistry()
	place := tripadvisor.NewClient("test-key", nil, registry, 5)
	place.BaseURL = ts.URL

	llm := &scriptedLLM{responses: []string{
		`{"tool": "nearbyHotelsTool", "input": "47.6062, -122.3321"}`,
		"I found The Example Hotel near that location.",
	}}
	a := newTestAgent(t, registry, llm, 10)

	answer, err := a.RunCycle(context.Background(), "Find hotels near 47.6062, -122.3321", nil)
	assert.NoError(t, err)
	assert.Contains(t, answer, "The Example Hotel")
	assert.Contains(t, llm.prompts[1], "Location ID: 190454, Name: The Example Hotel\n")
}
