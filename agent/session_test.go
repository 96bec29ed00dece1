package agent_test

import (
	"context"
	"errors"
	"testing"

	"example.com/tripplanner/agent"
	"example.com/tripplanner/tools"
	"github.com/stretchr/testify/assert"
)

// failingLLM always errors, to exercise the non-maxsteps error path
type failingLLM struct{}

func (f *failingLLM) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("connection refused")
}

func TestSession_AppendsTurnPairs(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"First answer.", "Second answer."}}
	a := newTestAgent(t, tools.NewRegistry(), llm, 10)
	session := agent.NewSession(a)

	answer, err := session.RunCycle(context.Background(), "first question")
	assert.NoError(t, err)
	assert.Equal(t, "First answer.", answer)

	answer, err = session.RunCycle(context.Background(), "second question")
	assert.NoError(t, err)
	assert.Equal(t, "Second answer.", answer)

	turns := session.Turns()
	assert.Equal(t, []agent.ConversationTurn{
		{Role: agent.RoleUser, Text: "first question"},
		{Role: agent.RoleAgent, Text: "First answer."},
		{Role: agent.RoleUser, Text: "second question"},
		{Role: agent.RoleAgent, Text: "Second answer."},
	}, turns)
}

func TestSession_HistoryThreadsIntoNextCycle(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"JFK.AIRPORT", "Yes, that one."}}
	a := newTestAgent(t, tools.NewRegistry(), llm, 10)
	session := agent.NewSession(a)

	_, err := session.RunCycle(context.Background(), "airport id for New York?")
	assert.NoError(t, err)

	_, err = session.RunCycle(context.Background(), "the one in Queens?")
	assert.NoError(t, err)

	// The second cycle's prompt carries the first exchange
	assert.Contains(t, llm.prompts[1], "Conversation so far:")
	assert.Contains(t, llm.prompts[1], "User: airport id for New York?")
	assert.Contains(t, llm.prompts[1], "Assistant: JFK.AIRPORT")
}

func TestSession_MaxStepsResolvesToIncompleteAnswer(t *testing.T) {
	registry := tools.NewRegistry()
	registry.Register(nil, &stubTool{name: "dateTool", output: "2024-05-01T00:00:00Z"})

	llm := &loopingLLM{call: `{"tool": "dateTool", "input": "new Date(now)"}`}
	a := newTestAgent(t, registry, llm, 3)
	session := agent.NewSession(a)

	answer, err := session.RunCycle(context.Background(), "loop forever")
	assert.NoError(t, err)
	assert.Equal(t, agent.IncompleteAnswer, answer)

	// The incomplete answer is still recorded as the agent's turn
	turns := session.Turns()
	assert.Len(t, turns, 2)
	assert.Equal(t, agent.IncompleteAnswer, turns[1].Text)
}

func TestSession_LLMErrorLeavesHistoryUntouched(t *testing.T) {
	a := newTestAgent(t, tools.NewRegistry(), &failingLLM{}, 10)
	session := agent.NewSession(a)

	_, err := session.RunCycle(context.Background(), "hello")
	assert.Error(t, err)
	assert.Empty(t, session.Turns())
}

func TestSession_TurnsReturnsCopy(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"An answer."}}
	a := newTestAgent(t, tools.NewRegistry(), llm, 10)
	session := agent.NewSession(a)

	_, err := session.RunCycle(context.Background(), "a question")
	assert.NoError(t, err)

	turns := session.Turns()
	turns[0].Text = "mutated"
	assert.Equal(t, "a question", session.Turns()[0].Text)
}
