package agent

import (
	"context"
	"errors"

	"example.com/tripplanner/log"
)

// Role identifies the author of a conversation turn
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// ConversationTurn is one message in the conversation. Turns are immutable
// once created; the session only ever appends them.
type ConversationTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// IncompleteAnswer is what the caller sees when a cycle exhausts its step cap.
const IncompleteAnswer = "Sorry, I couldn't complete that request within the allowed number of steps. Please try a simpler question."

// Session holds the conversation history for the lifetime of the process and
// exposes the single caller-facing entry point, RunCycle. One user message is
// fully processed before the next is accepted; nothing here needs locking.
type Session struct {
	agent *Agent
	turns []ConversationTurn
}

// NewSession creates an empty session over the given agent
func NewSession(a *Agent) *Session {
	return &Session{agent: a}
}

// RunCycle processes one user message and returns the answer text. On a
// successful cycle the (user, agent) turn pair is appended to the history.
// A cycle that hits the step cap resolves to IncompleteAnswer rather than an
// error; other failures (cancellation, LLM transport) are returned as errors
// for the caller to render.
func (s *Session) RunCycle(ctx context.Context, userText string) (string, error) {
	answer, err := s.agent.RunCycle(ctx, userText, s.turns)
	if err != nil {
		if !errors.Is(err, ErrMaxSteps) {
			return "", err
		}
		log.Warnf(ctx, "Cycle did not complete: %v", err)
		answer = IncompleteAnswer
	}

	s.turns = append(s.turns,
		ConversationTurn{Role: RoleUser, Text: userText},
		ConversationTurn{Role: RoleAgent, Text: answer},
	)
	return answer, nil
}

// Turns returns a copy of the conversation history
func (s *Session) Turns() []ConversationTurn {
	out := make([]ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}
