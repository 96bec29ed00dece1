package tools

import "context"

// Tool defines the interface for all AI tools.
//
// Every tool takes a single string argument and returns text. The only
// consumer of a tool result is the text-reasoning model, so results are
// rendered strings, never structured values. "No data" is reported as a
// sentinel string by the tool itself; an error return means the call could
// not be carried out (bad argument, transport failure) and is folded into
// the conversation transcript as text by the orchestrator.
type Tool interface {
	// Name returns the unique name of the tool (e.g. "dateTool")
	Name() string

	// Description returns a description of what the tool does
	Description() string

	// InputSpec describes the expected format of the string argument
	InputSpec() string

	// Invoke runs the tool with the given raw argument
	Invoke(ctx context.Context, input string) (string, error)
}
