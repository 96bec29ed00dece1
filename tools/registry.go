package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Registry manages the registration of AI tools. Dispatch is by name and
// fails closed: an unknown name is an error, never a fallback.
type Registry struct {
	order  []Tool
	byName map[string]Tool
	defs   []ai.Tool
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Tool),
	}
}

// Register adds a tool to the registry. When gk is non-nil the tool is also
// defined with Genkit so its schema is visible to Genkit tooling.
func (r *Registry) Register(gk *genkit.Genkit, t Tool) {
	r.order = append(r.order, t)
	r.byName[t.Name()] = t

	if gk != nil {
		r.defs = append(r.defs, genkit.DefineTool[string, string](
			gk,
			t.Name(),
			t.Description(),
			func(ctx *ai.ToolContext, input string) (string, error) {
				return t.Invoke(ctx, input)
			},
		))
	}
}

// Tools returns all registered tools in registration order
func (r *Registry) Tools() []Tool {
	return r.order
}

// GetTools returns the Genkit definitions of all registered tools
func (r *Registry) GetTools() []ai.Tool {
	return r.defs
}

// Lookup returns the tool registered under name
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Invoke runs a registered tool by name
func (r *Registry) Invoke(ctx context.Context, name, input string) (string, error) {
	t, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("tool not found: %s", name)
	}
	return t.Invoke(ctx, input)
}

// Describe renders the registry for inclusion in a system prompt
func (r *Registry) Describe() string {
	var b strings.Builder
	for _, t := range r.order {
		fmt.Fprintf(&b, "Tool: %s\nDescription: %s\nInput: %s\n\n", t.Name(), t.Description(), t.InputSpec())
	}
	return b.String()
}
