package core

import (
	"context"
	"fmt"
	"time"

	"example.com/tripplanner/log"
	"example.com/tripplanner/tools"
	"github.com/dop251/goja"
	"github.com/firebase/genkit/go/genkit"
)

// DateTool resolves relative dates ("next Friday") into concrete ISO dates
// by evaluating a JavaScript expression. The model writes the expression;
// the result feeds date fields in other tool arguments.
type DateTool struct {
	Now func() time.Time
}

// NewDateTool creates a new DateTool and registers it
func NewDateTool(gk *genkit.Genkit, registry *tools.Registry) *DateTool {
	t := &DateTool{
		Now: time.Now,
	}
	if registry != nil {
		registry.Register(gk, t)
		log.Infof(context.Background(), "[Core] Registered tool: %s", t.Name())
	}
	return t
}

func (t *DateTool) Name() string {
	return "dateTool"
}

func (t *DateTool) Description() string {
	return `Evaluates a JavaScript expression to calculate a date. The variable 'now' holds the current timestamp in milliseconds. The last expression must be a Date object or ISO string; the result is returned as an ISO timestamp.
Examples:
- Tomorrow: "new Date(now + 86400000)"
- Next Friday: "var d = new Date(now); d.setDate(d.getDate() + (12 - d.getDay()) % 7); if(d.getDay() !== 5 || d <= now) d.setDate(d.getDate() + 7); d"`
}

func (t *DateTool) InputSpec() string {
	return "A JavaScript expression evaluating to a Date object or an ISO date string."
}

func (t *DateTool) Invoke(ctx context.Context, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("expression is required")
	}
	log.Debugf(ctx, "[DateTool] Evaluating expression: %s", input)

	vm := goja.New()
	if err := vm.Set("now", t.Now().UnixMilli()); err != nil {
		return "", fmt.Errorf("failed to set 'now': %w", err)
	}

	val, err := vm.RunString(input)
	if err != nil {
		return "", fmt.Errorf("js execution failed: %w", err)
	}

	exported := val.Export()
	if exported == nil {
		return "", fmt.Errorf("result is null or undefined")
	}

	// Goja converts a JS Date to time.Time on export
	if date, ok := exported.(time.Time); ok {
		return date.UTC().Format(time.RFC3339), nil
	}

	if str, ok := exported.(string); ok {
		if date, err := time.Parse(time.RFC3339, str); err == nil {
			return date.UTC().Format(time.RFC3339), nil
		}
	}

	return "", fmt.Errorf("result is not a valid Date object or ISO string")
}
