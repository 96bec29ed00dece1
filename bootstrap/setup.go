package bootstrap

import (
	"context"
	"fmt"

	"example.com/tripplanner/agent"
	"example.com/tripplanner/config"
	"example.com/tripplanner/log"
	"example.com/tripplanner/plugins"
	"example.com/tripplanner/plugins/booking"
	"example.com/tripplanner/plugins/core"
	"example.com/tripplanner/plugins/gemini"
	"example.com/tripplanner/plugins/googlemaps"
	"example.com/tripplanner/plugins/ollama"
	"example.com/tripplanner/plugins/openai"
	"example.com/tripplanner/plugins/tripadvisor"
	"example.com/tripplanner/tools"
	"github.com/firebase/genkit/go/genkit"
)

// App holds the initialized components of the application
type App struct {
	Session  *agent.Session
	Agent    *agent.Agent
	Genkit   *genkit.Genkit
	Registry *tools.Registry
}

// Setup initializes the application components based on the configuration
func Setup(ctx context.Context, cfg *config.Config) (*App, error) {
	// Provider keys are required before any request can be issued
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 1. Pick the LLM backend
	llm, err := setupLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 2. Init Genkit and the tool registry; creating each provider client
	// registers its tools
	gk := genkit.Init(ctx)
	registry := tools.NewRegistry()

	booking.NewClient(cfg.Flight.APIKey, cfg.Flight.Host, gk, registry, cfg.Flight.Timeout)
	tripadvisor.NewClient(cfg.TripAdvisor.APIKey, gk, registry, cfg.TripAdvisor.Timeout)
	core.NewDateTool(gk, registry)

	// The geocode tool is optional; without it the model has to supply
	// coordinates itself
	if cfg.Maps.APIKey != "" {
		mapsClient, err := googlemaps.NewClient(cfg.Maps.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize maps client: %w", err)
		}
		mapsClient.RegisterTools(gk, registry)
	}

	// 3. Build the agent and its session
	ag, err := agent.New(gk, registry, llm, cfg.Agent.MaxSteps)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize agent: %w", err)
	}

	return &App{
		Session:  agent.NewSession(ag),
		Agent:    ag,
		Genkit:   gk,
		Registry: registry,
	}, nil
}

func setupLLM(ctx context.Context, cfg *config.Config) (plugins.LLMClient, error) {
	switch cfg.AI.Plugin {
	case "gemini":
		log.Infof(ctx, "Using Gemini plugin (model: %s)", cfg.AI.Gemini.Model)
		if cfg.AI.Gemini.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY must be set")
		}
		return gemini.NewClient(ctx, cfg.AI.Gemini.APIKey, cfg.AI.Gemini.Model)
	case "ollama":
		log.Infof(ctx, "Using Ollama plugin (model: %s)", cfg.AI.Ollama.Model)
		return ollama.NewClient(cfg.AI.Ollama.BaseURL, cfg.AI.Ollama.Model), nil
	case "openai", "":
		log.Infof(ctx, "Using OpenAI plugin (model: %s)", cfg.AI.OpenAI.Model)
		if cfg.AI.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY must be set (or set AI_PLUGIN=gemini or ollama)")
		}
		return openai.NewClient(cfg.AI.OpenAI.APIKey, cfg.AI.OpenAI.Model)
	default:
		return nil, fmt.Errorf("unknown AI plugin: %q", cfg.AI.Plugin)
	}
}
