package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config aggregates all application configuration
type Config struct {
	AI          AIConfig          `yaml:"ai"`
	Flight      FlightConfig      `yaml:"flight"`
	TripAdvisor TripAdvisorConfig `yaml:"tripadvisor"`
	Maps        MapsConfig        `yaml:"maps"`
	Agent       AgentConfig       `yaml:"agent"`
}

type AIConfig struct {
	Plugin string       `yaml:"plugin" env:"AI_PLUGIN" env-default:"openai"`
	OpenAI OpenAIConfig `yaml:"openai"`
	Gemini GeminiConfig `yaml:"gemini"`
	Ollama OllamaConfig `yaml:"ollama"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key" env:"OPENAI_API_KEY"`
	Model  string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"GEMINI_MODEL" env-default:"gemini-1.5-flash"`
}

type OllamaConfig struct {
	Model   string `yaml:"model" env:"OLLAMA_MODEL" env-default:"qwen3:4b"`
	BaseURL string `yaml:"base_url" env:"OLLAMA_BASE_URL" env-default:"http://localhost:11434"`
}

// FlightConfig holds credentials for the flight search provider.
// The key and host are sent as request headers on every call.
type FlightConfig struct {
	APIKey  string `yaml:"api_key" env:"FLIGHT_API_KEY"`
	Host    string `yaml:"host" env:"FLIGHT_API_HOST" env-default:"booking-com15.p.rapidapi.com"`
	Timeout int    `yaml:"timeout" env:"FLIGHT_API_TIMEOUT" env-default:"30"`
}

// TripAdvisorConfig holds credentials for the place content provider.
// The key is sent as a query parameter on every call.
type TripAdvisorConfig struct {
	APIKey  string `yaml:"api_key" env:"TRIPADVISOR_API_KEY"`
	Timeout int    `yaml:"timeout" env:"TRIPADVISOR_API_TIMEOUT" env-default:"30"`
}

// MapsConfig is optional; without a key the geocode tool is not registered.
type MapsConfig struct {
	APIKey string `yaml:"api_key" env:"GOOGLE_MAPS_API_KEY"`
}

type AgentConfig struct {
	// MaxSteps caps the number of reasoning iterations per cycle.
	MaxSteps int `yaml:"max_steps" env:"AGENT_MAX_STEPS" env-default:"25"`
}

// Load reads configuration from config.yaml and environment variables
// Priority: Env Vars > Config File > Defaults
func Load() (*Config, error) {
	var cfg Config

	err := cleanenv.ReadConfig("config.yaml", &cfg)
	if err != nil {
		// If file doesn't exist, just read env vars
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the provider keys are present. Both keys are required
// before any request can be issued, so a missing one fails startup.
func (c *Config) Validate() error {
	if c.Flight.APIKey == "" {
		return fmt.Errorf("FLIGHT_API_KEY must be set")
	}
	if c.TripAdvisor.APIKey == "" {
		return fmt.Errorf("TRIPADVISOR_API_KEY must be set")
	}
	if c.Agent.MaxSteps <= 0 {
		return fmt.Errorf("AGENT_MAX_STEPS must be positive, got %d", c.Agent.MaxSteps)
	}
	return nil
}
