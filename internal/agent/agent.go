package agent

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/geminitool"
	"google.golang.org/genai"

	"simple-agent/internal/credentials"
)

// ErrConstruction is returned for invalid agent configuration or when the
// runtime refuses to build the agent.
var ErrConstruction = errors.New("agent construction failed")

// Config is the static agent configuration
type Config struct {
	Name        string
	Model       string
	Description string
	Instruction string
	Tools       []string
}

// DefaultConfig returns the helpful assistant with Google Search
func DefaultConfig() Config {
	return Config{
		Name:        "helpful_assistant",
		Model:       "gemini-2.5-flash-lite",
		Description: "A simple agent that can answer general questions.",
		Instruction: "You are a helpful assistant. Use Google Search for current info or if unsure.",
		Tools:       []string{"google_search"},
	}
}

// toolFactories maps tool names to the runtime tools they stand for.
var toolFactories = map[string]func() tool.Tool{
	"google_search": func() tool.Tool { return geminitool.GoogleSearch{} },
	"search":        func() tool.Tool { return geminitool.GoogleSearch{} },
}

// Description is an immutable, validated agent description
type Description struct {
	name        string
	model       string
	description string
	instruction string
	tools       []string
}

// NewDescription validates cfg and projects it into a Description. No I/O.
func NewDescription(cfg Config) (*Description, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrConstruction)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("%w: model must not be empty", ErrConstruction)
	}
	for _, t := range cfg.Tools {
		if _, ok := toolFactories[t]; !ok {
			return nil, fmt.Errorf("%w: unknown tool %q", ErrConstruction, t)
		}
	}

	return &Description{
		name:        cfg.Name,
		model:       cfg.Model,
		description: cfg.Description,
		instruction: cfg.Instruction,
		tools:       slices.Clone(cfg.Tools),
	}, nil
}

func (d *Description) Name() string        { return d.name }
func (d *Description) Model() string       { return d.model }
func (d *Description) Description() string { return d.description }
func (d *Description) Instruction() string { return d.instruction }

// Tools returns a copy of the tool names
func (d *Description) Tools() []string { return slices.Clone(d.tools) }

// Summary renders the description for operators
func (d *Description) Summary() string {
	return fmt.Sprintf("Name: %s\nModel: %s\nTools: [%s]", d.name, d.model, strings.Join(d.tools, ", "))
}

// Build creates the ADK agent for d. The model client is configured only
// from creds, never from the process environment.
func Build(ctx context.Context, d *Description, creds credentials.Credentials) (agent.Agent, error) {
	model, err := gemini.NewModel(ctx, d.model, clientConfig(creds))
	if err != nil {
		return nil, fmt.Errorf("%w: model %s: %w", ErrConstruction, d.model, err)
	}

	tools := make([]tool.Tool, 0, len(d.tools))
	for _, name := range d.tools {
		tools = append(tools, toolFactories[name]())
	}

	a, err := llmagent.New(llmagent.Config{
		Name:        d.name,
		Model:       model,
		Description: d.description,
		Instruction: d.instruction,
		Tools:       tools,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstruction, err)
	}

	return a, nil
}

func clientConfig(creds credentials.Credentials) *genai.ClientConfig {
	if !creds.UseVertexAI {
		return &genai.ClientConfig{
			APIKey:  creds.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
	}
	// Vertex AI takes either a project/location pair or an express-mode key.
	if creds.Project != "" {
		return &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  creds.Project,
			Location: creds.Location,
		}
	}
	return &genai.ClientConfig{
		APIKey:  creds.APIKey,
		Backend: genai.BackendVertexAI,
	}
}
