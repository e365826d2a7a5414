// Package app wires credential resolution, agent construction and the query
// runner into one run, and owns the reporting of its outcome.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"simple-agent/internal/agent"
	"simple-agent/internal/agui"
	"simple-agent/internal/config"
	"simple-agent/internal/console"
	"simple-agent/internal/credentials"
	"simple-agent/internal/query"
	"simple-agent/internal/session"
	"simple-agent/internal/stream"
)

// RuntimeFactory materialises an agent description as a query runtime.
// The returned close function is called once the run is over.
type RuntimeFactory func(ctx context.Context, desc *agent.Description, creds credentials.Credentials) (query.Runtime, func() error, error)

// App is one end-to-end run
type App struct {
	cfg        *config.Config
	printer    *console.Printer
	sources    []credentials.Source
	newRuntime RuntimeFactory
	pacer      query.Pacer
}

// Option configures an App.
type Option func(*App)

// WithSources replaces the credential sources.
func WithSources(src ...credentials.Source) Option { return func(a *App) { a.sources = src } }

// WithRuntimeFactory replaces the ADK-backed runtime.
func WithRuntimeFactory(f RuntimeFactory) Option { return func(a *App) { a.newRuntime = f } }

// WithPacer replaces the fixed delay between queries.
func WithPacer(p query.Pacer) Option { return func(a *App) { a.pacer = p } }

// New creates an App printing to out
func New(cfg *config.Config, out io.Writer, opts ...Option) *App {
	a := &App{
		cfg:     cfg,
		printer: console.NewPrinter(out),
		sources: []credentials.Source{
			credentials.NewVaultSource(cfg.KeyringService),
			credentials.NewEnvFileSource(cfg.EnvFile),
		},
		pacer: query.FixedDelay(cfg.QueryDelay),
	}
	a.newRuntime = a.adkRuntime
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run resolves credentials, builds the agent and runs every query in order.
// It returns the results gathered before any failure.
func (a *App) Run(ctx context.Context) ([]query.Result, error) {
	a.printer.Banner("🚀 AI Agent Development with Google ADK", "Building Intelligent Agents - Day 1 Example")

	creds, err := credentials.NewResolver(a.sources...).Resolve(ctx)
	if err != nil {
		return nil, err
	}

	agentCfg, queries, err := a.agentConfig()
	if err != nil {
		return nil, err
	}
	desc, err := agent.NewDescription(agentCfg)
	if err != nil {
		return nil, err
	}
	a.printer.AgentCreated(desc.Summary())
	log.Info().Str("agent", desc.Name()).Str("model", desc.Model()).Strs("tools", desc.Tools()).Msg("agent created")

	rt, closeRuntime, err := a.newRuntime(ctx, desc, creds)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", query.ErrInterrupted, ctx.Err())
		}
		return nil, err
	}
	defer func() {
		if err := closeRuntime(); err != nil {
			log.Warn().Err(err).Msg("failed to close runtime")
		}
	}()
	a.printer.Success("Runner initialized")

	runner := query.NewRunner(
		query.WithPacer(a.pacer),
		query.WithTimeout(a.cfg.QueryTimeout),
		query.WithReporter(a.printer),
	)
	results, err := runner.RunAll(ctx, rt, queries)
	log.Info().Int("answered", len(results)).Int("queries", len(queries)).Msg("run finished")
	return results, err
}

// agentConfig returns the built-in agent and queries, overridden by the
// agent file when one is configured.
func (a *App) agentConfig() (agent.Config, []string, error) {
	cfg := agent.DefaultConfig()
	queries := query.DefaultQueries
	if a.cfg.AgentFile == "" {
		return cfg, queries, nil
	}

	af, err := config.LoadAgentFile(a.cfg.AgentFile)
	if err != nil {
		return cfg, nil, fmt.Errorf("%w: %w", agent.ErrConstruction, err)
	}
	if af.Agent.Name != "" {
		cfg.Name = af.Agent.Name
	}
	if af.Agent.Model != "" {
		cfg.Model = af.Agent.Model
	}
	if af.Agent.Description != "" {
		cfg.Description = af.Agent.Description
	}
	if af.Agent.Instruction != "" {
		cfg.Instruction = af.Agent.Instruction
	}
	if af.Agent.Tools != nil {
		cfg.Tools = af.Agent.Tools
	}
	if len(af.Queries) > 0 {
		queries = af.Queries
	}
	return cfg, queries, nil
}

func (a *App) adkRuntime(ctx context.Context, desc *agent.Description, creds credentials.Credentials) (query.Runtime, func() error, error) {
	var transcript *agui.Transcript
	if a.cfg.TranscriptPath != "" {
		t, err := agui.Open(a.cfg.TranscriptPath)
		if err != nil {
			return nil, nil, err
		}
		transcript = t
		log.Info().Str("path", a.cfg.TranscriptPath).Str("thread", t.ThreadID()).Msg("recording AG-UI transcript")
	}

	adkAgent, err := agent.Build(ctx, desc, creds)
	if err != nil {
		transcript.Close()
		return nil, nil, err
	}

	s, err := stream.NewStreamer(ctx, adkAgent, session.NewManager(), a.cfg.AppName, a.cfg.UserID, transcript)
	if err != nil {
		transcript.Close()
		return nil, nil, err
	}
	return s, transcript.Close, nil
}

// Report prints the outcome of Run.
func (a *App) Report(err error) {
	switch {
	case err == nil:
		a.printer.Success("Example completed successfully!")
	case IsInterrupt(err):
		a.printer.Warning("Interrupted by user")
	default:
		a.printer.Error(err, Causes(err))
	}
}

// ReportFailure prints an error raised before an App exists, such as a bad
// configuration, and returns the exit status for it.
func ReportFailure(out io.Writer, err error) int {
	console.NewPrinter(out).Error(err, Causes(err))
	return ExitCode(err)
}

// ExitCode maps the outcome of Run to a process exit status. Interrupts
// exit cleanly.
func ExitCode(err error) int {
	if err == nil || IsInterrupt(err) {
		return 0
	}
	return 1
}

// IsInterrupt reports whether err stems from a cancellation.
func IsInterrupt(err error) bool {
	return errors.Is(err, query.ErrInterrupted) || errors.Is(err, context.Canceled)
}

// Causes lists the messages of the errors wrapped by err, outermost first.
func Causes(err error) []string {
	var out []string
	seen := map[string]bool{err.Error(): true}

	var walk func(error)
	walk = func(e error) {
		var next []error
		switch u := e.(type) {
		case interface{ Unwrap() error }:
			if w := u.Unwrap(); w != nil {
				next = []error{w}
			}
		case interface{ Unwrap() []error }:
			next = u.Unwrap()
		}
		for _, n := range next {
			if msg := n.Error(); !seen[msg] {
				seen[msg] = true
				out = append(out, msg)
			}
			walk(n)
		}
	}
	walk(err)
	return out
}
