package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"simple-agent/internal/app"
	"simple-agent/internal/config"
	"simple-agent/internal/logger"
)

func main() {
	os.Exit(execute())
}

func execute() int {
	exitCode := 0

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Ask a Gemini agent with Google Search a fixed list of questions",
		Long: `Resolves GOOGLE_API_KEY from the OS secret store or the environment
(.env is read when present), builds a helpful assistant agent and asks it
each query in turn, printing the answers.

Environment:
  GOOGLE_API_KEY              Gemini API key
  GOOGLE_GENAI_USE_VERTEXAI   use Vertex AI instead of the Gemini API
  AGENT_FILE                  YAML file overriding the agent and queries
  AGENT_TRANSCRIPT            write an AG-UI event transcript to this file
  QUERY_TIMEOUT, QUERY_DELAY  per-query timeout and pause between queries
  LOG_LEVEL                   debug, info, warn or error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				exitCode = app.ReportFailure(cmd.OutOrStdout(), err)
				return nil
			}
			logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})

			// Handle interrupts
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := app.New(cfg, cmd.OutOrStdout())
			_, err = a.Run(ctx)
			a.Report(err)
			exitCode = app.ExitCode(err)
			return nil
		},
	}

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		return app.ReportFailure(cmd.OutOrStdout(), err)
	}
	return exitCode
}
