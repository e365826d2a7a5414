package stream

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/runner"
	adksession "google.golang.org/adk/session"
	"google.golang.org/genai"

	"simple-agent/internal/agui"
	"simple-agent/internal/query"
	"simple-agent/internal/session"
)

// DefaultMessage stands in for an answer without any text.
const DefaultMessage = "I received your message, but couldn't generate a response."

// Streamer runs queries against an ADK agent. All queries share one session,
// so the agent sees the earlier turns of the conversation.
type Streamer struct {
	runner     *runner.Runner
	userID     string
	sessionID  string
	transcript *agui.Transcript
}

// NewStreamer creates the runner and the session queries will run in.
// transcript may be nil; when set, its thread id doubles as the session id.
func NewStreamer(ctx context.Context, a agent.Agent, sessionMgr *session.Manager, appName, userID string, transcript *agui.Transcript) (*Streamer, error) {
	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          a,
		SessionService: sessionMgr.Service(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	sess, err := sessionMgr.Create(ctx, appName, userID, transcript.ThreadID())
	if err != nil {
		return nil, err
	}
	log.Debug().Str("session", sess.ID()).Str("user", userID).Msg("session created")

	return &Streamer{
		runner:     r,
		userID:     userID,
		sessionID:  sess.ID(),
		transcript: transcript,
	}, nil
}

// SessionID returns the id of the conversation session
func (s *Streamer) SessionID() string { return s.sessionID }

// Query sends q as the next user turn and waits for the final response
func (s *Streamer) Query(ctx context.Context, q string) (query.Result, error) {
	userContent := genai.NewContentFromText(q, genai.RoleUser)
	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}

	rec := s.transcript.StartRun(ctx)
	var resp response

	for adkEvent, err := range s.runner.Run(ctx, s.userID, s.sessionID, userContent, runConfig) {
		if err != nil {
			s.fail(rec, err)
			return query.Result{}, fmt.Errorf("agent execution error: %w", err)
		}
		if adkEvent == nil {
			continue
		}

		rec.Translate(adkEvent)
		resp.add(adkEvent)

		if adkEvent.IsFinalResponse() {
			break
		}
	}

	if err := ctx.Err(); err != nil {
		s.fail(rec, err)
		return query.Result{}, err
	}
	if err := rec.Finish(); err != nil {
		log.Warn().Err(err).Msg("transcript write failed")
	}

	return resp.result(), nil
}

func (s *Streamer) fail(rec *agui.Run, cause error) {
	if err := rec.Fail(cause); err != nil {
		log.Warn().Err(err).Msg("transcript write failed")
	}
}

// response accumulates the answer across the events of one turn.
type response struct {
	text     strings.Builder
	tools    []string
	searches []string
}

func (r *response) add(ev *adksession.Event) {
	if ev.Partial {
		return
	}
	if gm := ev.GroundingMetadata; gm != nil {
		r.searches = append(r.searches, gm.WebSearchQueries...)
	}
	if ev.Content == nil {
		return
	}
	for _, part := range ev.Content.Parts {
		if part.Text != "" && !part.Thought {
			r.text.WriteString(part.Text)
		}
		if part.FunctionCall != nil {
			r.tools = append(r.tools, part.FunctionCall.Name)
		}
	}
}

func (r *response) result() query.Result {
	text := strings.TrimSpace(r.text.String())
	if text == "" {
		text = DefaultMessage
	}
	return query.Result{Text: text, Tools: r.tools, Searches: r.searches}
}

var _ query.Runtime = (*Streamer)(nil)
