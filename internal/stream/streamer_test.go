package stream

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	adksession "google.golang.org/adk/session"
	"google.golang.org/genai"

	"simple-agent/internal/agui"
	"simple-agent/internal/query"
	"simple-agent/internal/session"
)

// fakeLLM answers each call with the next canned response.
type fakeLLM struct {
	responses []*model.LLMResponse
	err       error
	// cancel, when set, is called before blocking until ctx is done
	cancel   context.CancelFunc
	calls    int
	contents [][]*genai.Content
}

func (f *fakeLLM) Name() string { return "fake-model" }

func (f *fakeLLM) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		f.contents = append(f.contents, req.Contents)
		if f.cancel != nil {
			f.cancel()
			<-ctx.Done()
			yield(nil, ctx.Err())
			return
		}
		if f.err != nil {
			yield(nil, f.err)
			return
		}
		resp := f.responses[f.calls]
		f.calls++
		yield(resp, nil)
	}
}

func eventOf(resp *model.LLMResponse) *adksession.Event {
	return &adksession.Event{LLMResponse: *resp}
}

func textResponse(s string) *model.LLMResponse {
	return &model.LLMResponse{Content: genai.NewContentFromText(s, genai.RoleModel), TurnComplete: true}
}

func newTestStreamer(t *testing.T, llm *fakeLLM, tr *agui.Transcript) *Streamer {
	t.Helper()
	a, err := llmagent.New(llmagent.Config{
		Name:        "helpful_assistant",
		Model:       llm,
		Description: "test agent",
		Instruction: "Answer briefly.",
	})
	require.NoError(t, err)

	s, err := NewStreamer(context.Background(), a, session.NewManager(), "simple-agent-test", "user", tr)
	require.NoError(t, err)
	return s
}

func TestStreamerQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("answers in one session", func(t *testing.T) {
		llm := &fakeLLM{responses: []*model.LLMResponse{textResponse("R1"), textResponse("R2")}}
		s := newTestStreamer(t, llm, nil)
		assert.NotEmpty(t, s.SessionID())

		r1, err := s.Query(ctx, "Q1")
		require.NoError(t, err)
		assert.Equal(t, "R1", r1.Text)

		r2, err := s.Query(ctx, "Q2")
		require.NoError(t, err)
		assert.Equal(t, "R2", r2.Text)

		assert.Equal(t, 2, llm.calls)
		// the second request carries the first turn
		assert.Greater(t, len(llm.contents[1]), len(llm.contents[0]))
	})

	t.Run("empty answer", func(t *testing.T) {
		llm := &fakeLLM{responses: []*model.LLMResponse{textResponse("")}}
		s := newTestStreamer(t, llm, nil)

		r, err := s.Query(ctx, "Q1")
		require.NoError(t, err)
		assert.Equal(t, DefaultMessage, r.Text)
	})

	t.Run("model error", func(t *testing.T) {
		boom := errors.New("resource exhausted")
		var buf bytes.Buffer
		s := newTestStreamer(t, &fakeLLM{err: boom}, agui.New(&buf))

		_, err := s.Query(ctx, "Q1")
		require.Error(t, err)
		assert.ErrorContains(t, err, boom.Error())
		assert.Contains(t, buf.String(), "RUN_ERROR")
	})

	t.Run("transcript", func(t *testing.T) {
		var buf bytes.Buffer
		tr := agui.New(&buf)
		s := newTestStreamer(t, &fakeLLM{responses: []*model.LLMResponse{textResponse("R1")}}, tr)

		assert.Equal(t, tr.ThreadID(), s.SessionID())

		_, err := s.Query(ctx, "Q1")
		require.NoError(t, err)
		require.NoError(t, tr.Close())

		assert.Contains(t, buf.String(), "RUN_STARTED")
		assert.Contains(t, buf.String(), "R1")
		assert.Contains(t, buf.String(), "RUN_FINISHED")
	})
}

func TestStreamerInterrupted(t *testing.T) {
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf bytes.Buffer
	llm := &fakeLLM{cancel: cancel}
	s := newTestStreamer(t, llm, agui.New(&buf))

	results, err := query.NewRunner(query.WithPacer(query.FixedDelay(0))).RunAll(runCtx, s, []string{"Q1", "Q2"})
	assert.ErrorIs(t, err, query.ErrInterrupted)
	assert.NotErrorIs(t, err, query.ErrQueryExecution)
	assert.Empty(t, results)
	assert.Equal(t, 1, len(llm.contents))
	assert.Contains(t, buf.String(), "RUN_ERROR")
}

func TestResponse(t *testing.T) {
	var r response
	r.add(eventOf(&model.LLMResponse{Content: genai.NewContentFromText("partial", genai.RoleModel), Partial: true}))
	r.add(eventOf(&model.LLMResponse{Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{
		{Text: "thinking", Thought: true},
		{FunctionCall: &genai.FunctionCall{Name: "google_search"}},
	}}}))
	r.add(eventOf(&model.LLMResponse{
		Content:           genai.NewContentFromText("It is raining.", genai.RoleModel),
		GroundingMetadata: &genai.GroundingMetadata{WebSearchQueries: []string{"weather london"}},
	}))

	res := r.result()
	assert.Equal(t, "It is raining.", res.Text)
	assert.Equal(t, []string{"google_search"}, res.Tools)
	assert.Equal(t, []string{"weather london"}, res.Searches)
}
