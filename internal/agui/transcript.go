// Package agui records agent runs as AG-UI protocol event streams so a
// compatible UI can replay them.
package agui

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/encoding/sse"
	adksession "google.golang.org/adk/session"
	"google.golang.org/genai"
)

// Transcript writes AG-UI events as SSE frames. All runs of one process
// share a thread id. A nil *Transcript records nothing.
type Transcript struct {
	w        *bufio.Writer
	closer   io.Closer
	sse      *sse.SSEWriter
	threadID string
}

// New creates a transcript writing to w
func New(w io.Writer) *Transcript {
	return &Transcript{
		w:        bufio.NewWriter(w),
		sse:      sse.NewSSEWriter(),
		threadID: events.GenerateThreadID(),
	}
}

// Open creates (or truncates) the transcript file at path
func Open(path string) (*Transcript, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript: %w", err)
	}
	t := New(f)
	t.closer = f
	return t, nil
}

// ThreadID returns the AG-UI thread id of this transcript
func (t *Transcript) ThreadID() string {
	if t == nil {
		return ""
	}
	return t.threadID
}

// Close flushes pending frames and closes the underlying file, if any
func (t *Transcript) Close() error {
	if t == nil {
		return nil
	}
	err := t.w.Flush()
	if t.closer != nil {
		if cerr := t.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Run is one query's slice of the transcript. A nil *Run records nothing.
type Run struct {
	t         *Transcript
	ctx       context.Context
	runID     string
	messageID string
	err       error

	// ADK function call id -> AG-UI tool call id
	toolCalls map[string]string
	// tool name -> AG-UI ids of started calls that carried no ADK id
	unnamed map[string][]string
	// AG-UI tool call ids started but not yet ended
	open map[string]bool
}

// StartRun writes RUN_STARTED and opens the assistant message. Frames of
// an interrupted run are still written.
func (t *Transcript) StartRun(ctx context.Context) *Run {
	if t == nil {
		return nil
	}
	r := &Run{
		t:         t,
		ctx:       context.WithoutCancel(ctx),
		runID:     events.GenerateRunID(),
		messageID: events.GenerateMessageID(),
		toolCalls: make(map[string]string),
		unnamed:   make(map[string][]string),
		open:      make(map[string]bool),
	}
	r.write(events.NewRunStartedEvent(t.threadID, r.runID))
	r.write(events.NewTextMessageStartEvent(r.messageID, events.WithRole("assistant")))
	return r
}

func (r *Run) write(ev events.Event) {
	if r.err != nil {
		return
	}
	if err := r.t.sse.WriteEvent(r.ctx, r.t.w, ev); err != nil {
		r.err = fmt.Errorf("failed to write transcript event: %w", err)
	}
}

// Translate converts one ADK event into AG-UI events
func (r *Run) Translate(ev *adksession.Event) {
	if r == nil || ev == nil || ev.Content == nil {
		return
	}

	for _, part := range ev.Content.Parts {
		if part.Text != "" && !part.Thought {
			r.write(events.NewTextMessageContentEvent(r.messageID, part.Text))
		}

		if fc := part.FunctionCall; fc != nil {
			id := fc.ID
			if id == "" {
				id = events.GenerateToolCallID()
				r.unnamed[fc.Name] = append(r.unnamed[fc.Name], id)
			} else {
				r.toolCalls[fc.ID] = id
			}

			r.write(events.NewToolCallStartEvent(id, fc.Name))
			r.open[id] = true

			if fc.Args != nil {
				if args, err := json.Marshal(fc.Args); err == nil {
					r.write(events.NewToolCallArgsEvent(id, string(args)))
				}
			}
		}

		if fr := part.FunctionResponse; fr != nil {
			id, ok := r.callFor(fr)
			if !ok {
				continue
			}

			result := ""
			if fr.Response != nil {
				if b, err := json.Marshal(fr.Response); err == nil {
					result = string(b)
				} else {
					result = fmt.Sprintf("%v", fr.Response)
				}
			}

			r.write(events.NewToolCallResultEvent(r.messageID, id, result))
			r.write(events.NewToolCallEndEvent(id))
			delete(r.open, id)
		}
	}
}

// callFor finds the started call a response answers. Responses without an
// ADK id are matched to id-less calls of the same tool in call order.
func (r *Run) callFor(fr *genai.FunctionResponse) (string, bool) {
	var id string
	if fr.ID != "" {
		id = r.toolCalls[fr.ID]
		delete(r.toolCalls, fr.ID)
	} else if q := r.unnamed[fr.Name]; len(q) > 0 {
		id = q[0]
		r.unnamed[fr.Name] = q[1:]
	}
	if id == "" || !r.open[id] {
		return "", false
	}
	return id, true
}

func (r *Run) closeToolCalls() {
	for id := range r.open {
		r.write(events.NewToolCallEndEvent(id))
		delete(r.open, id)
	}
}

// Finish closes the message and writes RUN_FINISHED. It returns the first
// write error of the run.
func (r *Run) Finish() error {
	if r == nil {
		return nil
	}
	r.closeToolCalls()
	r.write(events.NewTextMessageEndEvent(r.messageID))
	r.write(events.NewRunFinishedEvent(r.t.threadID, r.runID))
	return r.flush()
}

// Fail closes any open tool calls and writes RUN_ERROR.
func (r *Run) Fail(cause error) error {
	if r == nil {
		return nil
	}
	r.closeToolCalls()
	r.write(events.NewRunErrorEvent(cause.Error(), events.WithRunID(r.runID)))
	return r.flush()
}

func (r *Run) flush() error {
	if r.err != nil {
		return r.err
	}
	return r.t.w.Flush()
}
