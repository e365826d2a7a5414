// Package query runs an ordered list of queries against an agent runtime,
// one at a time.
package query

import (
	"context"
	"time"
)

// DefaultQueries are asked when no other list is configured.
var DefaultQueries = []string{
	"What is Agent Development Kit from Google? What languages is the SDK available in?",
	"What's the weather in London?",
	"Who won the last FIFA World Cup?",
}

// Runtime executes a single query against an agent and returns its answer.
type Runtime interface {
	Query(ctx context.Context, query string) (Result, error)
}

// RuntimeFunc adapts a function to Runtime.
type RuntimeFunc func(ctx context.Context, query string) (Result, error)

func (f RuntimeFunc) Query(ctx context.Context, query string) (Result, error) { return f(ctx, query) }

// Result is the answer to one query
type Result struct {
	Query    string
	Text     string
	Tools    []string // tools the agent called while answering
	Searches []string // web search queries issued through search grounding
	Elapsed  time.Duration
}

func (r Result) String() string { return r.Text }

// Reporter surfaces progress as queries run.
type Reporter interface {
	QueryStarted(index int, query string)
	QueryFinished(index int, result Result)
}
