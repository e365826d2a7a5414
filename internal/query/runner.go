package query

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "simple-agent/internal/query"

// Runner submits queries strictly in order. Each query is awaited before
// the next is submitted and the pacer runs between consecutive queries.
type Runner struct {
	pacer    Pacer
	timeout  time.Duration
	reporter Reporter
	tracer   trace.Tracer
}

// Option configures a Runner.
type Option func(*Runner)

// WithPacer sets the wait between queries. Default: one second.
func WithPacer(p Pacer) Option { return func(r *Runner) { r.pacer = p } }

// WithTimeout bounds each query. Zero disables the bound.
func WithTimeout(d time.Duration) Option { return func(r *Runner) { r.timeout = d } }

// WithReporter receives progress as queries start and finish.
func WithReporter(rep Reporter) Option { return func(r *Runner) { r.reporter = rep } }

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option { return func(r *Runner) { r.tracer = t } }

// NewRunner creates a Runner
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		pacer:   FixedDelay(time.Second),
		timeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(tracerName)
	}
	return r
}

// RunAll runs queries against rt and returns their results in input order.
//
// The first failing query aborts the rest and is reported as an
// *ExecutionError. Cancellation of ctx yields ErrInterrupted. In both cases
// the results collected so far are returned alongside the error.
func (r *Runner) RunAll(ctx context.Context, rt Runtime, queries []string) ([]Result, error) {
	results := make([]Result, 0, len(queries))

	for i, q := range queries {
		if i > 0 {
			if err := r.pacer.Wait(ctx); err != nil {
				return results, fmt.Errorf("%w: %w", ErrInterrupted, err)
			}
		}
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}

		if r.reporter != nil {
			r.reporter.QueryStarted(i, q)
		}

		res, err := r.runOne(ctx, i, q, rt)
		if err != nil {
			if ctx.Err() != nil {
				return results, fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
			}
			return results, &ExecutionError{Index: i, Query: q, Err: err}
		}

		results = append(results, res)
		if r.reporter != nil {
			r.reporter.QueryFinished(i, res)
		}
	}

	return results, nil
}

func (r *Runner) runOne(ctx context.Context, index int, q string, rt Runtime) (Result, error) {
	ctx, span := r.tracer.Start(ctx, "query",
		trace.WithAttributes(
			attribute.Int("query.index", index),
			attribute.String("query.text", q),
		))
	defer span.End()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	log.Debug().Int("index", index).Str("query", q).Msg("submitting query")

	res, err := rt.Query(ctx, q)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Debug().Err(err).Int("index", index).Dur("elapsed", elapsed).Msg("query failed")
		return Result{}, err
	}

	res.Query = q
	res.Elapsed = elapsed
	span.SetAttributes(attribute.Int("response.length", len(res.Text)))
	log.Debug().Int("index", index).Dur("elapsed", elapsed).Int("tools", len(res.Tools)).Msg("query answered")
	return res, nil
}
