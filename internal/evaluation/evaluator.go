package evaluation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ashureev/debate-coach/internal/domain"
	"github.com/ashureev/debate-coach/internal/llm"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout bounds a single generator call.
const DefaultTimeout = 30 * time.Second

// Outcome labels used for metrics and logs.
const (
	OutcomeOK           = "ok"
	OutcomeFallback     = "fallback"
	OutcomeBlocked      = "blocked"
	OutcomeInvalid      = "invalid"
	OutcomeServiceError = "service_error"
)

// Observer receives one call per Evaluate.
type Observer interface {
	ObserveEvaluation(outcome string, fallbacks domain.Fallback, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveEvaluation(string, domain.Fallback, time.Duration) {}

// Evaluator runs Validate -> Compose -> Invoke -> Parse. It holds no
// per-call state and is safe for concurrent use.
type Evaluator struct {
	gen      llm.Generator
	timeout  time.Duration
	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTimeout sets the generator call timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver sets the metrics observer.
func WithObserver(o Observer) Option {
	return func(e *Evaluator) {
		if o != nil {
			e.observer = o
		}
	}
}

// New creates an Evaluator around gen.
func New(gen llm.Generator, opts ...Option) *Evaluator {
	e := &Evaluator{
		gen:      gen,
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
		observer: noopObserver{},
		tracer:   otel.Tracer("github.com/ashureev/debate-coach/internal/evaluation"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate critiques argument in the context of topic.
//
// A blocked generation is not an error: it returns a result with Blocked set.
// Empty input fails with an error matching ErrInput; a generator failure or
// timeout fails with a *ServiceError.
func (e *Evaluator) Evaluate(ctx context.Context, topic, argument string) (domain.EvaluationResult, error) {
	started := time.Now()
	evalID := uuid.NewString()

	ctx, span := e.tracer.Start(ctx, "evaluation.Evaluate",
		trace.WithAttributes(attribute.String("evaluation.id", evalID)))
	defer span.End()

	topic = strings.TrimSpace(topic)
	argument = strings.TrimSpace(argument)
	if err := validate(topic, argument); err != nil {
		e.observer.ObserveEvaluation(OutcomeInvalid, 0, time.Since(started))
		span.SetStatus(codes.Error, err.Error())
		return domain.EvaluationResult{}, err
	}

	prompt := Compose(topic, argument)

	gen, err := e.invoke(ctx, prompt)
	if err != nil {
		e.observer.ObserveEvaluation(OutcomeServiceError, 0, time.Since(started))
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		e.logger.Error("Generation failed", "evaluation_id", evalID, "error", err)
		return domain.EvaluationResult{}, err
	}

	res := Parse(gen.Text, !gen.Usable())

	outcome := OutcomeOK
	switch {
	case res.Blocked:
		outcome = OutcomeBlocked
		e.logger.Warn("Generation blocked", "evaluation_id", evalID, "reason", gen.BlockReason)
	case res.Fallbacks != 0:
		outcome = OutcomeFallback
		e.logger.Warn("Generated text missing anchors, defaults substituted",
			"evaluation_id", evalID,
			"fallbacks", res.Fallbacks.String())
	}

	elapsed := time.Since(started)
	e.observer.ObserveEvaluation(outcome, res.Fallbacks, elapsed)
	span.SetAttributes(
		attribute.String("evaluation.outcome", outcome),
		attribute.Float64("evaluation.score", res.RationalityScore),
	)
	e.logger.Info("Argument evaluated",
		"evaluation_id", evalID,
		"outcome", outcome,
		"score", res.RationalityScore,
		"duration", elapsed)

	return res, nil
}

func validate(topic, argument string) error {
	if topic == "" {
		return domain.NewInputError("topic", "must not be empty")
	}
	if argument == "" {
		return domain.NewInputError("text", "must not be empty")
	}
	return nil
}

// invoke calls the generator under the configured timeout and classifies
// every failure as a ServiceError.
func (e *Evaluator) invoke(ctx context.Context, prompt string) (llm.Generation, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	gen, err := e.gen.Generate(callCtx, prompt)
	if err != nil {
		return llm.Generation{}, &ServiceError{
			Timeout: errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded),
			Err:     err,
		}
	}
	return gen, nil
}
