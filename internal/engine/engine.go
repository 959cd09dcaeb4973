package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ValidationEngine fans out a check request to all registered validators in
// parallel and collects their results.
type ValidationEngine struct {
	validators []Validator
	timeout    time.Duration
	logger     *zap.Logger
}

// NewValidationEngine creates an engine with the given validators and timeout.
func NewValidationEngine(validators []Validator, timeout time.Duration, logger *zap.Logger) *ValidationEngine {
	return &ValidationEngine{
		validators: validators,
		timeout:    timeout,
		logger:     logger,
	}
}

// Result holds a single validator's finding alongside its metadata.
type Result struct {
	Validator  string
	Category   Category
	Triggered  bool
	Confidence float32
	Details    string
	Deferred   bool
}

// checkOutput carries a validator's raw output through the fan-out channel.
type checkOutput struct {
	name     string
	category Category
	finding  *Finding
	err      error
}

// Validate runs validators in parallel against the request and returns the
// collected results. Validators that exceed the timeout are skipped.
//
// Each goroutine sends its result through a buffered channel, so the main
// goroutine can safely read completed results without racing against
// in-flight writes. When the deadline fires, we stop reading and return
// whatever has been collected.
func (e *ValidationEngine) Validate(ctx context.Context, req *CheckRequest) ([]Result, time.Duration) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ch := make(chan checkOutput, len(e.validators))

	for _, v := range e.validators {
		go func(v Validator) {
			finding, err := v.Validate(ctx, req)
			ch <- checkOutput{
				name:     v.Name(),
				category: v.Category(),
				finding:  finding,
				err:      err,
			}
		}(v)
	}

	collected := make([]checkOutput, 0, len(e.validators))
	remaining := len(e.validators)
	for remaining > 0 {
		select {
		case out := <-ch:
			collected = append(collected, out)
			remaining--
		case <-ctx.Done():
			e.logger.Warn("validator timeout exceeded, returning partial results",
				zap.Duration("timeout", e.timeout),
			)
			remaining = 0
		}
	}

	results := make([]Result, 0, len(collected))
	for _, out := range collected {
		if out.err != nil {
			e.logger.Warn("validator error",
				zap.String("validator", out.name),
				zap.Error(out.err),
			)
			results = append(results, Result{
				Validator: out.name,
				Category:  out.category,
				Details:   "validator error: " + out.err.Error(),
			})
			continue
		}
		if out.finding == nil {
			continue
		}
		results = append(results, Result{
			Validator:  out.name,
			Category:   out.category,
			Triggered:  out.finding.Triggered,
			Confidence: out.finding.Confidence,
			Details:    out.finding.Details,
			Deferred:   out.finding.Deferred,
		})
	}

	return results, time.Since(start)
}
