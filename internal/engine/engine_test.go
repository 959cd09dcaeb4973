package engine

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

// stubValidator is a test helper that returns a fixed finding.
type stubValidator struct {
	name     string
	category Category
	finding  *Finding
	delay    time.Duration
}

func (s *stubValidator) Name() string       { return s.name }
func (s *stubValidator) Category() Category { return s.category }
func (s *stubValidator) Validate(ctx context.Context, _ *CheckRequest) (*Finding, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return &Finding{}, nil
		}
	}
	return s.finding, nil
}

func TestEngine_AllValidatorsRun(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	validators := []Validator{
		&stubValidator{
			name:     "validator_a",
			category: CategoryDocumentSchema,
			finding:  &Finding{Triggered: false},
		},
		&stubValidator{
			name:     "validator_b",
			category: CategoryDefaultValues,
			finding:  &Finding{Triggered: true, Confidence: 0.9, Details: "bad default"},
		},
	}

	eng := NewValidationEngine(validators, 100*time.Millisecond, logger)
	results, dur := eng.Validate(context.Background(), &CheckRequest{})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if dur > 100*time.Millisecond {
		t.Fatalf("engine took too long: %v", dur)
	}
}

func TestEngine_TimeoutSkipsSlowValidator(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	validators := []Validator{
		&stubValidator{
			name:     "fast",
			category: CategoryDocumentSchema,
			finding:  &Finding{Triggered: false},
		},
		&stubValidator{
			name:     "slow",
			category: CategoryConnections,
			finding:  &Finding{Triggered: true, Confidence: 0.9, Details: "should be skipped"},
			delay:    500 * time.Millisecond,
		},
	}

	eng := NewValidationEngine(validators, 10*time.Millisecond, logger)
	results, _ := eng.Validate(context.Background(), &CheckRequest{})

	// Should get at least the fast validator, slow one may be skipped
	if len(results) > 2 {
		t.Fatalf("unexpected result count: %d", len(results))
	}
}

func TestEngine_ValidatorErrorBecomesResult(t *testing.T) {
	logger := zap.NewNop()
	validators := []Validator{
		errorValidator{},
	}

	eng := NewValidationEngine(validators, 100*time.Millisecond, logger)
	results, _ := eng.Validate(context.Background(), &CheckRequest{})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Triggered {
		t.Fatal("errored validator must not trigger")
	}
}

type errorValidator struct{}

func (errorValidator) Name() string       { return "broken" }
func (errorValidator) Category() Category { return CategoryTypeResolution }
func (errorValidator) Validate(context.Context, *CheckRequest) (*Finding, error) {
	return nil, context.DeadlineExceeded
}

func TestEngine_EmptyValidators(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	eng := NewValidationEngine(nil, 100*time.Millisecond, logger)
	results, _ := eng.Validate(context.Background(), &CheckRequest{})

	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func BenchmarkEngine_FourValidators(b *testing.B) {
	logger := zap.NewNop()
	validators := []Validator{
		&stubValidator{name: "a", category: CategoryDocumentSchema, finding: &Finding{}},
		&stubValidator{name: "b", category: CategoryTypeResolution, finding: &Finding{}},
		&stubValidator{name: "c", category: CategoryDefaultValues, finding: &Finding{}},
		&stubValidator{name: "d", category: CategoryConnections, finding: &Finding{}},
	}
	eng := NewValidationEngine(validators, 25*time.Millisecond, logger)
	req := &CheckRequest{}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		eng.Validate(context.Background(), req)
	}
}
