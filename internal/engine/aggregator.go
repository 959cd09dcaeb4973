package engine

import "strings"

// Verdict is the aggregate outcome of a definition check.
type Verdict string

const (
	// VerdictValid means every validator passed.
	VerdictValid Verdict = "valid"
	// VerdictUnresolved means the definition is well-formed but carries tags
	// awaiting deferred resolution against external registries.
	VerdictUnresolved Verdict = "unresolved"
	// VerdictInvalid means at least one validator found a hard fault.
	VerdictInvalid Verdict = "invalid"
)

// AggregatorConfig holds the threshold for verdict determination.
type AggregatorConfig struct {
	InvalidThreshold float32 // Confidence >= this → invalid (default 0.8)
}

// DefaultAggregatorConfig returns the default thresholds.
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		InvalidThreshold: 0.8,
	}
}

// AggregateResult holds the final verdict and reason after aggregation.
type AggregateResult struct {
	Verdict Verdict
	Reason  string
}

// Aggregate folds validator results into a verdict.
//
// Rules (applied in order):
//  1. If ANY non-deferred result triggered with confidence >= InvalidThreshold → invalid
//  2. If only deferred results triggered → unresolved
//  3. Otherwise → valid
//
// invalid overrides unresolved.
func Aggregate(results []Result, cfg AggregatorConfig) AggregateResult {
	verdict := VerdictValid
	var triggeredDetails []string

	for _, r := range results {
		if !r.Triggered {
			continue
		}

		triggeredDetails = append(triggeredDetails, r.Details)

		if r.Deferred {
			if verdict == VerdictValid {
				verdict = VerdictUnresolved
			}
			continue
		}
		if r.Confidence >= cfg.InvalidThreshold {
			verdict = VerdictInvalid
		}
	}

	return AggregateResult{
		Verdict: verdict,
		Reason:  strings.Join(triggeredDetails, "; "),
	}
}
