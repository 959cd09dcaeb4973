package engine

import "time"

// DefaultValidationTimeout is the max time validators get to complete.
const DefaultValidationTimeout = 50 * time.Millisecond
