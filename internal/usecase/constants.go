package usecase

import "time"

const (
	// DefaultVotingPeriod is the window that must elapse before a
	// proposal can be finalized.
	DefaultVotingPeriod = 72 * time.Hour

	// DefaultInterestRatePercent is the initial system-wide default
	// rate; governance changes it through finalized proposals.
	DefaultInterestRatePercent = 10

	// DefaultEventListLimit caps event feed reads.
	DefaultEventListLimit = 100

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
