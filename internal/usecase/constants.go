package usecase

import "time"

const (
	// HistoryFetchLimit is how many past orders analytics and the ledger pull
	// from the backend.
	HistoryFetchLimit = 2500

	// AccountingFetchLimit bounds expense and movement listings used by the ledger.
	AccountingFetchLimit = 300

	// DefaultListLimit and MaxListLimit bound operator listings.
	DefaultListLimit = 100
	MaxListLimit     = 1000

	// HistoryWindowDays is how far back the kitchen history view reaches.
	HistoryWindowDays = 30

	// MenuCacheKey is the cache key of the full menu listing.
	MenuCacheKey = "menu:list"

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
