package sequence

import (
	"context"
	"time"

	"github.com/flexcargo/flexcargo/internal/types"
)

// Repository is the sequence store. IncrementAndFetch is the only operation
// that hands out numbers.
type Repository interface {
	// EnsureInitialized inserts the counter unless one already exists for its
	// tenant and type. It reports whether a row was created.
	EnsureInitialized(ctx context.Context, counter *Counter) (bool, error)

	// IncrementAndFetch atomically advances the counter, restarting it at 1 when
	// the key of its reset period moved forward, and returns the new state.
	IncrementAndFetch(ctx context.Context, tenantID string, sequenceType types.SequenceType, keys PeriodKeys, now time.Time) (*Allocation, error)

	Get(ctx context.Context, tenantID string, sequenceType types.SequenceType) (*Counter, error)
	List(ctx context.Context, tenantID string) ([]*Counter, error)

	// SetFloor raises the counter to at least value within periodKey. It never
	// lowers a counter and ignores periods older than the stored one.
	SetFloor(ctx context.Context, tenantID string, sequenceType types.SequenceType, periodKey string, value int64) (*Counter, error)
}

// IssuedCodeRepository reads document numbers already stored on business
// entities. It is only used to seed counters when migrating legacy data.
type IssuedCodeRepository interface {
	// ListIssuedCodes returns the codes of a sequence type starting with prefix
	ListIssuedCodes(ctx context.Context, tenantID string, sequenceType types.SequenceType, prefix string) ([]string, error)
}
