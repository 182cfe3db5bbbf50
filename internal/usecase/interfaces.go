package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/restoledger/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// MenuRepository defines data access for the menu.
type MenuRepository interface {
	List(ctx context.Context) ([]*domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error)
	Update(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error)
	Delete(ctx context.Context, id int64) error
}

// OrderRepository defines data access for table orders.
type OrderRepository interface {
	// ListLive returns the orders currently on the kitchen board.
	ListLive(ctx context.Context) ([]*domain.Order, error)
	// ListHistory returns up to limit past orders, any status.
	ListHistory(ctx context.Context, limit int) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

// ExpenseRepository defines data access for expenses.
type ExpenseRepository interface {
	List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error)
	Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error)
	Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error)
	Delete(ctx context.Context, id int64) error
}

// MovementRepository defines data access for manual journal movements.
type MovementRepository interface {
	List(ctx context.Context, limit int) ([]*domain.Movement, error)
	Create(ctx context.Context, movement *domain.Movement) (*domain.Movement, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(session *domain.Session) (string, error)
	Verify(token string) (*domain.Session, error)
}

// Recorder receives measurements from the use cases.
type Recorder interface {
	ObserveAggregation(operation string, elapsed time.Duration, rows int)
	ObserveLogin(success bool)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyProcessing is the value held under a claimed idempotency key
// until its first request finishes.
const IdempotencyProcessing = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so the client can retry it.
	Release(ctx context.Context, key string) error
}

type nopRecorder struct{}

func (nopRecorder) ObserveAggregation(string, time.Duration, int) {}
func (nopRecorder) ObserveLogin(bool)                             {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
