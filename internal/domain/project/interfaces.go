package project

import (
	"context"
	"time"
)

// Repository provides persistence for projects. Create opens the escrow for
// the project budget in the same transaction: the project row and the locked
// funds either both exist afterwards or neither does.
type Repository interface {
	Create(ctx context.Context, proj *Project) (int64, error)
	Get(ctx context.Context, id int64) (*Project, error)
	GetDetails(ctx context.Context, id int64) (*Details, error)
	List(ctx context.Context) ([]Summary, error)
}

// EscrowLedger exposes the refund-and-cancel transition used by Cancel.
type EscrowLedger interface {
	Refund(ctx context.Context, projectID int64) error
}

// Locker serializes mutating operations per project id.
type Locker interface {
	Lock(id int64) (unlock func())
}

// Clock supplies the current time; swapped out in tests.
type Clock func() time.Time
