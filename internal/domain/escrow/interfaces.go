package escrow

import "context"

// Repository provides persistence for escrows, funding accounts and the
// transfer log. Settle and Refund are transactional units: the payout legs,
// the released flag and the project status flip commit together or not at
// all.
type Repository interface {
	Get(ctx context.Context, projectID int64) (*Escrow, error)
	Settle(ctx context.Context, projectID int64, shares []Share) error
	Refund(ctx context.Context, projectID int64) error
	CreditAccount(ctx context.Context, memberID, amount int64) error
	GetAccount(ctx context.Context, memberID int64) (*Account, error)
	ListTransfers(ctx context.Context, projectID int64) ([]Transfer, error)
}
