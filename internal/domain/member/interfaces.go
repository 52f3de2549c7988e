package member

import "context"

// Repository provides persistence for members. Create opens the member's
// funding account and stores the access-key hash in the same transaction.
type Repository interface {
	Create(ctx context.Context, m *Member, keyHash string) (int64, error)
	Get(ctx context.Context, id int64) (*Member, error)
	ResolveKey(ctx context.Context, keyHash string) (int64, error)
}
