package escrow

import "time"

// Account is a member's funding account. Balances are fixed-point base
// units (cents) and never go negative.
type Account struct {
	MemberID int64 `json:"member_id"`
	Balance  int64 `json:"balance"`
}

// Escrow holds a project's locked budget. Exactly one escrow exists per
// project; funds release at most once.
type Escrow struct {
	ProjectID int64     `json:"project_id"`
	Locked    int64     `json:"locked_amount"`
	Released  bool      `json:"released"`
	CreatedAt time.Time `json:"created_at"`
}

// Share is one beneficiary's portion of a settlement.
type Share struct {
	MemberID int64 `json:"member_id"`
	Amount   int64 `json:"amount"`
}

// TransferKind classifies a fund movement leg.
type TransferKind string

const (
	// TransferFund credits a funding account from outside the system.
	TransferFund TransferKind = "fund"
	// TransferDeposit moves funds from the owner's account into escrow.
	TransferDeposit TransferKind = "deposit"
	// TransferRelease pays a settlement share to a participant.
	TransferRelease TransferKind = "release"
	// TransferRefund returns the locked amount to the owner on cancellation.
	TransferRefund TransferKind = "refund"
)

// Transfer is one recorded fund movement leg.
type Transfer struct {
	ID        string       `json:"id"`
	ProjectID int64        `json:"project_id,omitempty"`
	MemberID  int64        `json:"member_id"`
	Kind      TransferKind `json:"kind"`
	Amount    int64        `json:"amount"`
	CreatedAt time.Time    `json:"created_at"`
}
