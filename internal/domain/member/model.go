package member

import "time"

// Member is a registered user of the platform. Email and wallet address
// are unique. Authentication is external: the engine trusts the member id
// the transport layer resolves for each call.
type Member struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	WalletAddress string    `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
}
