package project

import "time"

// Status represents the lifecycle status of a project.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal reports whether no further transitions are possible from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Project represents a collaborative project with an escrowed budget.
// Budget is a fixed-point monetary value in base units (cents) and is
// immutable after creation.
type Project struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Budget      int64     `json:"budget"`
	Deadline    time.Time `json:"deadline"`
	TeamSize    int       `json:"team_size"`
	Status      Status    `json:"status"`
	DocumentRef string    `json:"document_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary is a lightweight representation for listing.
type Summary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerName string    `json:"owner_name,omitempty"`
	Budget    int64     `json:"budget"`
	Deadline  time.Time `json:"deadline"`
	TeamSize  int       `json:"team_size"`
	TeamCount int       `json:"team_count"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Details is the project snapshot returned to callers after an operation.
type Details struct {
	Project
	TeamCount  int   `json:"team_count"`
	VotedCount int   `json:"voted_count"`
	Locked     int64 `json:"locked_amount"`
	Released   bool  `json:"released"`
}
