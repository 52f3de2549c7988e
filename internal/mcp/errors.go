package mcp

import (
	"errors"
	"fmt"

	"github.com/quorumworks/teampool/internal/domain/completion"
	"github.com/quorumworks/teampool/internal/domain/document"
	"github.com/quorumworks/teampool/internal/domain/escrow"
	"github.com/quorumworks/teampool/internal/domain/member"
	"github.com/quorumworks/teampool/internal/domain/participant"
	"github.com/quorumworks/teampool/internal/domain/project"
)

// APIError is the coded error surfaced to API consumers.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// mapError maps domain errors onto the error taxonomy: VALIDATION (retry
// with corrected input), CONFLICT (redundant or no longer possible),
// NOT_FOUND, FUNDS (fatal to the operation, no partial fund movement) and
// STATE (lifecycle precondition violated). Unmapped errors pass through.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	// Validation
	case errors.Is(err, project.ErrInvalidBudget):
		return &APIError{Code: "VALIDATION_BUDGET", Message: "budget must be positive"}
	case errors.Is(err, project.ErrInvalidDeadline):
		return &APIError{Code: "VALIDATION_DEADLINE", Message: "deadline must be in the future"}
	case errors.Is(err, project.ErrInvalidTeamSize):
		return &APIError{Code: "VALIDATION_TEAM_SIZE", Message: "team size must be at least 1"}
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "VALIDATION_INPUT", Message: "invalid project input"}
	case errors.Is(err, member.ErrInvalidInput):
		return &APIError{Code: "VALIDATION_INPUT", Message: "invalid member input"}
	case errors.Is(err, escrow.ErrInvalidAmount):
		return &APIError{Code: "VALIDATION_AMOUNT", Message: "amount must be positive"}
	case errors.Is(err, document.ErrEmptyContent):
		return &APIError{Code: "VALIDATION_INPUT", Message: "document content is empty"}

	// Conflict
	case errors.Is(err, participant.ErrAlreadyParticipant):
		return &APIError{Code: "CONFLICT_ALREADY_PARTICIPANT", Message: "already participating in project"}
	case errors.Is(err, participant.ErrProjectFull):
		return &APIError{Code: "CONFLICT_PROJECT_FULL", Message: "project team is full"}
	case errors.Is(err, completion.ErrAlreadyVoted):
		return &APIError{Code: "CONFLICT_ALREADY_VOTED", Message: "participant already voted"}
	case errors.Is(err, escrow.ErrDuplicateEscrow):
		return &APIError{Code: "CONFLICT_DUPLICATE_ESCROW", Message: "escrow already exists for project"}
	case errors.Is(err, escrow.ErrAlreadyReleased):
		return &APIError{Code: "CONFLICT_ALREADY_RELEASED", Message: "escrow already released"}
	case errors.Is(err, member.ErrMemberExists):
		return &APIError{Code: "CONFLICT_MEMBER_EXISTS", Message: "email or wallet address already registered"}

	// Not found
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "NOT_FOUND_PROJECT", Message: "project not found", RecoveryHint: "Check the project id"}
	case errors.Is(err, member.ErrMemberNotFound):
		return &APIError{Code: "NOT_FOUND_MEMBER", Message: "member not found"}
	case errors.Is(err, participant.ErrNotAParticipant):
		return &APIError{Code: "NOT_FOUND_PARTICIPANT", Message: "not a participant of project"}
	case errors.Is(err, document.ErrNotFound):
		return &APIError{Code: "NOT_FOUND_DOCUMENT", Message: "document not found"}

	// Funds
	case errors.Is(err, escrow.ErrInsufficientFunds):
		return &APIError{Code: "FUNDS_INSUFFICIENT", Message: "funding account cannot cover amount", RecoveryHint: "Deposit funds first"}
	case errors.Is(err, escrow.ErrShareMismatch):
		return &APIError{Code: "FUNDS_SHARE_MISMATCH", Message: "shares do not sum to locked amount"}
	case errors.Is(err, escrow.ErrEscrowNotFound):
		return &APIError{Code: "FUNDS_ESCROW_NOT_FOUND", Message: "escrow not found"}
	case errors.Is(err, escrow.ErrAccountNotFound):
		return &APIError{Code: "FUNDS_ACCOUNT_NOT_FOUND", Message: "funding account not found"}

	// State
	case errors.Is(err, participant.ErrProjectNotJoinable):
		return &APIError{Code: "STATE_NOT_JOINABLE", Message: "project is not accepting participants"}
	case errors.Is(err, completion.ErrProjectNotActive):
		return &APIError{Code: "STATE_NOT_ACTIVE", Message: "project is not active"}
	case errors.Is(err, completion.ErrQuorumNotReached):
		return &APIError{Code: "STATE_QUORUM_NOT_REACHED", Message: "not every participant has voted"}
	case errors.Is(err, project.ErrNotCancellable):
		return &APIError{Code: "STATE_NOT_CANCELLABLE", Message: "project is already completed or cancelled"}
	case errors.Is(err, project.ErrNotOwner):
		return &APIError{Code: "STATE_NOT_OWNER", Message: "only the project owner may cancel"}
	}
	return err
}
