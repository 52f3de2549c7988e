package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quorumworks/teampool/internal/domain/completion"
	"github.com/quorumworks/teampool/internal/domain/escrow"
	"github.com/quorumworks/teampool/internal/domain/participant"
	"github.com/quorumworks/teampool/internal/domain/project"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{project.ErrInvalidBudget, "VALIDATION_BUDGET"},
		{project.ErrInvalidDeadline, "VALIDATION_DEADLINE"},
		{project.ErrInvalidTeamSize, "VALIDATION_TEAM_SIZE"},
		{participant.ErrAlreadyParticipant, "CONFLICT_ALREADY_PARTICIPANT"},
		{participant.ErrProjectFull, "CONFLICT_PROJECT_FULL"},
		{participant.ErrProjectNotJoinable, "STATE_NOT_JOINABLE"},
		{completion.ErrAlreadyVoted, "CONFLICT_ALREADY_VOTED"},
		{completion.ErrProjectNotActive, "STATE_NOT_ACTIVE"},
		{completion.ErrQuorumNotReached, "STATE_QUORUM_NOT_REACHED"},
		{escrow.ErrInsufficientFunds, "FUNDS_INSUFFICIENT"},
		{escrow.ErrAlreadyReleased, "CONFLICT_ALREADY_RELEASED"},
		{project.ErrProjectNotFound, "NOT_FOUND_PROJECT"},
		{project.ErrNotOwner, "STATE_NOT_OWNER"},
		{project.ErrNotCancellable, "STATE_NOT_CANCELLABLE"},
	}

	for _, tc := range cases {
		mapped := mapError(tc.err)
		var apiErr *APIError
		require.ErrorAs(t, mapped, &apiErr, "mapping %v", tc.err)
		require.Equal(t, tc.code, apiErr.Code)
		require.NotEmpty(t, apiErr.Message)
	}
}

func TestMapError_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("admitting participant: %w", participant.ErrProjectFull)
	mapped := mapError(wrapped)

	var apiErr *APIError
	require.ErrorAs(t, mapped, &apiErr)
	require.Equal(t, "CONFLICT_PROJECT_FULL", apiErr.Code)
}

func TestMapError_PassThrough(t *testing.T) {
	require.Nil(t, mapError(nil))

	unknown := errors.New("database on fire")
	require.Equal(t, unknown, mapError(unknown))
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: "STATE_NOT_OWNER", Message: "only the project owner may cancel"}
	require.Equal(t, "STATE_NOT_OWNER: only the project owner may cancel", err.Error())
}
