package mcp

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quorumworks/teampool/internal/domain/project"
)

// ProjectSnapshot is the project view returned by every project tool.
type ProjectSnapshot struct {
	ID          int64  `json:"id" jsonschema:"project identifier"`
	OwnerID     int64  `json:"owner_id" jsonschema:"owning member identifier"`
	Name        string `json:"name" jsonschema:"project name"`
	Description string `json:"description,omitempty" jsonschema:"project description"`
	Budget      int64  `json:"budget" jsonschema:"escrowed budget in cents"`
	Deadline    string `json:"deadline" jsonschema:"deadline, RFC 3339"`
	TeamSize    int    `json:"team_size" jsonschema:"required team size"`
	Status      string `json:"status" jsonschema:"OPEN, ACTIVE, COMPLETED or CANCELLED"`
	DocumentRef string `json:"document_ref,omitempty" jsonschema:"attached document reference"`
	TeamCount   int    `json:"team_count" jsonschema:"admitted participants"`
	VotedCount  int    `json:"voted_count" jsonschema:"completion votes cast"`
	Locked      int64  `json:"locked_amount" jsonschema:"amount held in escrow"`
	Released    bool   `json:"released" jsonschema:"whether escrow has been paid out"`
}

func snapshotFromDetails(d *project.Details) ProjectSnapshot {
	return ProjectSnapshot{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Description: d.Description,
		Budget:      d.Budget,
		Deadline:    d.Deadline.Format(time.RFC3339),
		TeamSize:    d.TeamSize,
		Status:      string(d.Status),
		DocumentRef: d.DocumentRef,
		TeamCount:   d.TeamCount,
		VotedCount:  d.VotedCount,
		Locked:      d.Locked,
		Released:    d.Released,
	}
}

// CreateProjectInput is the MCP tool input for project creation.
type CreateProjectInput struct {
	Name        string `json:"name" jsonschema:"project name"`
	Description string `json:"description,omitempty" jsonschema:"project description"`
	Budget      int64  `json:"budget" jsonschema:"budget in cents, escrowed from the caller's account"`
	Deadline    string `json:"deadline" jsonschema:"future deadline, RFC 3339"`
	TeamSize    int    `json:"team_size" jsonschema:"required team size"`
	DocumentRef string `json:"document_ref,omitempty" jsonschema:"optional document reference"`
}

func createProjectHandler(svc Services) sdkmcp.ToolHandlerFor[CreateProjectInput, ProjectSnapshot] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input CreateProjectInput) (*sdkmcp.CallToolResult, ProjectSnapshot, error) {
		deadline, err := time.Parse(time.RFC3339, input.Deadline)
		if err != nil {
			return nil, ProjectSnapshot{}, &APIError{Code: "VALIDATION_DEADLINE", Message: fmt.Sprintf("invalid deadline: %v", err)}
		}

		proj, err := svc.Projects.Create(ctx, project.CreateRequest{
			OwnerID:     getActorID(ctx),
			Name:        input.Name,
			Description: input.Description,
			Budget:      input.Budget,
			Deadline:    deadline,
			TeamSize:    input.TeamSize,
			DocumentRef: input.DocumentRef,
		})
		if err != nil {
			return nil, ProjectSnapshot{}, mapError(err)
		}

		return snapshot(ctx, svc, proj.ID)
	}
}

// ProjectIDInput identifies a project.
type ProjectIDInput struct {
	ProjectID int64 `json:"project_id" jsonschema:"project identifier"`
}

func joinProjectHandler(svc Services) sdkmcp.ToolHandlerFor[ProjectIDInput, ProjectSnapshot] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ProjectIDInput) (*sdkmcp.CallToolResult, ProjectSnapshot, error) {
		if _, err := svc.Participants.Admit(ctx, input.ProjectID, getActorID(ctx)); err != nil {
			return nil, ProjectSnapshot{}, mapError(err)
		}
		return snapshot(ctx, svc, input.ProjectID)
	}
}

func voteCompletionHandler(svc Services) sdkmcp.ToolHandlerFor[ProjectIDInput, ProjectSnapshot] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ProjectIDInput) (*sdkmcp.CallToolResult, ProjectSnapshot, error) {
		if err := svc.Completion.Vote(ctx, input.ProjectID, getActorID(ctx)); err != nil {
			return nil, ProjectSnapshot{}, mapError(err)
		}
		return snapshot(ctx, svc, input.ProjectID)
	}
}

func cancelProjectHandler(svc Services) sdkmcp.ToolHandlerFor[ProjectIDInput, ProjectSnapshot] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ProjectIDInput) (*sdkmcp.CallToolResult, ProjectSnapshot, error) {
		if _, err := svc.Projects.Cancel(ctx, getActorID(ctx), input.ProjectID); err != nil {
			return nil, ProjectSnapshot{}, mapError(err)
		}
		return snapshot(ctx, svc, input.ProjectID)
	}
}

func settleProjectHandler(svc Services) sdkmcp.ToolHandlerFor[ProjectIDInput, ProjectSnapshot] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ProjectIDInput) (*sdkmcp.CallToolResult, ProjectSnapshot, error) {
		if err := svc.Completion.Settle(ctx, input.ProjectID); err != nil {
			return nil, ProjectSnapshot{}, mapError(err)
		}
		return snapshot(ctx, svc, input.ProjectID)
	}
}

func getProjectHandler(svc Services) sdkmcp.ToolHandlerFor[ProjectIDInput, ProjectSnapshot] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ProjectIDInput) (*sdkmcp.CallToolResult, ProjectSnapshot, error) {
		return snapshot(ctx, svc, input.ProjectID)
	}
}

func snapshot(ctx context.Context, svc Services, projectID int64) (*sdkmcp.CallToolResult, ProjectSnapshot, error) {
	details, err := svc.Projects.GetDetails(ctx, projectID)
	if err != nil {
		return nil, ProjectSnapshot{}, mapError(err)
	}
	return nil, snapshotFromDetails(details), nil
}

// ListProjectsInput has no fields; listing always excludes cancelled projects.
type ListProjectsInput struct{}

// ProjectListEntry is one row of the project listing.
type ProjectListEntry struct {
	ID        int64  `json:"id" jsonschema:"project identifier"`
	Name      string `json:"name" jsonschema:"project name"`
	OwnerName string `json:"owner_name,omitempty" jsonschema:"owning member name"`
	Budget    int64  `json:"budget" jsonschema:"budget in cents"`
	Deadline  string `json:"deadline" jsonschema:"deadline, RFC 3339"`
	TeamSize  int    `json:"team_size" jsonschema:"required team size"`
	TeamCount int    `json:"team_count" jsonschema:"admitted participants"`
	Status    string `json:"status" jsonschema:"project status"`
}

// ListProjectsResult is the project listing payload.
type ListProjectsResult struct {
	Projects []ProjectListEntry `json:"projects"`
}

func listProjectsHandler(svc Services) sdkmcp.ToolHandlerFor[ListProjectsInput, ListProjectsResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsInput) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
		summaries, err := svc.Projects.List(ctx)
		if err != nil {
			return nil, ListProjectsResult{}, mapError(err)
		}

		result := ListProjectsResult{Projects: make([]ProjectListEntry, 0, len(summaries))}
		for _, s := range summaries {
			result.Projects = append(result.Projects, ProjectListEntry{
				ID:        s.ID,
				Name:      s.Name,
				OwnerName: s.OwnerName,
				Budget:    s.Budget,
				Deadline:  s.Deadline.Format(time.RFC3339),
				TeamSize:  s.TeamSize,
				TeamCount: s.TeamCount,
				Status:    string(s.Status),
			})
		}
		return nil, result, nil
	}
}
