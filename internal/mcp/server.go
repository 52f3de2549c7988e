package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quorumworks/teampool/internal/domain/document"
	"github.com/quorumworks/teampool/internal/domain/escrow"
	"github.com/quorumworks/teampool/internal/domain/member"
	"github.com/quorumworks/teampool/internal/domain/participant"
	"github.com/quorumworks/teampool/internal/domain/project"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Cancel(ctx context.Context, actorID, projectID int64) (*project.Project, error)
	GetDetails(ctx context.Context, id int64) (*project.Details, error)
	List(ctx context.Context) ([]project.Summary, error)
}

// ParticipantService defines registry operations needed by MCP.
type ParticipantService interface {
	Admit(ctx context.Context, projectID, memberID int64) (*participant.Participant, error)
}

// CompletionService defines voting operations needed by MCP.
type CompletionService interface {
	Vote(ctx context.Context, projectID, memberID int64) error
	Settle(ctx context.Context, projectID int64) error
}

// EscrowService defines funding-account operations needed by MCP.
type EscrowService interface {
	Fund(ctx context.Context, memberID, amount int64) (*escrow.Account, error)
	Balance(ctx context.Context, memberID int64) (*escrow.Account, error)
	Transfers(ctx context.Context, projectID int64) ([]escrow.Transfer, error)
}

// MemberService defines member operations needed by MCP.
type MemberService interface {
	Register(ctx context.Context, req member.RegisterRequest) (*member.Member, string, error)
	Get(ctx context.Context, id int64) (*member.Member, error)
}

// DocumentService defines content-store operations needed by MCP.
type DocumentService interface {
	Put(ctx context.Context, name string, content []byte) (string, error)
	Get(ctx context.Context, ref string) (*document.Document, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects     ProjectService
	Participants ParticipantService
	Completion   CompletionService
	Escrow       EscrowService
	Members      MemberService
	Documents    DocumentService
}

// Config contains server configuration.
type Config struct {
	Services        Services
	Resolver        MemberResolver
	AuthEnabled     bool
	DefaultMemberID int64
	TransportMode   string // "stdio" or "http"
	Logger          *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "teampool",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	// Stdio mode always runs unauthenticated as the configured member.
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware(cfg.DefaultMemberID))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}

const serverInstructions = `teampool coordinates collaborative projects with escrowed budgets.

A project is created with a budget (deposited into escrow from the owner's
funding account), a deadline and a required team size. Members join until the
team is full, which activates the project. Every participant must then vote
for completion; the final vote settles the project, splitting the escrowed
budget evenly among participants (remainder to the lowest member ids). The
owner can cancel an unfinished project for a full refund.

Amounts are integers in the smallest currency unit (cents).`
