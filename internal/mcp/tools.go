package mcp

import (
	"context"
	"encoding/base64"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quorumworks/teampool/internal/domain/member"
)

func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project, escrowing the budget from your funding account. The project opens for members to join.",
	}, createProjectHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "join_project",
		Description: "Join an open project. When the team reaches the required size the project becomes active.",
	}, joinProjectHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "vote_completion",
		Description: "Vote that an active project is complete. The final vote settles the escrowed budget among participants.",
	}, voteCompletionHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "cancel_project",
		Description: "Cancel a project you own before it completes. The escrowed budget is refunded to your funding account.",
	}, cancelProjectHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "settle_project",
		Description: "Retry settlement of a fully voted project whose payout previously failed.",
	}, settleProjectHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project with its team, vote and escrow state.",
	}, getProjectHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all projects except cancelled ones.",
	}, listProjectsHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "register_member",
		Description: "Register a new member. Returns the member id and an access key; store the key, it is shown only once.",
	}, registerMemberHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_member",
		Description: "Get a member's public profile.",
	}, getMemberHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "deposit_funds",
		Description: "Deposit funds into your own funding account.",
	}, depositFundsHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_balance",
		Description: "Get your funding account balance.",
	}, getBalanceHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_transfers",
		Description: "List the escrow transfer history for a project.",
	}, listTransfersHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "put_document",
		Description: "Store a document and get back its content-addressed reference.",
	}, putDocumentHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_document",
		Description: "Fetch a stored document by its reference.",
	}, getDocumentHandler(svc))
}

// RegisterMemberInput is the MCP tool input for member registration.
type RegisterMemberInput struct {
	Name          string `json:"name" jsonschema:"display name"`
	Email         string `json:"email" jsonschema:"contact email, unique"`
	WalletAddress string `json:"wallet_address" jsonschema:"payout wallet address, unique"`
}

// RegisterMemberResult carries the new member id and the one-time access key.
type RegisterMemberResult struct {
	ID        int64  `json:"id" jsonschema:"member identifier"`
	Name      string `json:"name" jsonschema:"display name"`
	AccessKey string `json:"access_key" jsonschema:"bearer key for authenticated transports, shown only once"`
}

func registerMemberHandler(svc Services) sdkmcp.ToolHandlerFor[RegisterMemberInput, RegisterMemberResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input RegisterMemberInput) (*sdkmcp.CallToolResult, RegisterMemberResult, error) {
		m, key, err := svc.Members.Register(ctx, member.RegisterRequest{
			Name:          input.Name,
			Email:         input.Email,
			WalletAddress: input.WalletAddress,
		})
		if err != nil {
			return nil, RegisterMemberResult{}, mapError(err)
		}
		return nil, RegisterMemberResult{ID: m.ID, Name: m.Name, AccessKey: key}, nil
	}
}

// MemberIDInput identifies a member.
type MemberIDInput struct {
	MemberID int64 `json:"member_id" jsonschema:"member identifier"`
}

// MemberResult is a member's public profile.
type MemberResult struct {
	ID            int64  `json:"id" jsonschema:"member identifier"`
	Name          string `json:"name" jsonschema:"display name"`
	Email         string `json:"email,omitempty" jsonschema:"contact email"`
	WalletAddress string `json:"wallet_address,omitempty" jsonschema:"payout wallet address"`
	CreatedAt     string `json:"created_at" jsonschema:"registration time, RFC 3339"`
}

func getMemberHandler(svc Services) sdkmcp.ToolHandlerFor[MemberIDInput, MemberResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input MemberIDInput) (*sdkmcp.CallToolResult, MemberResult, error) {
		m, err := svc.Members.Get(ctx, input.MemberID)
		if err != nil {
			return nil, MemberResult{}, mapError(err)
		}
		return nil, MemberResult{
			ID:            m.ID,
			Name:          m.Name,
			Email:         m.Email,
			WalletAddress: m.WalletAddress,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		}, nil
	}
}

// DepositFundsInput is the MCP tool input for account deposits.
type DepositFundsInput struct {
	Amount int64 `json:"amount" jsonschema:"amount in cents, must be positive"`
}

// BalanceResult is a funding account balance.
type BalanceResult struct {
	MemberID int64 `json:"member_id" jsonschema:"account owner"`
	Balance  int64 `json:"balance" jsonschema:"available balance in cents"`
}

func depositFundsHandler(svc Services) sdkmcp.ToolHandlerFor[DepositFundsInput, BalanceResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input DepositFundsInput) (*sdkmcp.CallToolResult, BalanceResult, error) {
		acct, err := svc.Escrow.Fund(ctx, getActorID(ctx), input.Amount)
		if err != nil {
			return nil, BalanceResult{}, mapError(err)
		}
		return nil, BalanceResult{MemberID: acct.MemberID, Balance: acct.Balance}, nil
	}
}

// GetBalanceInput has no fields; the balance is always the caller's own.
type GetBalanceInput struct{}

func getBalanceHandler(svc Services) sdkmcp.ToolHandlerFor[GetBalanceInput, BalanceResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ GetBalanceInput) (*sdkmcp.CallToolResult, BalanceResult, error) {
		acct, err := svc.Escrow.Balance(ctx, getActorID(ctx))
		if err != nil {
			return nil, BalanceResult{}, mapError(err)
		}
		return nil, BalanceResult{MemberID: acct.MemberID, Balance: acct.Balance}, nil
	}
}

// TransferEntry is one leg of a project's escrow history.
type TransferEntry struct {
	ID        string `json:"id" jsonschema:"transfer identifier"`
	MemberID  int64  `json:"member_id" jsonschema:"counterparty member"`
	Amount    int64  `json:"amount" jsonschema:"amount in cents"`
	Kind      string `json:"kind" jsonschema:"fund, deposit, release or refund"`
	CreatedAt string `json:"created_at" jsonschema:"transfer time, RFC 3339"`
}

// ListTransfersResult is the transfer history payload.
type ListTransfersResult struct {
	Transfers []TransferEntry `json:"transfers"`
}

func listTransfersHandler(svc Services) sdkmcp.ToolHandlerFor[ProjectIDInput, ListTransfersResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ProjectIDInput) (*sdkmcp.CallToolResult, ListTransfersResult, error) {
		transfers, err := svc.Escrow.Transfers(ctx, input.ProjectID)
		if err != nil {
			return nil, ListTransfersResult{}, mapError(err)
		}

		result := ListTransfersResult{Transfers: make([]TransferEntry, 0, len(transfers))}
		for _, t := range transfers {
			result.Transfers = append(result.Transfers, TransferEntry{
				ID:        t.ID,
				MemberID:  t.MemberID,
				Amount:    t.Amount,
				Kind:      string(t.Kind),
				CreatedAt: t.CreatedAt.Format(time.RFC3339),
			})
		}
		return nil, result, nil
	}
}

// PutDocumentInput is the MCP tool input for storing a document.
type PutDocumentInput struct {
	Name    string `json:"name" jsonschema:"document name"`
	Content string `json:"content" jsonschema:"document content, base64 encoded"`
}

// PutDocumentResult carries the content-addressed reference.
type PutDocumentResult struct {
	Ref string `json:"ref" jsonschema:"content-addressed document reference"`
}

func putDocumentHandler(svc Services) sdkmcp.ToolHandlerFor[PutDocumentInput, PutDocumentResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input PutDocumentInput) (*sdkmcp.CallToolResult, PutDocumentResult, error) {
		content, err := base64.StdEncoding.DecodeString(input.Content)
		if err != nil {
			return nil, PutDocumentResult{}, &APIError{Code: "VALIDATION_CONTENT", Message: "content must be base64 encoded"}
		}
		ref, err := svc.Documents.Put(ctx, input.Name, content)
		if err != nil {
			return nil, PutDocumentResult{}, mapError(err)
		}
		return nil, PutDocumentResult{Ref: ref}, nil
	}
}

// GetDocumentInput identifies a stored document.
type GetDocumentInput struct {
	Ref string `json:"ref" jsonschema:"content-addressed document reference"`
}

// GetDocumentResult is a stored document with base64 content.
type GetDocumentResult struct {
	Ref       string `json:"ref" jsonschema:"content-addressed document reference"`
	Name      string `json:"name" jsonschema:"document name"`
	Content   string `json:"content" jsonschema:"document content, base64 encoded"`
	CreatedAt string `json:"created_at" jsonschema:"storage time, RFC 3339"`
}

func getDocumentHandler(svc Services) sdkmcp.ToolHandlerFor[GetDocumentInput, GetDocumentResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input GetDocumentInput) (*sdkmcp.CallToolResult, GetDocumentResult, error) {
		doc, err := svc.Documents.Get(ctx, input.Ref)
		if err != nil {
			return nil, GetDocumentResult{}, mapError(err)
		}
		return nil, GetDocumentResult{
			Ref:       doc.Ref,
			Name:      doc.Name,
			Content:   base64.StdEncoding.EncodeToString(doc.Content),
			CreatedAt: doc.CreatedAt.Format(time.RFC3339),
		}, nil
	}
}
