package mcp

import (
	"context"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func TestGetActorID(t *testing.T) {
	require.Equal(t, int64(0), getActorID(context.Background()))

	ctx := context.WithValue(context.Background(), actorIDKey, int64(42))
	require.Equal(t, int64(42), getActorID(ctx))
}

func TestNoAuthMiddleware_InjectsDefaultMember(t *testing.T) {
	var seen int64
	next := func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		seen = getActorID(ctx)
		return nil, nil
	}

	handler := noAuthMiddleware(7)(next)
	_, err := handler(context.Background(), "tools/call", nil)
	require.NoError(t, err)
	require.Equal(t, int64(7), seen)
}
