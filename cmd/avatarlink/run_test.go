package main

import (
	"context"
	"testing"

	"github.com/srg/avatarlink/internal/face"
	"github.com/srg/avatarlink/internal/link"
	"github.com/srg/avatarlink/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopbackCentral_ExpressionKeys(t *testing.T) {
	// GOAL: Verify digit keys write known expression codes and skip codes outside the table
	//
	// TEST SCENARIO: key '3' → doubt pending on the endpoint → key '7' → nothing written

	helper := testutils.NewTestHelper(t)
	endpoint := link.NewEndpoint(helper.Logger)
	loopback := link.NewLoopback(endpoint.OnConnect, endpoint.OnDisconnect, helper.Logger)
	require.NoError(t, endpoint.Start(loopback))

	central := &loopbackCentral{loopback: loopback, logger: helper.Logger}
	ctx := context.Background()

	central.handleKey(ctx, '3')
	code, pending := endpoint.TakeExpression()
	require.True(t, pending, "digit key MUST write an expression")
	assert.Equal(t, byte(face.Doubt), code)

	central.handleKey(ctx, '7')
	_, pending = endpoint.TakeExpression()
	assert.False(t, pending, "code outside the table MUST NOT be written")

	central.handleKey(ctx, 'x')
	_, pending = endpoint.TakeExpression()
	assert.False(t, pending, "non-digit key MUST be ignored")
}

func TestLoopbackCentral_NoLoopbackIgnoresKeys(t *testing.T) {
	central := &loopbackCentral{logger: testutils.NewTestHelper(t).Logger}

	assert.NotPanics(t, func() { central.handleKey(context.Background(), '1') })
}
