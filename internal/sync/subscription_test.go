package sync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailpilot/internal/dashboard"
	appsync "github.com/nhle/mailpilot/internal/sync"
)

type chanSource chan dashboard.State

func (c chanSource) Updates() <-chan dashboard.State { return c }

func TestWaitForNextState_DeliversSnapshot(t *testing.T) {
	src := make(chanSource, 1)
	src <- dashboard.State{SelectedID: "m1"}

	msg := appsync.Subscribe(src).WaitForNextState()()

	got, ok := msg.(appsync.StateMsg)
	require.True(t, ok, "expected StateMsg, got %T", msg)
	assert.Equal(t, "m1", got.State.SelectedID)
}

func TestWaitForNextState_ClosedChannel(t *testing.T) {
	src := make(chanSource)
	close(src)

	msg := appsync.Subscribe(src).WaitForNextState()()

	assert.IsType(t, appsync.ClosedMsg{}, msg)
}

func TestWaitForNextState_ZeroSubscription(t *testing.T) {
	var sub appsync.Subscription

	assert.IsType(t, appsync.ClosedMsg{}, sub.WaitForNextState()())
}
