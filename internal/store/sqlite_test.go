package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailpilot/internal/model"
	"github.com/nhle/mailpilot/internal/store"
	"github.com/nhle/mailpilot/tests/testutil"
)

func TestRecordNotification_AssignsIDAndTimestamp(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordNotification(ctx, model.Notification{
		Kind:    model.NotificationSuccess,
		Message: "Email sent successfully!",
	}))

	got, err := s.RecentNotifications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, model.NotificationSuccess, got[0].Kind)
	assert.Equal(t, "Email sent successfully!", got[0].Message)
	assert.False(t, got[0].Read)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestRecentNotifications_NewestFirstWithLimit(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, msg := range []string{"first", "second", "third"} {
		require.NoError(t, s.RecordNotification(ctx, model.Notification{
			ID:        msg,
			Kind:      model.NotificationError,
			Message:   msg,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := s.RecentNotifications(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "third", got[0].Message)
	assert.Equal(t, "second", got[1].Message)

	all, err := s.RecentNotifications(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecordNotification_SameIDUpdatesInPlace(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	n := model.Notification{ID: "n-1", Kind: model.NotificationError, Message: "old"}
	require.NoError(t, s.RecordNotification(ctx, n))
	n.Message = "new"
	require.NoError(t, s.RecordNotification(ctx, n))

	got, err := s.RecentNotifications(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Message)
}

func TestMarkNotificationsRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordNotification(ctx, model.Notification{Kind: model.NotificationSuccess, Message: "a"}))
	require.NoError(t, s.RecordNotification(ctx, model.Notification{Kind: model.NotificationError, Message: "b"}))
	require.NoError(t, s.MarkNotificationsRead(ctx))

	got, err := s.RecentNotifications(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, n := range got {
		assert.True(t, n.Read, "notification %q should be read", n.Message)
	}
}

func TestRecordAnalysis_RoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	structured := model.AIAnalysis{
		Summary:     "Short",
		ActionItems: []string{"Reply"},
		KeyDates:    []string{"next Friday"},
		Kind:        model.AnalysisStructured,
	}
	failed := model.AIAnalysis{Summary: "Error: Failed to generate summary.", Error: true}

	require.NoError(t, s.RecordAnalysis(ctx, "msg-1", structured))
	require.NoError(t, s.RecordAnalysis(ctx, "msg-1", failed))
	require.NoError(t, s.RecordAnalysis(ctx, "msg-2", model.AIAnalysis{Summary: "other"}))

	got, err := s.AnalysesForMessage(ctx, "msg-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "msg-1", got[0].MessageID)
	assert.True(t, got[0].Analysis.Error)
	assert.Equal(t, model.AnalysisPlain, got[0].Analysis.Kind)
	assert.Equal(t, []string{}, got[0].Analysis.ActionItems)
	assert.Equal(t, []string{}, got[0].Analysis.KeyDates)

	assert.Equal(t, structured, got[1].Analysis)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestAnalysesForMessage_Unknown(t *testing.T) {
	s := testutil.NewTestStore(t)

	got, err := s.AnalysesForMessage(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewSQLiteStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.sqlite3")
	ctx := context.Background()

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordNotification(ctx, model.Notification{Kind: model.NotificationSuccess, Message: "kept"}))
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.RecentNotifications(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Message)
}
