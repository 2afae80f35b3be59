package store

import (
	"context"
	"time"

	"github.com/nhle/mailpilot/internal/model"
)

// AnalysisRecord is a settled AI analysis kept for a message.
type AnalysisRecord struct {
	ID        string
	MessageID string
	Analysis  model.AIAnalysis
	CreatedAt time.Time
}

// Store defines the persistence interface for the local history of
// notifications and AI analyses. Nothing read from it is fed back into the
// dashboard; it only backs the history view.
type Store interface {
	// === Notifications ===

	RecordNotification(ctx context.Context, n model.Notification) error
	RecentNotifications(ctx context.Context, limit int) ([]model.Notification, error)
	MarkNotificationsRead(ctx context.Context) error

	// === Analyses ===

	RecordAnalysis(ctx context.Context, messageID string, a model.AIAnalysis) error
	AnalysesForMessage(ctx context.Context, messageID string) ([]AnalysisRecord, error)

	Close() error
}
