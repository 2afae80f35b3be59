package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/mailpilot/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases from splitting across
	// the pool, and history writes are serialized anyway.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// RecordNotification stores a posted notification. An empty ID is replaced
// with a fresh UUID and a zero CreatedAt with the current time.
func (s *SQLiteStore) RecordNotification(ctx context.Context, n model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, kind, message, read, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			message = excluded.message`,
		n.ID, string(n.Kind), n.Message, boolToInt(n.Read), n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording notification: %w", err)
	}

	return nil
}

// RecentNotifications returns up to limit notifications, newest first.
// A non-positive limit returns all of them.
func (s *SQLiteStore) RecentNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	query := `
		SELECT id, kind, message, read, created_at
		FROM notifications
		ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notification rows: %w", err)
	}

	return notifications, nil
}

// MarkNotificationsRead flags every stored notification as read.
func (s *SQLiteStore) MarkNotificationsRead(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "UPDATE notifications SET read = 1 WHERE read = 0")
	if err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

// RecordAnalysis stores a settled analysis for the given message.
func (s *SQLiteStore) RecordAnalysis(ctx context.Context, messageID string, a model.AIAnalysis) error {
	actionItems, err := json.Marshal(nonNil(a.ActionItems))
	if err != nil {
		return fmt.Errorf("marshaling action items: %w", err)
	}
	keyDates, err := json.Marshal(nonNil(a.KeyDates))
	if err != nil {
		return fmt.Errorf("marshaling key dates: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, message_id, kind, summary, action_items, key_dates, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), messageID, a.Kind.String(), a.Summary,
		string(actionItems), string(keyDates), boolToInt(a.Error), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording analysis for %s: %w", messageID, err)
	}

	return nil
}

// AnalysesForMessage returns every analysis recorded for a message,
// newest first.
func (s *SQLiteStore) AnalysesForMessage(ctx context.Context, messageID string) ([]AnalysisRecord, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, message_id, kind, summary, action_items, key_dates, error, created_at
		FROM analyses
		WHERE message_id = ?
		ORDER BY created_at DESC, rowid DESC`,
		messageID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying analyses for %s: %w", messageID, err)
	}
	defer rows.Close()

	var records []AnalysisRecord
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analysis rows: %w", err)
	}

	return records, nil
}

func scanNotification(rows *sqlx.Rows) (model.Notification, error) {
	var (
		n         model.Notification
		kind      string
		readInt   int
		createdAt time.Time
	)

	err := rows.Scan(&n.ID, &kind, &n.Message, &readInt, &createdAt)
	if err != nil {
		return model.Notification{}, fmt.Errorf("scanning notification row: %w", err)
	}

	n.Kind = model.NotificationKind(kind)
	n.Read = readInt != 0
	n.CreatedAt = createdAt

	return n, nil
}

func scanAnalysis(rows *sqlx.Rows) (AnalysisRecord, error) {
	var (
		rec         AnalysisRecord
		kind        string
		actionItems string
		keyDates    string
		errInt      int
	)

	err := rows.Scan(&rec.ID, &rec.MessageID, &kind, &rec.Analysis.Summary,
		&actionItems, &keyDates, &errInt, &rec.CreatedAt)
	if err != nil {
		return AnalysisRecord{}, fmt.Errorf("scanning analysis row: %w", err)
	}

	if kind == model.AnalysisStructured.String() {
		rec.Analysis.Kind = model.AnalysisStructured
	}
	rec.Analysis.Error = errInt != 0

	if err := json.Unmarshal([]byte(actionItems), &rec.Analysis.ActionItems); err != nil {
		return AnalysisRecord{}, fmt.Errorf("unmarshaling action items: %w", err)
	}
	if err := json.Unmarshal([]byte(keyDates), &rec.Analysis.KeyDates); err != nil {
		return AnalysisRecord{}, fmt.Errorf("unmarshaling key dates: %w", err)
	}
	rec.Analysis.ActionItems = nonNil(rec.Analysis.ActionItems)
	rec.Analysis.KeyDates = nonNil(rec.Analysis.KeyDates)

	return rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
