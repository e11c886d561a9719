// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// change_log.go records admin writes (who changed which row, and how) so
// the dashboard can show recent activity.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"scalers/internal/models"
)

// ChangeLogStore handles change_log rows.
type ChangeLogStore struct {
	db *sql.DB
}

// NewChangeLogStore creates a new ChangeLogStore.
func NewChangeLogStore(db *sql.DB) *ChangeLogStore {
	return &ChangeLogStore{db: db}
}

// Record appends an entry. Failures are logged, never returned: the log
// must not block the write it describes.
func (s *ChangeLogStore) Record(ctx context.Context, e models.ChangeEntry) {
	var actor any
	if e.ActorID != uuid.Nil {
		actor = e.ActorID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO change_log (table_name, entity_id, action, actor_id, summary)
		VALUES ($1, $2, $3, $4, $5)
	`, e.Table, e.EntityID, e.Action, actor, e.Summary)
	if err != nil {
		slog.Warn("failed to record change",
			"table", e.Table,
			"entity_id", e.EntityID,
			"action", e.Action,
			"error", err,
		)
		return
	}
	slog.Debug("change recorded", "table", e.Table, "entity_id", e.EntityID, "action", e.Action)
}

// Recent returns the newest entries, at most limit of them.
func (s *ChangeLogStore) Recent(ctx context.Context, limit int) ([]models.ChangeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, table_name, entity_id, action, actor_id, summary, changed_at
		FROM change_log
		ORDER BY changed_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query change log: %w", err)
	}
	defer rows.Close()

	var entries []models.ChangeEntry
	for rows.Next() {
		var e models.ChangeEntry
		var actor uuid.NullUUID
		if err := rows.Scan(&e.ID, &e.Table, &e.EntityID, &e.Action, &actor, &e.Summary, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan change log: %w", err)
		}
		if actor.Valid {
			e.ActorID = actor.UUID
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
