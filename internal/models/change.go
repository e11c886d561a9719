// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Tables that emit change events.
const (
	TableContent    = "client_content"
	TableCategories = "categories"
)

// Change actions.
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ChangeEntry is one row of the admin change log.
type ChangeEntry struct {
	ID        int64     `json:"id"`
	Table     string    `json:"table"`
	EntityID  uuid.UUID `json:"entity_id"`
	Action    string    `json:"action"`
	ActorID   uuid.UUID `json:"actor_id"`
	Summary   string    `json:"summary"`
	ChangedAt time.Time `json:"changed_at"`
}
