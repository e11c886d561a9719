// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"scalers/internal/models"
)

// ContentStore handles the client_content table.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const contentColumns = `id, title, description, content_type, content_url, content_text,
	client_name, client_logo_url, category, is_featured, display_order, created_at, updated_at`

func scanContent(scanner interface{ Scan(...any) error }) (*models.ContentItem, error) {
	var c models.ContentItem
	err := scanner.Scan(
		&c.ID, &c.Title, &c.Description, &c.Kind, &c.ContentURL, &c.ContentText,
		&c.ClientName, &c.ClientLogoURL, &c.Category, &c.IsFeatured, &c.DisplayOrder,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns every item by display_order ascending, newest first within
// the same order.
func (s *ContentStore) List(ctx context.Context) ([]models.ContentItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+contentColumns+`
		FROM client_content
		ORDER BY display_order ASC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves an item by ID. Returns nil if not found.
func (s *ContentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM client_content WHERE id = $1`, id)
	c, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// Create inserts a new item and returns the stored row.
func (s *ContentStore) Create(ctx context.Context, c *models.ContentItem) (*models.ContentItem, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO client_content (title, description, content_type, content_url, content_text,
			client_name, client_logo_url, category, is_featured, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+contentColumns,
		c.Title, c.Description, c.Kind, c.ContentURL, c.ContentText,
		c.ClientName, c.ClientLogoURL, c.Category, c.IsFeatured, c.DisplayOrder,
	)
	created, err := scanContent(row)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return created, nil
}

// Update overwrites every editable column. Returns nil if the row is gone.
func (s *ContentStore) Update(ctx context.Context, c *models.ContentItem) (*models.ContentItem, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE client_content SET
			title = $1, description = $2, content_type = $3, content_url = $4,
			content_text = $5, client_name = $6, client_logo_url = $7, category = $8,
			is_featured = $9, display_order = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING `+contentColumns,
		c.Title, c.Description, c.Kind, c.ContentURL, c.ContentText,
		c.ClientName, c.ClientLogoURL, c.Category, c.IsFeatured, c.DisplayOrder, c.ID,
	)
	updated, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}
	return updated, nil
}

// Delete removes an item and returns the deleted row so callers can clean
// up stored media. Returns nil if nothing was deleted.
func (s *ContentStore) Delete(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	row := s.db.QueryRowContext(ctx, `DELETE FROM client_content WHERE id = $1 RETURNING `+contentColumns, id)
	deleted, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete content: %w", err)
	}
	return deleted, nil
}

// CountByKind returns the number of items per kind for the dashboard.
func (s *ContentStore) CountByKind(ctx context.Context) (map[models.ContentKind]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT content_type, COUNT(*) FROM client_content GROUP BY content_type`)
	if err != nil {
		return nil, fmt.Errorf("count content: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ContentKind]int)
	for rows.Next() {
		var kind models.ContentKind
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan content count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
