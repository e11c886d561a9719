// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"scalers/internal/imaging"
	"scalers/internal/models"
	"scalers/internal/notify"
	"scalers/internal/slug"
	"scalers/internal/store"
)

// ItemRepository persists content items.
type ItemRepository interface {
	List(ctx context.Context) ([]models.ContentItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error)
	Create(ctx context.Context, c *models.ContentItem) (*models.ContentItem, error)
	Update(ctx context.Context, c *models.ContentItem) (*models.ContentItem, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.ContentItem, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, name string) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// ObjectStore holds uploaded media and hands out public URLs.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
	ExtractKey(rawURL string) (string, bool)
}

// Auditor records who changed what.
type Auditor interface {
	Record(ctx context.Context, e models.ChangeEntry)
}

// Upload is a media file submitted with the item form. ContentType must
// already be sniffed from the bytes.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service is the admin write path plus the category manager. Objects,
// Events and Audit are optional; a nil value disables that side effect.
type Service struct {
	Items      ItemRepository
	Categories CategoryRepository
	Objects    ObjectStore
	Events     notify.Publisher
	Audit      Auditor

	now func() time.Time
}

// NewService wires a Service. objects, events and audit may be nil.
func NewService(items ItemRepository, categories CategoryRepository, objects ObjectStore, events notify.Publisher, audit Auditor) *Service {
	return &Service{
		Items:      items,
		Categories: categories,
		Objects:    objects,
		Events:     events,
		Audit:      audit,
		now:        time.Now,
	}
}

// UploadsEnabled reports whether file uploads can be accepted.
func (s *Service) UploadsEnabled() bool {
	return s.Objects != nil
}

// ListItems returns every item in display order.
func (s *Service) ListItems(ctx context.Context) ([]models.ContentItem, error) {
	items, err := s.Items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Listing loads every item and applies q.
func (s *Service) Listing(ctx context.Context, q Query) (Listing, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return Listing{}, err
	}
	return BuildListing(items, q), nil
}

// GetItem returns one item or ErrNotFound.
func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	item, err := s.Items.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// CreateItem validates the form, stores the optional upload and inserts
// the row. If the insert fails, the freshly stored object is removed.
func (s *Service) CreateItem(ctx context.Context, actor uuid.UUID, form ItemForm, up *Upload) (*models.ContentItem, error) {
	if err := form.Validate(up != nil); err != nil {
		return nil, err
	}
	item := form.Item()

	key, err := s.storeUpload(ctx, item.Kind, item.Title, up)
	if err != nil {
		return nil, err
	}
	if key != "" {
		item.ContentURL = s.Objects.FileURL(key)
	}

	created, err := s.Items.Create(ctx, &item)
	if err != nil {
		s.discard(ctx, key)
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.changed(ctx, actor, models.TableContent, models.ActionInsert, created.ID, created.Title)
	return created, nil
}

// UpdateItem validates and saves an edit. A replaced media object that we
// stored ourselves is removed after the row is saved.
func (s *Service) UpdateItem(ctx context.Context, actor, id uuid.UUID, form ItemForm, up *Upload) (*models.ContentItem, error) {
	if err := form.Validate(up != nil); err != nil {
		return nil, err
	}
	existing, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	item := form.Item()
	item.ID = id

	key, err := s.storeUpload(ctx, item.Kind, item.Title, up)
	if err != nil {
		return nil, err
	}
	if key != "" {
		item.ContentURL = s.Objects.FileURL(key)
	}

	updated, err := s.Items.Update(ctx, &item)
	if err != nil {
		s.discard(ctx, key)
		return nil, fmt.Errorf("update item: %w", err)
	}
	if updated == nil {
		s.discard(ctx, key)
		return nil, ErrNotFound
	}

	if existing.ContentURL != updated.ContentURL {
		s.discardURL(ctx, existing.ContentURL)
	}

	s.changed(ctx, actor, models.TableContent, models.ActionUpdate, updated.ID, updated.Title)
	return updated, nil
}

// DeleteItem removes the row and then, best-effort, its stored media.
func (s *Service) DeleteItem(ctx context.Context, actor, id uuid.UUID) error {
	deleted, err := s.Items.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if deleted == nil {
		return ErrNotFound
	}
	s.discardURL(ctx, deleted.ContentURL)
	s.changed(ctx, actor, models.TableContent, models.ActionDelete, deleted.ID, deleted.Title)
	return nil
}

// ListCategories returns categories oldest first.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	cats, err := s.Categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// AddCategory trims name and inserts it unless a category with the same
// name, ignoring case, already exists.
func (s *Service) AddCategory(ctx context.Context, actor uuid.UUID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameEmpty
	}

	existing, err := s.Categories.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("add category: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateCategory
	}

	created, err := s.Categories.Create(ctx, name)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrDuplicateCategory
	}
	if err != nil {
		return nil, fmt.Errorf("add category: %w", err)
	}

	s.changed(ctx, actor, models.TableCategories, models.ActionInsert, created.ID, created.Name)
	return created, nil
}

// DeleteCategory removes a category. Items carrying its name keep it.
func (s *Service) DeleteCategory(ctx context.Context, actor, id uuid.UUID) error {
	deleted, err := s.Categories.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if deleted == nil {
		return ErrNotFound
	}
	s.changed(ctx, actor, models.TableCategories, models.ActionDelete, deleted.ID, deleted.Name)
	return nil
}

// UploadMedia stores a file on its own, for example a client logo, and
// returns its public URL. The object is not tied to any row.
func (s *Service) UploadMedia(ctx context.Context, kind models.ContentKind, title string, up *Upload) (string, error) {
	if up == nil {
		return "", ErrMediaRequired
	}
	key, err := s.storeUpload(ctx, kind, title, up)
	if err != nil {
		return "", err
	}
	return s.Objects.FileURL(key), nil
}

// storeUpload checks the upload against the kind and stores it, returning
// the object key ("" when there is nothing to store).
func (s *Service) storeUpload(ctx context.Context, kind models.ContentKind, title string, up *Upload) (string, error) {
	if up == nil {
		return "", nil
	}
	if s.Objects == nil {
		return "", ErrStorageDisabled
	}
	if !uploadMatchesKind(kind, up.ContentType) {
		return "", ErrUploadMismatch
	}

	data, contentType, ext := up.Data, up.ContentType, strings.ToLower(path.Ext(up.Filename))
	if kind.IsImageLike() && imaging.CanResize(contentType) {
		resized, err := imaging.Fit(data, imaging.MaxWidth)
		if err != nil {
			slog.Warn("image resize failed, storing original", "error", err, "file", up.Filename)
		} else if resized != nil {
			data, contentType, ext = resized, "image/jpeg", ".jpg"
		}
	}
	if ext == "" {
		ext = ExtensionFromType(contentType)
	}

	key := ObjectKey(kind, title, ext)
	if err := s.Objects.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}
	return key, nil
}

// discard removes an object we just stored. Failures are logged only.
func (s *Service) discard(ctx context.Context, key string) {
	if key == "" || s.Objects == nil {
		return
	}
	if err := s.Objects.Delete(ctx, key); err != nil {
		slog.Warn("orphaned upload could not be removed", "key", key, "error", err)
	}
}

// discardURL removes the object behind rawURL if it lives in our storage.
func (s *Service) discardURL(ctx context.Context, rawURL string) {
	if rawURL == "" || s.Objects == nil {
		return
	}
	if key, ok := s.Objects.ExtractKey(rawURL); ok {
		s.discard(ctx, key)
	}
}

// changed publishes and audits a successful write. Neither may fail it.
func (s *Service) changed(ctx context.Context, actor uuid.UUID, table, action string, id uuid.UUID, summary string) {
	if s.Events != nil {
		ev := notify.Event{Table: table, Action: action, ID: id, At: s.now().UTC()}
		if err := s.Events.Publish(ctx, ev); err != nil {
			slog.Warn("change notification failed", "table", table, "action", action, "error", err)
		}
	}
	if s.Audit != nil {
		s.Audit.Record(ctx, models.ChangeEntry{
			Table:    table,
			EntityID: id,
			Action:   action,
			ActorID:  actor,
			Summary:  summary,
		})
	}
}

// uploadMatchesKind accepts image/* for image-like kinds and video/* for
// video-like kinds. Text items take no upload.
func uploadMatchesKind(kind models.ContentKind, contentType string) bool {
	switch {
	case kind.IsImageLike():
		return strings.HasPrefix(contentType, "image/")
	case kind.IsVideoLike():
		return strings.HasPrefix(contentType, "video/")
	}
	return false
}

// ObjectKey builds the storage key for an upload: kind/slug-shortid.ext.
func ObjectKey(kind models.ContentKind, title, ext string) string {
	base := slug.Generate(title)
	if base == "" {
		base = "item"
	}
	return fmt.Sprintf("%s/%s-%s%s", kind, base, uuid.NewString()[:8], ext)
}

// ExtensionFromType returns a file extension for known media types.
func ExtensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	}
	return ""
}
