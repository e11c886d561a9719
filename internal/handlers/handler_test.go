// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure. Most tests run on
// in-memory fakes; the integration env needs PostgreSQL and Valkey and is
// skipped when they are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"scalers/internal/cache"
	"scalers/internal/catalog"
	"scalers/internal/contact"
	"scalers/internal/database"
	"scalers/internal/middleware"
	"scalers/internal/models"
	"scalers/internal/render"
	"scalers/internal/session"
	"scalers/internal/site"
	"scalers/internal/store"
)

// --- in-memory fakes ---

type memItems struct {
	mu        sync.Mutex
	rows      []models.ContentItem
	deleteErr error
}

func (m *memItems) List(_ context.Context) ([]models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]models.ContentItem(nil), m.rows...)
	catalog.SortItems(out)
	return out, nil
}

func (m *memItems) FindByID(_ context.Context, id uuid.UUID) (*models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memItems) Create(_ context.Context, c *models.ContentItem) (*models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	m.rows = append(m.rows, *c)
	out := *c
	return &out, nil
}

func (m *memItems) Update(_ context.Context, c *models.ContentItem) (*models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == c.ID {
			c.CreatedAt = r.CreatedAt
			m.rows[i] = *c
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memItems) Delete(_ context.Context, id uuid.UUID) (*models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memItems) CountByKind(_ context.Context) (map[models.ContentKind]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[models.ContentKind]int)
	for _, r := range m.rows {
		out[r.Kind]++
	}
	return out, nil
}

type memCategories struct {
	mu   sync.Mutex
	rows []models.Category
}

func (m *memCategories) List(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Category(nil), m.rows...), nil
}

func (m *memCategories) FindByName(_ context.Context, name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memCategories) Create(_ context.Context, name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := models.Category{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	m.rows = append(m.rows, c)
	return &c, nil
}

func (m *memCategories) Delete(_ context.Context, id uuid.UUID) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.rows {
		if c.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return &c, nil
		}
	}
	return nil, nil
}

const fakeMediaBase = "https://media.test/scalers-media/"

type memObjects struct {
	mu   sync.Mutex
	objs map[string][]byte
}

func (m *memObjects) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objs == nil {
		m.objs = make(map[string][]byte)
	}
	m.objs[key] = data
	return nil
}

func (m *memObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objs, key)
	return nil
}

func (m *memObjects) FileURL(key string) string { return fakeMediaBase + key }

func (m *memObjects) ExtractKey(rawURL string) (string, bool) {
	key, ok := strings.CutPrefix(rawURL, fakeMediaBase)
	return key, ok && key != ""
}

func (m *memObjects) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objs)
}

type memChanges struct{ entries []models.ChangeEntry }

func (m *memChanges) Record(_ context.Context, e models.ChangeEntry) {
	m.entries = append([]models.ChangeEntry{e}, m.entries...)
}

func (m *memChanges) Recent(_ context.Context, limit int) ([]models.ChangeEntry, error) {
	if len(m.entries) > limit {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

// memCache is a PageCache that counts hits.
type memCache struct {
	mu    sync.Mutex
	pages map[string][]byte
	hits  int
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	html, ok := m.pages[key]
	if ok {
		m.hits++
	}
	return html, ok
}

func (m *memCache) Set(_ context.Context, key string, html []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pages == nil {
		m.pages = make(map[string][]byte)
	}
	m.pages[key] = html
}

// memSessions records session writes instead of talking to Valkey.
type memSessions struct {
	created   *session.Data
	updated   *session.Data
	destroyed bool
}

func (m *memSessions) Create(_ context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	m.created = data
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "test-session"})
	return "test-session", nil
}

func (m *memSessions) Update(_ context.Context, _ *http.Request, data *session.Data) error {
	cp := *data
	m.updated = &cp
	return nil
}

func (m *memSessions) Destroy(_ context.Context, w http.ResponseWriter, _ *http.Request) error {
	m.destroyed = true
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", MaxAge: -1})
	return nil
}

func (m *memSessions) PopFlash(_ context.Context, _ *http.Request, data *session.Data) string {
	msg := data.Flash
	data.Flash, data.FlashType = "", ""
	return msg
}

// memUsers holds accounts with plain-text passwords.
type memUsers struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*models.User
	passwords map[uuid.UUID]string
}

func (m *memUsers) add(email, password string, totpEnabled bool) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users == nil {
		m.users = make(map[uuid.UUID]*models.User)
		m.passwords = make(map[uuid.UUID]string)
	}
	u := &models.User{ID: uuid.New(), Email: email, DisplayName: "Test User", Role: models.RoleAdmin, TOTPEnabled: totpEnabled}
	m.users[u.ID] = u
	m.passwords[u.ID] = password
	return u
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) CheckPassword(user *models.User, password string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.passwords[user.ID] == password
}

func (m *memUsers) SetTOTPSecret(_ context.Context, id uuid.UUID, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].TOTPSecret = &secret
	return nil
}

func (m *memUsers) EnableTOTP(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].TOTPEnabled = true
	return nil
}

// stubSender is a contact.Sender returning err and counting sends.
type stubSender struct {
	mu   sync.Mutex
	sent []contact.Submission
	err  error
}

func (s *stubSender) Send(_ context.Context, sub contact.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sub)
	return nil
}

func (s *stubSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// fakeEnv wires every handler group on in-memory dependencies.
type fakeEnv struct {
	Items      *memItems
	Categories *memCategories
	Objects    *memObjects
	Changes    *memChanges
	Cache      *memCache
	Sessions   *memSessions
	Users      *memUsers
	Sender     *stubSender
	Catalog    *catalog.Service
	Renderer   *render.Renderer
	Admin      *Admin
	Auth       *Auth
	Public     *Public
}

type envOption func(*envConfig)

type envConfig struct {
	uploads    bool
	require2FA bool
}

func withUploads() envOption    { return func(c *envConfig) { c.uploads = true } }
func withRequire2FA() envOption { return func(c *envConfig) { c.require2FA = true } }

func newFakeEnv(t *testing.T, opts ...envOption) *fakeEnv {
	t.Helper()
	var cfg envConfig
	for _, o := range opts {
		o(&cfg)
	}

	renderer, err := render.New(true, nil)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	env := &fakeEnv{
		Items:      &memItems{},
		Categories: &memCategories{},
		Objects:    &memObjects{},
		Changes:    &memChanges{},
		Cache:      &memCache{},
		Sessions:   &memSessions{},
		Users:      &memUsers{},
		Sender:     &stubSender{},
		Renderer:   renderer,
	}

	var objects catalog.ObjectStore
	if cfg.uploads {
		objects = env.Objects
	}
	env.Catalog = catalog.NewService(env.Items, env.Categories, objects, nil, env.Changes)
	contactSvc := contact.NewService(env.Sender, site.Default().OffersService)

	env.Admin = NewAdmin(renderer, env.Sessions, env.Catalog, env.Changes, env.Items)
	env.Auth = NewAuth(renderer, env.Sessions, env.Users, cfg.require2FA)
	env.Public = NewPublic(renderer, catalog.NewSnapshot(env.Items, 0), env.Categories, contactSvc, env.Cache)
	return env
}

// seedItem inserts an item straight into the fake repository.
func (e *fakeEnv) seedItem(item models.ContentItem) models.ContentItem {
	created, _ := e.Items.Create(context.Background(), &item)
	return *created
}

func (e *fakeEnv) seedCategory(name string) models.Category {
	c, _ := e.Categories.Create(context.Background(), name)
	return *c
}

// --- request helpers ---

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return middleware.WithSession(ctx, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        string(models.RoleAdmin),
		TwoFADone:   twoFADone,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// multipartBody builds a multipart form with fields and one optional file.
func multipartBody(t *testing.T, fields map[string]string, filename string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

// --- integration env ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "scalers")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "scalers")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)
	if err := database.Seed(db); err != nil {
		db.Close()
		t.Fatalf("seed: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "session-user:*", "page:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})
	return client
}

// testEnv holds real stores for integration tests.
type testEnv struct {
	DB        *sql.DB
	Valkey    *redis.Client
	Sessions  *session.Store
	Users     *store.UserStore
	Content   *store.ContentStore
	PageCache *cache.PageCache
	Admin     *Admin
	Auth      *Auth
	Public    *Public
}

// newTestEnv creates handlers backed by PostgreSQL and Valkey.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New(true, nil)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(vk, false)
	users := store.NewUserStore(db)
	content := store.NewContentStore(db)
	categories := store.NewCategoryStore(db)
	changes := store.NewChangeLogStore(db)
	pageCache := cache.NewPageCache(vk, time.Minute)

	svc := catalog.NewService(content, categories, nil, nil, changes)
	contactSvc := contact.NewService(&stubSender{}, site.Default().OffersService)

	return &testEnv{
		DB:        db,
		Valkey:    vk,
		Sessions:  sessions,
		Users:     users,
		Content:   content,
		PageCache: pageCache,
		Admin:     NewAdmin(renderer, sessions, svc, changes, content),
		Auth:      NewAuth(renderer, sessions, users, false),
		Public:    NewPublic(renderer, catalog.NewSnapshot(content, 0), categories, contactSvc, pageCache),
	}
}
