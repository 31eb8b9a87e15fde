package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"roamly/internal/ai"
	"roamly/internal/config"
	"roamly/internal/models"
	"roamly/internal/vectorstore"
)

type memObjectStore struct {
	objects map[string][]byte
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: map[string][]byte{}}
}

func (m *memObjectStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	data, _ := io.ReadAll(r)
	m.objects[key] = data
	return m.PublicURL(key), nil
}

func (m *memObjectStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memObjectStore) PublicURL(key string) string {
	return "http://store.test/bucket/" + key
}

func (m *memObjectStore) KeyFromURL(url string) string {
	return strings.TrimPrefix(url, "http://store.test/bucket/")
}

func (m *memObjectStore) Ping(context.Context) error { return nil }

type echoEmbedder struct{}

func (echoEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1}, nil
}

func (echoEmbedder) Dimension() int { return 2 }

// stubGenerator satisfies ai.TextGenerator.
type stubGenerator struct {
	reply string
}

func (g stubGenerator) Generate(_ context.Context, _ []ai.Message, _ float64) (string, error) {
	return g.reply, nil
}

type testEnv struct {
	app    *fiber.App
	server *Server
	store  *memObjectStore
	db     *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	// Unique shared-cache DSN per test so gorm's pooled connections see the
	// same in-memory database.
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Adventure{}, &models.Image{}, &models.Comment{}, &models.Like{},
	))

	cfg := &config.Config{
		JWTSecret:      "test-secret-key-that-is-long-enough",
		JWTTTLMinutes:  60,
		Port:           "0",
		Env:            "test",
		EmbedDimension: 2,
		VectorBackend:  "memory",
	}

	store := newMemObjectStore()
	vstore := vectorstore.NewMemoryStore()
	require.NoError(t, vstore.EnsureCollection(context.Background(), 2))
	require.NoError(t, vstore.Upsert(context.Background(), []vectorstore.Point{
		{ID: 1, Vector: []float32{10, 1}, Payload: vectorstore.TrailPayload{
			HikeName: "Juan de Fuca", Distance: "47 km", TimeToComplete: "4 days", Summary: "Coastal.",
		}},
	}))

	srv, err := NewServerWithDeps(cfg, db, nil, store, echoEmbedder{}, stubGenerator{reply: "Hop to it!"}, vstore)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	srv.SetupRoutes(app)

	return &testEnv{app: app, server: srv, store: store, db: db}
}

func (e *testEnv) register(t *testing.T, username, email, password string) (token string, userID uint) {
	t.Helper()
	resp := e.doJSON(t, http.MethodPost, "/api/user", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &body)
	return body.Token, body.User.ID
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) doMultipart(t *testing.T, path, token string, fields map[string]string,
	images []string, captions []string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for i, name := range images {
		fw, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
		if i < len(captions) {
			require.NoError(t, w.WriteField("captions", captions[i]))
		}
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func subjectOf(t *testing.T, tokenString, secret string) uint {
	t.Helper()
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 32)
	require.NoError(t, err)
	return uint(id)
}
