package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quill/internal/config"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer builds a fully routed app backed by in-memory SQLite.
// Redis is nil, so caching and rate limiting are both inert.
func newTestServer(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Article{}, &models.Comment{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		JWTSecret: "test-secret-0123456789abcdef0123456789",
		Env:       "test",
	}
	srv, err := NewServerWithDeps(cfg, db, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, err)
		},
	})
	srv.SetupRoutes(app)

	return app, srv, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}

	var parsed map[string]any
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	_ = resp.Body.Close()
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}

// registerUser registers a fresh account and returns its token and ID.
func registerUser(t *testing.T, app *fiber.App, email string) (string, uint) {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":     email,
		"password":  "supersecret",
		"full_name": "Test User",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%v)", email, resp.StatusCode, body)
	}

	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register %s: missing token in response", email)
	}
	user, _ := body["user"].(map[string]any)
	id, _ := user["id"].(float64)
	if id == 0 {
		t.Fatalf("register %s: missing user id in response", email)
	}
	return token, uint(id)
}

func createArticleViaAPI(t *testing.T, app *fiber.App, token, title string) uint {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/articles", token, map[string]any{
		"title":   title,
		"content": "Some body text for " + title,
		"status":  "published",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create article: expected 201, got %d (%v)", resp.StatusCode, body)
	}
	id, _ := body["id"].(float64)
	if id == 0 {
		t.Fatalf("create article: missing id in response %v", body)
	}
	return uint(id)
}

func createCommentViaAPI(t *testing.T, app *fiber.App, token string, articleID uint, content string) uint {
	t.Helper()

	path := fmt.Sprintf("/api/v1/articles/%d/comments", articleID)
	resp, body := doJSON(t, app, http.MethodPost, path, token, map[string]any{"content": content})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create comment: expected 201, got %d (%v)", resp.StatusCode, body)
	}
	id, _ := body["id"].(float64)
	if id == 0 {
		t.Fatalf("create comment: missing id in response %v", body)
	}
	return uint(id)
}
