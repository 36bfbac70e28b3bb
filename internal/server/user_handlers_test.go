package server

import (
	"fmt"
	"net/http"
	"testing"
)

func TestGetMyProfile(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestServer(t)
	token, userID := registerUser(t, app, "me@example.com")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/users/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if uint(body["id"].(float64)) != userID {
		t.Fatalf("expected id %d, got %v", userID, body["id"])
	}
	if body["email"] != "me@example.com" {
		t.Fatalf("unexpected email: %v", body["email"])
	}

	// Empty activity comes back as [], never null.
	if items, ok := body["recent_articles"].([]any); !ok || len(items) != 0 {
		t.Fatalf("expected empty recent_articles array, got %v", body["recent_articles"])
	}
	if items, ok := body["recent_comments"].([]any); !ok || len(items) != 0 {
		t.Fatalf("expected empty recent_comments array, got %v", body["recent_comments"])
	}
}

func TestGetUserProfile_WithActivity(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestServer(t)
	token, userID := registerUser(t, app, "active@example.com")

	articleID := createArticleViaAPI(t, app, token, "Profile Piece")
	createCommentViaAPI(t, app, token, articleID, "self reply")

	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", userID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["article_count"].(float64) != 1 {
		t.Fatalf("expected article_count 1, got %v", body["article_count"])
	}
	if body["comment_count"].(float64) != 1 {
		t.Fatalf("expected comment_count 1, got %v", body["comment_count"])
	}
	articles, _ := body["recent_articles"].([]any)
	if len(articles) != 1 {
		t.Fatalf("expected 1 recent article, got %v", body["recent_articles"])
	}
	comments, _ := body["recent_comments"].([]any)
	if len(comments) != 1 {
		t.Fatalf("expected 1 recent comment, got %v", body["recent_comments"])
	}
}

func TestGetUserProfile_NotFound(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestServer(t)
	token, _ := registerUser(t, app, "seeker@example.com")

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/users/99999", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestUpdateMyProfile(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestServer(t)
	token, _ := registerUser(t, app, "editable@example.com")

	resp, body := doJSON(t, app, http.MethodPut, "/api/v1/users/me", token, map[string]any{
		"full_name":  "Renamed Person",
		"avatar_url": "https://cdn.example.com/a.png",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["full_name"] != "Renamed Person" {
		t.Fatalf("name not updated: %v", body["full_name"])
	}
	if body["avatar_url"] != "https://cdn.example.com/a.png" {
		t.Fatalf("avatar not updated: %v", body["avatar_url"])
	}
}

func TestUpdateMyProfile_PasswordChange(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestServer(t)
	token, _ := registerUser(t, app, "rotating@example.com")

	resp, _ := doJSON(t, app, http.MethodPut, "/api/v1/users/me", token, map[string]any{
		"password": "freshsecret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// Old password no longer works, new one does.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "rotating@example.com", "password": "supersecret",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with old password, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "rotating@example.com", "password": "freshsecret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with new password, got %d", resp.StatusCode)
	}
}

func TestDeleteMyAccount(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestServer(t)
	token, userID := registerUser(t, app, "leaving@example.com")

	resp, _ := doJSON(t, app, http.MethodDelete, "/api/v1/users/me", token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	// Profile is gone, and the token no longer reaches a live account.
	otherToken, _ := registerUser(t, app, "observer@example.com")
	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", userID), otherToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted user, got %d", resp.StatusCode)
	}
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestServer(t)
	token, _ := registerUser(t, app, "first@example.com")
	registerUser(t, app, "second@example.com")
	registerUser(t, app, "third@example.com")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/users?size=2", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}
	items, _ := body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if body["total"].(float64) != 3 {
		t.Fatalf("expected total 3, got %v", body["total"])
	}
}

func TestListUserArticles(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestServer(t)
	token, userID := registerUser(t, app, "lister@example.com")
	createArticleViaAPI(t, app, token, "One")
	createArticleViaAPI(t, app, token, "Two")

	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/articles", userID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["total"].(float64) != 2 {
		t.Fatalf("expected total 2, got %v", body["total"])
	}

	// Unknown author reads as missing, not an empty page.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/users/55555/articles", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestServer(t)

	for _, path := range []string{"/health/live", "/health/ready", "/health"} {
		resp, _ := doJSON(t, app, http.MethodGet, path, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
