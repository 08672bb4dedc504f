package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arefin88/vidora/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const testUserID uint = 1

func setupNotificationAPI(repo *fakeNotificationRepo, users *fakeUserRepo) *echo.Echo {
	e := newTestEcho()
	g := e.Group("/api/v1", testAuthMiddleware(testUserID))
	NewNotificationHandler(repo, users).RegisterNotificationRoutes(g)
	return e
}

func seedNotification(repo *fakeNotificationRepo, recipientID uint, senderID *uint, createdAt time.Time) *models.Notification {
	n := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        models.TypeVideoComment,
		Title:       "New comment",
		Message:     "nice video",
		CreatedAt:   createdAt,
	}
	repo.Append(n)
	return n
}

func doRequest(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetNotificationsNewestFirst(t *testing.T) {
	repo := &fakeNotificationRepo{}
	sender := uint(2)
	users := &fakeUserRepo{users: map[uint]*models.User{
		sender: {ID: sender, DisplayName: "channel-b"},
	}}
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedNotification(repo, testUserID, &sender, base.Add(time.Duration(i)*time.Minute))
	}
	seedNotification(repo, 99, &sender, base) // someone else's

	e := setupNotificationAPI(repo, users)
	rec := doRequest(e, http.MethodGet, "/api/v1/notifications?page=1&pageSize=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data struct {
			Notifications []EnrichedNotification `json:"notifications"`
		} `json:"data"`
		Meta struct {
			TotalItems  int64 `json:"totalItems"`
			TotalPages  int   `json:"totalPages"`
			HasNextPage bool  `json:"hasNextPage"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(body.Data.Notifications) != 2 {
		t.Fatalf("page size = %d, want 2", len(body.Data.Notifications))
	}
	if body.Data.Notifications[0].ID != 3 || body.Data.Notifications[1].ID != 2 {
		t.Fatalf("wrong order: ids %d, %d", body.Data.Notifications[0].ID, body.Data.Notifications[1].ID)
	}
	if body.Meta.TotalItems != 3 || body.Meta.TotalPages != 2 || !body.Meta.HasNextPage {
		t.Fatalf("wrong meta: %+v", body.Meta)
	}
	if body.Data.Notifications[0].Sender == nil || body.Data.Notifications[0].Sender.DisplayName != "channel-b" {
		t.Fatal("sender not enriched")
	}
}

func TestGetNotificationsUnreadOnly(t *testing.T) {
	repo := &fakeNotificationRepo{}
	sender := uint(2)
	users := &fakeUserRepo{users: map[uint]*models.User{}}
	read := seedNotification(repo, testUserID, &sender, time.Now())
	seedNotification(repo, testUserID, &sender, time.Now())
	repo.MarkRead(read.ID)

	e := setupNotificationAPI(repo, users)
	rec := doRequest(e, http.MethodGet, "/api/v1/notifications?unreadOnly=true")

	var body struct {
		Data struct {
			Notifications []EnrichedNotification `json:"notifications"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Notifications) != 1 {
		t.Fatalf("unreadOnly returned %d items, want 1", len(body.Data.Notifications))
	}
	if body.Data.Notifications[0].Read {
		t.Fatal("unreadOnly returned a read notification")
	}
}

func TestUnreadCount(t *testing.T) {
	repo := &fakeNotificationRepo{}
	sender := uint(2)
	users := &fakeUserRepo{users: map[uint]*models.User{}}
	seedNotification(repo, testUserID, &sender, time.Now())
	seedNotification(repo, testUserID, &sender, time.Now())

	e := setupNotificationAPI(repo, users)
	rec := doRequest(e, http.MethodGet, "/api/v1/notifications/unread-count")

	var body struct {
		Data struct {
			Count int64 `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Count != 2 {
		t.Fatalf("count = %d, want 2", body.Data.Count)
	}
}

func TestMarkAsReadIdempotent(t *testing.T) {
	repo := &fakeNotificationRepo{}
	sender := uint(2)
	users := &fakeUserRepo{users: map[uint]*models.User{}}
	n := seedNotification(repo, testUserID, &sender, time.Now())

	e := setupNotificationAPI(repo, users)

	for i := 0; i < 2; i++ {
		rec := doRequest(e, http.MethodPost, "/api/v1/notifications/1/read")
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: status = %d", i+1, rec.Code)
		}
	}

	stored, _ := repo.GetByID(n.ID)
	if !stored.Read {
		t.Fatal("notification not marked read")
	}
	if count, _ := repo.UnreadCount(testUserID); count != 0 {
		t.Fatalf("unread count = %d, want 0", count)
	}
}

func TestMarkAsClickedImpliesRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	sender := uint(2)
	users := &fakeUserRepo{users: map[uint]*models.User{}}
	n := seedNotification(repo, testUserID, &sender, time.Now())

	e := setupNotificationAPI(repo, users)
	rec := doRequest(e, http.MethodPost, "/api/v1/notifications/1/clicked")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	stored, _ := repo.GetByID(n.ID)
	if !stored.Clicked || !stored.Read {
		t.Fatalf("clicked=%v read=%v, want both true", stored.Clicked, stored.Read)
	}
}

func TestMutateMissingNotificationIsNoop(t *testing.T) {
	repo := &fakeNotificationRepo{}
	users := &fakeUserRepo{users: map[uint]*models.User{}}
	e := setupNotificationAPI(repo, users)

	for _, target := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/notifications/999/read"},
		{http.MethodPost, "/api/v1/notifications/999/clicked"},
		{http.MethodDelete, "/api/v1/notifications/999"},
	} {
		rec := doRequest(e, target.method, target.path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s %s: status = %d, want 200", target.method, target.path, rec.Code)
		}
	}
}

func TestMutateForeignNotificationForbidden(t *testing.T) {
	repo := &fakeNotificationRepo{}
	sender := uint(2)
	users := &fakeUserRepo{users: map[uint]*models.User{}}
	seedNotification(repo, 99, &sender, time.Now())

	e := setupNotificationAPI(repo, users)

	for _, target := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/notifications/1/read"},
		{http.MethodPost, "/api/v1/notifications/1/clicked"},
		{http.MethodDelete, "/api/v1/notifications/1"},
	} {
		rec := doRequest(e, target.method, target.path)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s: status = %d, want 403", target.method, target.path, rec.Code)
		}
	}

	if stored, _ := repo.GetByID(1); stored == nil || stored.Read {
		t.Fatal("foreign notification was mutated")
	}
}

func TestMarkAllAsRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	sender := uint(2)
	users := &fakeUserRepo{users: map[uint]*models.User{}}
	seedNotification(repo, testUserID, &sender, time.Now())
	seedNotification(repo, testUserID, &sender, time.Now())
	other := seedNotification(repo, 99, &sender, time.Now())

	e := setupNotificationAPI(repo, users)
	rec := doRequest(e, http.MethodPost, "/api/v1/notifications/read-all")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if count, _ := repo.UnreadCount(testUserID); count != 0 {
		t.Fatalf("unread count = %d, want 0", count)
	}
	if stored, _ := repo.GetByID(other.ID); stored.Read {
		t.Fatal("another user's notification was marked read")
	}
}

func TestClearAll(t *testing.T) {
	repo := &fakeNotificationRepo{}
	sender := uint(2)
	users := &fakeUserRepo{users: map[uint]*models.User{}}
	seedNotification(repo, testUserID, &sender, time.Now())
	seedNotification(repo, testUserID, &sender, time.Now())
	other := seedNotification(repo, 99, &sender, time.Now())

	e := setupNotificationAPI(repo, users)
	rec := doRequest(e, http.MethodDelete, "/api/v1/notifications")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	items, total, _ := repo.List(testUserID, 1, 20, false)
	if len(items) != 0 || total != 0 {
		t.Fatal("clear-all left notifications behind")
	}
	if stored, _ := repo.GetByID(other.ID); stored == nil {
		t.Fatal("another user's notification was deleted")
	}

	// Clearing again is a no-op.
	if rec := doRequest(e, http.MethodDelete, "/api/v1/notifications"); rec.Code != http.StatusOK {
		t.Fatalf("second clear-all status = %d", rec.Code)
	}
}

func TestOrderingStableUnderInserts(t *testing.T) {
	repo := &fakeNotificationRepo{}
	sender := uint(2)
	users := &fakeUserRepo{users: map[uint]*models.User{}}
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		seedNotification(repo, testUserID, &sender, base.Add(time.Duration(i)*time.Minute))
	}

	e := setupNotificationAPI(repo, users)

	fetchIDs := func(target string) []uint {
		rec := doRequest(e, http.MethodGet, target)
		var body struct {
			Data struct {
				Notifications []EnrichedNotification `json:"notifications"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		ids := make([]uint, len(body.Data.Notifications))
		for i, n := range body.Data.Notifications {
			ids[i] = n.ID
		}
		return ids
	}

	before := fetchIDs("/api/v1/notifications?page=1&pageSize=10")

	// Sorting on the immutable (created_at, id) pair means a new insert only
	// prepends: every previously returned item keeps its identity and
	// relative order.
	inserted := seedNotification(repo, testUserID, &sender, time.Now())

	after := fetchIDs("/api/v1/notifications?page=1&pageSize=10")
	if len(after) != len(before)+1 {
		t.Fatalf("expected %d items, got %d", len(before)+1, len(after))
	}
	if after[0] != inserted.ID {
		t.Fatalf("new item not first: got %d", after[0])
	}
	for i, id := range before {
		if after[i+1] != id {
			t.Fatalf("previously returned items shifted: before=%v after=%v", before, after)
		}
	}
}
