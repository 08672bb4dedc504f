package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/arefin88/vidora/backend/internal/models"
	"github.com/arefin88/vidora/backend/pkg/errno"
	"github.com/labstack/echo/v4"

	"github.com/arefin88/vidora/backend/validators"
)

// fakeNotificationRepo is an in-memory NotificationRepository for handler tests.
type fakeNotificationRepo struct {
	mu     sync.Mutex
	nextID uint
	items  []*models.Notification
}

func (f *fakeNotificationRepo) Append(n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	n.ID = f.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	stored := *n
	f.items = append(f.items, &stored)
	return nil
}

func (f *fakeNotificationRepo) GetByID(id uint) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationRepo) List(recipientID uint, page, pageSize int, unreadOnly bool) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []models.Notification
	for i := len(f.items) - 1; i >= 0; i-- {
		n := f.items[i]
		if n.RecipientID != recipientID || (unreadOnly && n.Read) {
			continue
		}
		matched = append(matched, *n)
	}
	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeNotificationRepo) UnreadCount(recipientID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.items {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.ID == id {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkClicked(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.ID == id {
			n.Clicked = true
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(recipientID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.RecipientID == recipientID {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.items {
		if n.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeNotificationRepo) ClearAll(recipientID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	for _, n := range f.items {
		if n.RecipientID != recipientID {
			kept = append(kept, n)
		}
	}
	f.items = kept
	return nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[uint]*models.User
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("record not found")
}

func (f *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, u := range f.users {
		if u.FirebaseUID == firebaseUID {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

// fakePreferenceRepo is an in-memory PreferenceRepository.
type fakePreferenceRepo struct {
	mu    sync.Mutex
	prefs map[uint]*models.NotificationPreferences
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{prefs: make(map[uint]*models.NotificationPreferences)}
}

func (f *fakePreferenceRepo) Get(ctx context.Context, userID uint) (*models.NotificationPreferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.prefs[userID]; ok {
		return p, nil
	}
	p := models.DefaultNotificationPreferences(userID)
	f.prefs[userID] = p
	return p, nil
}

func (f *fakePreferenceRepo) Replace(ctx context.Context, prefs *models.NotificationPreferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs[prefs.UserID] = prefs
	return nil
}

func (f *fakePreferenceRepo) SetField(ctx context.Context, userID uint, channel string, notifType models.NotificationType, enabled bool) error {
	if !models.ValidChannel(channel) {
		return errno.ErrInvalidArgument.Wrap("unknown channel " + channel)
	}
	if !notifType.Valid() {
		return errno.ErrInvalidArgument.Wrap("unknown notification type " + string(notifType))
	}
	p, _ := f.Get(ctx, userID)
	f.mu.Lock()
	defer f.mu.Unlock()
	p.Bucket(channel)[string(notifType)] = enabled
	return nil
}

func (f *fakePreferenceRepo) SetChannel(ctx context.Context, userID uint, channel string, enabled bool) error {
	if !models.ValidChannel(channel) {
		return errno.ErrInvalidArgument.Wrap("unknown channel " + channel)
	}
	p, _ := f.Get(ctx, userID)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range models.NotificationTypes {
		p.Bucket(channel)[string(t)] = enabled
	}
	return nil
}

// testAuthMiddleware injects an authenticated identity the way the Firebase
// middleware does in production.
func testAuthMiddleware(userID uint) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("userID", userID)
			return next(c)
		}
	}
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}
