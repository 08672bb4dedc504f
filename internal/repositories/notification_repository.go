package repositories

import (
	"github.com/arefin88/vidora/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository is the durable notification log. Mutations are idempotent:
// re-marking a read notification or deleting a missing id is a no-op, never an error.
type NotificationRepository interface {
	Append(notification *models.Notification) error
	GetByID(id uint) (*models.Notification, error)
	List(recipientID uint, page, pageSize int, unreadOnly bool) ([]models.Notification, int64, error)
	UnreadCount(recipientID uint) (int64, error)
	MarkRead(id uint) error
	MarkClicked(id uint) error
	MarkAllRead(recipientID uint) error
	Delete(id uint) error
	ClearAll(recipientID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Append(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) List(recipientID uint, page, pageSize int, unreadOnly bool) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("read = false")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Ordering on (created_at, id) keeps pages stable under concurrent inserts:
	// new rows sort strictly before everything already returned.
	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(pageSize).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) UnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).
		Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkRead(id uint) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}

// MarkClicked sets both flags in one update so clicked always implies read.
func (r *postgresNotificationRepository) MarkClicked(id uint) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"clicked": true, "read": true}).Error
}

func (r *postgresNotificationRepository) MarkAllRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).
		Update("read", true).Error
}

func (r *postgresNotificationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Notification{}, id).Error
}

func (r *postgresNotificationRepository) ClearAll(recipientID uint) error {
	return r.db.Where("recipient_id = ?", recipientID).Delete(&models.Notification{}).Error
}
