package postgres

import (
	"gorm.io/gorm"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/notification"
)

// NotificationRepository implements notification.Repository using GORM.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *notification.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) GetByID(id int64) (*notification.Notification, error) {
	var n notification.Notification
	err := r.db.Where("id = ?", id).First(&n).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) ListByRecipient(recipient string) ([]*notification.Notification, error) {
	var notifications []*notification.Notification
	err := r.db.Where("LOWER(recipient) = LOWER(?)", recipient).
		Order("id DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) MarkRead(id int64) error {
	res := r.db.Model(&notification.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrNotificationNotFound
	}
	return nil
}
