package notification

import "time"

// Notification is an in-app message generated from claim lifecycle events.
// Recipient is the account name the message is addressed to.
type Notification struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Recipient string    `json:"recipient" gorm:"column:recipient;index;not null"`
	ClaimID   int64     `json:"claim_id" gorm:"column:claim_id"`
	ClaimCode string    `json:"claim_code" gorm:"column:claim_code"`
	EventType string    `json:"event_type" gorm:"column:event_type"`
	Message   string    `json:"message" gorm:"column:message;not null"`
	Read      bool      `json:"read" gorm:"column:read"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Repository defines the data access methods for notifications.
type Repository interface {
	Create(n *Notification) error
	GetByID(id int64) (*Notification, error)
	ListByRecipient(recipient string) ([]*Notification, error)
	MarkRead(id int64) error
}
