// Package memory provides the in-process notification store.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/notification"
)

type NotificationRepository struct {
	mu            sync.RWMutex
	notifications map[int64]notification.Notification
	nextID        int64
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		notifications: make(map[int64]notification.Notification),
		nextID:        1,
	}
}

func (r *NotificationRepository) Create(n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.ID = r.nextID
	r.nextID++
	r.notifications[n.ID] = *n
	return nil
}

func (r *NotificationRepository) GetByID(id int64) (*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, internal.ErrNotificationNotFound
	}
	return &n, nil
}

// ListByRecipient returns the recipient's notifications, newest first.
func (r *NotificationRepository) ListByRecipient(recipient string) ([]*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*notification.Notification, 0)
	for _, n := range r.notifications {
		if strings.EqualFold(n.Recipient, recipient) {
			copied := n
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *NotificationRepository) MarkRead(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok {
		return internal.ErrNotificationNotFound
	}
	n.Read = true
	r.notifications[id] = n
	return nil
}
