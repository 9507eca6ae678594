package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/core/events"
)

// Subscriber registers event handlers on a bus.
type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// Service turns claim lifecycle events into per-lecturer notifications.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// RegisterHandlers subscribes the service to every claim lifecycle event.
func (s *Service) RegisterHandlers(bus Subscriber) {
	bus.Subscribe(events.EventClaimSubmitted, s.onClaimEvent)
	bus.Subscribe(events.EventClaimAutoApproved, s.onClaimEvent)
	bus.Subscribe(events.EventClaimApproved, s.onClaimEvent)
	bus.Subscribe(events.EventClaimRejected, s.onClaimEvent)
	bus.Subscribe(events.EventClaimPaid, s.onClaimEvent)
}

func (s *Service) onClaimEvent(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for event %s", event.EventType())
	}

	lecturer, _ := data["lecturer"].(string)
	code, _ := data["code"].(string)
	claimID, _ := data["claim_id"].(int64)
	if lecturer == "" {
		return fmt.Errorf("event %s carries no lecturer", event.EventID())
	}

	message := messageFor(event.EventType(), code, data)
	if message == "" {
		return nil
	}

	n := &Notification{
		Recipient: lecturer,
		ClaimID:   claimID,
		ClaimCode: code,
		EventType: event.EventType(),
		Message:   message,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	s.logger.Debug("notification created",
		"notification_id", n.ID,
		"recipient", n.Recipient,
		"event_type", n.EventType)
	return nil
}

func messageFor(eventType, code string, data map[string]interface{}) string {
	switch eventType {
	case events.EventClaimSubmitted:
		if auto, _ := data["auto_approved"].(bool); auto {
			// auto-approval already produces its own message
			return ""
		}
		return fmt.Sprintf("Your claim %s has been submitted and is awaiting review.", code)
	case events.EventClaimAutoApproved:
		return fmt.Sprintf("Your claim %s was automatically approved.", code)
	case events.EventClaimApproved:
		reviewer, _ := data["reviewer"].(string)
		return fmt.Sprintf("Your claim %s was approved by %s.", code, reviewer)
	case events.EventClaimRejected:
		if reason, _ := data["reason"].(string); reason != "" {
			return fmt.Sprintf("Your claim %s was rejected: %s", code, reason)
		}
		return fmt.Sprintf("Your claim %s was rejected.", code)
	case events.EventClaimPaid:
		reference, _ := data["reference"].(string)
		return fmt.Sprintf("Your claim %s has been paid. Payment reference: %s.", code, reference)
	}
	return ""
}

func (s *Service) ListForRecipient(recipient string) ([]*Notification, error) {
	return s.repo.ListByRecipient(recipient)
}

// MarkRead flags a notification as read, but only for its own recipient.
func (s *Service) MarkRead(ctx context.Context, id int64, recipient string) error {
	n, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if n.Recipient != recipient {
		return internal.ErrAccessDenied
	}
	return s.repo.MarkRead(id)
}
