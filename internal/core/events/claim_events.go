package events

import (
	"time"

	"github.com/google/uuid"
)

// Claim lifecycle event types.
const (
	EventClaimSubmitted    = "claim.submitted"
	EventClaimAutoApproved = "claim.auto_approved"
	EventClaimApproved     = "claim.approved"
	EventClaimRejected     = "claim.rejected"
	EventClaimPaid         = "claim.paid"
)

func newClaimEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewClaimSubmittedEvent(claimID int64, code, lecturer string, autoApproved bool) BaseEvent {
	return newClaimEvent(EventClaimSubmitted, map[string]interface{}{
		"claim_id":      claimID,
		"code":          code,
		"lecturer":      lecturer,
		"auto_approved": autoApproved,
	})
}

func NewClaimReviewedEvent(eventType string, claimID int64, code, lecturer, reviewer, reason string) BaseEvent {
	return newClaimEvent(eventType, map[string]interface{}{
		"claim_id": claimID,
		"code":     code,
		"lecturer": lecturer,
		"reviewer": reviewer,
		"reason":   reason,
	})
}

// NewClaimPaidEvent carries the structured payment report: claim code,
// lecturer, amount and the generated payment reference.
func NewClaimPaidEvent(claimID int64, code, lecturer, amount, reference string) BaseEvent {
	return newClaimEvent(EventClaimPaid, map[string]interface{}{
		"claim_id":  claimID,
		"code":      code,
		"lecturer":  lecturer,
		"amount":    amount,
		"reference": reference,
	})
}
