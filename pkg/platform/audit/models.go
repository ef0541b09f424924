package audit

import (
	"context"
	"time"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
)

// EventCategory routes events to retention policies downstream.
type EventCategory string

const (
	// CategoryCompliance covers account lifecycle events that must be kept.
	CategoryCompliance EventCategory = "compliance"
	// CategorySecurity covers authorization failures and revocations.
	CategorySecurity EventCategory = "security"
	// CategoryOperations covers routine content activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from services to record a state change. It stays
// transport-agnostic so sinks can fan out.
type Event struct {
	Category    EventCategory `json:"category"`
	Timestamp   time.Time     `json:"timestamp"`
	AccountID   id.AccountID  `json:"account_id"`
	Action      string        `json:"action"`
	ResourceID  string        `json:"resource_id,omitempty"`
	Reason      string        `json:"reason,omitempty"`
	RequestID   string        `json:"request_id,omitempty"`
	ClientLabel string        `json:"client_label,omitempty"`
}

type AuditEvent string

const (
	EventAccountRegistered      AuditEvent = "account_registered"
	EventAccountDeleted         AuditEvent = "account_deleted"
	EventAccountDeletionPartial AuditEvent = "account_deletion_partial"
	EventLoginFailed            AuditEvent = "login_failed"

	EventProfileUpserted   AuditEvent = "profile_upserted"
	EventProfileDeleted    AuditEvent = "profile_deleted"
	EventExperienceAdded   AuditEvent = "experience_added"
	EventExperienceRemoved AuditEvent = "experience_removed"
	EventEducationAdded    AuditEvent = "education_added"
	EventEducationRemoved  AuditEvent = "education_removed"

	EventPostCreated    AuditEvent = "post_created"
	EventPostDeleted    AuditEvent = "post_deleted"
	EventPostLiked      AuditEvent = "post_liked"
	EventPostUnliked    AuditEvent = "post_unliked"
	EventCommentAdded   AuditEvent = "comment_added"
	EventCommentRemoved AuditEvent = "comment_removed"

	EventOwnershipDenied AuditEvent = "ownership_denied"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventAccountRegistered:      CategoryCompliance,
	EventAccountDeleted:         CategoryCompliance,
	EventAccountDeletionPartial: CategoryCompliance,

	EventLoginFailed:     CategorySecurity,
	EventOwnershipDenied: CategorySecurity,
}

// Category returns the category for e. Unknown events are operational.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists or forwards events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
