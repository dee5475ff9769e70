package service

import (
	"context"
	"log"

	"resellhub-api/internal/model"
	"resellhub-api/internal/repository"
)

// WebhookEmitter pushes an event to the configured integration endpoint.
// Implementations are fire-and-forget.
type WebhookEmitter interface {
	Emit(event model.OutboundEvent)
}

// RoleNotification fans a message out to every user holding a role.
type RoleNotification struct {
	Role     string
	Title    string
	Message  string
	Category string
}

// Effects collects the best-effort side effects of a core operation. The core
// transaction commits first; the caller hands the effects to a Dispatcher
// afterwards. Keeping side effects out of the transaction makes the core
// synchronously testable and means a failed webhook can never roll back a sale.
type Effects struct {
	Audits            []model.AuditEntry
	UserNotifications []model.Notification
	RoleNotifications []RoleNotification
	Events            []model.OutboundEvent
}

// Empty reports whether there is nothing to dispatch.
func (e *Effects) Empty() bool {
	return len(e.Audits) == 0 && len(e.UserNotifications) == 0 &&
		len(e.RoleNotifications) == 0 && len(e.Events) == 0
}

// Dispatcher delivers Effects to the audit log, the notification table and
// the webhook endpoint. Every delivery is best-effort: failures are logged
// and never propagated to the operation that produced the effects.
type Dispatcher struct {
	audits repository.AuditRepository
	notes  repository.NotificationRepository
	hooks  WebhookEmitter
}

// NewDispatcher creates a dispatcher. Any collaborator may be nil, in which
// case its effects are dropped.
func NewDispatcher(audits repository.AuditRepository, notes repository.NotificationRepository, hooks WebhookEmitter) *Dispatcher {
	return &Dispatcher{audits: audits, notes: notes, hooks: hooks}
}

// Dispatch delivers all effects.
func (d *Dispatcher) Dispatch(ctx context.Context, fx Effects) {
	for i := range fx.Audits {
		if d.audits == nil {
			break
		}
		if err := d.audits.Record(ctx, &fx.Audits[i]); err != nil {
			log.Printf("[Dispatcher] Failed to write audit log for action %s: %v", fx.Audits[i].Action, err)
		}
	}

	for i := range fx.UserNotifications {
		if d.notes == nil {
			break
		}
		if err := d.notes.Create(ctx, &fx.UserNotifications[i]); err != nil {
			log.Printf("[Dispatcher] Failed to create notification for user %d: %v", fx.UserNotifications[i].UserID, err)
		}
	}

	for _, rn := range fx.RoleNotifications {
		if d.notes == nil {
			break
		}
		if err := d.notes.CreateForRole(ctx, rn.Role, rn.Title, rn.Message, rn.Category); err != nil {
			log.Printf("[Dispatcher] Failed to create notifications for role %q: %v", rn.Role, err)
		}
	}

	if d.hooks != nil {
		for _, ev := range fx.Events {
			d.hooks.Emit(ev)
		}
	}
}
