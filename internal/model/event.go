package model

import "time"

// Outbound event names emitted by the sales core.
const (
	EventSaleCreated   = "sale_created"
	EventSaleRenewed   = "sale_renewed"
	EventSaleCancelled = "sale_cancelled"
	EventSaleExpiring  = "sale_expiring_soon"
)

// Notification categories.
const (
	NotifySystem = "SYSTEM"
	NotifySale   = "SALE"
)

// OutboundEvent is a webhook payload produced by a core operation and
// dispatched by the caller after the transaction commits.
type OutboundEvent struct {
	Name    string         `json:"event"`
	Payload map[string]any `json:"payload"`
}

// AuditEntry records who changed what. Before/After hold JSON snapshots and
// may be nil for creates and deletes respectively.
type AuditEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  int64     `json:"entity_id"`
	Before    []byte    `json:"before,omitempty"`
	After     []byte    `json:"after,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is an internal message for one back-office user.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// LowStockWarning is raised by the allocator when the remaining availability
// for a product drops under the configured threshold. It is advisory only; a
// stale count here never affects allocation correctness.
type LowStockWarning struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Remaining   int    `json:"remaining"`
}
