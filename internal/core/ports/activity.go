package ports

import (
	"context"
	"time"
)

const (
	ActivityLogin          = "login"
	ActivityLogout         = "logout"
	ActivityPasswordChange = "password_change"
	ActivityConsulta       = "consulta"
)

// ActivityEvent records one audit-relevant portal action.
type ActivityEvent struct {
	Type              string    `json:"type"`
	UserID            int       `json:"user_id"`
	Username          string    `json:"username"`
	ClienteDocumentID string    `json:"cliente_document_id,omitempty"`
	Detail            string    `json:"detail,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// ActivityPublisher accepts events for asynchronous persistence. Publishing
// is fire-and-forget: audit failures must never surface to users.
type ActivityPublisher interface {
	Publish(event ActivityEvent)
}

type ActivityRepository interface {
	Insert(ctx context.Context, event ActivityEvent) error
}
