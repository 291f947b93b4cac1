package session

import "context"

// Alert kinds shown by the templates.
const (
	KindSuccess = "success"
	KindDanger  = "danger"
)

// Alert is a one-shot flash message shown on the next rendered page.
type Alert struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// AlertStore holds pending alerts per browser session. Alerts survive
// redirects and are removed once drained.
type AlertStore interface {
	Save(ctx context.Context, sessionID string, alert Alert) error
	Drain(ctx context.Context, sessionID string) ([]Alert, error)
}
