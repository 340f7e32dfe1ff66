package interfaces

import "context"

// Notifier delivers an alert best-effort. A delivery failure is the
// caller's to log; it never aborts a scan cycle.
type Notifier interface {
	Send(ctx context.Context, title, message string) error
}
