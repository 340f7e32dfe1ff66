package notifyobs

import (
	"context"

	"orb-scanner/internal/interfaces"
	"orb-scanner/internal/logger"
	"orb-scanner/internal/trace"
)

// observableNotifier wraps a Notifier with observability (logging & tracing)
type observableNotifier struct {
	notifier interfaces.Notifier
}

// Compile-time interface check
var _ interfaces.Notifier = (*observableNotifier)(nil)

// Wrap wraps a notifier with observability middleware
func Wrap(notifier interfaces.Notifier) interfaces.Notifier {
	return &observableNotifier{notifier: notifier}
}

// Send delivers a notification with observability
func (on *observableNotifier) Send(ctx context.Context, title, message string) error {
	ctx, span := trace.StartSpan(ctx, "notify.Send")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Dispatching notification", "title", title)

	err := on.notifier.Send(ctx, title, message)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Notification delivery failed", err, "title", title)
		return err
	}
	return nil
}
