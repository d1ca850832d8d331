package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/events"
)

// StartAuditWorker subscribes a structured-log consumer to every
// domain event, producing an audit trail of account and ticket
// mutations.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")
	handler := func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Time("at", event.Timestamp),
		}
		if event.TicketID != "" {
			fields = append(fields, zap.String("ticket_id", event.TicketID))
		}
		audit.Info("domain event", fields...)
		return nil
	}
	for _, eventType := range events.All() {
		dispatcher.Subscribe(eventType, handler)
	}
}
