package federation

import (
	"log"

	"github.com/burrow-social/burrow/domain"
	"github.com/google/uuid"
)

// LogNotifier logs moderation and deletion events. It stands in for a
// real-time fan-out subsystem; swapping it out does not touch the core.
type LogNotifier struct{}

func (LogNotifier) Notify(op domain.NotifyOp, entityId uuid.UUID) {
	log.Printf("Notify: %s %s", op, entityId)
}

var _ Notifier = LogNotifier{}
