package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/school-service/internal/events"
)

// AuditedEvents lists the event types written to the audit log.
var AuditedEvents = []events.EventType{
	events.EventSuperadminRegistered,
	events.EventSchoolCreated,
	events.EventSchoolDeleted,
	events.EventSchoolAdminCreated,
	events.EventStudentTransferred,
}

// AuditService writes administrative actions to the structured log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger.Named("audit")}
}

// RegisterHandlers subscribes to every audited event.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range AuditedEvents {
		a.dispatcher.Subscribe(eventType, a.record)
	}
}

func (a *AuditService) record(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("school_id", event.SchoolID),
		zap.String("actor_id", event.ActorID),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload),
	)
	return nil
}
