package worker

import (
	"context"

	"github.com/spec-kit/school-service/internal/events"
	"github.com/spec-kit/school-service/internal/service"
)

// SchoolInvalidator drops cached state for a deleted school.
type SchoolInvalidator interface {
	Invalidate(ctx context.Context, schoolID string) error
}

// StartAuditWorker registers the audit handlers.
func StartAuditWorker(audit *service.AuditService) {
	if audit == nil {
		return
	}
	audit.RegisterHandlers()
}

// StartCacheInvalidation evicts deleted schools from the existence cache.
func StartCacheInvalidation(dispatcher events.Dispatcher, cache SchoolInvalidator) {
	if dispatcher == nil || cache == nil {
		return
	}
	dispatcher.Subscribe(events.EventSchoolDeleted, func(ctx context.Context, event events.Event) error {
		return cache.Invalidate(ctx, event.SchoolID)
	})
}
