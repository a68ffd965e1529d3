package webhook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caredesk/caredesk/internal/platform/db"
)

// Emitter is the hook point domain services use to publish events. Services
// fire and forget; delivery outcome lands in the delivery log, not in the
// caller's error path.
type Emitter interface {
	Emit(ctx context.Context, eventType, resourceType, resourceID string, payload interface{})
}

// ManagerEmitter emits events through a Manager, logging each emission.
// defaultTenant covers the memory driver, where no tenant middleware runs.
type ManagerEmitter struct {
	manager       *Manager
	logger        zerolog.Logger
	defaultTenant string
}

func NewManagerEmitter(manager *Manager, logger zerolog.Logger, defaultTenant string) *ManagerEmitter {
	return &ManagerEmitter{manager: manager, logger: logger, defaultTenant: defaultTenant}
}

// Emit marshals the payload and delivers the event to matching endpoints for
// the tenant resolved from ctx. Delivery runs synchronously on the request
// path; endpoints are expected to accept quickly and process out of band.
func (e *ManagerEmitter) Emit(ctx context.Context, eventType, resourceType, resourceID string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		e.logger.Error().Err(err).Str("event", eventType).Msg("webhook payload marshal failed")
		return
	}

	tenant := db.TenantFromContext(ctx)
	if tenant == "" {
		tenant = e.defaultTenant
	}

	event := Event{
		ID:           uuid.New().String(),
		Type:         eventType,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		TenantID:     tenant,
		Payload:      raw,
		Timestamp:    time.Now(),
	}

	results := e.manager.Deliver(ctx, event)
	e.logger.Info().
		Str("event", eventType).
		Str("resource", resourceType+"/"+resourceID).
		Int("endpoints", len(results)).
		Msg("event emitted")
}

// NopEmitter drops events after logging them, for deployments with webhooks
// disabled.
type NopEmitter struct {
	logger zerolog.Logger
}

func NewNopEmitter(logger zerolog.Logger) *NopEmitter {
	return &NopEmitter{logger: logger}
}

func (e *NopEmitter) Emit(_ context.Context, eventType, resourceType, resourceID string, _ interface{}) {
	e.logger.Debug().
		Str("event", eventType).
		Str("resource", resourceType+"/"+resourceID).
		Msg("event dropped (webhooks disabled)")
}
