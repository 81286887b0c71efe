// Package webhook reenvía eventos de auditoría a un endpoint HTTP externo.
// El reenvío ocurre después del commit y es best-effort: el evento ya quedó
// persistido en audit_events, un fallo aquí solo se registra en el log.
package webhook

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cvallejo/planta-api/internal/application/audit"
	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/pkg/logger"
)

var _ audit.Notifier = (*RestyNotifier)(nil)

// RestyNotifier implementa audit.Notifier sobre un webhook HTTP.
type RestyNotifier struct {
	client *resty.Client
	url    string
	log    *logger.Logger
}

// NewRestyNotifier construye el notificador. timeout en segundos.
func NewRestyNotifier(url string, timeoutSeconds int, log *logger.Logger) *RestyNotifier {
	client := resty.New().
		SetTimeout(time.Duration(timeoutSeconds) * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &RestyNotifier{client: client, url: url, log: log}
}

type eventPayload struct {
	ID            string    `json:"id"`
	Entity        string    `json:"entity"`
	EntityID      string    `json:"entity_id"`
	Action        string    `json:"action"`
	PreviousValue string    `json:"previous_value"`
	NewValue      string    `json:"new_value"`
	Actor         string    `json:"actor"`
	Timestamp     time.Time `json:"timestamp"`
}

// Notify envía el evento al webhook. No propaga errores.
func (n *RestyNotifier) Notify(ctx context.Context, event *entity.AuditEvent) {
	if event == nil || n.url == "" {
		return
	}
	payload := eventPayload{
		ID:            event.ID,
		Entity:        event.Entity,
		EntityID:      event.EntityID,
		Action:        event.Action,
		PreviousValue: event.PreviousValue,
		NewValue:      event.NewValue,
		Actor:         event.Actor,
		Timestamp:     event.Timestamp,
	}
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(n.url)
	if err != nil {
		n.log.Warn().Err(err).Str("event_id", event.ID).Msg("webhook de auditoría falló")
		return
	}
	if resp.IsError() {
		n.log.Warn().Int("status", resp.StatusCode()).Str("event_id", event.ID).Msg("webhook de auditoría rechazado")
	}
}
