package commands

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// Retry and timeout settings per task kind. Workers reschedule failed
// attempts; the settings here bound how long a task may keep trying.
const (
	generateShipmentMaxTries = 3
	generateShipmentTimeout  = 300 * time.Second

	processWebhookMaxTries = 5
	processWebhookTimeout  = 60 * time.Second

	notifyMaxTries = 5
	notifyTimeout  = 30 * time.Second
)

// GenerateShipmentPayload is the payload of a generate_shipment task. The
// carrier is set only when the caller requested a specific one.
type GenerateShipmentPayload struct {
	OrderID string `json:"order_id"`
	Carrier string `json:"carrier,omitempty"`
}

// ProcessWebhookPayload is the payload of a process_webhook task.
type ProcessWebhookPayload struct {
	WebhookID string `json:"webhook_id"`
}

// NotifyOrderChangedPayload is the payload of a notify_order_changed task.
type NotifyOrderChangedPayload struct {
	OrderID        string `json:"order_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}

func newGenerateShipmentTask(orderID kernel.UUID, now time.Time) (ports.Task, error) {
	payload, err := json.Marshal(GenerateShipmentPayload{OrderID: orderID.String()})
	if err != nil {
		return ports.Task{}, err
	}

	return ports.Task{
		ID:       kernel.NewUUID(),
		Kind:     ports.TaskGenerateShipment,
		Payload:  payload,
		MaxTries: generateShipmentMaxTries,
		Timeout:  generateShipmentTimeout,
		RunAt:    now,
	}, nil
}

func newProcessWebhookTask(webhookID kernel.UUID, now time.Time) (ports.Task, error) {
	payload, err := json.Marshal(ProcessWebhookPayload{WebhookID: webhookID.String()})
	if err != nil {
		return ports.Task{}, err
	}

	return ports.Task{
		ID:       kernel.NewUUID(),
		Kind:     ports.TaskProcessWebhook,
		Payload:  payload,
		MaxTries: processWebhookMaxTries,
		Timeout:  processWebhookTimeout,
		RunAt:    now,
	}, nil
}

func newNotifyOrderChangedTask(orderID kernel.UUID, previous, next string, now time.Time) (ports.Task, error) {
	payload, err := json.Marshal(NotifyOrderChangedPayload{
		OrderID:        orderID.String(),
		PreviousStatus: previous,
		NewStatus:      next,
	})
	if err != nil {
		return ports.Task{}, err
	}

	return ports.Task{
		ID:       kernel.NewUUID(),
		Kind:     ports.TaskNotifyOrderChanged,
		Payload:  payload,
		MaxTries: notifyMaxTries,
		Timeout:  notifyTimeout,
		RunAt:    now,
	}, nil
}
