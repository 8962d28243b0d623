package service

// Websocket event types.
const (
	EventQuotationApproved  = "quotation.approved"
	EventQuotationRejected  = "quotation.rejected"
	EventOperationalUpdated = "operational.updated"
)

// EventPublisher pushes realtime notifications to connected dashboards.
type EventPublisher interface {
	Publish(eventType string, payload any)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, any) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
