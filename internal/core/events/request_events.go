package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	RequestCreatedEventType       = "request.created"
	RequestStatusChangedEventType = "request.status_changed"
	RequestAssignedEventType      = "request.assigned"
)

// NewRequestCreatedEvent is published after a citizen submits a request.
// Notification fanout to the staff tier subscribes to it.
func NewRequestCreatedEvent(requestID int64, referenceNumber string, areaID int64, areaName string) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      RequestCreatedEventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"request_id":       requestID,
			"reference_number": referenceNumber,
			"area_id":          areaID,
			"area_name":        areaName,
		},
	}
}

func NewRequestStatusChangedEvent(requestID int64, referenceNumber, fromStatus, toStatus string, actorID int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      RequestStatusChangedEventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"request_id":       requestID,
			"reference_number": referenceNumber,
			"from_status":      fromStatus,
			"to_status":        toStatus,
			"actor_id":         actorID,
		},
	}
}

func NewRequestAssignedEvent(requestID int64, referenceNumber string, assigneeID int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      RequestAssignedEventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"request_id":       requestID,
			"reference_number": referenceNumber,
			"assignee_id":      assigneeID,
		},
	}
}
