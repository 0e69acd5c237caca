package events

import "context"

// StreamAdRequests is the pub/sub channel carrying ad request events.
const StreamAdRequests = "events:ad_request"

// Event types
const (
	EventAdRequestCreated       = "ad_request_created"
	EventAdRequestStatusChanged = "ad_request_status_changed"
	EventAdRequestNegotiated    = "ad_request_negotiated"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
	// UserIDs lists the users the event is addressed to. Empty means broadcast.
	UserIDs []int64 `json:"user_ids,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
