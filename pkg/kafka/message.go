package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is a produced event. Key routes the partition (room key or user
// email) so events about the same entity stay ordered.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// NewMessage builds an event message with identifying headers. The payload
// is JSON-encoded; an encoding failure leaves Value empty and is rejected by
// the producer.
func NewMessage(key, eventType, source string, payload any) Message {
	value, _ := json.Marshal(payload)
	now := time.Now()

	return Message{
		Key:   key,
		Value: value,
		Headers: map[string]string{
			HeaderEventID:   uuid.NewString(),
			HeaderEventType: eventType,
			HeaderSource:    source,
			HeaderTimestamp: now.Format(time.RFC3339),
		},
		Timestamp: now,
	}
}

// DecodeValue decodes the payload into v.
func (m *Message) DecodeValue(v any) error {
	return json.Unmarshal(m.Value, v)
}

func (m *Message) EventType() string {
	return m.Headers[HeaderEventType]
}
