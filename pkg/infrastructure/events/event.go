package events

import (
	"time"
)

type Event interface {
	Type() string
	StreamID() string
	Data() interface{}
	Timestamp() time.Time
	Version() int
}

// EventHandler receives events it subscribed to. Handlers are compared by
// identity on Unsubscribe, so implementations should be pointer types.
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

type BaseEvent struct {
	EventType    string      `json:"type"`
	Stream       string      `json:"stream"`
	EventData    interface{} `json:"data"`
	EventTime    time.Time   `json:"time"`
	EventVersion int         `json:"version"`
}

func (e BaseEvent) Type() string {
	return e.EventType
}

func (e BaseEvent) StreamID() string {
	return e.Stream
}

func (e BaseEvent) Data() interface{} {
	return e.EventData
}

func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

func (e BaseEvent) Version() int {
	return e.EventVersion
}

// NewEvent creates an event for a session stream. The store assigns the version.
func NewEvent(eventType, streamID string, data interface{}) Event {
	return BaseEvent{
		EventType: eventType,
		Stream:    streamID,
		EventData: data,
		EventTime: time.Now(),
	}
}

// Recorder is a handler that keeps every event it receives, in order
type Recorder struct {
	types  map[string]bool
	Events []Event
}

// NewRecorder creates a recorder for the given event types; none means all
func NewRecorder(eventTypes ...string) *Recorder {
	r := &Recorder{types: make(map[string]bool, len(eventTypes))}
	for _, t := range eventTypes {
		r.types[t] = true
	}
	return r
}

func (r *Recorder) Handle(event Event) error {
	r.Events = append(r.Events, event)
	return nil
}

func (r *Recorder) CanHandle(eventType string) bool {
	return len(r.types) == 0 || r.types[eventType]
}

// Count returns how many recorded events have the given type
func (r *Recorder) Count(eventType string) int {
	n := 0
	for _, e := range r.Events {
		if e.Type() == eventType {
			n++
		}
	}
	return n
}
