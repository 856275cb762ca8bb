// Package events fans domain changes out to in-process listeners.
package events

import (
	"fmt"
	"log/slog"
	"sync"

	"ergosanitas/internal/domain/alert"
	"ergosanitas/internal/domain/brigadista"
	"ergosanitas/internal/domain/club"
	"ergosanitas/internal/domain/incident"
	"ergosanitas/internal/domain/statistics"
)

// Topic names
const (
	TopicAlertChanged      = "alertChanged"
	TopicStatusChanged     = "statusChanged"
	TopicIncidentAdded     = "incidentAdded"
	TopicStatisticsUpdated = "statisticsUpdated"
	TopicClubDataChanged   = "clubDataChanged"
)

// AlertChangeType says what happened to the current alert.
type AlertChangeType string

// AlertChangeType constants
const (
	AlertSet    AlertChangeType = "set"
	AlertUpdate AlertChangeType = "update"
	AlertClear  AlertChangeType = "clear"
)

// AlertChanged is the payload of TopicAlertChanged. Alert is the new alert
// for set and update, and the alert that was removed (if any) for clear.
type AlertChanged struct {
	Type   AlertChangeType `json:"type"`
	Alert  *alert.Alert    `json:"data"`
	Remote bool            `json:"remote,omitempty"`
}

// FailureHook observes a listener that panicked.
type FailureHook func(topic string, recovered any)

// Topic is a synchronous, ordered list of listeners for one payload type.
type Topic[T any] struct {
	name      string
	onFailure FailureHook

	mu        sync.Mutex
	listeners []listener[T]
	next      uint64
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// Subscription cancels a listener registration.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe removes the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// NewTopic creates an empty topic.
func NewTopic[T any](name string, onFailure FailureHook) *Topic[T] {
	return &Topic[T]{name: name, onFailure: onFailure}
}

// Name returns the topic name.
func (t *Topic[T]) Name() string { return t.name }

// Subscribe registers fn after every existing listener.
func (t *Topic[T]) Subscribe(fn func(T)) *Subscription {
	t.mu.Lock()
	id := t.next
	t.next++
	t.listeners = append(t.listeners, listener[T]{id: id, fn: fn})
	t.mu.Unlock()

	return &Subscription{cancel: func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, l := range t.listeners {
			if l.id == id {
				t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
				return
			}
		}
	}}
}

// Len returns the number of registered listeners.
func (t *Topic[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}

// Publish calls every listener in registration order on the caller's goroutine.
// A panicking listener is recovered and reported; the rest still run.
// INVARIANT: Publish never panics because of a listener
func (t *Topic[T]) Publish(v T) {
	t.mu.Lock()
	snapshot := make([]listener[T], len(t.listeners))
	copy(snapshot, t.listeners)
	t.mu.Unlock()

	for _, l := range snapshot {
		t.deliver(l, v)
	}
}

func (t *Topic[T]) deliver(l listener[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event_listener_failed",
				"topic", t.name,
				"listener", l.id,
				"error", fmt.Sprint(r),
			)
			if t.onFailure != nil {
				t.onFailure(t.name, r)
			}
		}
	}()
	l.fn(v)
}

// Broadcaster holds one topic per domain change.
type Broadcaster struct {
	Alert      *Topic[AlertChanged]
	Status     *Topic[brigadista.Status]
	Incident   *Topic[incident.Incident]
	Statistics *Topic[statistics.Statistics]
	ClubData   *Topic[club.Data]
}

// Option configures a Broadcaster.
type Option func(*options)

type options struct {
	onFailure FailureHook
}

// WithFailureHook reports recovered listener panics, e.g. to metrics.
func WithFailureHook(h FailureHook) Option {
	return func(o *options) { o.onFailure = h }
}

// NewBroadcaster creates a Broadcaster with empty topics.
func NewBroadcaster(opts ...Option) *Broadcaster {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Broadcaster{
		Alert:      NewTopic[AlertChanged](TopicAlertChanged, o.onFailure),
		Status:     NewTopic[brigadista.Status](TopicStatusChanged, o.onFailure),
		Incident:   NewTopic[incident.Incident](TopicIncidentAdded, o.onFailure),
		Statistics: NewTopic[statistics.Statistics](TopicStatisticsUpdated, o.onFailure),
		ClubData:   NewTopic[club.Data](TopicClubDataChanged, o.onFailure),
	}
}
