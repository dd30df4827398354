package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types.
const (
	// Profile events
	EventUserRegistered    EventType = "profile.registered"
	EventProfileUpdated    EventType = "profile.updated"
	EventSavedSkillToggled EventType = "profile.saved_skill_toggled"

	// Posting events
	EventPostingChanged EventType = "posting.changed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Profile Events
// ═══════════════════════════════════════════════════════════════════════════

// UserRegisteredEvent is emitted after sign-up.
type UserRegisteredEvent struct {
	BaseEvent
	Name string `json:"name"`
}

// Payload implements Event interface.
func (e UserRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"name": e.Name}
}

// NewUserRegisteredEvent creates a UserRegisteredEvent.
func NewUserRegisteredEvent(userID, name string) UserRegisteredEvent {
	return UserRegisteredEvent{
		BaseEvent: NewBaseEvent(EventUserRegistered, userID),
		Name:      name,
	}
}

// ProfileUpdatedEvent is emitted when a user's skill lists or details change.
// Anything derived from the full set of profiles is stale after it.
type ProfileUpdatedEvent struct {
	BaseEvent
	SkillsChanged bool `json:"skills_changed"`
}

// Payload implements Event interface.
func (e ProfileUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"skills_changed": e.SkillsChanged}
}

// NewProfileUpdatedEvent creates a ProfileUpdatedEvent.
func NewProfileUpdatedEvent(userID string, skillsChanged bool) ProfileUpdatedEvent {
	return ProfileUpdatedEvent{
		BaseEvent:     NewBaseEvent(EventProfileUpdated, userID),
		SkillsChanged: skillsChanged,
	}
}

// SavedSkillToggledEvent is emitted after a bookmark toggle commits.
type SavedSkillToggledEvent struct {
	BaseEvent
	SkillName string `json:"skill_name"`
	Saved     bool   `json:"saved"`
}

// Payload implements Event interface.
func (e SavedSkillToggledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"skill_name": e.SkillName, "saved": e.Saved}
}

// NewSavedSkillToggledEvent creates a SavedSkillToggledEvent.
func NewSavedSkillToggledEvent(userID, skill string, saved bool) SavedSkillToggledEvent {
	return SavedSkillToggledEvent{
		BaseEvent: NewBaseEvent(EventSavedSkillToggled, userID),
		SkillName: skill,
		Saved:     saved,
	}
}

// PostingChangedEvent is emitted when a posting is created, edited or removed.
type PostingChangedEvent struct {
	BaseEvent
	PostingID string `json:"posting_id"`
	Action    string `json:"action"`
}

// Payload implements Event interface.
func (e PostingChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"posting_id": e.PostingID, "action": e.Action}
}

// NewPostingChangedEvent creates a PostingChangedEvent.
func NewPostingChangedEvent(userID, postingID, action string) PostingChangedEvent {
	return PostingChangedEvent{
		BaseEvent: NewBaseEvent(EventPostingChanged, userID),
		PostingID: postingID,
		Action:    action,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Interfaces
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

// Publish implements EventPublisher.
func (NoopPublisher) Publish(Event) error { return nil }
