package models

import (
	"encoding/json"
	"time"
)

// EventType categorizes events in the system.
type EventType string

const (
	// Emission events
	EventTypeEmissionSelected EventType = "emission.selected"
	EventTypeEmissionAdded    EventType = "emission.added"
	EventTypeEmissionModified EventType = "emission.modified"
	EventTypeEmissionRenamed  EventType = "emission.renamed"
	EventTypeEmissionCloned   EventType = "emission.cloned"
	EventTypeEmissionRemoved  EventType = "emission.removed"

	// Set events
	EventTypeSetCreated  EventType = "set.created"
	EventTypeSetSaved    EventType = "set.saved"
	EventTypeSetImported EventType = "set.imported"
	EventTypeSetDeleted  EventType = "set.deleted"
)

// EntityType identifies the type of entity an event relates to.
type EntityType string

const (
	EntityTypeSet      EntityType = "set"
	EntityTypeEmission EntityType = "emission"
)

// Event represents an append-only log entry.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// EntityType identifies what kind of entity this event relates to.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the ID of the related entity.
	EntityID string `json:"entity_id"`

	// SetID is the set the entity belongs to.
	SetID string `json:"set_id"`

	// Payload contains event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OffsetChangedPayload is the payload for emission.modified events.
type OffsetChangedPayload struct {
	Name        string `json:"name"`
	OldOffsetMs int64  `json:"old_offset_ms"`
	NewOffsetMs int64  `json:"new_offset_ms"`
}

// RenamedPayload is the payload for emission.renamed events.
type RenamedPayload struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// EmissionPayload is the payload for added, cloned and removed events.
type EmissionPayload struct {
	Name          string `json:"name"`
	StartOffsetMs int64  `json:"start_offset_ms"`
	SourceID      string `json:"source_id,omitempty"`
}

// NewEmissionEvent builds an event about e. Payload encoding errors leave
// the payload empty.
func NewEmissionEvent(eventType EventType, e *Emission, payload any) *Event {
	event := &Event{
		Timestamp:  time.Now().UTC(),
		Type:       eventType,
		EntityType: EntityTypeEmission,
		EntityID:   e.ID,
		SetID:      e.SetID,
	}
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			event.Payload = data
		}
	}
	return event
}

// NewSetEvent builds an event about s.
func NewSetEvent(eventType EventType, s *EmissionSet) *Event {
	return &Event{
		Timestamp:  time.Now().UTC(),
		Type:       eventType,
		EntityType: EntityTypeSet,
		EntityID:   s.ID,
		SetID:      s.ID,
	}
}
