package events

import (
	"context"

	"github.com/tOgg1/emitline/internal/models"
)

// Selection publishes emission.selected whenever a timeline block is picked
// up. It satisfies timeline.Selection.
type Selection struct {
	publisher Publisher
}

// NewSelection creates a selection notifier on publisher.
func NewSelection(publisher Publisher) *Selection {
	return &Selection{publisher: publisher}
}

// Notify publishes the selection of e.
func (s *Selection) Notify(e *models.Emission) {
	if s == nil || s.publisher == nil || e == nil {
		return
	}
	s.publisher.Publish(context.Background(), models.NewEmissionEvent(models.EventTypeEmissionSelected, e, nil))
}

// SelectedEmissions is a subscription filter for selection events.
func SelectedEmissions(setID string) Filter {
	return Filter{
		EventTypes: []models.EventType{models.EventTypeEmissionSelected},
		SetID:      setID,
	}
}

// History is the filter for events worth keeping in a set's history.
// Selections are transient and are not recorded.
func History() Filter {
	return Filter{
		EventTypes: []models.EventType{
			models.EventTypeEmissionAdded,
			models.EventTypeEmissionModified,
			models.EventTypeEmissionRenamed,
			models.EventTypeEmissionCloned,
			models.EventTypeEmissionRemoved,
			models.EventTypeSetCreated,
			models.EventTypeSetImported,
		},
	}
}
