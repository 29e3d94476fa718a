package events

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tOgg1/emitline/internal/models"
)

func emissionEvent(t models.EventType, id, setID string) *models.Event {
	return &models.Event{
		Type:       t,
		EntityType: models.EntityTypeEmission,
		EntityID:   id,
		SetID:      setID,
	}
}

func TestFilter_Matches(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		event  *models.Event
		want   bool
	}{
		{
			name:   "empty filter matches any event",
			filter: Filter{},
			event:  emissionEvent(models.EventTypeEmissionAdded, "em-1", "set-1"),
			want:   true,
		},
		{
			name:   "nil event returns false",
			filter: Filter{},
			event:  nil,
			want:   false,
		},
		{
			name:   "event type filter matches",
			filter: Filter{EventTypes: []models.EventType{models.EventTypeEmissionAdded}},
			event:  emissionEvent(models.EventTypeEmissionAdded, "em-1", "set-1"),
			want:   true,
		},
		{
			name:   "event type filter rejects non-matching",
			filter: Filter{EventTypes: []models.EventType{models.EventTypeEmissionAdded}},
			event:  emissionEvent(models.EventTypeEmissionRemoved, "em-1", "set-1"),
			want:   false,
		},
		{
			name: "multiple event types - matches any",
			filter: Filter{EventTypes: []models.EventType{
				models.EventTypeEmissionAdded,
				models.EventTypeEmissionRemoved,
			}},
			event: emissionEvent(models.EventTypeEmissionRemoved, "em-1", "set-1"),
			want:  true,
		},
		{
			name:   "entity type filter rejects sets",
			filter: Filter{EntityTypes: []models.EntityType{models.EntityTypeEmission}},
			event:  &models.Event{Type: models.EventTypeSetSaved, EntityType: models.EntityTypeSet, EntityID: "set-1"},
			want:   false,
		},
		{
			name:   "entity ID filter rejects other entity",
			filter: Filter{EntityID: "em-2"},
			event:  emissionEvent(models.EventTypeEmissionModified, "em-1", "set-1"),
			want:   false,
		},
		{
			name:   "set filter matches",
			filter: Filter{SetID: "set-1"},
			event:  emissionEvent(models.EventTypeEmissionModified, "em-1", "set-1"),
			want:   true,
		},
		{
			name:   "set filter rejects other set",
			filter: Filter{SetID: "set-2"},
			event:  emissionEvent(models.EventTypeEmissionModified, "em-1", "set-1"),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Matches(tt.event)
			if got != tt.want {
				t.Errorf("Filter.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInMemoryPublisher_Subscribe(t *testing.T) {
	pub := NewInMemoryPublisher()

	handler := func(event *models.Event) {}

	if err := pub.Subscribe("sub-1", Filter{}, handler); err != nil {
		t.Errorf("Subscribe() error = %v, want nil", err)
	}
	if pub.SubscriberCount() != 1 {
		t.Errorf("SubscriberCount() = %d, want 1", pub.SubscriberCount())
	}

	if err := pub.Subscribe("sub-1", Filter{}, handler); err != ErrSubscriptionExists {
		t.Errorf("Subscribe() duplicate error = %v, want %v", err, ErrSubscriptionExists)
	}
	if err := pub.Subscribe("", Filter{}, handler); err != ErrInvalidSubscriptionID {
		t.Errorf("Subscribe() empty ID error = %v, want %v", err, ErrInvalidSubscriptionID)
	}
	if err := pub.Subscribe("sub-2", Filter{}, nil); err != ErrNilHandler {
		t.Errorf("Subscribe() nil handler error = %v, want %v", err, ErrNilHandler)
	}
}

func TestInMemoryPublisher_Unsubscribe(t *testing.T) {
	pub := NewInMemoryPublisher()
	_ = pub.Subscribe("sub-1", Filter{}, func(event *models.Event) {})

	if err := pub.Unsubscribe("sub-1"); err != nil {
		t.Errorf("Unsubscribe() error = %v, want nil", err)
	}
	if pub.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", pub.SubscriberCount())
	}
	if err := pub.Unsubscribe("sub-1"); err != ErrSubscriptionNotFound {
		t.Errorf("Unsubscribe() non-existent error = %v, want %v", err, ErrSubscriptionNotFound)
	}
}

func TestInMemoryPublisher_PublishInSubscriptionOrder(t *testing.T) {
	pub := NewInMemoryPublisher()
	ctx := context.Background()

	var order []string
	for _, id := range []string{"c", "a", "b"} {
		id := id
		_ = pub.Subscribe(id, Filter{}, func(event *models.Event) { order = append(order, id) })
	}

	pub.Publish(ctx, emissionEvent(models.EventTypeEmissionAdded, "em-1", "set-1"))

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("handler order = %v, want [a b c]", order)
	}
}

func TestInMemoryPublisher_PublishWithFilter(t *testing.T) {
	pub := NewInMemoryPublisher()
	ctx := context.Background()

	var setOne, setTwo int
	_ = pub.Subscribe("one", Filter{SetID: "set-1"}, func(event *models.Event) { setOne++ })
	_ = pub.Subscribe("two", Filter{SetID: "set-2"}, func(event *models.Event) { setTwo++ })

	pub.Publish(ctx, emissionEvent(models.EventTypeEmissionModified, "em-1", "set-1"))
	pub.Publish(ctx, emissionEvent(models.EventTypeEmissionModified, "em-2", "set-1"))
	pub.Publish(ctx, emissionEvent(models.EventTypeEmissionModified, "em-3", "set-2"))

	if setOne != 2 {
		t.Errorf("setOne = %d, want 2", setOne)
	}
	if setTwo != 1 {
		t.Errorf("setTwo = %d, want 1", setTwo)
	}
}

func TestInMemoryPublisher_PublishNilEvent(t *testing.T) {
	pub := NewInMemoryPublisher()

	called := false
	_ = pub.Subscribe("sub-1", Filter{}, func(event *models.Event) { called = true })

	pub.Publish(context.Background(), nil)

	if called {
		t.Error("handler was called for nil event")
	}
}

func TestInMemoryPublisher_Close(t *testing.T) {
	pub := NewInMemoryPublisher()

	_ = pub.Subscribe("sub-1", Filter{}, func(event *models.Event) {})
	_ = pub.Subscribe("sub-2", Filter{}, func(event *models.Event) {})

	pub.Close()

	if pub.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() after Close = %d, want 0", pub.SubscriberCount())
	}
}

func TestInMemoryPublisher_ConcurrentAccess(t *testing.T) {
	pub := NewInMemoryPublisher()
	ctx := context.Background()

	var wg sync.WaitGroup
	var count int64

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			subID := "sub-" + string(rune('a'+id))
			_ = pub.Subscribe(subID, Filter{}, func(event *models.Event) {
				atomic.AddInt64(&count, 1)
			})
		}(i)
	}

	wg.Wait()

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pub.Publish(ctx, emissionEvent(models.EventTypeEmissionModified, "em-1", "set-1"))
		}()
	}

	wg.Wait()

	expected := int64(10 * 100)
	if atomic.LoadInt64(&count) != expected {
		t.Errorf("count = %d, want %d", count, expected)
	}
}

// mockRepository implements Repository for testing.
type mockRepository struct {
	mu     sync.Mutex
	events []*models.Event
}

func (m *mockRepository) Create(ctx context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func TestInMemoryPublisher_WithRepositoryPersistsHistoryOnly(t *testing.T) {
	repo := &mockRepository{}
	pub := NewInMemoryPublisher(WithRepository(repo, History()))
	ctx := context.Background()

	pub.Publish(ctx, emissionEvent(models.EventTypeEmissionSelected, "em-1", "set-1"))
	pub.Publish(ctx, emissionEvent(models.EventTypeEmissionModified, "em-1", "set-1"))

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.events) != 1 {
		t.Fatalf("repo.events = %d, want 1", len(repo.events))
	}
	if repo.events[0].Type != models.EventTypeEmissionModified {
		t.Errorf("persisted %s, want emission.modified", repo.events[0].Type)
	}
}

type failingRepository struct{}

func (failingRepository) Create(ctx context.Context, event *models.Event) error {
	return errors.New("database is locked")
}

func TestInMemoryPublisher_RepositoryFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	pub := NewInMemoryPublisher(
		WithRepository(failingRepository{}, History()),
		WithPublisherLogger(zerolog.New(&buf)),
	)

	var got []*models.Event
	if err := pub.Subscribe("sub-1", Filter{}, func(event *models.Event) { got = append(got, event) }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	pub.Publish(context.Background(), emissionEvent(models.EventTypeEmissionModified, "em-1", "set-1"))

	if len(got) != 1 {
		t.Fatalf("subscriber calls = %d, want 1", len(got))
	}
	out := buf.String()
	for _, want := range []string{"failed to record event", "database is locked", "emission.modified", "em-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestSelection_PublishesSelectedEvent(t *testing.T) {
	pub := NewInMemoryPublisher()
	var got []*models.Event
	_ = pub.Subscribe("inspector", SelectedEmissions("set-1"), func(event *models.Event) {
		got = append(got, event)
	})

	sel := NewSelection(pub)
	sel.Notify(&models.Emission{ID: "em-1", SetID: "set-1", Name: "sparks"})
	sel.Notify(&models.Emission{ID: "em-2", SetID: "set-2", Name: "smoke"})
	sel.Notify(nil)

	if len(got) != 1 {
		t.Fatalf("selected events = %d, want 1", len(got))
	}
	if got[0].EntityID != "em-1" || got[0].Type != models.EventTypeEmissionSelected {
		t.Errorf("unexpected event %+v", got[0])
	}

	var nilSelection *Selection
	nilSelection.Notify(&models.Emission{ID: "em-1"})
}
