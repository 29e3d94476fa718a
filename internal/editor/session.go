// Package editor hosts the timeline engine in a bubbletea program and owns
// the edit session for one emission set.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tOgg1/emitline/internal/events"
	"github.com/tOgg1/emitline/internal/logging"
	"github.com/tOgg1/emitline/internal/models"
	"github.com/tOgg1/emitline/internal/timeline"
)

// ErrUnknownEmission is returned for emissions that are not in the session set.
var ErrUnknownEmission = errors.New("emission is not in the active set")

// SetStore persists a whole set.
type SetStore interface {
	Save(ctx context.Context, set *models.EmissionSet) error
}

// Session is the edit session for one set. It satisfies timeline.Collection
// and timeline.Persister, so engine menu actions and drag commits land here.
// Like the engine it is driven from a single goroutine.
type Session struct {
	ctx       context.Context
	set       *models.EmissionSet
	store     SetStore
	publisher events.Publisher
	engine    *timeline.Engine
	logger    zerolog.Logger

	// saved holds the offsets as of the last successful save, by emission ID.
	saved map[string]int64
}

var (
	_ timeline.Collection = (*Session)(nil)
	_ timeline.Persister  = (*Session)(nil)
)

// NewSession starts a session on set. store and publisher may be nil.
func NewSession(ctx context.Context, set *models.EmissionSet, store SetStore, publisher events.Publisher) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Session{
		ctx:       ctx,
		set:       set,
		store:     store,
		publisher: publisher,
		logger:    logging.WithSet(set.ID, set.Name).With().Str("component", "editor").Logger(),
	}
	s.snapshot()
	return s
}

// Bind attaches the engine refreshed after collection changes.
func (s *Session) Bind(engine *timeline.Engine) {
	s.engine = engine
}

// Set returns the set being edited.
func (s *Session) Set() *models.EmissionSet {
	return s.set
}

// Save persists the set. Offsets that changed since the previous save are
// published as emission.modified.
func (s *Session) Save() error {
	if s.store != nil {
		if err := s.store.Save(s.ctx, s.set); err != nil {
			return fmt.Errorf("save set %q: %w", s.set.Name, err)
		}
	}

	for _, e := range s.set.Emissions {
		if e == nil {
			continue
		}
		old, ok := s.saved[e.ID]
		if !ok || old == e.StartOffsetMs {
			continue
		}
		s.publish(models.NewEmissionEvent(models.EventTypeEmissionModified, e, models.OffsetChangedPayload{
			Name:        e.Name,
			OldOffsetMs: old,
			NewOffsetMs: e.StartOffsetMs,
		}))
	}
	s.publish(models.NewSetEvent(models.EventTypeSetSaved, s.set))
	s.snapshot()
	return nil
}

// Clone is the context menu action. Errors are logged.
func (s *Session) Clone(e *models.Emission) {
	if _, err := s.CloneEmission(e); err != nil {
		s.logger.Error().Err(err).Msg("clone failed")
	}
}

// Remove is the context menu action. Errors are logged.
func (s *Session) Remove(e *models.Emission) {
	if err := s.RemoveEmission(e); err != nil {
		s.logger.Error().Err(err).Msg("remove failed")
	}
}

// CloneEmission inserts a copy of e right after it.
func (s *Session) CloneEmission(e *models.Emission) (*models.Emission, error) {
	copied, ok := s.set.Clone(e)
	if !ok {
		return nil, ErrUnknownEmission
	}
	err := s.commit(models.NewEmissionEvent(models.EventTypeEmissionCloned, copied, models.EmissionPayload{
		Name:          copied.Name,
		StartOffsetMs: copied.StartOffsetMs,
		SourceID:      e.ID,
	}))
	return copied, err
}

// RemoveEmission deletes e from the set.
func (s *Session) RemoveEmission(e *models.Emission) error {
	if !s.set.Remove(e) {
		return ErrUnknownEmission
	}
	return s.commit(models.NewEmissionEvent(models.EventTypeEmissionRemoved, e, models.EmissionPayload{
		Name:          e.Name,
		StartOffsetMs: e.StartOffsetMs,
	}))
}

// Add appends a new emission.
func (s *Session) Add(name string, offsetMs int64) (*models.Emission, error) {
	e, err := s.set.Append(name, offsetMs)
	if err != nil {
		return nil, err
	}
	err = s.commit(models.NewEmissionEvent(models.EventTypeEmissionAdded, e, models.EmissionPayload{
		Name:          e.Name,
		StartOffsetMs: e.StartOffsetMs,
	}))
	return e, err
}

// Rename changes the display name of e.
func (s *Session) Rename(e *models.Emission, name string) error {
	if s.set.IndexOf(e) == -1 {
		return ErrUnknownEmission
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ErrInvalidEmissionName
	}
	old := e.Name
	if old == name {
		return nil
	}
	e.Name = name
	return s.commit(models.NewEmissionEvent(models.EventTypeEmissionRenamed, e, models.RenamedPayload{
		OldName: old,
		NewName: name,
	}))
}

// SetOffset moves e to offsetMs.
func (s *Session) SetOffset(e *models.Emission, offsetMs int64) error {
	if s.set.IndexOf(e) == -1 {
		return ErrUnknownEmission
	}
	if offsetMs < 0 {
		return models.ErrNegativeOffset
	}
	e.StartOffsetMs = offsetMs
	return s.commit(nil)
}

// NextName proposes a name not used by any emission in the set.
func (s *Session) NextName() string {
	for i := len(s.set.Emissions) + 1; ; i++ {
		name := fmt.Sprintf("emission %d", i)
		if _, exists := s.set.Find(name); !exists {
			return name
		}
	}
}

// commit saves, publishes event and redraws the set. The engine is
// refreshed even when saving fails so the view matches memory.
func (s *Session) commit(event *models.Event) error {
	err := s.Save()
	if err == nil && event != nil {
		s.publish(event)
	}
	if s.engine != nil {
		s.engine.SetSet(s.set)
	}
	return err
}

func (s *Session) publish(event *models.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(s.ctx, event)
}

func (s *Session) snapshot() {
	s.saved = make(map[string]int64, len(s.set.Emissions))
	for _, e := range s.set.Emissions {
		if e != nil {
			s.saved[e.ID] = e.StartOffsetMs
		}
	}
}
