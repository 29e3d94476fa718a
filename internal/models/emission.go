// Package models defines the core domain types for emitline.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const cloneSuffix = " (copy)"

// Emission is one timed particle emitter in a set.
type Emission struct {
	// ID is the unique identifier for the emission.
	ID string `json:"id" yaml:"id,omitempty"`

	// SetID is the owning set.
	SetID string `json:"set_id" yaml:"-"`

	// Name is the display name shown on the timeline block.
	Name string `json:"name" yaml:"name"`

	// StartOffsetMs is when the emitter starts, relative to set playback.
	StartOffsetMs int64 `json:"start_offset_ms" yaml:"start_offset_ms"`

	// Position is the row index within the set.
	Position int `json:"position" yaml:"-"`
}

// Validate checks if the emission configuration is valid.
func (e *Emission) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(e.Name) == "" {
		validation.Add("name", ErrInvalidEmissionName)
	}
	if e.StartOffsetMs < 0 {
		validation.Add("start_offset_ms", ErrNegativeOffset)
	}
	return validation.Err()
}

// EmissionSet is an ordered collection of emissions played together.
type EmissionSet struct {
	ID        string      `json:"id" yaml:"id,omitempty"`
	Name      string      `json:"name" yaml:"name"`
	Emissions []*Emission `json:"emissions" yaml:"emissions"`
	CreatedAt time.Time   `json:"created_at" yaml:"-"`
	UpdatedAt time.Time   `json:"updated_at" yaml:"-"`
}

// NewEmissionSet creates an empty set with a fresh ID.
func NewEmissionSet(name string) *EmissionSet {
	return &EmissionSet{
		ID:   uuid.New().String(),
		Name: strings.TrimSpace(name),
	}
}

// Validate checks the set and every emission in it.
func (s *EmissionSet) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(s.Name) == "" {
		validation.Add("name", ErrInvalidSetName)
	}
	for i, e := range s.Emissions {
		if e == nil {
			validation.AddEmissionMessage(i, "emission is nil")
			continue
		}
		validation.AddEmission(i, e.Validate())
	}
	return validation.Err()
}

// IndexOf returns the position of e by reference, or -1.
func (s *EmissionSet) IndexOf(e *Emission) int {
	if s == nil || e == nil {
		return -1
	}
	for i, candidate := range s.Emissions {
		if candidate == e {
			return i
		}
	}
	return -1
}

// Find returns the emission with the given ID or name.
func (s *EmissionSet) Find(key string) (*Emission, bool) {
	if s == nil {
		return nil, false
	}
	key = strings.TrimSpace(key)
	for _, e := range s.Emissions {
		if e != nil && e.ID == key {
			return e, true
		}
	}
	for _, e := range s.Emissions {
		if e != nil && e.Name == key {
			return e, true
		}
	}
	return nil, false
}

// Append adds a new emission at the end of the set.
func (s *EmissionSet) Append(name string, offsetMs int64) (*Emission, error) {
	e := &Emission{
		ID:            uuid.New().String(),
		SetID:         s.ID,
		Name:          strings.TrimSpace(name),
		StartOffsetMs: offsetMs,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	s.Emissions = append(s.Emissions, e)
	s.Renumber()
	return e, nil
}

// Clone inserts a copy of e directly after it and returns the copy.
func (s *EmissionSet) Clone(e *Emission) (*Emission, bool) {
	idx := s.IndexOf(e)
	if idx == -1 {
		return nil, false
	}
	copied := &Emission{
		ID:            uuid.New().String(),
		SetID:         s.ID,
		Name:          e.Name + cloneSuffix,
		StartOffsetMs: e.StartOffsetMs,
	}
	s.Emissions = append(s.Emissions, nil)
	copy(s.Emissions[idx+2:], s.Emissions[idx+1:])
	s.Emissions[idx+1] = copied
	s.Renumber()
	return copied, true
}

// Remove deletes e from the set. It reports whether e was present.
func (s *EmissionSet) Remove(e *Emission) bool {
	idx := s.IndexOf(e)
	if idx == -1 {
		return false
	}
	s.Emissions = append(s.Emissions[:idx], s.Emissions[idx+1:]...)
	s.Renumber()
	return true
}

// Renumber makes positions follow slice order.
func (s *EmissionSet) Renumber() {
	for i, e := range s.Emissions {
		if e == nil {
			continue
		}
		e.Position = i
		e.SetID = s.ID
	}
}

// MaxOffsetMs returns the largest start offset in the set.
func (s *EmissionSet) MaxOffsetMs() int64 {
	var max int64
	for _, e := range s.Emissions {
		if e != nil && e.StartOffsetMs > max {
			max = e.StartOffsetMs
		}
	}
	return max
}
