package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Context is the CLI selection remembered between invocations: the set that
// commands act on when none is named, and the emission last picked in it.
type Context struct {
	// SetID is the currently selected set.
	SetID string `yaml:"set,omitempty"`
	// SetName is the set name (for display).
	SetName string `yaml:"set_name,omitempty"`
	// EmissionID is the emission selected in the editor.
	EmissionID string `yaml:"emission,omitempty"`
	// EmissionName is the emission name (for display).
	EmissionName string `yaml:"emission_name,omitempty"`
	// UpdatedAt is when the context was last modified.
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
}

// IsEmpty returns true if no context is set.
func (c *Context) IsEmpty() bool {
	return c.SetID == "" && c.EmissionID == ""
}

// HasSet returns true if a set is selected.
func (c *Context) HasSet() bool {
	return c.SetID != ""
}

// HasEmission returns true if an emission is selected.
func (c *Context) HasEmission() bool {
	return c.EmissionID != ""
}

// Clear removes all context.
func (c *Context) Clear() {
	c.SetID = ""
	c.SetName = ""
	c.EmissionID = ""
	c.EmissionName = ""
	c.UpdatedAt = time.Now()
}

// SetSet selects a set. The emission selection belongs to the previous set
// and is dropped.
func (c *Context) SetSet(id, name string) {
	if c.SetID != id {
		c.EmissionID = ""
		c.EmissionName = ""
	}
	c.SetID = id
	c.SetName = name
	c.UpdatedAt = time.Now()
}

// SetEmission selects an emission within the current set.
func (c *Context) SetEmission(id, name string) {
	c.EmissionID = id
	c.EmissionName = name
	c.UpdatedAt = time.Now()
}

// String returns a human-readable representation of the context.
func (c *Context) String() string {
	if c.IsEmpty() {
		return "(no context set)"
	}
	result := ""
	if c.HasSet() {
		result = "set:" + displayName(c.SetName, c.SetID)
	}
	if c.HasEmission() {
		if result != "" {
			result += " "
		}
		result += "emission:" + displayName(c.EmissionName, c.EmissionID)
	}
	return result
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return shortID(id)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ContextStore manages loading and saving context.
type ContextStore struct {
	path string
	mu   sync.RWMutex
}

// NewContextStore creates a new context store.
// If path is empty, uses the default path (~/.config/emitline/context.yaml).
func NewContextStore(path string) *ContextStore {
	if path == "" {
		homeDir, _ := os.UserHomeDir()
		path = filepath.Join(homeDir, ".config", "emitline", "context.yaml")
	}
	return &ContextStore{path: path}
}

// Path returns the context file path.
func (s *ContextStore) Path() string {
	return s.path
}

// Load reads the context from disk.
// Returns an empty context if the file doesn't exist.
func (s *ContextStore) Load() (*Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := &Context{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ctx, nil
		}
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}

	if err := yaml.Unmarshal(data, ctx); err != nil {
		return nil, fmt.Errorf("failed to parse context file: %w", err)
	}

	return ctx, nil
}

// Save writes the context to disk.
func (s *ContextStore) Save(ctx *Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create context directory: %w", err)
	}

	data, err := yaml.Marshal(ctx)
	if err != nil {
		return fmt.Errorf("failed to serialize context: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write context file: %w", err)
	}

	return nil
}

// Clear removes the context file.
func (s *ContextStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove context file: %w", err)
	}
	return nil
}
