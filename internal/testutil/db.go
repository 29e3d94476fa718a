// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/tOgg1/emitline/internal/db"
	"github.com/tOgg1/emitline/internal/models"
)

// Emission is a fixture row: a name and its start offset.
type Emission struct {
	Name     string
	OffsetMs int64
}

// OpenDB opens an in-memory database closed when t ends.
func OpenDB(t testing.TB) *db.DB {
	t.Helper()
	database, err := db.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewSet builds an unsaved set with the given emissions in order.
func NewSet(t testing.TB, name string, emissions ...Emission) *models.EmissionSet {
	t.Helper()
	set := models.NewEmissionSet(name)
	for _, e := range emissions {
		if _, err := set.Append(e.Name, e.OffsetMs); err != nil {
			t.Fatalf("failed to append %q: %v", e.Name, err)
		}
	}
	return set
}

// SeedSet stores a new set in database and returns it.
func SeedSet(t testing.TB, database *db.DB, name string, emissions ...Emission) *models.EmissionSet {
	t.Helper()
	set := NewSet(t, name, emissions...)
	if err := db.NewSetRepository(database).Create(context.Background(), set); err != nil {
		t.Fatalf("failed to create set %q: %v", name, err)
	}
	return set
}
