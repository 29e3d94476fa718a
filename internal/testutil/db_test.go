package testutil

import (
	"context"
	"testing"

	"github.com/tOgg1/emitline/internal/db"
)

func TestSeedSet(t *testing.T) {
	database := OpenDB(t)
	set := SeedSet(t, database, "intro", Emission{"sparks", 0}, Emission{"smoke", 750})

	got, err := db.NewSetRepository(database).Get(context.Background(), set.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Emissions) != 2 || got.Emissions[1].Name != "smoke" || got.Emissions[1].StartOffsetMs != 750 {
		t.Errorf("unexpected emissions %+v", got.Emissions)
	}
}
