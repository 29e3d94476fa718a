package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmissionValidate(t *testing.T) {
	require.NoError(t, (&Emission{Name: "sparks", StartOffsetMs: 0}).Validate())

	err := (&Emission{Name: "  ", StartOffsetMs: -1}).Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidEmissionName))
	require.True(t, errors.Is(err, ErrNegativeOffset))
}

func TestEmissionSetValidate_NestsFields(t *testing.T) {
	set := NewEmissionSet("intro")
	set.Emissions = []*Emission{{Name: "ok"}, nil, {Name: "late", StartOffsetMs: -5}}

	err := set.Validate()
	var list *ValidationErrors
	require.ErrorAs(t, err, &list)
	require.Len(t, list.Errors, 2)
	require.Equal(t, "emissions[1]", list.Errors[0].Field)
	require.Equal(t, "emissions[2].start_offset_ms", list.Errors[1].Field)

	require.ErrorIs(t, NewEmissionSet(" ").Validate(), ErrInvalidSetName)
}

func TestEmissionSet_AppendAssignsIdentity(t *testing.T) {
	set := NewEmissionSet(" intro ")
	require.Equal(t, "intro", set.Name)
	require.NotEmpty(t, set.ID)

	a, err := set.Append("A", 0)
	require.NoError(t, err)
	b, err := set.Append(" B ", 250)
	require.NoError(t, err)

	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, "B", b.Name)
	require.Equal(t, 1, b.Position)
	require.Equal(t, set.ID, b.SetID)

	_, err = set.Append("C", -1)
	require.ErrorIs(t, err, ErrNegativeOffset)
	require.Len(t, set.Emissions, 2)
}

func TestEmissionSet_CloneInsertsAfterSource(t *testing.T) {
	set := NewEmissionSet("s")
	a, _ := set.Append("A", 0)
	b, _ := set.Append("B", 1000)

	c, ok := set.Clone(a)
	require.True(t, ok)
	require.Equal(t, "A (copy)", c.Name)
	require.Equal(t, int64(0), c.StartOffsetMs)
	require.NotEqual(t, a.ID, c.ID)
	require.Equal(t, []*Emission{a, c, b}, set.Emissions)
	require.Equal(t, 1, c.Position)
	require.Equal(t, 2, b.Position)

	_, ok = set.Clone(&Emission{Name: "stranger"})
	require.False(t, ok)
}

func TestEmissionSet_RemoveByReference(t *testing.T) {
	set := NewEmissionSet("s")
	a, _ := set.Append("A", 0)
	b, _ := set.Append("B", 10)

	lookalike := *a
	require.False(t, set.Remove(&lookalike))
	require.True(t, set.Remove(a))
	require.Equal(t, []*Emission{b}, set.Emissions)
	require.Equal(t, 0, b.Position)
	require.Equal(t, -1, set.IndexOf(a))
}

func TestEmissionSet_FindPrefersID(t *testing.T) {
	set := NewEmissionSet("s")
	a, _ := set.Append("A", 0)
	b, _ := set.Append(a.ID, 10)

	got, ok := set.Find(a.ID)
	require.True(t, ok)
	require.Same(t, a, got)

	got, ok = set.Find(b.ID)
	require.True(t, ok)
	require.Same(t, b, got)

	got, ok = set.Find("A")
	require.True(t, ok)
	require.Same(t, a, got)

	_, ok = set.Find("missing")
	require.False(t, ok)

	var nilSet *EmissionSet
	_, ok = nilSet.Find("A")
	require.False(t, ok)
}

func TestEmissionSet_MaxOffsetMs(t *testing.T) {
	set := NewEmissionSet("s")
	require.Equal(t, int64(0), set.MaxOffsetMs())
	set.Append("A", 400)
	set.Append("B", 1200)
	set.Emissions = append(set.Emissions, nil)
	require.Equal(t, int64(1200), set.MaxOffsetMs())
}
