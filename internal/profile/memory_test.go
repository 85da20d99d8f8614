package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutribot/internal/core"
)

func TestMemoryStoreCRUD(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	// Missing profile is nil, nil - not an error.
	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	profile := &core.UserProfile{
		UserID:              "u1",
		Name:                "Sam",
		DietaryRestrictions: []string{"vegan"},
		CurrentWeight:       180,
		WeightGoal:          160,
		HouseholdSize:       2,
	}
	require.NoError(t, store.Put(ctx, profile))

	got, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sam", got.Name)
	assert.Equal(t, []string{"vegan"}, got.DietaryRestrictions)

	// The store hands out copies; mutating the result must not alter
	// stored state.
	got.Name = "changed"
	again, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Sam", again.Name)

	require.NoError(t, store.Delete(ctx, "u1"))
	got, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting a missing profile is a no-op.
	require.NoError(t, store.Delete(ctx, "u1"))
	require.NoError(t, store.Close())
}

func TestFactoryDefaultsToMemory(t *testing.T) {
	store, err := New(context.Background(), Config{})
	require.NoError(t, err)
	defer store.Close()
	_, ok := store.(*MemoryStore)
	assert.True(t, ok)
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	_, err := New(context.Background(), Config{Type: "dynamodb"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown profile store type")
}
