package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/urban_nest/backend/store"
	"github.com/dcode-github/urban_nest/backend/utils"
)

func TestGenerateProperties(t *testing.T) {
	owner := primitive.NewObjectID()
	properties := generateProperties(rand.New(rand.NewSource(1)), owner, defaultListings)
	require.Len(t, properties, defaultListings)

	for _, p := range properties {
		assert.Equal(t, owner, p.Owner)
		assert.Contains(t, []string{"house", "apartment", "condo", "villa", "land"}, p.Type)
		assert.GreaterOrEqual(t, p.Price, 500000.0)
		assert.LessOrEqual(t, p.Price, 15000000.0)
		assert.GreaterOrEqual(t, p.Bedrooms, 1)
		assert.GreaterOrEqual(t, p.Area, 1000.0)
		assert.GreaterOrEqual(t, len(p.Images), 3)
		assert.LessOrEqual(t, len(p.Images), 5)
		assert.Len(t, p.Features, 4)
		assert.LessOrEqual(t, len(p.Title), 100)

		// Generated listings must pass the same checks as submitted ones.
		update := store.PropertyUpdate{Title: &p.Title, Type: &p.Type, Status: &p.Status, Price: &p.Price}
		assert.NoError(t, utils.Validate(update))
	}
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)
	assert.False(t, opts.destroy)
	assert.Equal(t, defaultListings, opts.count)

	opts, err = parseFlags([]string{"-destroy"})
	require.NoError(t, err)
	assert.True(t, opts.destroy)

	_, err = parseFlags([]string{"-import", "-destroy"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-count", "0"})
	assert.Error(t, err)
}
