package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canbyr/spottalk/internal/spots"
)

type emptyStore struct{}

func (emptyStore) List(ctx context.Context) ([]spots.Spot, error) {
	return []spots.Spot{}, nil
}

func (emptyStore) Get(ctx context.Context, id int) (spots.Spot, error) {
	return spots.Spot{}, spots.ErrNotFound
}

func (emptyStore) Create(ctx context.Context, input spots.CreateSpotInput) (spots.Spot, error) {
	return spots.Spot{}, spots.ErrNotFound
}

func (emptyStore) AppendComment(ctx context.Context, id int, comment string) (spots.Spot, error) {
	return spots.Spot{}, spots.ErrNotFound
}

func (emptyStore) UpdateStars(ctx context.Context, id, stars int) (spots.Spot, error) {
	return spots.Spot{}, spots.ErrNotFound
}

func TestHealthRoute(t *testing.T) {
	app := Bootstrap(emptyStore{}, zerolog.Nop())

	req, _ := http.NewRequest("GET", "/", nil)
	res, err := app.Test(req, -1) //nolint:bodyclose
	require.NoError(t, err)

	assert.Equal(t, 200, res.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "ready", body["status"])
}

func TestSpotRoutesMounted(t *testing.T) {
	app := Bootstrap(emptyStore{}, zerolog.Nop())

	req, _ := http.NewRequest("GET", "/spots", nil)
	res, err := app.Test(req, -1) //nolint:bodyclose
	require.NoError(t, err)

	assert.Equal(t, 200, res.StatusCode)

	var listed []spots.Spot
	require.NoError(t, json.NewDecoder(res.Body).Decode(&listed))
	assert.Empty(t, listed)
}
