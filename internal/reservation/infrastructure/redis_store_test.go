package infrastructure

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
)

func newMiniRedisStore(t *testing.T, prefix string) (domain.BusStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisBusStore(client, prefix, nopLogger()), server
}

func TestNewRedisBusStore_DefaultPrefix(t *testing.T) {
	store, ok := NewRedisBusStore(nil, "", nopLogger()).(*redisBusStore)
	require.True(t, ok)
	assert.Equal(t, "bus-reservation:buses", store.key)
}

func TestRedisBusStore_LoadWithoutKey(t *testing.T) {
	store, _ := newMiniRedisStore(t, "")

	result, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Empty(t, result.Buses)
}

func TestRedisBusStore_SaveThenLoadKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store, server := newMiniRedisStore(t, "test")

	buses := []domain.Bus{
		{Number: "B3", From: "Hyderabad", To: "Warangal", TotalSeats: 45, BookedSeats: 45},
		{Number: "B1", From: "Warangal", To: "Hyderabad", TotalSeats: 40, BookedSeats: 5},
		{Number: "x-7", From: "Old City", To: "Secunderabad Jn", TotalSeats: 12},
	}
	require.NoError(t, store.Save(ctx, buses))

	stored, err := server.List("test:buses")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"B3,Hyderabad,Warangal,45,45",
		"B1,Warangal,Hyderabad,40,5",
		"x-7,Old City,Secunderabad Jn,12,0",
	}, stored)

	result, err := store.Load(ctx)

	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Empty(t, result.Malformed)
	assert.Equal(t, buses, result.Buses)
}

func TestRedisBusStore_SaveReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	store, server := newMiniRedisStore(t, "test")

	require.NoError(t, store.Save(ctx, domain.DefaultBuses()))
	require.NoError(t, store.Save(ctx, []domain.Bus{
		{Number: "B2", From: "Warangal", To: "Karimnagar", TotalSeats: 35, BookedSeats: 7},
	}))

	stored, err := server.List("test:buses")
	require.NoError(t, err)
	assert.Equal(t, []string{"B2,Warangal,Karimnagar,35,7"}, stored)
}

func TestRedisBusStore_LoadSkipsMalformedEntries(t *testing.T) {
	store, server := newMiniRedisStore(t, "test")
	_, err := server.RPush("test:buses",
		"B1,Warangal,Hyderabad,40,5",
		"B2,Warangal,Karimnagar,35",
		"b1,Somewhere,Else,10,0",
		"B5,Karimnagar,Hyderabad,30,2",
	)
	require.NoError(t, err)

	result, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, []domain.Bus{
		{Number: "B1", From: "Warangal", To: "Hyderabad", TotalSeats: 40, BookedSeats: 5},
		{Number: "B5", From: "Karimnagar", To: "Hyderabad", TotalSeats: 30, BookedSeats: 2},
	}, result.Buses)

	require.Len(t, result.Malformed, 2)
	assert.Equal(t, 2, result.Malformed[0].Line)
	assert.ErrorIs(t, result.Malformed[0], ErrMalformedRecord)
	assert.Equal(t, 3, result.Malformed[1].Line)
	assert.ErrorIs(t, result.Malformed[1], domain.ErrDuplicateBus)
}

func TestRedisBusStore_LoadFailsWhenServerIsDown(t *testing.T) {
	store, server := newMiniRedisStore(t, "test")
	server.Close()

	_, err := store.Load(context.Background())

	require.Error(t, err)
}
