package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
)

func TestSessionService_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds default buses on first run", func(t *testing.T) {
		repo := &fakeRepository{}
		svc := NewSessionService(&fakeStore{}, repo, nopLogger())

		result, err := svc.Start(ctx)

		require.NoError(t, err)
		assert.True(t, result.Seeded)
		assert.Equal(t, 3, result.Loaded)
		assert.Equal(t, domain.DefaultBuses(), repo.buses)
	})

	t.Run("loads persisted buses and reports skipped lines", func(t *testing.T) {
		persisted := []domain.Bus{
			{Number: "B7", From: "Adilabad", To: "Nirmal", TotalSeats: 20, BookedSeats: 4},
		}
		skipped := []domain.LineError{{Line: 2, Raw: "bad", Err: errors.New("boom")}}
		repo := &fakeRepository{}
		svc := NewSessionService(&fakeStore{result: domain.LoadResult{Buses: persisted, Found: true, Malformed: skipped}}, repo, nopLogger())

		result, err := svc.Start(ctx)

		require.NoError(t, err)
		assert.False(t, result.Seeded)
		assert.Equal(t, 1, result.Loaded)
		assert.Equal(t, skipped, result.Skipped)
		assert.Equal(t, persisted, repo.buses)
	})

	t.Run("existing but empty data does not seed", func(t *testing.T) {
		repo := &fakeRepository{}
		svc := NewSessionService(&fakeStore{result: domain.LoadResult{Found: true}}, repo, nopLogger())

		result, err := svc.Start(ctx)

		require.NoError(t, err)
		assert.False(t, result.Seeded)
		assert.Empty(t, repo.buses)
	})

	t.Run("unrecoverable read error", func(t *testing.T) {
		loadErr := errors.New("permission denied")
		svc := NewSessionService(&fakeStore{loadErr: loadErr}, &fakeRepository{}, nopLogger())

		_, err := svc.Start(ctx)

		require.ErrorIs(t, err, loadErr)
	})
}

func TestSessionService_Close(t *testing.T) {
	ctx := context.Background()
	persisted := []domain.Bus{
		{Number: "B1", From: "Warangal", To: "Hyderabad", TotalSeats: 40, BookedSeats: 5},
		{Number: "B2", From: "Warangal", To: "Karimnagar", TotalSeats: 35, BookedSeats: 7},
	}

	t.Run("saves the collection after start", func(t *testing.T) {
		store := &fakeStore{result: domain.LoadResult{Buses: persisted, Found: true}}
		repo := &fakeRepository{}
		svc := NewSessionService(store, repo, nopLogger())
		_, err := svc.Start(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.buses[0].BookTicket(3))

		require.NoError(t, svc.Close(ctx))
		require.Len(t, store.saved, 1)
		assert.Equal(t, repo.buses, store.saved[0])
	})

	t.Run("before start leaves the store untouched", func(t *testing.T) {
		store := &fakeStore{result: domain.LoadResult{Buses: persisted, Found: true}}
		svc := NewSessionService(store, &fakeRepository{}, nopLogger())

		require.NoError(t, svc.Close(ctx))
		assert.Empty(t, store.saved)

		// a session closed early still saves once it has started
		_, err := svc.Start(ctx)
		require.NoError(t, err)
		require.NoError(t, svc.Close(ctx))
		require.Len(t, store.saved, 1)
		assert.Equal(t, persisted, store.saved[0])
	})

	t.Run("after a failed start leaves the store untouched", func(t *testing.T) {
		store := &fakeStore{loadErr: errors.New("permission denied")}
		svc := NewSessionService(store, &fakeRepository{}, nopLogger())

		_, err := svc.Start(ctx)
		require.Error(t, err)

		require.NoError(t, svc.Close(ctx))
		assert.Empty(t, store.saved)
	})

	t.Run("saves only once", func(t *testing.T) {
		store := &fakeStore{result: domain.LoadResult{Buses: persisted, Found: true}}
		svc := NewSessionService(store, &fakeRepository{}, nopLogger())
		_, err := svc.Start(ctx)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, svc.Close(ctx))
			}()
		}
		wg.Wait()

		assert.Len(t, store.saved, 1)
	})

	t.Run("repeats the first save error", func(t *testing.T) {
		store := &fakeStore{result: domain.LoadResult{Buses: persisted, Found: true}, saveErr: errors.New("disk full")}
		svc := NewSessionService(store, &fakeRepository{}, nopLogger())
		_, err := svc.Start(ctx)
		require.NoError(t, err)

		require.ErrorIs(t, svc.Close(ctx), store.saveErr)
		require.ErrorIs(t, svc.Close(ctx), store.saveErr)
	})
}
