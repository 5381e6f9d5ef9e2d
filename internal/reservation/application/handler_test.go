package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
)

func seededRepository() *fakeRepository {
	return &fakeRepository{buses: domain.DefaultBuses()}
}

func TestBookTicketHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("books seats and publishes event", func(t *testing.T) {
		repo := seededRepository()
		events := &fakeEventBus{}
		handler := NewBookTicketHandler(events, repo, nopLogger())

		err := handler.Handle(ctx, NewBookTicketCommand(SeatRequestData{BusNumber: "b1", Seats: 10}))

		require.NoError(t, err)
		bus, _ := repo.FindByNumber(ctx, "B1")
		assert.Equal(t, 10, bus.BookedSeats)
		require.Len(t, events.published, 1)
		assert.Equal(t, TicketBookedEvent, events.published[0].EventName())
		assert.Equal(t, TicketEventData{BusNumber: "B1", Seats: 10, BookedSeats: 10, AvailableSeats: 30}, events.published[0].Payload())
	})

	t.Run("unknown bus is reported as not found", func(t *testing.T) {
		repo := seededRepository()
		events := &fakeEventBus{}
		handler := NewBookTicketHandler(events, repo, nopLogger())

		err := handler.Handle(ctx, NewBookTicketCommand(SeatRequestData{BusNumber: "B4", Seats: 1}))

		require.ErrorIs(t, err, domain.ErrBusNotFound)
		assert.Empty(t, events.published)
	})

	t.Run("over capacity is rejected without changes", func(t *testing.T) {
		repo := seededRepository()
		events := &fakeEventBus{}
		handler := NewBookTicketHandler(events, repo, nopLogger())

		err := handler.Handle(ctx, NewBookTicketCommand(SeatRequestData{BusNumber: "B2", Seats: 36}))

		require.ErrorIs(t, err, domain.ErrNotEnoughSeats)
		bus, _ := repo.FindByNumber(ctx, "B2")
		assert.Equal(t, 0, bus.BookedSeats)
		assert.Empty(t, events.published)
	})

	t.Run("publish failure keeps the booking", func(t *testing.T) {
		repo := seededRepository()
		handler := NewBookTicketHandler(&fakeEventBus{publishErr: errBroker}, repo, nopLogger())

		err := handler.Handle(ctx, NewBookTicketCommand(SeatRequestData{BusNumber: "B3", Seats: 2}))

		require.NoError(t, err)
		bus, _ := repo.FindByNumber(ctx, "B3")
		assert.Equal(t, 2, bus.BookedSeats)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		handler := NewBookTicketHandler(&fakeEventBus{}, seededRepository(), nopLogger())

		err := handler.Handle(cancelled, NewBookTicketCommand(SeatRequestData{BusNumber: "B1", Seats: 1}))

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCancelTicketHandler(t *testing.T) {
	ctx := context.Background()

	repo := &fakeRepository{buses: []domain.Bus{
		{Number: "B1", From: "Warangal", To: "Hyderabad", TotalSeats: 40, BookedSeats: 10},
	}}
	events := &fakeEventBus{}
	handler := NewCancelTicketHandler(events, repo, nopLogger())

	require.NoError(t, handler.Handle(ctx, NewCancelTicketCommand(SeatRequestData{BusNumber: "B1", Seats: 5})))
	err := handler.Handle(ctx, NewCancelTicketCommand(SeatRequestData{BusNumber: "B1", Seats: 6}))
	require.ErrorIs(t, err, domain.ErrInvalidCancellation)
	err = handler.Handle(ctx, NewCancelTicketCommand(SeatRequestData{BusNumber: "B1", Seats: 0}))
	require.ErrorIs(t, err, domain.ErrInvalidSeatCount)

	bus, _ := repo.FindByNumber(ctx, "B1")
	assert.Equal(t, 5, bus.BookedSeats)
	require.Len(t, events.published, 1)
	assert.Equal(t, TicketCancelledEvent, events.published[0].EventName())
}

func TestQueryHandlers(t *testing.T) {
	ctx := context.Background()
	repo := seededRepository()

	buses, err := NewListBusesHandler(repo, nopLogger()).Handle(ctx, NewListBusesQuery())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBuses(), buses)

	found, err := NewFindBusHandler(repo, nopLogger()).Handle(ctx, NewFindBusQuery(BusQueryData{BusNumber: "b2"}))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "B2", found[0].Number)

	_, err = NewFindBusHandler(repo, nopLogger()).Handle(ctx, NewFindBusQuery(BusQueryData{BusNumber: "X"}))
	require.ErrorIs(t, err, domain.ErrBusNotFound)
}

func TestTicketEventHandler(t *testing.T) {
	handler := NewTicketEventHandler(nopLogger())

	err := handler.Handle(context.Background(), NewTicketEvent(TicketBookedEvent, TicketEventData{BusNumber: "B1", Seats: 1}))

	require.NoError(t, err)
}
