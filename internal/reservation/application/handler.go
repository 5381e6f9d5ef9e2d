package application

import (
	"context"

	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
	pkgApp "github.com/mateusmacedo/bus-reservation/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-reservation/pkg/domain"
)

type (
	SeatCommandBus = pkgApp.CommandBus[pkgDomain.Command[SeatRequestData], SeatRequestData]
	BusQueryBus    = pkgApp.QueryBus[pkgDomain.Query[BusQueryData], BusQueryData, []domain.Bus]
	TicketEventBus = pkgApp.EventBus[pkgDomain.Event[TicketEventData], TicketEventData]
)

type seatCommandHandler struct {
	eventBus   TicketEventBus
	repository domain.BusRepository
	logger     pkgApp.AppLogger
	apply      func(bus *domain.Bus, seats int) error
	eventName  string
}

func (h *seatCommandHandler) Handle(ctx context.Context, command pkgDomain.Command[SeatRequestData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	fields := map[string]interface{}{
		"command":    command.CommandName(),
		"bus_number": data.BusNumber,
		"seats":      data.Seats,
	}

	bus, err := h.repository.FindByNumber(ctx, data.BusNumber)
	if err != nil {
		pkgApp.LogWarn(ctx, h.logger, "Ônibus não encontrado", err, fields)
		return err
	}

	if err := h.apply(&bus, data.Seats); err != nil {
		pkgApp.LogWarn(ctx, h.logger, "Operação rejeitada", err, fields)
		return err
	}

	if err := h.repository.Update(ctx, bus); err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao atualizar ônibus", err, fields)
		return err
	}

	// O estado em memória já mudou; falha ao publicar não desfaz a operação.
	event := NewTicketEvent(h.eventName, TicketEventData{
		BusNumber:      bus.Number,
		Seats:          data.Seats,
		BookedSeats:    bus.BookedSeats,
		AvailableSeats: bus.AvailableSeats(),
	})
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao publicar evento", err, fields)
	}

	pkgApp.LogInfo(ctx, h.logger, "Operação concluída", map[string]interface{}{
		"command": command.CommandName(),
		"bus":     bus,
	})
	return nil
}

func NewBookTicketHandler(eventBus TicketEventBus, repo domain.BusRepository, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[SeatRequestData], SeatRequestData] {
	return &seatCommandHandler{
		eventBus:   eventBus,
		repository: repo,
		logger:     logger,
		apply:      (*domain.Bus).BookTicket,
		eventName:  TicketBookedEvent,
	}
}

func NewCancelTicketHandler(eventBus TicketEventBus, repo domain.BusRepository, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[SeatRequestData], SeatRequestData] {
	return &seatCommandHandler{
		eventBus:   eventBus,
		repository: repo,
		logger:     logger,
		apply:      (*domain.Bus).CancelTicket,
		eventName:  TicketCancelledEvent,
	}
}

type listBusesHandler struct {
	repository domain.BusRepository
	logger     pkgApp.AppLogger
}

func (h *listBusesHandler) Handle(ctx context.Context, query pkgDomain.Query[BusQueryData]) ([]domain.Bus, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	buses, err := h.repository.List(ctx)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao listar ônibus", err, nil)
		return nil, err
	}

	pkgApp.LogDebug(ctx, h.logger, "Ônibus listados", map[string]interface{}{"count": len(buses)})
	return buses, nil
}

func NewListBusesHandler(repo domain.BusRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[BusQueryData], BusQueryData, []domain.Bus] {
	return &listBusesHandler{
		repository: repo,
		logger:     logger,
	}
}

type findBusHandler struct {
	repository domain.BusRepository
	logger     pkgApp.AppLogger
}

func (h *findBusHandler) Handle(ctx context.Context, query pkgDomain.Query[BusQueryData]) ([]domain.Bus, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	data := query.Payload()
	bus, err := h.repository.FindByNumber(ctx, data.BusNumber)
	if err != nil {
		pkgApp.LogDebug(ctx, h.logger, "Ônibus não encontrado", map[string]interface{}{"bus_number": data.BusNumber})
		return nil, err
	}

	return []domain.Bus{bus}, nil
}

func NewFindBusHandler(repo domain.BusRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[BusQueryData], BusQueryData, []domain.Bus] {
	return &findBusHandler{
		repository: repo,
		logger:     logger,
	}
}

type ticketEventHandler struct {
	logger pkgApp.AppLogger
}

func (h *ticketEventHandler) Handle(ctx context.Context, event pkgDomain.Event[TicketEventData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}

	pkgApp.LogInfo(ctx, h.logger, "Evento recebido", map[string]interface{}{
		"event":   event.EventName(),
		"payload": event.Payload(),
	})
	return nil
}

func NewTicketEventHandler(logger pkgApp.AppLogger) pkgApp.EventHandler[pkgDomain.Event[TicketEventData], TicketEventData] {
	return &ticketEventHandler{
		logger: logger,
	}
}
