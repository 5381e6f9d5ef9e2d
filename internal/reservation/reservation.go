package reservation

import (
	"context"
	"io"

	"github.com/mateusmacedo/bus-reservation/internal/reservation/application"
	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
	"github.com/mateusmacedo/bus-reservation/internal/reservation/infrastructure"
	pkgApp "github.com/mateusmacedo/bus-reservation/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-reservation/pkg/domain"
)

type ReservationSlice struct {
	session *application.SessionService
	console *infrastructure.ConsoleHandler
}

func NewReservationSlice(
	commandBus application.SeatCommandBus,
	queryBus application.BusQueryBus,
	eventBus application.TicketEventBus,
	idGenerator pkgDomain.IDGenerator[string],
	logger pkgApp.AppLogger,
	repository domain.BusRepository,
	store domain.BusStore,
	in io.Reader,
	out io.Writer,
) *ReservationSlice {
	commandBus.RegisterHandler(application.BookTicketCommand, application.NewBookTicketHandler(eventBus, repository, logger))
	commandBus.RegisterHandler(application.CancelTicketCommand, application.NewCancelTicketHandler(eventBus, repository, logger))
	queryBus.RegisterHandler(application.ListBusesQuery, application.NewListBusesHandler(repository, logger))
	queryBus.RegisterHandler(application.FindBusQuery, application.NewFindBusHandler(repository, logger))

	eventHandler := application.NewTicketEventHandler(logger)
	eventBus.RegisterHandler(application.TicketBookedEvent, eventHandler)
	eventBus.RegisterHandler(application.TicketCancelledEvent, eventHandler)

	session := application.NewSessionService(store, repository, logger)

	return &ReservationSlice{
		session: session,
		console: infrastructure.NewConsoleHandler(commandBus, queryBus, session, idGenerator, logger, in, out),
	}
}

// Run carrega o estado persistido e entrega o controle ao menu até a saída.
func (s *ReservationSlice) Run(ctx context.Context) error {
	result, err := s.session.Start(ctx)
	if err != nil {
		return err
	}

	s.console.Announce(result)
	return s.console.Run(ctx)
}

// Shutdown salva o estado sem passar pelo menu (ex.: ao receber SIGTERM).
func (s *ReservationSlice) Shutdown(ctx context.Context) error {
	return s.session.Close(ctx)
}
