package infrastructure

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mateusmacedo/bus-reservation/internal/reservation/application"
	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
	pkgApp "github.com/mateusmacedo/bus-reservation/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-reservation/pkg/domain"
)

const (
	choiceView   = 1
	choiceBook   = 2
	choiceCancel = 3
	choiceExit   = 4
)

const menu = `
--- Bus Reservation Menu ---
1. View Buses
2. Book Ticket
3. Cancel Ticket
4. Exit
Choose an option: `

type SessionCloser interface {
	Close(ctx context.Context) error
}

// ConsoleHandler é o laço interativo do menu. Cada iteração bloqueia na leitura de
// uma linha e executa até o fim antes da próxima.
type ConsoleHandler struct {
	commandBus  application.SeatCommandBus
	queryBus    application.BusQueryBus
	session     SessionCloser
	idGenerator pkgDomain.IDGenerator[string]
	logger      pkgApp.AppLogger
	in          *bufio.Reader
	out         io.Writer
}

func NewConsoleHandler(
	commandBus application.SeatCommandBus,
	queryBus application.BusQueryBus,
	session SessionCloser,
	idGenerator pkgDomain.IDGenerator[string],
	logger pkgApp.AppLogger,
	in io.Reader,
	out io.Writer,
) *ConsoleHandler {
	return &ConsoleHandler{
		commandBus:  commandBus,
		queryBus:    queryBus,
		session:     session,
		idGenerator: idGenerator,
		logger:      logger,
		in:          bufio.NewReader(in),
		out:         out,
	}
}

// Announce informa o resultado da carga inicial.
func (h *ConsoleHandler) Announce(result application.StartResult) {
	if result.Seeded {
		h.println("No previous data found. Starting with default buses.")
	}
	for _, skipped := range result.Skipped {
		h.printf("Skipped invalid record on line %d: %v\n", skipped.Line, skipped.Err)
	}
}

// Run executa o menu até a opção de saída, fim da entrada ou cancelamento do contexto;
// nos três casos o estado é salvo antes de retornar.
func (h *ConsoleHandler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			h.println()
			return h.exit(ctx)
		}

		h.printf("%s", menu)
		line, err := h.readLine()
		if errors.Is(err, io.EOF) {
			h.println()
			return h.exit(ctx)
		}
		if err != nil {
			pkgApp.LogError(ctx, h.logger, "failed to read input", err, nil)
			return err
		}

		reqCtx := pkgApp.WithRequestID(ctx, h.idGenerator())

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			pkgApp.LogDebug(reqCtx, h.logger, "invalid menu input", map[string]interface{}{"input": line})
			h.println("Please enter a valid number.")
			continue
		}

		switch choice {
		case choiceView:
			h.viewBuses(reqCtx)
		case choiceBook:
			err = h.changeSeats(reqCtx, "book", application.NewBookTicketCommand, "Booking successful!")
		case choiceCancel:
			err = h.changeSeats(reqCtx, "cancel", application.NewCancelTicketCommand, "Cancellation successful!")
		case choiceExit:
			return h.exit(reqCtx)
		default:
			h.println("Invalid choice. Try again.")
		}

		if errors.Is(err, io.EOF) {
			h.println()
			return h.exit(reqCtx)
		}
		if err != nil {
			return err
		}
	}
}

func (h *ConsoleHandler) viewBuses(ctx context.Context) {
	buses, err := h.queryBus.Dispatch(ctx, application.NewListBusesQuery())
	if err != nil {
		h.printf("Error: %v\n", err)
		return
	}
	for _, bus := range buses {
		h.println(bus.String())
	}
}

// changeSeats devolve erro apenas para falhas de leitura da entrada.
func (h *ConsoleHandler) changeSeats(
	ctx context.Context,
	verb string,
	newCommand func(application.SeatRequestData) pkgDomain.Command[application.SeatRequestData],
	successMessage string,
) error {
	h.printf("Enter Bus Number: ")
	line, err := h.readLine()
	if err != nil {
		return err
	}

	busNumber := firstField(line)
	if _, err := h.queryBus.Dispatch(ctx, application.NewFindBusQuery(application.BusQueryData{BusNumber: busNumber})); err != nil {
		h.println(messageFor(err))
		return nil
	}

	h.printf("Enter number of seats to %s: ", verb)
	line, err = h.readLine()
	if err != nil {
		return err
	}

	seats, err := strconv.Atoi(firstField(line))
	if err != nil {
		h.println("Invalid seat number.")
		return nil
	}

	command := newCommand(application.SeatRequestData{BusNumber: busNumber, Seats: seats})
	if err := h.commandBus.Dispatch(ctx, command); err != nil {
		h.println(messageFor(err))
		return nil
	}

	h.println(successMessage)
	return nil
}

func (h *ConsoleHandler) exit(ctx context.Context) error {
	if err := h.session.Close(ctx); err != nil {
		h.printf("Error saving data: %v\n", err)
		return err
	}
	h.println("Exiting... Thank you!")
	return nil
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrBusNotFound):
		return "Bus not found."
	case errors.Is(err, domain.ErrNotEnoughSeats):
		return "Not enough seats available."
	case errors.Is(err, domain.ErrInvalidCancellation):
		return "Invalid cancellation request."
	case errors.Is(err, domain.ErrInvalidSeatCount):
		return "Seat count must be a positive number."
	default:
		return "Error: " + err.Error()
	}
}

// readLine devolve io.EOF somente quando não há mais nada para ler.
func (h *ConsoleHandler) readLine() (string, error) {
	line, err := h.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return "", err
	}
	return line, nil
}

func firstField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (h *ConsoleHandler) printf(format string, args ...interface{}) {
	fmt.Fprintf(h.out, format, args...)
}

func (h *ConsoleHandler) println(args ...interface{}) {
	fmt.Fprintln(h.out, args...)
}
