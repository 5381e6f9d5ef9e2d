package application

import (
	"github.com/mateusmacedo/bus-reservation/pkg/domain"
)

const (
	BookTicketCommand   = "BookTicket"
	CancelTicketCommand = "CancelTicket"
)

// SeatRequestData contém os dados de uma reserva ou cancelamento.
type SeatRequestData struct {
	BusNumber string `json:"busNumber"`
	Seats     int    `json:"seats"`
}

type seatCommand struct {
	name string
	data SeatRequestData
}

func (c seatCommand) CommandName() string {
	return c.name
}

func (c seatCommand) Payload() SeatRequestData {
	return c.data
}

// NewBookTicketCommand cria um comando para reservar assentos.
func NewBookTicketCommand(data SeatRequestData) domain.Command[SeatRequestData] {
	return seatCommand{name: BookTicketCommand, data: data}
}

// NewCancelTicketCommand cria um comando para cancelar assentos reservados.
func NewCancelTicketCommand(data SeatRequestData) domain.Command[SeatRequestData] {
	return seatCommand{name: CancelTicketCommand, data: data}
}
