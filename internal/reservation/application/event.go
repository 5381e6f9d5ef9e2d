package application

import (
	"github.com/mateusmacedo/bus-reservation/pkg/domain"
)

const (
	TicketBookedEvent    = "TicketBooked"
	TicketCancelledEvent = "TicketCancelled"
)

type TicketEventData struct {
	BusNumber      string `json:"busNumber"`
	Seats          int    `json:"seats"`
	BookedSeats    int    `json:"bookedSeats"`
	AvailableSeats int    `json:"availableSeats"`
}

type ticketEvent struct {
	name string
	data TicketEventData
}

func (e ticketEvent) EventName() string {
	return e.name
}

func (e ticketEvent) Payload() TicketEventData {
	return e.data
}

func NewTicketEvent(name string, data TicketEventData) domain.Event[TicketEventData] {
	return ticketEvent{name: name, data: data}
}
