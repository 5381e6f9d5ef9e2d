package domain

import (
	"fmt"
	"strings"
)

// Bus representa uma rota reservável com capacidade fixa.
// Invariante: 0 <= BookedSeats <= TotalSeats.
type Bus struct {
	Number      string `json:"busNumber"`
	From        string `json:"from"`
	To          string `json:"to"`
	TotalSeats  int    `json:"totalSeats"`
	BookedSeats int    `json:"bookedSeats"`
}

// NewBus cria um ônibus sem reservas. Os campos de texto não podem conter vírgulas,
// pois o arquivo de persistência não tem escape.
func NewBus(number, from, to string, totalSeats int) (Bus, error) {
	bus := Bus{
		Number:     number,
		From:       from,
		To:         to,
		TotalSeats: totalSeats,
	}
	if err := bus.Validate(); err != nil {
		return Bus{}, err
	}
	return bus, nil
}

func (b Bus) Validate() error {
	switch {
	case strings.TrimSpace(b.Number) == "":
		return fmt.Errorf("%w: empty bus number", ErrInvalidBus)
	case strings.ContainsRune(b.Number+b.From+b.To, ','):
		return fmt.Errorf("%w: %q contains a comma", ErrInvalidBus, b.Number)
	case b.TotalSeats <= 0:
		return fmt.Errorf("%w: %s has %d total seats", ErrInvalidBus, b.Number, b.TotalSeats)
	case b.BookedSeats < 0 || b.BookedSeats > b.TotalSeats:
		return fmt.Errorf("%w: %s has %d booked of %d seats", ErrInvalidBus, b.Number, b.BookedSeats, b.TotalSeats)
	}
	return nil
}

// BookTicket reserva seats assentos. Em caso de erro o estado não muda.
func (b *Bus) BookTicket(seats int) error {
	if seats <= 0 {
		return ErrInvalidSeatCount
	}
	if seats > b.AvailableSeats() {
		return ErrNotEnoughSeats
	}
	b.BookedSeats += seats
	return nil
}

// CancelTicket libera seats assentos já reservados. Em caso de erro o estado não muda.
func (b *Bus) CancelTicket(seats int) error {
	if seats <= 0 {
		return ErrInvalidSeatCount
	}
	if seats > b.BookedSeats {
		return ErrInvalidCancellation
	}
	b.BookedSeats -= seats
	return nil
}

func (b Bus) AvailableSeats() int {
	return b.TotalSeats - b.BookedSeats
}

// SameNumber compara identificadores sem diferenciar maiúsculas.
func (b Bus) SameNumber(number string) bool {
	return strings.EqualFold(b.Number, number)
}

func (b Bus) String() string {
	return fmt.Sprintf("Bus %s from %s to %s | Total Seats: %d | Available: %d",
		b.Number, b.From, b.To, b.TotalSeats, b.AvailableSeats())
}

// DefaultBuses são as rotas semeadas na primeira execução.
func DefaultBuses() []Bus {
	return []Bus{
		{Number: "B1", From: "Warangal", To: "Hyderabad", TotalSeats: 40},
		{Number: "B2", From: "Warangal", To: "Karimnagar", TotalSeats: 35},
		{Number: "B3", From: "Hyderabad", To: "Warangal", TotalSeats: 45},
	}
}
