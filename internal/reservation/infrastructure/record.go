package infrastructure

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
)

const recordFields = 5

var ErrMalformedRecord = errors.New("malformed bus record")

// encodeRecord serializa no formato number,from,to,totalSeats,bookedSeats, sem escape.
func encodeRecord(bus domain.Bus) string {
	return strings.Join([]string{
		bus.Number,
		bus.From,
		bus.To,
		strconv.Itoa(bus.TotalSeats),
		strconv.Itoa(bus.BookedSeats),
	}, ",")
}

func decodeRecord(line string) (domain.Bus, error) {
	parts := strings.Split(line, ",")
	if len(parts) != recordFields {
		return domain.Bus{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, recordFields, len(parts))
	}

	totalSeats, err := strconv.Atoi(strings.TrimSpace(parts[3]))
	if err != nil {
		return domain.Bus{}, fmt.Errorf("%w: total seats: %v", ErrMalformedRecord, err)
	}
	bookedSeats, err := strconv.Atoi(strings.TrimSpace(parts[4]))
	if err != nil {
		return domain.Bus{}, fmt.Errorf("%w: booked seats: %v", ErrMalformedRecord, err)
	}

	bus := domain.Bus{
		Number:      parts[0],
		From:        parts[1],
		To:          parts[2],
		TotalSeats:  totalSeats,
		BookedSeats: bookedSeats,
	}
	if err := bus.Validate(); err != nil {
		return domain.Bus{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return bus, nil
}

// busCollector aplica a política de ignorar registros inválidos: cada registro
// ruim ou repetido (sem diferenciar maiúsculas) vira um LineError e os demais
// continuam sendo carregados.
type busCollector struct {
	result domain.LoadResult
	seen   map[string]struct{}
}

func newBusCollector() *busCollector {
	return &busCollector{
		result: domain.LoadResult{Found: true},
		seen:   make(map[string]struct{}),
	}
}

func (c *busCollector) add(line int, raw string, bus domain.Bus, err error) {
	if err == nil {
		key := strings.ToUpper(bus.Number)
		if _, dup := c.seen[key]; dup {
			err = fmt.Errorf("%w: %s", domain.ErrDuplicateBus, bus.Number)
		} else {
			c.seen[key] = struct{}{}
		}
	}
	if err != nil {
		c.result.Malformed = append(c.result.Malformed, domain.LineError{Line: line, Raw: raw, Err: err})
		return
	}

	c.result.Buses = append(c.result.Buses, bus)
}

func decodeRecords(lines []string) domain.LoadResult {
	collector := newBusCollector()
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		bus, err := decodeRecord(line)
		collector.add(i+1, line, bus, err)
	}

	return collector.result
}
