package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
	"github.com/mateusmacedo/bus-reservation/pkg/application"
)

// InMemoryBusRepository guarda os ônibus da sessão em ordem de inserção, sem limite de tamanho.
type InMemoryBusRepository struct {
	mu     sync.RWMutex
	buses  []domain.Bus
	logger application.AppLogger
}

var _ domain.BusRepository = (*InMemoryBusRepository)(nil)

func NewInMemoryBusRepository(logger application.AppLogger) *InMemoryBusRepository {
	return &InMemoryBusRepository{
		logger: logger,
	}
}

func (r *InMemoryBusRepository) Add(ctx context.Context, bus domain.Bus) error {
	if err := bus.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(bus.Number) >= 0 {
		application.LogWarn(ctx, r.logger, "bus already exists", domain.ErrDuplicateBus, map[string]interface{}{
			"bus_number": bus.Number,
		})
		return fmt.Errorf("%w: %s", domain.ErrDuplicateBus, bus.Number)
	}

	r.buses = append(r.buses, bus)
	application.LogDebug(ctx, r.logger, "bus added", map[string]interface{}{
		"bus": bus,
	})
	return nil
}

func (r *InMemoryBusRepository) FindByNumber(ctx context.Context, number string) (domain.Bus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(number)
	if i < 0 {
		application.LogDebug(ctx, r.logger, "bus not found", map[string]interface{}{
			"bus_number": number,
		})
		return domain.Bus{}, domain.ErrBusNotFound
	}
	return r.buses[i], nil
}

// Update substitui o registro com o mesmo número (sem diferenciar maiúsculas).
func (r *InMemoryBusRepository) Update(ctx context.Context, bus domain.Bus) error {
	if err := bus.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(bus.Number)
	if i < 0 {
		return domain.ErrBusNotFound
	}

	r.buses[i] = bus
	application.LogDebug(ctx, r.logger, "bus updated", map[string]interface{}{
		"bus": bus,
	})
	return nil
}

// List devolve uma cópia; alterar o slice retornado não afeta o repositório.
func (r *InMemoryBusRepository) List(_ context.Context) ([]domain.Bus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	buses := make([]domain.Bus, len(r.buses))
	copy(buses, r.buses)
	return buses, nil
}

func (r *InMemoryBusRepository) indexOf(number string) int {
	for i, bus := range r.buses {
		if bus.SameNumber(number) {
			return i
		}
	}
	return -1
}
