package application

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
	pkgApp "github.com/mateusmacedo/bus-reservation/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-reservation/pkg/domain"
	zapAdapter "github.com/mateusmacedo/bus-reservation/pkg/infrastructure/zaplogger/adapter"
)

func nopLogger() pkgApp.AppLogger {
	return zapAdapter.NewZapAppLoggerFrom(zap.NewNop())
}

type fakeRepository struct {
	buses []domain.Bus
}

func (r *fakeRepository) Add(_ context.Context, bus domain.Bus) error {
	for _, existing := range r.buses {
		if existing.SameNumber(bus.Number) {
			return domain.ErrDuplicateBus
		}
	}
	r.buses = append(r.buses, bus)
	return nil
}

func (r *fakeRepository) FindByNumber(_ context.Context, number string) (domain.Bus, error) {
	for _, bus := range r.buses {
		if strings.EqualFold(bus.Number, number) {
			return bus, nil
		}
	}
	return domain.Bus{}, domain.ErrBusNotFound
}

func (r *fakeRepository) Update(_ context.Context, bus domain.Bus) error {
	for i := range r.buses {
		if r.buses[i].SameNumber(bus.Number) {
			r.buses[i] = bus
			return nil
		}
	}
	return domain.ErrBusNotFound
}

func (r *fakeRepository) List(_ context.Context) ([]domain.Bus, error) {
	return append([]domain.Bus(nil), r.buses...), nil
}

type fakeStore struct {
	result  domain.LoadResult
	loadErr error
	saveErr error
	saved   [][]domain.Bus
}

func (s *fakeStore) Load(context.Context) (domain.LoadResult, error) {
	return s.result, s.loadErr
}

func (s *fakeStore) Save(_ context.Context, buses []domain.Bus) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, buses)
	return nil
}

type fakeEventBus struct {
	published  []pkgDomain.Event[TicketEventData]
	publishErr error
}

func (b *fakeEventBus) RegisterHandler(string, pkgApp.EventHandler[pkgDomain.Event[TicketEventData], TicketEventData]) {
}

func (b *fakeEventBus) Publish(_ context.Context, event pkgDomain.Event[TicketEventData]) error {
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, event)
	return nil
}

var errBroker = errors.New("broker unavailable")
