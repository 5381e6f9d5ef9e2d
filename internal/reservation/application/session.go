package application

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
	pkgApp "github.com/mateusmacedo/bus-reservation/pkg/application"
)

// StartResult resume a carga inicial para que a interface possa avisar o usuário.
type StartResult struct {
	Seeded  bool
	Loaded  int
	Skipped []domain.LineError
}

// SessionService liga o armazenamento persistente à coleção em memória:
// carrega no início da sessão e salva na saída.
type SessionService struct {
	store      domain.BusStore
	repository domain.BusRepository
	logger     pkgApp.AppLogger

	mu       sync.Mutex
	started  bool
	closed   bool
	closeErr error
}

func NewSessionService(store domain.BusStore, repo domain.BusRepository, logger pkgApp.AppLogger) *SessionService {
	return &SessionService{
		store:      store,
		repository: repo,
		logger:     logger,
	}
}

// Start carrega os ônibus persistidos ou, na primeira execução, semeia as rotas padrão.
func (s *SessionService) Start(ctx context.Context) (StartResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.store.Load(ctx)
	if err != nil {
		pkgApp.LogError(ctx, s.logger, "Erro ao carregar dados", err, nil)
		return StartResult{}, err
	}

	result := StartResult{Skipped: loaded.Malformed}
	buses := loaded.Buses
	if !loaded.Found {
		result.Seeded = true
		buses = domain.DefaultBuses()
		pkgApp.LogInfo(ctx, s.logger, "Nenhum dado anterior, usando ônibus padrão", map[string]interface{}{
			"count": len(buses),
		})
	}

	for _, bus := range buses {
		if err := s.repository.Add(ctx, bus); err != nil {
			return StartResult{}, fmt.Errorf("add bus %s: %w", bus.Number, err)
		}
		result.Loaded++
	}

	if len(loaded.Malformed) > 0 {
		var errs error
		for _, lineErr := range loaded.Malformed {
			errs = multierr.Append(errs, lineErr)
		}
		pkgApp.LogWarn(ctx, s.logger, "Registros inválidos ignorados", errs, map[string]interface{}{
			"skipped": len(loaded.Malformed),
		})
	}

	s.started = true
	pkgApp.LogInfo(ctx, s.logger, "Sessão iniciada", map[string]interface{}{
		"loaded": result.Loaded,
		"seeded": result.Seeded,
	})
	return result, nil
}

// Close grava o estado atual da sessão uma única vez. Antes de um Start bem
// sucedido não há nada a gravar e o armazenamento fica intocado; chamadas
// seguintes esperam a primeira gravação e devolvem o mesmo resultado.
func (s *SessionService) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		pkgApp.LogDebug(ctx, s.logger, "Sessão não iniciada, nada a salvar", nil)
		return nil
	}
	if s.closed {
		return s.closeErr
	}
	s.closed = true
	s.closeErr = s.save(ctx)
	return s.closeErr
}

func (s *SessionService) save(ctx context.Context) error {
	buses, err := s.repository.List(ctx)
	if err != nil {
		pkgApp.LogError(ctx, s.logger, "Erro ao listar ônibus", err, nil)
		return err
	}

	if err := s.store.Save(ctx, buses); err != nil {
		pkgApp.LogError(ctx, s.logger, "Erro ao salvar dados", err, nil)
		return err
	}

	pkgApp.LogInfo(ctx, s.logger, "Sessão encerrada", map[string]interface{}{
		"saved": len(buses),
	})
	return nil
}
