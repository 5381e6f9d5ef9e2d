package domain

import (
	"context"
	"fmt"
)

// BusRepository é a coleção em memória da sessão, em ordem de inserção.
type BusRepository interface {
	Add(ctx context.Context, bus Bus) error
	FindByNumber(ctx context.Context, number string) (Bus, error)
	Update(ctx context.Context, bus Bus) error
	List(ctx context.Context) ([]Bus, error)
}

// BusStore persiste o estado completo entre execuções.
type BusStore interface {
	// Load devolve err apenas para falhas de I/O irrecuperáveis; ausência de dados
	// e linhas malformadas são informadas em LoadResult.
	Load(ctx context.Context) (LoadResult, error)
	Save(ctx context.Context, buses []Bus) error
}

type LoadResult struct {
	Buses     []Bus
	Found     bool
	Malformed []LineError
}

// LineError descreve um registro persistido que foi ignorado na carga.
type LineError struct {
	Line int
	Raw  string
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Raw, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}
