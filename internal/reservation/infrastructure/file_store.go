package infrastructure

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
	"github.com/mateusmacedo/bus-reservation/pkg/application"
)

const DefaultDataFile = "bus_data.txt"

// FileStore persiste os ônibus em um arquivo texto, um registro por linha.
type FileStore struct {
	path   string
	logger application.AppLogger
}

var _ domain.BusStore = (*FileStore)(nil)

func NewFileStore(path string, logger application.AppLogger) *FileStore {
	if path == "" {
		path = DefaultDataFile
	}
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (domain.LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.LoadResult{}, err
	}

	file, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		application.LogInfo(ctx, s.logger, "data file not found", map[string]interface{}{
			"path": s.path,
		})
		return domain.LoadResult{}, nil
	}
	if err != nil {
		application.LogError(ctx, s.logger, "failed to open data file", err, map[string]interface{}{
			"path": s.path,
		})
		return domain.LoadResult{}, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		application.LogError(ctx, s.logger, "failed to read data file", err, map[string]interface{}{
			"path": s.path,
		})
		return domain.LoadResult{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	result := decodeRecords(lines)
	application.LogDebug(ctx, s.logger, "data file loaded", map[string]interface{}{
		"path":      s.path,
		"buses":     len(result.Buses),
		"malformed": len(result.Malformed),
	})
	return result, nil
}

// Save reescreve o arquivo inteiro. Escreve em um arquivo temporário no mesmo
// diretório e renomeia, para não deixar o arquivo pela metade.
func (s *FileStore) Save(ctx context.Context, buses []domain.Bus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.writeAtomically(buses); err != nil {
		application.LogError(ctx, s.logger, "failed to save data file", err, map[string]interface{}{
			"path": s.path,
		})
		return err
	}

	application.LogInfo(ctx, s.logger, "data file saved", map[string]interface{}{
		"path":  s.path,
		"buses": len(buses),
	})
	return nil
}

func (s *FileStore) writeAtomically(buses []domain.Bus) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", s.path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	writer := bufio.NewWriter(tmp)
	for _, bus := range buses {
		if _, err = writer.WriteString(encodeRecord(bus) + "\n"); err != nil {
			return fmt.Errorf("write %s: %w", s.path, err)
		}
	}
	if err = writer.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", s.path, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", s.path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename to %s: %w", s.path, err)
	}
	return nil
}
