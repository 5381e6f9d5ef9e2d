package infrastructure

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
	"github.com/mateusmacedo/bus-reservation/pkg/application"
)

type busRecord struct {
	Number      string `gorm:"primaryKey"`
	Position    int    `gorm:"index"`
	From        string
	To          string
	TotalSeats  int
	BookedSeats int
}

func (busRecord) TableName() string {
	return "buses"
}

func (r busRecord) toBus() domain.Bus {
	return domain.Bus{
		Number:      r.Number,
		From:        r.From,
		To:          r.To,
		TotalSeats:  r.TotalSeats,
		BookedSeats: r.BookedSeats,
	}
}

// gormBusStore guarda o snapshot da sessão em uma tabela, preservando a ordem pela coluna position.
type gormBusStore struct {
	db     *gorm.DB
	logger application.AppLogger
}

func NewGormBusStore(dsn string, logger application.AppLogger) (domain.BusStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return NewGormBusStoreFromDB(db, logger)
}

func NewGormBusStoreFromDB(db *gorm.DB, logger application.AppLogger) (domain.BusStore, error) {
	if err := db.AutoMigrate(&busRecord{}); err != nil {
		return nil, err
	}

	return &gormBusStore{
		db:     db,
		logger: logger,
	}, nil
}

func (s *gormBusStore) Load(ctx context.Context) (domain.LoadResult, error) {
	var records []busRecord
	if err := s.db.WithContext(ctx).Order("position").Find(&records).Error; err != nil {
		application.LogError(ctx, s.logger, "failed to load buses", err, nil)
		return domain.LoadResult{}, fmt.Errorf("load buses: %w", err)
	}

	if len(records) == 0 {
		application.LogInfo(ctx, s.logger, "no buses stored", nil)
		return domain.LoadResult{}, nil
	}

	result := recordsToResult(records)
	application.LogDebug(ctx, s.logger, "buses loaded", map[string]interface{}{
		"buses": len(result.Buses),
	})
	return result, nil
}

func recordsToResult(records []busRecord) domain.LoadResult {
	collector := newBusCollector()
	for _, record := range records {
		bus := record.toBus()
		collector.add(record.Position+1, encodeRecord(bus), bus, bus.Validate())
	}
	return collector.result
}

func (s *gormBusStore) Save(ctx context.Context, buses []domain.Bus) error {
	records := make([]busRecord, 0, len(buses))
	for i, bus := range buses {
		records = append(records, busRecord{
			Number:      bus.Number,
			Position:    i,
			From:        bus.From,
			To:          bus.To,
			TotalSeats:  bus.TotalSeats,
			BookedSeats: bus.BookedSeats,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&busRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		application.LogError(ctx, s.logger, "failed to save buses", err, map[string]interface{}{
			"buses": len(buses),
		})
		return fmt.Errorf("save buses: %w", err)
	}

	application.LogInfo(ctx, s.logger, "buses saved", map[string]interface{}{
		"buses": len(buses),
	})
	return nil
}
