// Package storage reads the device catalog from SQLite. The catalog is
// authored by an external management tool; this adapter only ever reads it.
package storage

import (
	"context"
	"fmt"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/fixly/repairdiag/internal/core/domain"
)

// SQLiteSource implements ports.CatalogSource using GORM and SQLite.
type SQLiteSource struct {
	db    *gorm.DB
	epoch atomic.Int64
}

// DeviceModel is the GORM model for catalog devices.
type DeviceModel struct {
	ID             string `gorm:"primaryKey"`
	Brand          string `gorm:"index"`
	Model          string
	Category       string
	ReleaseYear    int
	PopularityRank int

	Aliases []AliasModel `gorm:"foreignKey:DeviceID"`
	Prices  []PriceModel `gorm:"foreignKey:DeviceID"`
}

// AliasModel stores normalized lookup aliases per device.
type AliasModel struct {
	ID       uint   `gorm:"primaryKey"`
	DeviceID string `gorm:"index"`
	Alias    string `gorm:"index"`
}

// PriceModel stores per-problem base prices per device.
type PriceModel struct {
	ID       uint   `gorm:"primaryKey"`
	DeviceID string `gorm:"index"`
	Problem  string
	Base     float64
}

// NewSQLiteSource opens the catalog database and migrates the schema.
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("init db tracing: %w", err)
	}

	if err := db.AutoMigrate(&DeviceModel{}, &AliasModel{}, &PriceModel{}); err != nil {
		return nil, fmt.Errorf("migrate catalog schema: %w", err)
	}

	return &SQLiteSource{db: db}, nil
}

// GetSnapshot loads the full catalog and stamps it with the next epoch.
// An empty catalog is an error; the caller keeps serving the previous
// snapshot within its grace window.
func (s *SQLiteSource) GetSnapshot(ctx context.Context) (*domain.CatalogSnapshot, error) {
	var models []DeviceModel
	if err := s.db.WithContext(ctx).Preload("Aliases").Preload("Prices").Find(&models).Error; err != nil {
		return nil, domain.NewDiagError(domain.CodeCatalogUnavailable, "catalog query failed", err)
	}
	if len(models) == 0 {
		return nil, domain.NewDiagError(domain.CodeCatalogUnavailable, "catalog is empty", nil)
	}

	devices := make([]domain.DeviceRecord, 0, len(models))
	for _, m := range models {
		devices = append(devices, toDomain(m))
	}
	return domain.NewCatalogSnapshot(s.epoch.Add(1), devices), nil
}

// Seed inserts device records into an empty catalog. Intended for first-run
// bootstrapping and tests; existing rows make it a no-op.
func (s *SQLiteSource) Seed(devices []domain.DeviceRecord) error {
	var count int64
	if err := s.db.Model(&DeviceModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, d := range devices {
		m := DeviceModel{
			ID:             d.ID,
			Brand:          d.Brand,
			Model:          d.Model,
			Category:       string(d.Category),
			ReleaseYear:    d.ReleaseYear,
			PopularityRank: d.PopularityRank,
		}
		for _, a := range d.Aliases {
			m.Aliases = append(m.Aliases, AliasModel{DeviceID: d.ID, Alias: a})
		}
		for p, base := range d.BasePrices {
			m.Prices = append(m.Prices, PriceModel{DeviceID: d.ID, Problem: string(p), Base: base})
		}
		if err := s.db.Create(&m).Error; err != nil {
			return fmt.Errorf("seed device %s: %w", d.ID, err)
		}
	}
	return nil
}

func toDomain(m DeviceModel) domain.DeviceRecord {
	d := domain.DeviceRecord{
		ID:             m.ID,
		Brand:          m.Brand,
		Model:          m.Model,
		Category:       domain.DeviceCategory(m.Category),
		ReleaseYear:    m.ReleaseYear,
		PopularityRank: m.PopularityRank,
	}
	for _, a := range m.Aliases {
		d.Aliases = append(d.Aliases, a.Alias)
	}
	if len(m.Prices) > 0 {
		d.BasePrices = make(map[domain.ProblemCategory]float64, len(m.Prices))
		for _, p := range m.Prices {
			d.BasePrices[domain.ProblemCategory(p.Problem)] = p.Base
		}
	}
	return d
}
