// Package mock provides an in-memory catalog source with a representative
// seed catalog. Used by mock mode and by tests that need deterministic data.
package mock

import (
	"context"
	"sync/atomic"

	"github.com/fixly/repairdiag/internal/core/domain"
)

// CatalogSource implements ports.CatalogSource from a device slice.
type CatalogSource struct {
	epoch   atomic.Int64
	devices []domain.DeviceRecord
	fail    atomic.Bool
}

// NewCatalogSource serves the given devices; nil means the seed catalog.
func NewCatalogSource(devices []domain.DeviceRecord) *CatalogSource {
	if devices == nil {
		devices = SeedDevices()
	}
	return &CatalogSource{devices: devices}
}

// GetSnapshot returns a fresh snapshot with the next epoch.
func (s *CatalogSource) GetSnapshot(ctx context.Context) (*domain.CatalogSnapshot, error) {
	if s.fail.Load() {
		return nil, domain.ErrCatalogUnavailable
	}
	devices := make([]domain.DeviceRecord, len(s.devices))
	copy(devices, s.devices)
	return domain.NewCatalogSnapshot(s.epoch.Add(1), devices), nil
}

// SetFailing makes subsequent snapshot loads fail; used to exercise the
// grace-window behavior.
func (s *CatalogSource) SetFailing(fail bool) {
	s.fail.Store(fail)
}

// SetDevices replaces the served device set for the next snapshot.
func (s *CatalogSource) SetDevices(devices []domain.DeviceRecord) {
	s.devices = devices
}

// SeedDevices is a compact but realistic slice of the production catalog.
// Popularity ranks follow workshop repair volume.
func SeedDevices() []domain.DeviceRecord {
	return []domain.DeviceRecord{
		{
			ID: "apple-iphone-14-pro", Brand: "Apple", Model: "iPhone 14 Pro",
			Category: domain.CategoryPhone, ReleaseYear: 2022, PopularityRank: 1,
			Aliases: []string{"iphone 14 pro", "iphone 14 pro max"},
			BasePrices: map[domain.ProblemCategory]float64{
				domain.ProblemScreen:  180,
				domain.ProblemBattery: 95,
			},
		},
		{
			ID: "apple-iphone-14", Brand: "Apple", Model: "iPhone 14",
			Category: domain.CategoryPhone, ReleaseYear: 2022, PopularityRank: 2,
			Aliases: []string{"iphone 14", "iphone 14 plus"},
			BasePrices: map[domain.ProblemCategory]float64{
				domain.ProblemScreen:  150,
				domain.ProblemBattery: 85,
			},
		},
		{
			ID: "apple-iphone-13", Brand: "Apple", Model: "iPhone 13",
			Category: domain.CategoryPhone, ReleaseYear: 2021, PopularityRank: 3,
			Aliases: []string{"iphone 13", "iphone 13 mini"},
			BasePrices: map[domain.ProblemCategory]float64{
				domain.ProblemScreen:  140,
				domain.ProblemBattery: 80,
			},
		},
		{
			ID: "apple-iphone-se", Brand: "Apple", Model: "iPhone SE",
			Category: domain.CategoryPhone, ReleaseYear: 2022, PopularityRank: 9,
			Aliases: []string{"iphone se"},
		},
		{
			ID: "samsung-galaxy-s24", Brand: "Samsung", Model: "Galaxy S24",
			Category: domain.CategoryPhone, ReleaseYear: 2024, PopularityRank: 4,
			Aliases: []string{"galaxy s24", "samsung s24", "galaxy s24 ultra", "galaxy s24 plus"},
			BasePrices: map[domain.ProblemCategory]float64{
				domain.ProblemScreen:  130,
				domain.ProblemBattery: 90,
			},
		},
		{
			ID: "samsung-galaxy-s23", Brand: "Samsung", Model: "Galaxy S23",
			Category: domain.CategoryPhone, ReleaseYear: 2023, PopularityRank: 6,
			Aliases: []string{"galaxy s23", "samsung s23"},
		},
		{
			ID: "samsung-galaxy-a54", Brand: "Samsung", Model: "Galaxy A54",
			Category: domain.CategoryPhone, ReleaseYear: 2023, PopularityRank: 11,
			Aliases: []string{"galaxy a54", "samsung a54"},
		},
		{
			ID: "google-pixel-8", Brand: "Google", Model: "Pixel 8",
			Category: domain.CategoryPhone, ReleaseYear: 2023, PopularityRank: 8,
			Aliases: []string{"pixel 8", "pixel 8 pro"},
		},
		{
			ID: "google-pixel-7", Brand: "Google", Model: "Pixel 7",
			Category: domain.CategoryPhone, ReleaseYear: 2022, PopularityRank: 12,
			Aliases: []string{"pixel 7", "pixel 7a"},
		},
		{
			ID: "apple-macbook-pro-14", Brand: "Apple", Model: "MacBook Pro 14",
			Category: domain.CategoryLaptop, ReleaseYear: 2023, PopularityRank: 5,
			Aliases: []string{"macbook pro", "macbook pro 14"},
			BasePrices: map[domain.ProblemCategory]float64{
				domain.ProblemScreen:  380,
				domain.ProblemBattery: 190,
			},
		},
		{
			ID: "apple-macbook-air-m2", Brand: "Apple", Model: "MacBook Air M2",
			Category: domain.CategoryLaptop, ReleaseYear: 2022, PopularityRank: 7,
			Aliases: []string{"macbook air", "macbook air m2"},
			BasePrices: map[domain.ProblemCategory]float64{
				domain.ProblemBattery: 170,
			},
		},
		{
			ID: "lenovo-thinkpad-x1", Brand: "Lenovo", Model: "ThinkPad X1 Carbon",
			Category: domain.CategoryLaptop, ReleaseYear: 2023, PopularityRank: 14,
			Aliases: []string{"thinkpad x1", "thinkpad x1 carbon", "lenovo x1"},
		},
		{
			ID: "dell-xps-13", Brand: "Dell", Model: "XPS 13",
			Category: domain.CategoryLaptop, ReleaseYear: 2023, PopularityRank: 15,
			Aliases: []string{"xps 13", "dell xps"},
		},
		{
			ID: "apple-ipad-air-5", Brand: "Apple", Model: "iPad Air 5",
			Category: domain.CategoryTablet, ReleaseYear: 2022, PopularityRank: 10,
			Aliases: []string{"ipad air", "ipad air 5"},
			BasePrices: map[domain.ProblemCategory]float64{
				domain.ProblemScreen: 220,
			},
		},
		{
			ID: "apple-ipad-pro-11", Brand: "Apple", Model: "iPad Pro 11",
			Category: domain.CategoryTablet, ReleaseYear: 2022, PopularityRank: 13,
			Aliases: []string{"ipad pro", "ipad pro 11"},
		},
		{
			ID: "sony-playstation-5", Brand: "Sony", Model: "PlayStation 5",
			Category: domain.CategoryConsole, ReleaseYear: 2020, PopularityRank: 16,
			Aliases: []string{"playstation 5", "playstation"},
		},
		{
			ID: "microsoft-xbox-series-x", Brand: "Microsoft", Model: "Xbox Series X",
			Category: domain.CategoryConsole, ReleaseYear: 2020, PopularityRank: 17,
			Aliases: []string{"xbox series x", "xbox"},
		},
	}
}
