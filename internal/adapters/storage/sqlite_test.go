package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fixly/repairdiag/internal/core/domain"
	"github.com/fixly/repairdiag/internal/mock"
)

func setupSource(t *testing.T) *SQLiteSource {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	source, err := NewSQLiteSource(dbPath)
	assert.NoError(t, err)
	return source
}

func TestSQLiteSource_EmptyCatalogIsAnError(t *testing.T) {
	source := setupSource(t)

	_, err := source.GetSnapshot(context.Background())

	assert.Error(t, err)
	assert.Equal(t, domain.CodeCatalogUnavailable, domain.CodeOf(err))
}

func TestSQLiteSource_SeedAndLoad(t *testing.T) {
	source := setupSource(t)
	seed := mock.SeedDevices()

	assert.NoError(t, source.Seed(seed))

	snap, err := source.GetSnapshot(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), snap.Epoch)
	assert.Equal(t, len(seed), snap.Len())

	// Aliases and prices survive the round trip.
	device := snap.DeviceByID("apple-iphone-14-pro")
	assert.NotNil(t, device)
	assert.Equal(t, "Apple", device.Brand)
	assert.Equal(t, domain.CategoryPhone, device.Category)
	assert.Contains(t, device.Aliases, "iphone 14 pro")
	assert.Equal(t, 180.0, device.BasePrices[domain.ProblemScreen])
}

func TestSQLiteSource_SeedIsIdempotent(t *testing.T) {
	source := setupSource(t)
	seed := mock.SeedDevices()

	assert.NoError(t, source.Seed(seed))
	assert.NoError(t, source.Seed(seed))

	snap, err := source.GetSnapshot(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, len(seed), snap.Len())
}

func TestSQLiteSource_EpochAdvancesPerSnapshot(t *testing.T) {
	source := setupSource(t)
	assert.NoError(t, source.Seed(mock.SeedDevices()))

	first, err := source.GetSnapshot(context.Background())
	assert.NoError(t, err)
	second, err := source.GetSnapshot(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, first.Epoch+1, second.Epoch)
}
