package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fixly/repairdiag/internal/config"
	"github.com/fixly/repairdiag/internal/core/domain"
)

func phone(id, brand, model string, year, rank int, aliases ...string) domain.DeviceRecord {
	return domain.DeviceRecord{
		ID: id, Brand: brand, Model: model, Category: domain.CategoryPhone,
		ReleaseYear: year, PopularityRank: rank, Aliases: aliases,
	}
}

func TestFuser_NoSignalPassesThrough(t *testing.T) {
	snap := domain.NewCatalogSnapshot(1, []domain.DeviceRecord{
		phone("a", "Apple", "iPhone 14", 2022, 1, "iphone 14"),
	})
	f := New(config.DefaultTuning())
	cands := []domain.MatchCandidate{
		{Device: snap.DeviceByID("a"), TextScore: 0.8, FusedScore: 0.8, Method: domain.MatchMethodFuzzy},
	}

	fused := f.Fuse(cands, nil, snap)

	assert.Len(t, fused, 1)
	assert.Equal(t, 0.8, fused[0].FusedScore)
	assert.Nil(t, fused[0].UAScore)
	assert.Equal(t, domain.MatchMethodFuzzy, fused[0].Method)
}

func TestFuser_SignalCorroboratesBrandAndModel(t *testing.T) {
	snap := domain.NewCatalogSnapshot(1, []domain.DeviceRecord{
		phone("a", "Apple", "iPhone 14 Pro", 2022, 1, "iphone 14 pro"),
	})
	f := New(config.DefaultTuning())
	cands := []domain.MatchCandidate{
		{Device: snap.DeviceByID("a"), TextScore: 1.0, FusedScore: 1.0, Method: domain.MatchMethodExact},
	}
	signal := &domain.DeviceSignal{Brand: "Apple", Model: "iphone", DeviceType: domain.CategoryPhone}

	fused := f.Fuse(cands, signal, snap)

	assert.Len(t, fused, 1)
	assert.NotNil(t, fused[0].UAScore)
	assert.Equal(t, 0.9, *fused[0].UAScore)
	// 0.6*1.0 + 0.4*0.9
	assert.InDelta(t, 0.96, fused[0].FusedScore, 1e-9)
	assert.Equal(t, domain.MatchMethodHybrid, fused[0].Method)
}

func TestFuser_SignalBrandOnlyCorroboration(t *testing.T) {
	snap := domain.NewCatalogSnapshot(1, []domain.DeviceRecord{
		phone("a", "Samsung", "Galaxy S24", 2024, 1, "galaxy s24"),
	})
	f := New(config.DefaultTuning())
	cands := []domain.MatchCandidate{
		{Device: snap.DeviceByID("a"), TextScore: 1.0, FusedScore: 1.0, Method: domain.MatchMethodExact},
	}
	signal := &domain.DeviceSignal{Brand: "Samsung", DeviceType: domain.CategoryPhone}

	fused := f.Fuse(cands, signal, snap)

	assert.Equal(t, 0.7, *fused[0].UAScore)
	// 0.6*1.0 + 0.4*0.7
	assert.InDelta(t, 0.88, fused[0].FusedScore, 1e-9)
}

func TestFuser_UAOnlyCandidateWhenTextNamesNothing(t *testing.T) {
	snap := domain.NewCatalogSnapshot(1, []domain.DeviceRecord{
		phone("a", "Apple", "iPhone 14 Pro", 2022, 1, "iphone 14 pro"),
	})
	f := New(config.DefaultTuning())
	signal := &domain.DeviceSignal{Brand: "Apple", Model: "iphone", DeviceType: domain.CategoryPhone}

	fused := f.Fuse(nil, signal, snap)

	assert.Len(t, fused, 1)
	assert.Equal(t, "a", fused[0].Device.ID)
	assert.Equal(t, domain.MatchMethodUA, fused[0].Method)
	assert.Equal(t, 0.0, fused[0].TextScore)
	// UA-only carries the plain corroboration score, not the split weights.
	assert.InDelta(t, 0.9, fused[0].FusedScore, 1e-9)
}

func TestFuser_ConflictPenalizesBothSides(t *testing.T) {
	snap := domain.NewCatalogSnapshot(1, []domain.DeviceRecord{
		phone("samsung-s24", "Samsung", "Galaxy S24", 2024, 1, "galaxy s24"),
		phone("apple-14-pro", "Apple", "iPhone 14 Pro", 2022, 2, "iphone 14 pro"),
	})
	f := New(config.DefaultTuning())
	cands := []domain.MatchCandidate{
		{Device: snap.DeviceByID("samsung-s24"), TextScore: 1.0, FusedScore: 1.0, Method: domain.MatchMethodExact},
	}
	signal := &domain.DeviceSignal{Brand: "Apple", Model: "iphone", DeviceType: domain.CategoryPhone}

	fused := f.Fuse(cands, signal, snap)

	assert.Len(t, fused, 2)
	// Text wins, but the disagreement shows in both fused scores.
	assert.Equal(t, "samsung-s24", fused[0].Device.ID)
	assert.InDelta(t, 0.7, fused[0].FusedScore, 1e-9)
	assert.Equal(t, "apple-14-pro", fused[1].Device.ID)
	assert.InDelta(t, 0.63, fused[1].FusedScore, 1e-9)
}

func TestFuser_TieBreakChain(t *testing.T) {
	f := New(config.DefaultTuning())

	t.Run("popularity rank decides near ties", func(t *testing.T) {
		snap := domain.NewCatalogSnapshot(1, []domain.DeviceRecord{
			phone("b-popular", "Apple", "iPhone 14 Pro", 2022, 1, "iphone 14 pro"),
			phone("a-niche", "Apple", "iPhone 14", 2022, 5, "iphone 14"),
		})
		cands := []domain.MatchCandidate{
			{Device: snap.DeviceByID("a-niche"), TextScore: 1.0, FusedScore: 1.0},
			{Device: snap.DeviceByID("b-popular"), TextScore: 1.0, FusedScore: 1.0},
		}

		fused := f.Fuse(cands, nil, snap)

		assert.Equal(t, "b-popular", fused[0].Device.ID)
	})

	t.Run("release year breaks rank ties", func(t *testing.T) {
		snap := domain.NewCatalogSnapshot(1, []domain.DeviceRecord{
			phone("older", "Apple", "iPhone 13", 2021, 0, "iphone 13"),
			phone("newer", "Apple", "iPhone 14", 2022, 0, "iphone 14"),
		})
		cands := []domain.MatchCandidate{
			{Device: snap.DeviceByID("older"), TextScore: 1.0, FusedScore: 1.0},
			{Device: snap.DeviceByID("newer"), TextScore: 1.0, FusedScore: 1.0},
		}

		fused := f.Fuse(cands, nil, snap)

		assert.Equal(t, "newer", fused[0].Device.ID)
	})

	t.Run("scores beyond epsilon are not tied", func(t *testing.T) {
		snap := domain.NewCatalogSnapshot(1, []domain.DeviceRecord{
			phone("strong", "Apple", "iPhone 13", 2021, 9, "iphone 13"),
			phone("weak-but-popular", "Apple", "iPhone 14", 2022, 1, "iphone 14"),
		})
		cands := []domain.MatchCandidate{
			{Device: snap.DeviceByID("strong"), TextScore: 0.95, FusedScore: 0.95},
			{Device: snap.DeviceByID("weak-but-popular"), TextScore: 0.7, FusedScore: 0.7},
		}

		fused := f.Fuse(cands, nil, snap)

		assert.Equal(t, "strong", fused[0].Device.ID)
	})
}

func TestFuser_DeterministicAcrossRuns(t *testing.T) {
	snap := domain.NewCatalogSnapshot(1, []domain.DeviceRecord{
		phone("a", "Apple", "iPhone 14", 2022, 0, "iphone 14"),
		phone("b", "Apple", "iPhone 13", 2022, 0, "iphone 13"),
		phone("c", "Apple", "iPhone SE", 2022, 0, "iphone se"),
	})
	f := New(config.DefaultTuning())
	cands := []domain.MatchCandidate{
		{Device: snap.DeviceByID("c"), TextScore: 0.8, FusedScore: 0.8},
		{Device: snap.DeviceByID("a"), TextScore: 0.8, FusedScore: 0.8},
		{Device: snap.DeviceByID("b"), TextScore: 0.8, FusedScore: 0.8},
	}

	first := f.Fuse(cands, nil, snap)
	for i := 0; i < 10; i++ {
		again := f.Fuse(cands, nil, snap)
		for j := range first {
			assert.Equal(t, first[j].Device.ID, again[j].Device.ID)
		}
	}
	// Same rank and year, so the id decides.
	assert.Equal(t, "a", first[0].Device.ID)
}
