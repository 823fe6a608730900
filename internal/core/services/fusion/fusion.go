package fusion

import (
	"sort"
	"strings"

	"github.com/fixly/repairdiag/internal/config"
	"github.com/fixly/repairdiag/internal/core/domain"
)

// User-agent corroboration strength. Brand+model agreement is worth more
// than brand alone.
const (
	uaScoreBrandModel = 0.9
	uaScoreBrandOnly  = 0.7
)

// Fuser merges text candidates with the user-agent signal into one ranked
// list with fully deterministic ordering.
type Fuser struct {
	textWeight float64
	uaWeight   float64
	penalty    float64
	epsilon    float64
}

// New creates a fuser with the configured weights.
func New(tuning config.Tuning) *Fuser {
	return &Fuser{
		textWeight: tuning.TextWeight,
		uaWeight:   tuning.UAWeight,
		penalty:    tuning.DistrustPenalty,
		epsilon:    tuning.TieEpsilon,
	}
}

// Fuse combines the scored text candidates with the UA-derived signal.
// With no signal the text scores pass through unchanged. A signal naming a
// device absent from the candidates introduces it as a UA-only candidate so
// problem-only text ("battery drains fast") can still resolve a device.
func (f *Fuser) Fuse(cands []domain.MatchCandidate, signal *domain.DeviceSignal, snap *domain.CatalogSnapshot) []domain.MatchCandidate {
	out := make([]domain.MatchCandidate, len(cands))
	copy(out, cands)

	if signal != nil && signal.Brand != "" {
		f.applySignal(out, signal)
		out = f.addUAOnlyCandidate(out, signal, snap)
		f.applyConflictPenalty(out, signal)
	}

	f.sortDeterministic(out)
	return out
}

// applySignal re-scores candidates the signal corroborates.
func (f *Fuser) applySignal(cands []domain.MatchCandidate, signal *domain.DeviceSignal) {
	for i := range cands {
		c := &cands[i]
		if !brandsEqual(c.Device.Brand, signal.Brand) {
			continue
		}
		ua := uaScoreBrandOnly
		if signal.Model != "" && modelMatches(c.Device, signal.Model) {
			ua = uaScoreBrandModel
		}
		uaCopy := ua
		c.UAScore = &uaCopy
		c.FusedScore = f.textWeight*c.TextScore + f.uaWeight*ua
		c.Method = domain.MatchMethodHybrid
	}
}

// addUAOnlyCandidate resolves the signal against the catalog when no text
// candidate already covers it. A UA-only candidate carries the plain UA score
// as its fused score; the split weights only apply when two signals merge.
func (f *Fuser) addUAOnlyCandidate(cands []domain.MatchCandidate, signal *domain.DeviceSignal, snap *domain.CatalogSnapshot) []domain.MatchCandidate {
	if snap == nil {
		return cands
	}
	dev := snap.FindByBrandModel(signal.Brand, signal.Model)
	if dev == nil {
		return cands
	}
	for i := range cands {
		if cands[i].Device.ID == dev.ID {
			return cands
		}
	}
	ua := uaScoreBrandOnly
	if signal.Model != "" && modelMatches(dev, signal.Model) {
		ua = uaScoreBrandModel
	}
	uaCopy := ua
	return append(cands, domain.MatchCandidate{
		Device:     dev,
		TextScore:  0,
		UAScore:    &uaCopy,
		FusedScore: ua,
		Method:     domain.MatchMethodUA,
	})
}

// applyConflictPenalty distrusts both sides when the strongest text candidate
// names a different brand than the user-agent. Silently preferring one signal
// would hide the disagreement from the confidence score.
func (f *Fuser) applyConflictPenalty(cands []domain.MatchCandidate, signal *domain.DeviceSignal) {
	topText := -1
	for i := range cands {
		if cands[i].TextScore == 0 {
			continue
		}
		if topText < 0 || cands[i].TextScore > cands[topText].TextScore {
			topText = i
		}
	}
	if topText < 0 || brandsEqual(cands[topText].Device.Brand, signal.Brand) {
		return
	}
	cands[topText].FusedScore = cands[topText].TextScore * f.penalty
	for i := range cands {
		if cands[i].Method == domain.MatchMethodUA {
			cands[i].FusedScore *= f.penalty
		}
	}
}

// sortDeterministic orders by fused score descending; scores within epsilon
// are tied and fall through to popularity rank, release year (newest first)
// and finally device id, so repeated runs on the same snapshot always agree.
func (f *Fuser) sortDeterministic(cands []domain.MatchCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		diff := a.FusedScore - b.FusedScore
		if diff > f.epsilon {
			return true
		}
		if diff < -f.epsilon {
			return false
		}
		if rankOf(a.Device) != rankOf(b.Device) {
			return rankOf(a.Device) < rankOf(b.Device)
		}
		if a.Device.ReleaseYear != b.Device.ReleaseYear {
			return a.Device.ReleaseYear > b.Device.ReleaseYear
		}
		return a.Device.ID < b.Device.ID
	})
}

// rankOf treats unranked devices as last.
func rankOf(d *domain.DeviceRecord) int {
	if d.PopularityRank <= 0 {
		return int(^uint(0) >> 1)
	}
	return d.PopularityRank
}

func brandsEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// modelMatches reports whether the UA model fragment corroborates the device.
func modelMatches(d *domain.DeviceRecord, model string) bool {
	model = strings.ToLower(strings.TrimSpace(model))
	if model == "" {
		return false
	}
	dm := strings.ToLower(d.Model)
	if strings.Contains(dm, model) || strings.Contains(model, dm) {
		return true
	}
	for _, a := range d.Aliases {
		if strings.Contains(a, model) || strings.Contains(model, a) {
			return true
		}
	}
	return false
}
