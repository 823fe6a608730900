package matcher

import (
	"sort"
	"strings"

	"github.com/fixly/repairdiag/internal/config"
	"github.com/fixly/repairdiag/internal/core/domain"
)

// Matcher scores normalized text against the catalog alias index.
type Matcher struct {
	floor float64
	limit int
}

// New creates a matcher with the configured similarity floor and candidate cap.
func New(tuning config.Tuning) *Matcher {
	return &Matcher{floor: tuning.MatchFloor, limit: tuning.MaxCandidates}
}

// Match returns scored candidates for the given pre-normalized text.
// Candidates below the floor are discarded entirely; returning them as
// low-confidence alternatives would imply precision the score cannot back.
func (m *Matcher) Match(normText string, snap *domain.CatalogSnapshot) []domain.MatchCandidate {
	if normText == "" || snap == nil {
		return nil
	}
	queryTokens := strings.Fields(normText)

	// Best score per device across all of its aliases.
	best := make(map[string]*domain.MatchCandidate)
	for _, entry := range snap.Aliases() {
		score, method := m.scoreAlias(normText, queryTokens, entry.Alias)
		if score < m.floor {
			continue
		}
		cur, ok := best[entry.Device.ID]
		if !ok {
			best[entry.Device.ID] = &domain.MatchCandidate{
				Device:     entry.Device,
				TextScore:  score,
				FusedScore: score,
				Method:     method,
			}
			continue
		}
		if score > cur.TextScore || (score == cur.TextScore && method == domain.MatchMethodExact) {
			cur.TextScore = score
			cur.FusedScore = score
			cur.Method = method
		}
	}

	out := make([]domain.MatchCandidate, 0, len(best))
	for _, c := range best {
		out = append(out, *c)
	}
	// Deterministic pre-order: score descending, id ascending. Fusion applies
	// the full tie-break chain later.
	sort.Slice(out, func(i, j int) bool {
		if out[i].TextScore != out[j].TextScore {
			return out[i].TextScore > out[j].TextScore
		}
		return out[i].Device.ID < out[j].Device.ID
	})
	if len(out) > m.limit {
		out = out[:m.limit]
	}
	return out
}

// scoreAlias computes a [0,1] similarity between the query and one alias.
// A whole-token substring hit is an exact match and scores 1.0.
func (m *Matcher) scoreAlias(normText string, queryTokens []string, alias string) (float64, domain.MatchMethod) {
	if alias == "" {
		return 0, domain.MatchMethodFuzzy
	}
	if containsPhrase(normText, alias) {
		return 1.0, domain.MatchMethodExact
	}
	return tokenSetScore(queryTokens, strings.Fields(alias)), domain.MatchMethodFuzzy
}

// tokenSetScore is a token-set similarity tolerant of word order and partial
// overlap. Alias coverage dominates; a secondary term rewards aliases that
// explain more of the query, so "iphone 14 pro" outranks "iphone 14" for a
// query mentioning "pro".
func tokenSetScore(queryTokens, aliasTokens []string) float64 {
	if len(aliasTokens) == 0 || len(queryTokens) == 0 {
		return 0
	}
	querySet := make(map[string]bool, len(queryTokens))
	for _, t := range queryTokens {
		querySet[t] = true
	}
	matched := 0
	for _, at := range aliasTokens {
		if querySet[at] || prefixMatch(querySet, at) {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	coverage := float64(matched) / float64(len(aliasTokens))
	breadth := float64(matched) / float64(len(queryTokens))
	return coverage * (0.7 + 0.3*breadth)
}

// prefixMatch allows "pro"/"promax" style near-token hits for tokens of at
// least three runes, so minor concatenations still count.
func prefixMatch(querySet map[string]bool, aliasToken string) bool {
	if len(aliasToken) < 3 {
		return false
	}
	for qt := range querySet {
		if len(qt) >= 3 && (strings.HasPrefix(qt, aliasToken) || strings.HasPrefix(aliasToken, qt)) {
			return true
		}
	}
	return false
}

// containsPhrase reports whether norm contains phrase on token boundaries.
func containsPhrase(norm, phrase string) bool {
	idx := strings.Index(norm, phrase)
	for idx >= 0 {
		before := idx == 0 || norm[idx-1] == ' '
		after := idx+len(phrase) == len(norm) || norm[idx+len(phrase)] == ' '
		if before && after {
			return true
		}
		next := strings.Index(norm[idx+1:], phrase)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}
