package domain

// MatchMethod records which signal produced a candidate.
type MatchMethod string

const (
	MatchMethodExact  MatchMethod = "exact"
	MatchMethodFuzzy  MatchMethod = "fuzzy"
	MatchMethodUA     MatchMethod = "ua"
	MatchMethodHybrid MatchMethod = "hybrid"
)

// MatchCandidate is one scored device candidate. TextScore and FusedScore are
// always in [0,1]; UAScore is nil when the user-agent contributed nothing for
// this device.
type MatchCandidate struct {
	Device     *DeviceRecord `json:"device"`
	TextScore  float64       `json:"text_score"`
	UAScore    *float64      `json:"ua_score,omitempty"`
	FusedScore float64       `json:"fused_score"`
	Method     MatchMethod   `json:"method"`
}
