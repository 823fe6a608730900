package domain

// DeviceCategory is the broad hardware class of a catalog device.
type DeviceCategory string

const (
	CategoryPhone   DeviceCategory = "phone"
	CategoryLaptop  DeviceCategory = "laptop"
	CategoryTablet  DeviceCategory = "tablet"
	CategoryConsole DeviceCategory = "console"
	CategoryOther   DeviceCategory = "other"
	CategoryNone    DeviceCategory = ""
)

// DeviceRecord is one immutable catalog entry. Records are only created by
// the external catalog tool; the engine never mutates them after a snapshot
// is built.
type DeviceRecord struct {
	ID          string         `json:"id"`
	Brand       string         `json:"brand"`
	Model       string         `json:"model"`
	Category    DeviceCategory `json:"category"`
	ReleaseYear int            `json:"release_year,omitempty"`

	// PopularityRank orders devices by repair volume (1 = most repaired).
	// Zero means unranked and always loses a tie-break.
	PopularityRank int `json:"-"`

	// Aliases are pre-normalized lookup strings ("iphone 14 pro", "mbp 14").
	Aliases []string `json:"-"`

	// BasePrices holds per-problem base repair prices. Devices without an
	// entry fall back to the category-level generic table.
	BasePrices map[ProblemCategory]float64 `json:"-"`
}

// DeviceSignal is the structured guess extracted from a client user-agent.
type DeviceSignal struct {
	Brand      string         `json:"brand"`
	Model      string         `json:"model,omitempty"`
	DeviceType DeviceCategory `json:"device_type"`
}
