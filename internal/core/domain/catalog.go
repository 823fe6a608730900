package domain

import (
	"strings"
	"time"
)

// AliasEntry pairs one normalized alias with the device it belongs to.
type AliasEntry struct {
	Alias  string
	Device *DeviceRecord
}

// CatalogSnapshot is an immutable, versioned view of the device catalog.
// A new snapshot fully replaces the old one; readers in flight keep working
// against the snapshot they started with.
type CatalogSnapshot struct {
	Epoch    int64
	LoadedAt time.Time

	devices []DeviceRecord
	aliases []AliasEntry
	byID    map[string]*DeviceRecord
}

// NewCatalogSnapshot builds the snapshot index. The devices slice is owned by
// the snapshot after this call.
func NewCatalogSnapshot(epoch int64, devices []DeviceRecord) *CatalogSnapshot {
	s := &CatalogSnapshot{
		Epoch:    epoch,
		LoadedAt: time.Now(),
		devices:  devices,
		byID:     make(map[string]*DeviceRecord, len(devices)),
	}
	for i := range s.devices {
		d := &s.devices[i]
		s.byID[d.ID] = d
		for _, a := range d.Aliases {
			s.aliases = append(s.aliases, AliasEntry{Alias: a, Device: d})
		}
	}
	return s
}

// Aliases returns the full alias index.
func (s *CatalogSnapshot) Aliases() []AliasEntry {
	return s.aliases
}

// DeviceByID looks up a device record by catalog id.
func (s *CatalogSnapshot) DeviceByID(id string) *DeviceRecord {
	return s.byID[id]
}

// Len returns the number of devices in the snapshot.
func (s *CatalogSnapshot) Len() int {
	return len(s.devices)
}

// FindByBrandModel returns the device whose brand matches and whose model (or
// an alias) contains the given model fragment. Used to resolve a user-agent
// signal against the catalog.
func (s *CatalogSnapshot) FindByBrandModel(brand, model string) *DeviceRecord {
	brand = strings.ToLower(strings.TrimSpace(brand))
	model = strings.ToLower(strings.TrimSpace(model))
	if brand == "" {
		return nil
	}
	var fallback *DeviceRecord
	for i := range s.devices {
		d := &s.devices[i]
		if !strings.EqualFold(d.Brand, brand) {
			continue
		}
		if model == "" {
			if fallback == nil {
				fallback = d
			}
			continue
		}
		if strings.Contains(strings.ToLower(d.Model), model) {
			return d
		}
		for _, a := range d.Aliases {
			if strings.Contains(a, model) || strings.Contains(model, a) {
				return d
			}
		}
	}
	return fallback
}
