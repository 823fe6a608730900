package ports

import (
	"context"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/fixly/repairdiag/internal/core/domain"
)

// CatalogSource produces full catalog snapshots. The engine only ever reads
// from it; authoring/editing catalog records lives in an external tool.
type CatalogSource interface {
	// GetSnapshot returns a complete, non-empty snapshot with a
	// monotonically increasing epoch. An empty catalog is an error.
	GetSnapshot(ctx context.Context) (*domain.CatalogSnapshot, error)
}

// SignalExtractor turns a raw user-agent string into a structured device
// guess. Implementations must honor the context deadline and return
// domain.ErrNoSignal for anything they cannot recognize; callers treat that
// as a recovered, non-fatal outcome.
type SignalExtractor interface {
	Extract(ctx context.Context, userAgent string) (*domain.DeviceSignal, error)
}

// ResultCache stores computed diagnostic results under epoch-qualified keys
// derived with Key. Implementations must be safe for many concurrent readers
// and writers.
type ResultCache interface {
	Get(key uint64) (*domain.DiagnosticResult, bool)
	Put(key uint64, result *domain.DiagnosticResult, ttl time.Duration)
	Delete(key uint64)
	Len() int
}

// Key derives the ResultCache key from the normalized request inputs and the
// catalog snapshot epoch. Fields are separated by a zero byte so adjacent
// fields cannot alias, and embedding the epoch makes keys from different
// snapshots disjoint.
func Key(normText, normUA string, epoch int64) uint64 {
	d := xxhash.New()
	d.WriteString(normText)
	d.Write([]byte{0})
	d.WriteString(normUA)
	d.Write([]byte{0})
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(epoch >> (8 * i))
	}
	d.Write(buf[:])
	return d.Sum64()
}
