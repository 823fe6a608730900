// Package diagnose sequences the diagnostic pipeline: validate, cache
// lookup, concurrent text/user-agent matching, fusion, classification and
// estimation. The pipeline is purely functional against one immutable
// catalog snapshot, so requests need no locking of their own.
package diagnose

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fixly/repairdiag/internal/config"
	"github.com/fixly/repairdiag/internal/core/domain"
	"github.com/fixly/repairdiag/internal/core/ports"
	"github.com/fixly/repairdiag/internal/core/services/catalog"
	"github.com/fixly/repairdiag/internal/core/services/classifier"
	"github.com/fixly/repairdiag/internal/core/services/estimator"
	"github.com/fixly/repairdiag/internal/core/services/fusion"
	"github.com/fixly/repairdiag/internal/core/services/matcher"
	"github.com/fixly/repairdiag/internal/telemetry"
)

// Overall confidence blends the device and problem signals. The device share
// dominates because pricing hangs off it.
const (
	deviceConfWeight  = 0.55
	problemConfWeight = 0.45
)

// Service is the stateless diagnostic orchestrator.
type Service struct {
	catalog    *catalog.Manager
	extractor  ports.SignalExtractor
	cache      ports.ResultCache
	matcher    *matcher.Matcher
	fuser      *fusion.Fuser
	classifier *classifier.Classifier
	estimator  *estimator.Estimator

	tuning   config.Tuning
	cacheTTL time.Duration
	tracer   trace.Tracer
}

// New wires the pipeline stages together.
func New(cat *catalog.Manager, extractor ports.SignalExtractor, resultCache ports.ResultCache, tuning config.Tuning, cacheTTL time.Duration) *Service {
	return &Service{
		catalog:    cat,
		extractor:  extractor,
		cache:      resultCache,
		matcher:    matcher.New(tuning),
		fuser:      fusion.New(tuning),
		classifier: classifier.New(),
		estimator:  estimator.New(tuning),
		tuning:     tuning,
		cacheTTL:   cacheTTL,
		tracer:     otel.Tracer("repairdiag/diagnose"),
	}
}

// Diagnose runs the full pipeline for one request.
func (s *Service) Diagnose(ctx context.Context, req domain.DiagnosticRequest) (*domain.DiagnosticResult, error) {
	ctx, span := s.tracer.Start(ctx, "diagnose")
	defer span.End()
	start := time.Now()
	defer func() {
		telemetry.PipelineDuration.Observe(time.Since(start).Seconds())
	}()

	if err := req.Validate(); err != nil {
		telemetry.DiagnosesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	snap, err := s.catalog.Current()
	if err != nil {
		telemetry.DiagnosesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	normText := matcher.Normalize(req.Text)
	normUA := matcher.Normalize(req.UserAgent)
	key := ports.Key(normText, normUA, snap.Epoch)

	if cached, ok := s.cache.Get(key); ok {
		if cached.Epoch != snap.Epoch {
			// Key collisions across epochs are impossible by construction;
			// a mismatched epoch means the entry is unreadable garbage.
			telemetry.CacheLookups.WithLabelValues("corrupt").Inc()
			slog.Warn("Cache entry epoch mismatch, recomputing", "have", cached.Epoch, "want", snap.Epoch)
			s.cache.Delete(key)
		} else {
			telemetry.CacheLookups.WithLabelValues("hit").Inc()
			return refreshed(cached, req.SessionID), nil
		}
	} else {
		telemetry.CacheLookups.WithLabelValues("miss").Inc()
	}

	result := s.compute(ctx, req, snap, normText)
	s.cache.Put(key, result, s.cacheTTL)

	return refreshed(result, req.SessionID), nil
}

// compute runs the pipeline stages on a cache miss.
func (s *Service) compute(ctx context.Context, req domain.DiagnosticRequest, snap *domain.CatalogSnapshot, normText string) *domain.DiagnosticResult {
	var (
		textCands []domain.MatchCandidate
		signal    *domain.DeviceSignal
	)

	// Text matching and UA extraction are independent; run them in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		textCands = s.matcher.Match(normText, snap)
		return nil
	})
	g.Go(func() error {
		if req.UserAgent == "" {
			return nil
		}
		sig, err := s.extractor.Extract(gctx, req.UserAgent)
		if err != nil {
			// Recovered outcome: degrade to text-only scoring.
			slog.Debug("Signal extraction degraded to text-only", "error", err)
			return nil
		}
		signal = sig
		return nil
	})
	_ = g.Wait() // stages only report recovered outcomes

	fused := s.fuser.Fuse(textCands, signal, snap)

	var best *domain.MatchCandidate
	var alternatives []domain.MatchCandidate
	if len(fused) > 0 && fused[0].FusedScore >= s.tuning.ConfidenceFloor {
		b := fused[0]
		best = &b
		alternatives = dedupe(fused[1:])
	}

	category, severity := s.classifier.Classify(normText)

	deviceType := domain.CategoryNone
	var device *domain.DeviceRecord
	if best != nil {
		device = best.Device
	} else {
		// No confident device: a generic hardware class from the text still
		// allows an approximate category-level estimate.
		deviceType = matcher.DetectDeviceType(normText)
	}
	est := s.estimator.Estimate(device, deviceType, category, severity)

	result := &domain.DiagnosticResult{
		BestMatch:           best,
		AlternativeMatches:  alternatives,
		ProblemCategory:     category,
		Severity:            severity,
		PriceRange:          est.PriceRange,
		EstimatedTurnaround: est.Turnaround,
		Approximate:         est.Approximate || best == nil,
		OverallConfidence:   s.overallConfidence(best, normText, category),
		Epoch:               snap.Epoch,
		SessionID:           uuid.NewString(),
		Timestamp:           time.Now(),
	}

	telemetry.DiagnosesTotal.WithLabelValues(outcomeOf(result)).Inc()
	return result
}

// overallConfidence fuses the device and problem confidences into [0,1].
func (s *Service) overallConfidence(best *domain.MatchCandidate, normText string, category domain.ProblemCategory) float64 {
	deviceConf := 0.0
	if best != nil {
		deviceConf = best.FusedScore
	}
	problemConf := s.classifier.Confidence(normText, category)
	conf := deviceConfWeight*deviceConf + problemConfWeight*problemConf
	if conf > 1 {
		conf = 1
	}
	if conf < 0 {
		conf = 0
	}
	return conf
}

// dedupe drops repeated device ids, keeping the first (highest ranked) entry.
func dedupe(cands []domain.MatchCandidate) []domain.MatchCandidate {
	seen := make(map[string]bool, len(cands))
	out := cands[:0:0]
	for _, c := range cands {
		if seen[c.Device.ID] {
			continue
		}
		seen[c.Device.ID] = true
		out = append(out, c)
	}
	return out
}

// refreshed returns a per-request copy with a fresh timestamp. A
// caller-supplied session id overrides the stored one; otherwise the id
// generated at computation time stays, so repeated identical requests within
// the TTL return identical payloads apart from the timestamp.
func refreshed(r *domain.DiagnosticResult, sessionID string) *domain.DiagnosticResult {
	cp := *r
	cp.Timestamp = time.Now()
	if sessionID != "" {
		cp.SessionID = sessionID
	}
	return &cp
}

func outcomeOf(r *domain.DiagnosticResult) string {
	switch {
	case r.BestMatch == nil && r.ProblemCategory == domain.ProblemUnknown:
		return "unknown"
	case r.BestMatch == nil:
		return "unknown_device"
	case r.ProblemCategory == domain.ProblemUnknown:
		return "unknown_problem"
	default:
		return "resolved"
	}
}
