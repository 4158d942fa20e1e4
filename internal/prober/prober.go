package prober

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-dashboard/internal/domain"
	"github.com/samvad-hq/samvad-dashboard/internal/logger"
	"github.com/samvad-hq/samvad-dashboard/internal/metrics"
	"github.com/samvad-hq/samvad-dashboard/pkg/catalog"
	"github.com/samvad-hq/samvad-dashboard/pkg/httpclient"
	"github.com/samvad-hq/samvad-dashboard/pkg/publishers"
	"golang.org/x/time/rate"
)

// Service sends catalog requests through the HTTP client and publishes changed outcomes.
type Service struct {
	client    *httpclient.Client
	publisher EventPublisher
	deduper   Deduper
	limiter   *rate.Limiter
	metrics   *metrics.Metrics
	log       logger.Logger
}

// Options carries the optional collaborators of a Service.
type Options struct {
	Publisher     EventPublisher
	Deduper       Deduper
	RatePerSecond float64
	Metrics       *metrics.Metrics
	Log           logger.Logger
}

// NewService wires a prober around client.
func NewService(client *httpclient.Client, opts Options) *Service {
	log := opts.Log
	if log == nil {
		log = logger.NopLogger{}
	}
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	return &Service{
		client:    client,
		publisher: opts.Publisher,
		deduper:   opts.Deduper,
		limiter:   rate.NewLimiter(limit, 1),
		metrics:   opts.Metrics,
		log:       log,
	}
}

// Run executes one probe pass over entries. Request failures are outcomes, not errors;
// the returned error aggregates publish and storage failures.
func (s *Service) Run(ctx context.Context, entries []catalog.Entry) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("prober service is not initialized")
	}
	if len(entries) == 0 {
		return fmt.Errorf("no requests configured for probing")
	}

	if errs := s.runAll(ctx, entries); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, entries []catalog.Entry) []error {
	var errs []error
	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			break
		}
		if err := s.runEntry(ctx, e); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("probe request failed", "probe_error", map[string]any{
				"request_id": e.ID,
				"error":      err.Error(),
			})
		}
	}
	return errs
}

func (s *Service) runEntry(ctx context.Context, e catalog.Entry) error {
	outcome := s.Probe(ctx, e)
	if !outcome.OK {
		s.log.WarnObj("probe request returned failure", "probe_outcome", map[string]any{
			"request_id": outcome.RequestID,
			"status":     outcome.Status,
			"message":    outcome.Message,
		})
	}

	fingerprint := outcome.Fingerprint()
	if !s.changed(outcome.RequestID, fingerprint) {
		s.log.DebugObj("probe outcome unchanged", "probe_outcome", map[string]any{
			"request_id": outcome.RequestID,
		})
		return nil
	}

	if s.publisher != nil {
		_, err := s.publisher.Publish(ctx, publishers.NewEvent(outcome))
		s.metrics.ObservePublish(err)
		if err != nil {
			return fmt.Errorf("publish outcome %s: %w", e.ID, err)
		}
	}

	if s.deduper != nil {
		if err := s.deduper.RecordFingerprint(outcome.RequestID, fingerprint); err != nil {
			return fmt.Errorf("record outcome %s: %w", e.ID, err)
		}
	}
	return nil
}

// Probe sends one catalog entry and captures the result as an Outcome.
func (s *Service) Probe(ctx context.Context, e catalog.Entry) domain.Outcome {
	req := e.Request()
	outcome := domain.Outcome{
		RequestID: e.ID,
		Method:    req.Method.String(),
		URL:       s.client.BaseAddress() + req.Endpoint,
	}

	start := time.Now()
	payload, err := httpclient.SendRequest[any](ctx, s.client, req)
	elapsed := time.Since(start)

	if err != nil {
		outcome.Message = err.Error()
		var reqErr *httpclient.RequestError
		if errors.As(err, &reqErr) {
			outcome.Status = reqErr.Status
			outcome.Kind = reqErr.Kind.String()
		}
	} else {
		outcome.OK = true
		outcome.Payload = payload
	}

	s.metrics.ObserveOutcome(outcome, elapsed)
	return outcome
}

// changed reports whether fingerprint differs from the stored one. Lookup errors count as changed.
func (s *Service) changed(id, fingerprint string) bool {
	if s.deduper == nil {
		return true
	}
	last, found, err := s.deduper.LastFingerprint(id)
	if err != nil {
		s.log.WarnObj("outcome lookup failed; publishing anyway", "probe_store_error", map[string]any{
			"request_id": id,
			"error":      err.Error(),
		})
		return true
	}
	return !found || last != fingerprint
}
