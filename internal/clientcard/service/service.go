// Package service resolves CSPC client cards for the rest of the system.
//
// Lookups go cache-first, then to CSPC. Every failure (not found, timeout,
// outage, open circuit) is logged, counted and audited, then collapsed into an
// absent result for callers that only care whether data is available.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"escrow/internal/clientcard/client"
	"escrow/internal/clientcard/metrics"
	"escrow/internal/clientcard/models"
	"escrow/pkg/platform/audit"
	"escrow/pkg/platform/circuit"
	"escrow/pkg/platform/sentinel"
	"escrow/pkg/requestcontext"
)

// Client fetches client cards from CSPC.
type Client interface {
	Lookup(ctx context.Context, clientID string) (*models.ClientInformation, error)
}

// Cache stores recently fetched client cards.
type Cache interface {
	FindClient(ctx context.Context, clientID string) (*models.ClientInformation, error)
	SaveClient(ctx context.Context, record *models.ClientInformation) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service coordinates client card lookups with caching.
type Service struct {
	client  Client
	cache   Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditPublisher
}

type Option func(*Service)

func WithCache(cache Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

func New(c Client, opts ...Option) *Service {
	s := &Service{client: c}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Lookup returns the client card or the categorized lookup error.
func (s *Service) Lookup(ctx context.Context, clientID string) (*models.ClientInformation, error) {
	start := time.Now()

	if s.cache != nil {
		cached, err := s.cache.FindClient(ctx, clientID)
		switch {
		case err == nil:
			s.recordLookup("cache_hit", start)
			return cached, nil
		case !errors.Is(err, sentinel.ErrNotFound):
			// Cache is best effort: degrade to CSPC.
			s.logger.WarnContext(ctx, "client card cache read failed",
				"request_id", requestcontext.RequestID(ctx),
				"client_id", clientID,
				"error", err,
			)
		}
	}

	record, err := s.client.Lookup(ctx, clientID)
	if err != nil {
		s.recordLookup(string(client.GetCategory(err)), start)
		return nil, err
	}
	s.recordLookup("success", start)

	if record.ID != clientID {
		keyed := *record
		keyed.ID = clientID
		record = &keyed
	}
	if s.cache != nil {
		if err := s.cache.SaveClient(ctx, record); err != nil {
			s.logger.WarnContext(ctx, "client card cache write failed",
				"request_id", requestcontext.RequestID(ctx),
				"client_id", clientID,
				"error", err,
			)
		}
	}
	return record, nil
}

// ClientInformation is Lookup with failure collapsed into absence.
func (s *Service) ClientInformation(ctx context.Context, clientID string) (*models.ClientInformation, bool) {
	record, err := s.Lookup(ctx, clientID)
	if err != nil {
		category := client.GetCategory(err)
		s.logger.WarnContext(ctx, "client card unavailable",
			"request_id", requestcontext.RequestID(ctx),
			"client_id", clientID,
			"category", string(category),
			"retryable", client.IsRetryable(err),
			"error", err,
		)
		s.emitLookupFailed(ctx, clientID, category)
		return nil, false
	}
	if record == nil {
		return nil, false
	}
	return record, true
}

func (s *Service) emitLookupFailed(ctx context.Context, clientID string, category client.ErrorCategory) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Subject:   clientID,
		Action:    string(audit.EventClientLookupFailed),
		Source:    "CSPC",
		Reason:    string(category),
		RequestID: requestcontext.RequestID(ctx),
		Caller:    requestcontext.Caller(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"client_id", clientID,
			"error", err,
		)
	}
}

func (s *Service) recordLookup(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordLookup(outcome, start)
	}
}

// CircuitAuditHook records CSPC circuit transitions as operations audit events.
func CircuitAuditHook(publisher AuditPublisher, logger *slog.Logger) client.StateChangeHook {
	return func(ctx context.Context, change circuit.StateChange) {
		var action audit.AuditEvent
		switch {
		case change.Opened:
			action = audit.EventClientCircuitOpened
		case change.Closed:
			action = audit.EventClientCircuitClosed
		default:
			return
		}
		event := audit.Event{
			Timestamp: requestcontext.Now(ctx),
			Subject:   "cspc",
			Action:    string(action),
			Source:    "CSPC",
			RequestID: requestcontext.RequestID(ctx),
		}
		if err := publisher.Emit(ctx, event); err != nil && logger != nil {
			logger.ErrorContext(ctx, "failed to emit audit event",
				"action", event.Action,
				"error", err,
			)
		}
	}
}
