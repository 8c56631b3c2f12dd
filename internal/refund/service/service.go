// Package service fills depositor parties of a refund detail with CSPC
// client data.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	clientmodels "escrow/internal/clientcard/models"
	"escrow/internal/refund/mapper"
	"escrow/internal/refund/metrics"
	"escrow/internal/refund/models"
	"escrow/pkg/platform/audit"
	"escrow/pkg/requestcontext"
)

// ClientCardService resolves a client by id. A false result covers both
// "no such client" and a failed lookup.
type ClientCardService interface {
	ClientInformation(ctx context.Context, clientID string) (*clientmodels.ClientInformation, bool)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Enricher struct {
	clients ClientCardService
	mapper  *mapper.Mapper
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditPublisher
	tracer  trace.Tracer
}

type Option func(*Enricher)

func WithMapper(m *mapper.Mapper) Option {
	return func(e *Enricher) {
		e.mapper = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Enricher) {
		e.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(e *Enricher) {
		e.auditor = publisher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(e *Enricher) {
		e.tracer = tracer
	}
}

func New(clients ClientCardService, opts ...Option) *Enricher {
	e := &Enricher{clients: clients}
	for _, opt := range opts {
		opt(e)
	}
	if e.mapper == nil {
		e.mapper = mapper.New()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer("escrow/refund")
	}
	return e
}

// FillDepositorNames enriches the participants of the response's product
// instance in place and returns resp. Responses without a participant list
// come back untouched.
func (e *Enricher) FillDepositorNames(ctx context.Context, resp *models.DetailRefundAmountResponse) *models.DetailRefundAmountResponse {
	if resp == nil || resp.Data == nil || resp.Data.RetailEscrowProductInstance == nil {
		return resp
	}
	instance := resp.Data.RetailEscrowProductInstance
	if instance.Participants == nil {
		return resp
	}
	instance.Participants = e.EnrichParticipants(ctx, instance.Participants)
	return resp
}

// EnrichParticipants returns a new list in the same order. Depositor parties
// are overwritten with client data, or with the external system error when
// the client cannot be resolved. Other participants pass through as is.
// A nil list is returned as nil.
func (e *Enricher) EnrichParticipants(ctx context.Context, participants []*models.Participant) []*models.Participant {
	if participants == nil {
		return nil
	}

	ctx, span := e.tracer.Start(ctx, "refund.EnrichParticipants",
		trace.WithAttributes(attribute.Int("participants.count", len(participants))),
	)
	defer span.End()
	start := time.Now()

	var enriched, failed, skipped int
	result := make([]*models.Participant, 0, len(participants))
	for _, p := range participants {
		if !isDepositor(p) {
			result = append(result, p)
			continue
		}
		switch e.enrichDepositor(ctx, p) {
		case metrics.OutcomeEnriched:
			enriched++
		case metrics.OutcomeErrorFilled:
			failed++
		default:
			skipped++
		}
		result = append(result, p)
	}

	span.SetAttributes(
		attribute.Int("depositors.enriched", enriched),
		attribute.Int("depositors.error_filled", failed),
		attribute.Int("depositors.skipped", skipped),
	)
	if e.metrics != nil {
		e.metrics.ObservePass(start)
	}
	return result
}

func (e *Enricher) enrichDepositor(ctx context.Context, p *models.Participant) string {
	if p.Party == nil {
		e.logger.WarnContext(ctx, "depositor participant has no party",
			"request_id", requestcontext.RequestID(ctx),
		)
		e.record(metrics.OutcomeSkipped)
		return metrics.OutcomeSkipped
	}

	info, ok := e.clients.ClientInformation(ctx, p.Party.ID)
	if ok {
		e.mapper.UpdatePartyFromClientInfo(p.Party, info)
		e.record(metrics.OutcomeEnriched)
		return metrics.OutcomeEnriched
	}

	message := fmt.Sprintf(models.ExternalSystemErrorTemplate, models.SystemCSPC)
	e.mapper.SetPartyErrorData(p.Party, message)
	e.logger.InfoContext(ctx, "depositor filled with external system error",
		"request_id", requestcontext.RequestID(ctx),
		"party_id", p.Party.ID,
	)
	e.emitErrorFilled(ctx, p.Party.ID)
	e.record(metrics.OutcomeErrorFilled)
	return metrics.OutcomeErrorFilled
}

func (e *Enricher) emitErrorFilled(ctx context.Context, partyID string) {
	if e.auditor == nil {
		return
	}
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Subject:   partyID,
		Action:    string(audit.EventDepositorErrorFilled),
		Source:    models.SystemCSPC,
		RequestID: requestcontext.RequestID(ctx),
		Caller:    requestcontext.Caller(ctx),
	}
	if err := e.auditor.Emit(ctx, event); err != nil {
		e.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"party_id", partyID,
			"error", err,
		)
	}
}

func (e *Enricher) record(outcome string) {
	if e.metrics != nil {
		e.metrics.IncOutcome(outcome)
	}
}

func isDepositor(p *models.Participant) bool {
	return p != nil && strings.EqualFold(p.Type, models.PartyTypeDepositor)
}
