// Package client calls the CSPC client information HTTP API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"escrow/internal/clientcard/models"
	"escrow/pkg/platform/circuit"
	"escrow/pkg/platform/sentinel"
)

const maxResponseBytes = 1 << 20

// StateChangeHook is notified when the CSPC circuit opens or closes.
type StateChangeHook func(ctx context.Context, change circuit.StateChange)

// HTTPClient looks up client cards in CSPC over HTTP.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	breaker    *circuit.Breaker
	logger     *slog.Logger
	onChange   StateChangeHook
	now        func() time.Time
}

// Option configures the HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the transport (tests, custom TLS).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		h.httpClient = c
	}
}

// WithBreaker sets the circuit breaker guarding CSPC calls.
func WithBreaker(b *circuit.Breaker) Option {
	return func(h *HTTPClient) {
		h.breaker = b
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *HTTPClient) {
		h.logger = logger
	}
}

// WithStateChangeHook registers a callback for circuit transitions.
func WithStateChangeHook(hook StateChangeHook) Option {
	return func(h *HTTPClient) {
		h.onChange = hook
	}
}

func New(baseURL, apiKey string, timeout time.Duration, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{},
		breaker:    circuit.New("cspc"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// clientCardResponse is the CSPC wire shape.
type clientCardResponse struct {
	ID         string          `json:"id"`
	FirstName  *string         `json:"firstName"`
	MiddleName *string         `json:"middleName"`
	LastName   *string         `json:"lastName"`
	Inn        *string         `json:"inn"`
	Address    *models.Address `json:"address"`
}

// Lookup fetches the client card for clientID.
func (h *HTTPClient) Lookup(ctx context.Context, clientID string) (*models.ClientInformation, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, NewLookupError(ErrorInvalidRequest, clientID, "client id is required", nil)
	}
	if !h.breaker.Allow() {
		return nil, NewLookupError(ErrorCircuitOpen, clientID, "cspc circuit is open", sentinel.ErrCircuitOpen)
	}

	record, err := h.do(ctx, clientID)
	h.record(ctx, err)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (h *HTTPClient) do(ctx context.Context, clientID string) (*models.ClientInformation, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	endpoint := h.baseURL + "/api/v1/clients/" + url.PathEscape(clientID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewLookupError(ErrorInternal, clientID, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if h.apiKey != "" {
		req.Header.Set("X-API-Key", h.apiKey)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewLookupError(ErrorTimeout, clientID, "cspc request timed out", err)
		}
		return nil, NewLookupError(ErrorProviderOutage, clientID, "cspc request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, NewLookupError(ErrorProviderOutage, clientID, "read cspc response", err)
	}
	return parseClientCardResponse(clientID, resp.StatusCode, body, h.now())
}

func parseClientCardResponse(clientID string, status int, body []byte, checkedAt time.Time) (*models.ClientInformation, error) {
	switch {
	case status == http.StatusNotFound:
		return nil, NewLookupError(ErrorNotFound, clientID, "client card not found", sentinel.ErrNotFound)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, NewLookupError(ErrorAuthentication, clientID, fmt.Sprintf("cspc rejected credentials (%d)", status), nil)
	case status == http.StatusTooManyRequests:
		return nil, NewLookupError(ErrorRateLimited, clientID, "cspc rate limit exceeded", sentinel.ErrUnavailable)
	case status >= http.StatusInternalServerError:
		return nil, NewLookupError(ErrorProviderOutage, clientID, fmt.Sprintf("cspc returned %d", status), sentinel.ErrUnavailable)
	case status != http.StatusOK:
		return nil, NewLookupError(ErrorBadData, clientID, fmt.Sprintf("unexpected cspc status %d", status), nil)
	}

	var wire clientCardResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, NewLookupError(ErrorBadData, clientID, "decode cspc response", err)
	}

	// Records are keyed by the requested id; CSPC may echo a normalized form.
	return &models.ClientInformation{
		ID:         clientID,
		FirstName:  deref(wire.FirstName),
		MiddleName: deref(wire.MiddleName),
		LastName:   deref(wire.LastName),
		TaxID:      deref(wire.Inn),
		Address:    wire.Address,
		CheckedAt:  checkedAt,
	}, nil
}

// record feeds the outcome into the breaker. A 404 means CSPC answered, so it
// counts as a success; invalid requests never reach CSPC and are ignored.
func (h *HTTPClient) record(ctx context.Context, err error) {
	var change circuit.StateChange
	switch {
	case err == nil || GetCategory(err) == ErrorNotFound || GetCategory(err) == ErrorAuthentication:
		_, change = h.breaker.RecordSuccess()
	case countsAgainstCircuit(GetCategory(err)):
		_, change = h.breaker.RecordFailure()
	default:
		return
	}

	if !change.Opened && !change.Closed {
		return
	}
	if h.logger != nil {
		h.logger.WarnContext(ctx, "cspc circuit state changed",
			"circuit", h.breaker.Name(),
			"state", h.breaker.State().String(),
		)
	}
	if h.onChange != nil {
		h.onChange(ctx, change)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
