package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"escrow/internal/platform/metrics"
	"escrow/internal/platform/middleware"
	"escrow/internal/refund/models"
	dErrors "escrow/pkg/domain-errors"
	"escrow/pkg/platform/httputil"
)

const maxBodyBytes = 1 << 20

// Service enriches detail refund amount responses.
type Service interface {
	FillDepositorNames(ctx context.Context, resp *models.DetailRefundAmountResponse) *models.DetailRefundAmountResponse
}

type Handler struct {
	logger       *slog.Logger
	service      Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
	validate     *validator.Validate
}

// New creates a refund Handler. A nil jwtValidator leaves the routes open.
func New(
	service Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		metrics:      metrics,
		jwtValidator: jwtValidator,
		validate:     newValidator(),
	}
}

func (h *Handler) Register(r chi.Router) {
	refundRouter := chi.NewRouter()
	refundRouter.Use(middleware.Recovery(h.logger))
	refundRouter.Use(middleware.RequestID)
	refundRouter.Use(middleware.Logger(h.logger))
	refundRouter.Use(middleware.Timeout(30 * time.Second))
	refundRouter.Use(middleware.ContentTypeJSON)
	refundRouter.Use(middleware.LatencyMiddleware(h.metrics))
	if h.jwtValidator != nil {
		refundRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	}
	refundRouter.Post("/refunds/detail/enrich", h.handleEnrich)

	r.Mount("/", refundRouter)
}

// handleEnrich fills depositor names of the posted detail refund amount response.
func (h *Handler) handleEnrich(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.DetailRefundAmountResponse
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid enrich request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.logger.WarnContext(ctx, "enrich request failed validation",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, validationError(err))
		return
	}

	resp := h.service.FillDepositorNames(ctx, &req)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "invalid request")
	}
	fe := fieldErrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "DetailRefundAmountResponse.")
	switch fe.Tag() {
	case "required":
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s is required", field))
	case "len":
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be exactly %s characters", field, fe.Param()))
	default:
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s is invalid", field))
	}
}
