package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler-mocks.go -package=mocks Service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clientmodels "escrow/internal/clientcard/models"
	jwttoken "escrow/internal/jwt_token"
	"escrow/internal/refund/handler/mocks"
	"escrow/internal/refund/models"
	"escrow/internal/refund/service"
	servicemocks "escrow/internal/refund/service/mocks"
	"escrow/pkg/requestcontext"
	"escrow/pkg/testutil"
)

const enrichPath = "/refunds/detail/enrich"

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, discardLogger(), nil, nil).Register(s.router)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func detailRequest() *models.DetailRefundAmountResponse {
	return &models.DetailRefundAmountResponse{Data: &models.Data{
		RetailEscrowProductInstance: &models.RetailEscrowProductInstance{
			ID:           "p-1",
			RefundAmount: decimal.RequireFromString("1000.25"),
			Currency:     "RUB",
			Participants: []*models.Participant{
				{Type: "depositor", Party: &models.Party{ID: "42"}},
				{Type: "bank", Party: &models.Party{ID: "1"}},
			},
		},
	}}
}

func (s *HandlerSuite) TestEnrichReturnsServiceResult() {
	s.service.EXPECT().FillDepositorNames(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, resp *models.DetailRefundAmountResponse) *models.DetailRefundAmountResponse {
			s.Require().NotNil(resp.Data)
			s.Equal("p-1", resp.Data.RetailEscrowProductInstance.ID)
			resp.Data.RetailEscrowProductInstance.Participants[0].Party.DepositorName = "Petrov Ivan"
			return resp
		})

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, enrichPath, detailRequest()))

	s.Equal(http.StatusOK, rr.Code)
	s.Equal("application/json", rr.Header().Get("Content-Type"))
	s.NotEmpty(rr.Header().Get("X-Request-ID"))
	got := testutil.UnmarshalResponse[models.DetailRefundAmountResponse](s.T(), rr)
	instance := got.Data.RetailEscrowProductInstance
	s.Require().Len(instance.Participants, 2)
	s.Equal("Petrov Ivan", instance.Participants[0].Party.DepositorName)
	s.True(decimal.RequireFromString("1000.25").Equal(instance.RefundAmount))
}

func (s *HandlerSuite) TestEnrichPropagatesRequestContext() {
	s.service.EXPECT().FillDepositorNames(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, resp *models.DetailRefundAmountResponse) *models.DetailRefundAmountResponse {
			s.Equal("req-123", requestcontext.RequestID(ctx))
			_, hasDeadline := ctx.Deadline()
			s.True(hasDeadline)
			return resp
		})

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, enrichPath, detailRequest())
	req.Header.Set("X-Request-ID", "req-123")
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	s.Equal("req-123", rr.Header().Get("X-Request-ID"))
}

func (s *HandlerSuite) TestEnrichRejectsInvalidRequests() {
	tests := []struct {
		name        string
		body        string
		wantCode    string
		wantMessage string
	}{
		{
			name:     "malformed JSON",
			body:     `{"data":`,
			wantCode: "bad_request",
		},
		{
			name:        "missing data",
			body:        `{}`,
			wantCode:    "validation_error",
			wantMessage: "data is required",
		},
		{
			name:        "missing product instance",
			body:        `{"data":{}}`,
			wantCode:    "validation_error",
			wantMessage: "data.retailEscrowProductInstance is required",
		},
		{
			name:        "participant without type",
			body:        `{"data":{"retailEscrowProductInstance":{"id":"p-1","refundAmount":"1","participants":[{"party":{"id":"42"}}]}}}`,
			wantCode:    "validation_error",
			wantMessage: "data.retailEscrowProductInstance.participants[0].type is required",
		},
		{
			name:        "bad currency",
			body:        `{"data":{"retailEscrowProductInstance":{"id":"p-1","refundAmount":"1","currency":"RUBLE"}}}`,
			wantCode:    "validation_error",
			wantMessage: "data.retailEscrowProductInstance.currency must be exactly 3 characters",
		},
		{
			name:     "bad refund amount",
			body:     `{"data":{"retailEscrowProductInstance":{"id":"p-1","refundAmount":"abc"}}}`,
			wantCode: "bad_request",
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, enrichPath, tt.body))

			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, tt.wantCode)
			if tt.wantMessage != "" {
				body := testutil.UnmarshalResponse[map[string]string](s.T(), rr)
				s.Equal(tt.wantMessage, (*body)["error_description"])
			}
		})
	}
}

func (s *HandlerSuite) TestEnrichAcceptsMissingParticipants() {
	s.service.EXPECT().FillDepositorNames(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, resp *models.DetailRefundAmountResponse) *models.DetailRefundAmountResponse {
			s.Nil(resp.Data.RetailEscrowProductInstance.Participants)
			return resp
		})

	body := `{"data":{"retailEscrowProductInstance":{"id":"p-1","refundAmount":"10"}}}`
	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, enrichPath, body))

	s.Equal(http.StatusOK, rr.Code)
}

func TestEnrichRequiresBearerToken(t *testing.T) {
	jwtService := jwttoken.NewJWTService("test-signing-key", "escrow")
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	router := chi.NewRouter()
	New(svc, discardLogger(), nil, jwtService).Register(router)

	testutil.Given(t, "no Authorization header", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, enrichPath, detailRequest()))

		testutil.Then(t, "the request is rejected", func(t *testing.T) {
			testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
		})
	})

	testutil.Given(t, "a valid service token", func(t *testing.T) {
		token, err := jwtService.GenerateServiceToken("refund-ui", time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		svc.EXPECT().FillDepositorNames(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, resp *models.DetailRefundAmountResponse) *models.DetailRefundAmountResponse {
				if got := requestcontext.Caller(ctx); got != "refund-ui" {
					t.Errorf("caller = %q, want refund-ui", got)
				}
				return resp
			})

		req := testutil.NewJSONRequest(t, http.MethodPost, enrichPath, detailRequest())
		req.Header.Set("Authorization", "Bearer "+token)
		rr := testutil.DoRequest(router, req)

		testutil.Then(t, "the caller is passed to the service", func(t *testing.T) {
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
		})
	})
}

func TestEnrichEndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	clients := servicemocks.NewMockClientCardService(ctrl)
	clients.EXPECT().ClientInformation(gomock.Any(), "42").Return(&clientmodels.ClientInformation{
		ID:        "42",
		FirstName: "Ivan",
		LastName:  "Petrov",
		TaxID:     "123",
		Address:   &clientmodels.Address{Full: "Moscow, Tverskaya 1"},
	}, true)
	clients.EXPECT().ClientInformation(gomock.Any(), "77").Return(nil, false)

	router := chi.NewRouter()
	New(service.New(clients), discardLogger(), nil, nil).Register(router)

	body := `{"data":{"retailEscrowProductInstance":{"id":"p-1","refundAmount":"99.90","currency":"RUB","participants":[` +
		`{"type":"Depositor","party":{"id":"42"}},` +
		`{"type":"beneficiary","party":{"id":"5","firstName":"Olga"}},` +
		`{"type":"depositor","party":{"id":"77"}}]}}}`
	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, enrichPath, body))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	got := testutil.UnmarshalResponse[models.DetailRefundAmountResponse](t, rr)
	participants := got.Data.RetailEscrowProductInstance.Participants
	if len(participants) != 3 {
		t.Fatalf("participants = %d, want 3", len(participants))
	}

	errText := "Failed to get data from external system CSPC"
	want := []models.Party{
		{ID: "42", DepositorName: "Petrov Ivan", FirstName: "Ivan", LastName: "Petrov", TaxID: "123", Address: "Moscow, Tverskaya 1"},
		{ID: "5", FirstName: "Olga"},
		{ID: "77", DepositorName: errText, FirstName: errText, MiddleName: errText, LastName: errText, TaxID: errText},
	}
	for i, p := range participants {
		if *p.Party != want[i] {
			t.Errorf("participant %d party = %+v, want %+v", i, *p.Party, want[i])
		}
	}
}
