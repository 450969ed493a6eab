//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/handler"
	"booking-engine/internal/handler/api"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/queries"
	"booking-engine/tests/common/builder"
	"booking-engine/tests/common/httptest"
	commandsmock "booking-engine/tests/mock/commands"
	queriesmock "booking-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockBookingQueries
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)

	handler.NewRouter(s.router, config.NewTestConfig(),
		api.NewListingHandler(queriesmock.NewMockListingQueries(s.mockCtrl), commandsmock.NewMockBookingCommands(s.mockCtrl)),
		api.NewBookingHandler(s.mockQueries))
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) TestGet() {
	createdAt := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	res := booking.ReconstructReservation(uuid.New(), uuid.New(),
		builder.Range(builder.Date(2025, 3, 8), builder.Date(2025, 3, 15)),
		booking.StatusConfirmed,
		booking.Quote{Currency: "AED", TotalPrice: decimal.NewFromInt(900), GrandTotal: decimal.NewFromInt(900)},
		createdAt)
	url := "/api/bookings/" + res.ID().String()

	s.Run("success: returns 200 OK with the snapshot", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), res.ID()).Return(res, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil)

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(res.ID().String(), body["id"])
		s.Equal("CONFIRMED", body["status"])
		s.Equal("2025-03-08", body["startDate"])
		s.Equal("2025-03-15", body["endDate"])
		s.EqualValues(7, body["days"])

		quote, ok := body["quote"].(map[string]any)
		s.Require().True(ok)
		s.Equal("900", quote["grandTotal"])
	})

	s.Run("error: 404 Not Found for missing booking", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), res.ID()).Return(nil, errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/invalid-uuid", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})
}

func (s *BookingHandlerTestSuite) TestCancellationFee() {
	id := uuid.New()
	at := time.Date(2025, 3, 6, 12, 0, 0, 0, time.UTC)
	freeUntil := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

	view := &queries.CancellationFeeView{
		BookingID: id,
		Currency:  "AED",
		At:        at,
		Quote: booking.CancellationQuote{
			Policy:    booking.CancellationFlexible,
			Free:      true,
			Fee:       decimal.Zero,
			FreeUntil: &freeUntil,
		},
	}

	s.Run("success: explicit instant", func() {
		s.mockQueries.EXPECT().CancellationFee(gomock.Any(), id, at).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/api/bookings/"+id.String()+"/cancellation-fee?at=2025-03-06T12:00:00Z", nil)

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("FLEXIBLE", body["policy"])
		s.Equal(true, body["free"])
		s.Equal("0", body["fee"])
		s.Equal("2025-03-07T10:00:00Z", body["freeUntil"])
	})

	s.Run("success: instant defaults to now", func() {
		s.mockQueries.EXPECT().CancellationFee(gomock.Any(), id, time.Time{}).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/"+id.String()+"/cancellation-fee", nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 400 Bad Request for malformed instant", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/api/bookings/"+id.String()+"/cancellation-fee?at=tomorrow", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "RFC 3339")
	})

	s.Run("error: 409 Conflict once the booking is no longer cancellable", func() {
		s.mockQueries.EXPECT().CancellationFee(gomock.Any(), id, gomock.Any()).
			Return(nil, errs.ErrBookingNotCancellable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/"+id.String()+"/cancellation-fee", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "no longer be cancelled")
	})
}
