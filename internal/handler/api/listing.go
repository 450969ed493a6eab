package api

import (
	"errors"
	"net/http"

	reqdto "booking-engine/internal/handler/dto/request"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	idempotencyKeyHeader    = "Idempotency-Key"
	maxIdempotencyKeyLength = 255
)

var errIdempotencyKeyTooLong = errors.New("idempotency key too long")

type ListingHandler struct {
	q    queries.ListingQueries
	cmds commands.BookingCommands
}

func NewListingHandler(q queries.ListingQueries, cmds commands.BookingCommands) *ListingHandler {
	return &ListingHandler{q: q, cmds: cmds}
}

// @Summary Check availability
// @Description Advisory availability check for a listing and date range. Business outcomes are returned with 200.
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date, exclusive (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/listings/{id}/availability [get]
func (h *ListingHandler) Availability(c *gin.Context) {
	listingID, ok := parseID(c)
	if !ok {
		return
	}
	var q reqdto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "start and end are required", nil)
		return
	}
	r, err := q.ToDomain()
	if err != nil {
		abortInvalidRange(c, err)
		return
	}

	verdict, err := h.q.Availability(c.Request.Context(), listingID, r)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromVerdict(listingID, r, verdict))
}

// @Summary Quote price
// @Description Full price breakdown for a listing and date range. Unavailable ranges fail with a reason code.
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date, exclusive (YYYY-MM-DD)"
// @Success 200 {object} resdto.PriceResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/listings/{id}/price [get]
func (h *ListingHandler) Price(c *gin.Context) {
	listingID, ok := parseID(c)
	if !ok {
		return
	}
	var q reqdto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "start and end are required", nil)
		return
	}
	r, err := q.ToDomain()
	if err != nil {
		abortInvalidRange(c, err)
		return
	}

	breakdown, err := h.q.Price(c.Request.Context(), listingID, r)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPriceBreakdown(listingID, r, breakdown))
}

// @Summary Create booking
// @Description Re-validates and prices the range, then records a PENDING booking. Replays with the same Idempotency-Key return the original booking.
// @Tags listings
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param Idempotency-Key header string false "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateBookingRequest true "Booking dates"
// @Success 201 {object} resdto.CreateBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/listings/{id}/bookings [post]
func (h *ListingHandler) CreateBooking(c *gin.Context) {
	listingID, ok := parseID(c)
	if !ok {
		return
	}
	key := c.GetHeader(idempotencyKeyHeader)
	if len(key) > maxIdempotencyKeyLength {
		httperr.AbortWithError(c, http.StatusBadRequest, errIdempotencyKeyTooLong, "Idempotency-Key is too long", nil)
		return
	}
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	r, err := req.ToDomain()
	if err != nil {
		abortInvalidRange(c, err)
		return
	}

	result, err := h.cmds.CreateBooking(c.Request.Context(), commands.CreateBookingInput{
		ListingID:      listingID,
		Range:          r,
		IdempotencyKey: key,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.Header("Location", "/api/bookings/"+result.BookingID.String())
	if result.IsReplayed {
		c.Header("Idempotent-Replayed", "true")
	}
	c.JSON(http.StatusCreated, resdto.FromCreateBookingResult(result))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
