package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/service"
	"github.com/atlastravel/backend/internal/util"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func RegisterBookings(e *echo.Echo, auth *service.AuthService, bookings *service.BookingService) {
	handler := &BookingHandler{bookings: bookings}

	group := e.Group("/api/v1/bookings", RequireAuth(auth))
	group.POST("", handler.create)
	group.GET("", handler.list)
	group.GET("/:id", handler.get)
	group.PUT("/:id", handler.update)
	group.PATCH("/:id", handler.update)
	group.DELETE("/:id", handler.delete)
}

func (h *BookingHandler) create(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req struct {
		DestinationID   string  `json:"destination_id"`
		CheckInDate     string  `json:"check_in_date"`
		CheckOutDate    string  `json:"check_out_date"`
		NumberOfGuests  int     `json:"number_of_guests"`
		TotalAmount     float64 `json:"total_amount"`
		SpecialRequests *string `json:"special_requests"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	destID, err := uuid.Parse(req.DestinationID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("destination_id must be a valid UUID"))
	}
	checkIn, err := parseDate(req.CheckInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("check_in_date must be YYYY-MM-DD"))
	}
	checkOut, err := parseDate(req.CheckOutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("check_out_date must be YYYY-MM-DD"))
	}

	booking, err := h.bookings.Create(c.Request().Context(), &domain.Booking{
		UserID:          user.ID,
		DestinationID:   destID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		NumberOfGuests:  req.NumberOfGuests,
		TotalAmount:     req.TotalAmount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Data("booking", buildBookingResponse(booking)))
}

func (h *BookingHandler) list(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	limit, offset := parsePagination(c, 20, 0)
	bookings, err := h.bookings.ListByUser(c.Request().Context(), user.ID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list bookings"))
	}

	payload := make([]util.Envelope, 0, len(bookings))
	for i := range bookings {
		payload = append(payload, buildBookingResponse(&bookings[i]))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"bookings": payload,
		"meta": util.Envelope{
			"limit":  limit,
			"offset": offset,
			"count":  len(payload),
		},
	})
}

func (h *BookingHandler) get(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid booking id"))
	}

	booking, err := h.bookings.Get(c.Request().Context(), id, user.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("booking", buildBookingResponse(booking)))
}

func (h *BookingHandler) update(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid booking id"))
	}

	var req struct {
		CheckInDate     *string  `json:"check_in_date"`
		CheckOutDate    *string  `json:"check_out_date"`
		NumberOfGuests  *int     `json:"number_of_guests"`
		TotalAmount     *float64 `json:"total_amount"`
		Status          *string  `json:"status"`
		SpecialRequests *string  `json:"special_requests"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	update := domain.BookingUpdate{
		NumberOfGuests:  req.NumberOfGuests,
		TotalAmount:     req.TotalAmount,
		SpecialRequests: req.SpecialRequests,
	}
	if req.CheckInDate != nil {
		checkIn, err := parseDate(*req.CheckInDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("check_in_date must be YYYY-MM-DD"))
		}
		update.CheckInDate = &checkIn
	}
	if req.CheckOutDate != nil {
		checkOut, err := parseDate(*req.CheckOutDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("check_out_date must be YYYY-MM-DD"))
		}
		update.CheckOutDate = &checkOut
	}
	if req.Status != nil {
		status := domain.BookingStatus(*req.Status)
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, util.Error("invalid booking status"))
		}
		update.Status = &status
	}

	booking, err := h.bookings.Update(c.Request().Context(), id, user.ID, update)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("booking", buildBookingResponse(booking)))
}

func (h *BookingHandler) delete(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid booking id"))
	}

	if err := h.bookings.Delete(c.Request().Context(), id, user.ID); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, util.Error("booking not found"))
	case errors.Is(err, service.ErrDestinationNotFound):
		return c.JSON(http.StatusBadRequest, util.Error("destination not found"))
	case errors.Is(err, service.ErrBookingValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("internal error"))
	}
}

func buildBookingResponse(booking *domain.Booking) util.Envelope {
	if booking == nil {
		return util.Envelope{}
	}
	resp := util.Envelope{
		"id":                booking.ID,
		"user_id":           booking.UserID,
		"destination_id":    booking.DestinationID,
		"check_in_date":     booking.CheckInDate.Format("2006-01-02"),
		"check_out_date":    booking.CheckOutDate.Format("2006-01-02"),
		"number_of_guests":  booking.NumberOfGuests,
		"total_amount":      booking.TotalAmount,
		"status":            booking.Status,
		"booking_reference": booking.Reference,
		"created_at":        booking.CreatedAt,
		"updated_at":        booking.UpdatedAt,
	}
	if booking.SpecialRequests != nil {
		resp["special_requests"] = *booking.SpecialRequests
	}
	return resp
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}
