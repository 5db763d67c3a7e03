package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/karunavilla/booking-system/internal/dto"
	"github.com/karunavilla/booking-system/internal/interval"
	"github.com/karunavilla/booking-system/internal/repository"
	"github.com/karunavilla/booking-system/internal/service"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	bookings := e.Group("/api/v1/bookings")
	bookings.POST("", h.CreateBooking)
	bookings.GET("", h.ListBookings)
	bookings.GET("/:id", h.GetBooking)
	bookings.PUT("/:id", h.UpdateBooking)
	bookings.POST("/:id/cancel", h.CancelBooking)
	bookings.DELETE("/:id", h.DeleteBooking)

	e.GET("/api/v1/rooms/available", h.GetAvailableRooms)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.FullName == "" || req.MobileNumber == "" || req.RoomNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "full_name, mobile_number and room_number are required")
	}

	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "check_in must be a YYYY-MM-DD date")
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "check_out must be a YYYY-MM-DD date")
	}

	in := service.CreateBookingInput{
		FullName:      req.FullName,
		Email:         req.Email,
		MobileNumber:  req.MobileNumber,
		RoomNumber:    req.RoomNumber,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		RatePerNight:  req.RatePerNight,
		Source:        req.Source,
		InternalNotes: req.InternalNotes,
		AdvanceAmount: req.AdvanceAmount,
		PaymentMethod: req.PaymentMethod,
	}
	for _, charge := range req.AdditionalCharges {
		in.AdditionalCharges = append(in.AdditionalCharges, service.Charge{
			Category: charge.Category,
			Amount:   charge.Amount,
		})
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), in)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingDetail(booking))
}

func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	in := service.UpdateBookingInput{
		FullName:      req.FullName,
		Email:         req.Email,
		MobileNumber:  req.MobileNumber,
		RoomNumber:    req.RoomNumber,
		RatePerNight:  req.RatePerNight,
		Source:        req.Source,
		InternalNotes: req.InternalNotes,
		AdvanceAmount: req.AdvanceAmount,
		PaymentMethod: req.PaymentMethod,
	}
	if req.CheckIn != nil {
		t, err := parseDate(*req.CheckIn)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "check_in must be a YYYY-MM-DD date")
		}
		in.CheckIn = &t
	}
	if req.CheckOut != nil {
		t, err := parseDate(*req.CheckOut)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "check_out must be a YYYY-MM-DD date")
		}
		in.CheckOut = &t
	}
	if req.AdditionalCharges != nil {
		in.AdditionalCharges = make([]service.Charge, 0, len(req.AdditionalCharges))
		for _, charge := range req.AdditionalCharges {
			in.AdditionalCharges = append(in.AdditionalCharges, service.Charge{
				Category: charge.Category,
				Amount:   charge.Amount,
			})
		}
	}

	booking, err := h.svc.UpdateBooking(c.Request().Context(), id, in)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingDetail(booking))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return err
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingDetail(booking))
}

func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteBooking(c.Request().Context(), id); err != nil {
		return mapServiceError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return err
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingDetail(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	bookings, err := h.svc.ListBookings(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}

	resp := make([]dto.BookingSummaryResponse, len(bookings))
	for i := range bookings {
		resp[i] = dto.ToBookingSummary(&bookings[i])
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) GetAvailableRooms(c echo.Context) error {
	start, err := parseDate(c.QueryParam("start"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start must be a YYYY-MM-DD date")
	}
	end, err := parseDate(c.QueryParam("end"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "end must be a YYYY-MM-DD date")
	}
	if !end.After(start) {
		return echo.NewHTTPError(http.StatusBadRequest, "end must be after start")
	}

	rooms, err := h.svc.AvailableRooms(c.Request().Context(), start, end)
	if err != nil {
		return mapServiceError(err)
	}

	resp := make([]dto.RoomResponse, len(rooms))
	for i := range rooms {
		resp[i] = dto.ToRoomResponse(&rooms[i])
	}

	return c.JSON(http.StatusOK, resp)
}

func bookingID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}
	return uint(id), nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return interval.NormalizeDay(t), nil
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRoomUnavailable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidStay):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrStoreUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
