package handler

import (
	"net/http"

	"github.com/karunavilla/booking-system/internal/dto"
	"github.com/karunavilla/booking-system/internal/models"
	"github.com/karunavilla/booking-system/internal/repository"
	"github.com/labstack/echo/v4"
)

type RoomHandler struct {
	roomRepo repository.RoomRepository
}

func NewRoomHandler(roomRepo repository.RoomRepository) *RoomHandler {
	return &RoomHandler{roomRepo: roomRepo}
}

func (h *RoomHandler) RegisterRoutes(e *echo.Echo) {
	rooms := e.Group("/api/v1/rooms")
	rooms.POST("", h.CreateRoom)
	rooms.GET("", h.ListRooms)
}

func (h *RoomHandler) CreateRoom(c echo.Context) error {
	var req dto.CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.RoomNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "room_number is required")
	}
	if req.PricePerNight.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "price_per_night cannot be negative")
	}

	room := &models.Room{
		RoomNumber:    req.RoomNumber,
		RoomName:      req.RoomName,
		Category:      req.Category,
		PricePerNight: req.PricePerNight,
		Status:        models.RoomAvailable,
	}
	if err := h.roomRepo.Create(c.Request().Context(), room); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "room number already exists")
	}

	return c.JSON(http.StatusCreated, dto.ToRoomResponse(room))
}

func (h *RoomHandler) ListRooms(c echo.Context) error {
	rooms, err := h.roomRepo.FindAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.RoomResponse, len(rooms))
	for i := range rooms {
		resp[i] = dto.ToRoomResponse(&rooms[i])
	}

	return c.JSON(http.StatusOK, resp)
}
