package middleware

import (
	"net/http"

	"github.com/karunavilla/booking-system/internal/dto"
	"github.com/labstack/echo/v4"
)

// ErrorHandler turns every error that escapes a handler into the JSON
// error envelope the API promises.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
