package middleware

import (
	"net/http"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/dto"
	"github.com/labstack/echo/v4"
)

func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	resp := dto.ErrorResponse{Message: err.Error()}

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			resp = dto.ErrorResponse{Message: m}
		case dto.ErrorResponse:
			resp = m
		}
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	_ = c.JSON(code, resp)
}
