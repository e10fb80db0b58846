package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/rules"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

type ReservationHandler struct {
	svc service.ReservationService
}

func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/reservations")
	g.GET("", h.ListReservations)
	g.POST("", h.CreateReservation)
	g.GET("/:reservation_id", h.GetReservation)
	g.PUT("/:reservation_id", h.ReplaceReservation)
	g.PUT("/:reservation_id/status", h.UpdateStatus)
}

func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	var req dto.ReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	reservation, err := h.svc.CreateReservation(c.Request().Context(), req.Data)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.DataResponse[dto.ReservationResponse]{Data: dto.ToReservationResponse(reservation)})
}

func (h *ReservationHandler) GetReservation(c echo.Context) error {
	id, err := reservationID(c)
	if err != nil {
		return err
	}

	reservation, err := h.svc.GetReservation(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.DataResponse[dto.ReservationResponse]{Data: dto.ToReservationResponse(reservation)})
}

func (h *ReservationHandler) ReplaceReservation(c echo.Context) error {
	id, err := reservationID(c)
	if err != nil {
		return err
	}

	var req dto.ReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	reservation, err := h.svc.ReplaceReservation(c.Request().Context(), id, req.Data)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.DataResponse[dto.ReservationResponse]{Data: dto.ToReservationResponse(reservation)})
}

func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := reservationID(c)
	if err != nil {
		return err
	}

	var req dto.StatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Data == nil {
		return toHTTPError(&rules.ValidationError{Field: "data", Reason: rules.ReasonRequired, Message: "Must have data property."})
	}

	var status models.ReservationStatus
	if req.Data.Status != nil {
		status = models.ReservationStatus(fmt.Sprint(req.Data.Status))
	}

	reservation, err := h.svc.UpdateStatus(c.Request().Context(), id, status)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.DataResponse[dto.ReservationResponse]{Data: dto.ToReservationResponse(reservation)})
}

func (h *ReservationHandler) ListReservations(c echo.Context) error {
	filter := service.ListFilter{
		Date:         c.QueryParam("date"),
		MobileNumber: c.QueryParam("mobile_number"),
	}

	reservations, err := h.svc.ListReservations(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.DataResponse[[]dto.ReservationResponse]{Data: dto.ToReservationResponses(reservations)})
}

// reservationID parses the path id. Ids that cannot exist, including those
// beyond the range of a bigint column, are reported the same way as unknown ones.
func reservationID(c echo.Context) (uint, error) {
	raw := c.Param("reservation_id")
	id, err := strconv.ParseUint(raw, 10, 63)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Reservation_id %s does not exist.", raw))
	}
	return uint(id), nil
}

func toHTTPError(err error) error {
	if ve, ok := rules.AsValidationError(err); ok {
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Message: ve.Message, Code: ve.Reason, Field: ve.Field})
	}
	if rv, ok := rules.AsRuleViolation(err); ok {
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Message: rv.Message, Code: rv.Code})
	}
	switch {
	case errors.Is(err, service.ErrReservationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrReservationConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
}
