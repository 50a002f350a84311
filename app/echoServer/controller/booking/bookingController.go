package booking

import (
	"log/slog"
	"net/http"
	"strconv"

	"carrental/app/echoServer/jwtx"
	bs "carrental/service/booking"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/bookings
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid := jwtx.UserID(c)

	b, err := h.Svc.Create(c.Request().Context(), uid, req.CarID, req.StartDate, req.EndDate)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrInvalidDate:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date"})
		case bs.ErrInvalidDateRange:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "end date must be after start date"})
		case bs.ErrPastStartDate:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "start date cannot be in the past"})
		case bs.ErrCarNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		case bs.ErrDateUnavailable:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "car is not available for the selected dates"})
		default:
			h.Log.Error("booking create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// GET /v1/bookings/my
func (h *Controller) My(c echo.Context) error {
	uid := jwtx.UserID(c)
	rows, err := h.Svc.MyBookings(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("booking history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/bookings/:id/complete
func (h *Controller) Complete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req CompleteBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid := jwtx.UserID(c)

	b, err := h.Svc.CompleteDetails(c.Request().Context(), uid, id, bs.ContactDetails{
		PhoneNumber:     req.PhoneNumber,
		DriversLicense:  req.DriversLicenseNumber,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		EmergencyName:   req.EmergencyContactName,
		EmergencyPhone:  req.EmergencyContactPhone,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrBookingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		case bs.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case bs.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid contact details"})
		default:
			h.Log.Error("booking complete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// PATCH /v1/bookings/:id/status  (admin)
func (h *Controller) ChangeStatus(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req ChangeStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}

	b, err := h.Svc.ChangeStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrBookingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		case bs.ErrBadStatus:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status"})
		case bs.ErrDateUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "dates conflict with another active booking"})
		default:
			h.Log.Error("booking status", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// GET /v1/bookings  (admin)
func (h *Controller) ListAll(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	rows, err := h.Svc.ListAll(c.Request().Context())
	if err != nil {
		h.Log.Error("booking list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
