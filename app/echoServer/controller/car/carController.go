package car

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"carrental/app/echoServer/jwtx"
	carsvc "carrental/service/car"
	"carrental/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxImageSize = 5 << 20 // 5MB

type Controller struct {
	Svc       carsvc.Service
	V         *validator.Validate
	Log       *slog.Logger
	UploadDir string
}

// GET /v1/cars
func (h *Controller) List(c echo.Context) error {
	f, err := parseFilter(c)
	if err != nil {
		return err
	}

	page, err := h.Svc.List(c.Request().Context(), f)
	if err != nil {
		h.Log.Error("car list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, page)
}

// GET /v1/cars/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	car, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if carsvc.Code(err) == carsvc.ErrCarNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		}
		h.Log.Error("car detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, car)
}

// POST /v1/admin/cars  (admin)
func (h *Controller) Create(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req CreateCarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	car := model.Car{
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		Class:          req.Class,
		FuelType:       req.FuelType,
		Drive:          req.Drive,
		Transmission:   req.Transmission,
		Cylinders:      req.Cylinders,
		Displacement:   req.Displacement,
		CityMpg:        req.CityMpg,
		HighwayMpg:     req.HighwayMpg,
		CombinationMpg: req.CombinationMpg,
		PricePerDay:    req.PricePerDay,
		Available:      true,
		Description:    req.Description,
		Location:       req.Location,
		Images:         req.Images,
	}
	if car.PricePerDay == 0 {
		car.PricePerDay = 50.0
	}
	if req.Available != nil {
		car.Available = *req.Available
	}

	if err := h.Svc.Create(c.Request().Context(), &car); err != nil {
		if carsvc.Code(err) == carsvc.ErrBadInput {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		}
		h.Log.Error("car create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"car": car})
}

// PATCH /v1/admin/cars/:id  (admin)
func (h *Controller) Update(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateCarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	car, err := h.Svc.Update(c.Request().Context(), id, carsvc.CarUpdate{
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		Class:          req.Class,
		FuelType:       req.FuelType,
		Drive:          req.Drive,
		Transmission:   req.Transmission,
		Cylinders:      req.Cylinders,
		Displacement:   req.Displacement,
		CityMpg:        req.CityMpg,
		HighwayMpg:     req.HighwayMpg,
		CombinationMpg: req.CombinationMpg,
		PricePerDay:    req.PricePerDay,
		Available:      req.Available,
		Description:    req.Description,
		Location:       req.Location,
		Images:         req.Images,
	})
	if err != nil {
		switch carsvc.Code(err) {
		case carsvc.ErrCarNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		case carsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("car update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"car": car})
}

// DELETE /v1/admin/cars/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch carsvc.Code(err) {
		case carsvc.ErrCarNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		case carsvc.ErrCarInUse:
			return c.JSON(http.StatusConflict, echo.Map{"message": "car has bookings"})
		default:
			h.Log.Error("car delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// POST /v1/admin/cars/:id/images  (admin, multipart)
func (h *Controller) UploadImage(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "no image file provided"})
	}
	if fh.Size > maxImageSize {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "file size must be less than 5MB"})
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "only JPEG, PNG and WebP are allowed"})
	}

	src, err := fh.Open()
	if err != nil {
		h.Log.Error("image open", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	defer src.Close()

	dir := filepath.Join(h.UploadDir, "cars")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		h.Log.Error("image dir", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	name := strconv.FormatInt(id, 10) + "-" + uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		h.Log.Error("image create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		h.Log.Error("image write", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	car, err := h.Svc.AppendImage(c.Request().Context(), id, "/uploads/cars/"+name)
	if err != nil {
		if carsvc.Code(err) == carsvc.ErrCarNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		}
		h.Log.Error("image append", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"car": car})
}

// POST /v1/admin/cars/import  (admin)
func (h *Controller) Import(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req ImportCarsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}

	cars, err := h.Svc.ImportSpecs(c.Request().Context(), req.Make, req.Model, req.Year, req.PricePerDay)
	if err != nil {
		switch carsvc.Code(err) {
		case carsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "make or model required"})
		case carsvc.ErrNoSpecs:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no matching vehicles"})
		default:
			h.Log.Error("car import", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"imported": len(cars), "cars": cars})
}

func parseFilter(c echo.Context) (model.CarFilter, error) {
	f := model.CarFilter{
		Query:        c.QueryParam("q"),
		Make:         c.QueryParam("make"),
		Model:        c.QueryParam("model"),
		Class:        c.QueryParam("class"),
		FuelType:     c.QueryParam("fuel_type"),
		Drive:        c.QueryParam("drive"),
		Transmission: c.QueryParam("transmission"),
		SortBy:       c.QueryParam("sort_by"),
		SortOrder:    c.QueryParam("sort_order"),
		Limit:        10,
	}

	var err error
	if f.Limit, err = intParam(c, "limit", 10); err != nil {
		return f, err
	}
	if f.Offset, err = intParam(c, "offset", 0); err != nil {
		return f, err
	}
	for name, dst := range map[string]**int{
		"year":     &f.Year,
		"min_year": &f.MinYear,
		"max_year": &f.MaxYear,
		"min_mpg":  &f.MinMpg,
		"max_mpg":  &f.MaxMpg,
	} {
		if err := optIntParam(c, name, dst); err != nil {
			return f, err
		}
	}
	if err := optFloatParam(c, "min_price", &f.MinPrice); err != nil {
		return f, err
	}
	if err := optFloatParam(c, "max_price", &f.MaxPrice); err != nil {
		return f, err
	}
	if raw := c.QueryParam("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid available")
		}
		f.Available = &v
	}
	return f, nil
}

func intParam(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}

func optIntParam(c echo.Context, name string, dst **int) error {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	*dst = &v
	return nil
}

func optFloatParam(c echo.Context, name string, dst **float64) error {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	*dst = &v
	return nil
}
