package appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/NaveenSandaru/dentax-v1-sub001/internal/platform/auth"
	"github.com/NaveenSandaru/dentax-v1-sub001/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/appointments")
	g.GET("/availability", h.Availability)
	g.POST("", h.Book)
	g.GET("/:id", h.Get)
	g.PATCH("/:id/status", h.SetStatus)

	staff := auth.RequireRole("admin", "dentist", "receptionist")
	g.GET("", h.List, staff)

	b := api.Group("/blocked-slots", staff)
	b.POST("", h.BlockSlot)
	b.GET("", h.BlockedSlots)
	b.DELETE("/:id", h.UnblockSlot)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// Availability handles GET /appointments/availability?dentist_id=&date=&treatment_id=.
func (h *Handler) Availability(c echo.Context) error {
	dentistID, err := uuid.Parse(c.QueryParam("dentist_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "dentist_id is required")
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	var treatmentID *uuid.UUID
	if v := c.QueryParam("treatment_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid treatment_id")
		}
		treatmentID = &id
	}

	avail, err := h.svc.GetAvailability(c.Request().Context(), dentistID, date, treatmentID)
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, avail)
}

func (h *Handler) Book(c echo.Context) error {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	date, err := parseDate(req.DateStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	req.Date = date

	result, err := h.svc.Book(c.Request().Context(), req)
	switch {
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, ErrConflict.Error())
	case errors.Is(err, ErrInvalidTime):
		return echo.NewHTTPError(http.StatusBadRequest, ErrInvalidTime.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) SetStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status Status `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.SetStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if v := c.QueryParam("patient_id"); v != "" {
		patientID, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err := h.svc.ListForPatient(ctx, patientID, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	var dentistID *uuid.UUID
	if v := c.QueryParam("dentist_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid dentist_id")
		}
		dentistID = &id
	}
	var from, to *time.Time
	if v := c.QueryParam("from"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		from = &d
	}
	if v := c.QueryParam("to"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		to = &d
	}

	items, total, err := h.svc.List(ctx, dentistID, from, to, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) BlockSlot(c echo.Context) error {
	var body struct {
		DentistID uuid.UUID `json:"dentist_id"`
		Date      string    `json:"date"`
		TimeFrom  *string   `json:"time_from"`
		TimeTo    *string   `json:"time_to"`
		Reason    *string   `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	date, err := parseDate(body.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	b := &BlockedSlot{
		DentistID: body.DentistID,
		Date:      date,
		TimeFrom:  body.TimeFrom,
		TimeTo:    body.TimeTo,
		Reason:    body.Reason,
	}
	if err := h.svc.BlockSlot(c.Request().Context(), b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) BlockedSlots(c echo.Context) error {
	dentistID, err := uuid.Parse(c.QueryParam("dentist_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "dentist_id is required")
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	items, err := h.svc.BlockedSlots(c.Request().Context(), dentistID, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UnblockSlot(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.UnblockSlot(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
