package board

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rsmarcelinoo/surgical-patient-hub/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/boards", h.ListBoards)
	api.GET("/boards/:id", h.GetBoard)
	api.POST("/boards", h.CreateBoard)
	api.PUT("/boards/:id", h.UpdateBoard)
	api.DELETE("/boards/:id", h.DeleteBoard)

	api.POST("/boards/:id/columns", h.AddColumn)
	api.PUT("/boards/:id/columns", h.ReorderColumns)
	api.PUT("/boards/:id/columns/:columnId", h.EditColumn)
	api.DELETE("/boards/:id/columns/:columnId", h.DeleteColumn)
	api.GET("/boards/:id/columns/:columnId/cards", h.ListCardsInColumn)

	api.POST("/boards/:id/cards", h.AddCard)
	api.GET("/cards/:id", h.GetCard)
	api.PUT("/cards/:id", h.UpdateCard)
	api.POST("/cards/:id/move", h.MoveCard)
	api.POST("/cards/:id/reset-override", h.ResetOverride)
	api.DELETE("/cards/:id", h.RemoveCard)

	api.POST("/cards/:id/checklist", h.AddChecklistItem)
	api.POST("/cards/:id/checklist/:itemId/toggle", h.ToggleChecklistItem)
	api.DELETE("/cards/:id/checklist/:itemId", h.RemoveChecklistItem)
}

// httpError maps the package's validation errors onto HTTP statuses.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidColumn):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicateCard):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func (h *Handler) CreateBoard(c echo.Context) error {
	var b Board
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateBoard(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBoard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.svc.GetBoard(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ListBoards(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListBoards(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateBoard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Name       string     `json:"name"`
		HospitalID *uuid.UUID `json:"hospital_id"`
		Service    *string    `json:"service"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.UpdateBoard(c.Request().Context(), id, req.Name, req.HospitalID, req.Service)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBoard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteBoard(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListCardsInColumn(c echo.Context) error {
	boardID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	filter := CardFilter{
		Query:    c.QueryParam("q"),
		Priority: c.QueryParam("priority"),
	}
	if from := c.QueryParam("date_from"); from != "" {
		t, err := parseDate(from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.DateFrom = t
	}
	if to := c.QueryParam("date_to"); to != "" {
		t, err := parseDate(to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.DateTo = t
	}
	cards, err := h.svc.ListCardsInColumn(c.Request().Context(), boardID, c.Param("columnId"), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cards)
}

func (h *Handler) AddCard(c echo.Context) error {
	boardID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var card Card
	if err := c.Bind(&card); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	card.BoardID = boardID
	if err := h.svc.AddCard(c.Request().Context(), &card); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, card)
}

func (h *Handler) GetCard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	card, err := h.svc.GetCard(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *Handler) UpdateCard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Priority      string  `json:"priority"`
		ScheduledDate *string `json:"scheduled_date"`
		SurgeryType   *string `json:"surgery_type"`
		Note          *string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	card, err := h.svc.UpdateCard(c.Request().Context(), id, req.Priority, req.ScheduledDate, req.SurgeryType, req.Note)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *Handler) MoveCard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		ColumnID string `json:"column_id"`
		Position *int   `json:"position"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Position != nil && *req.Position < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "position must not be negative")
	}
	card, err := h.svc.MoveCard(c.Request().Context(), id, req.ColumnID, req.Position)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *Handler) ResetOverride(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	card, err := h.svc.ResetOverride(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *Handler) RemoveCard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.RemoveCard(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ReorderColumns(c echo.Context) error {
	boardID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Columns []Column `json:"columns"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.ReorderColumns(c.Request().Context(), boardID, req.Columns)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) AddColumn(c echo.Context) error {
	boardID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var col Column
	if err := c.Bind(&col); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.AddColumn(c.Request().Context(), boardID, col)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) EditColumn(c echo.Context) error {
	boardID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.EditColumn(c.Request().Context(), boardID, c.Param("columnId"), req.Name, req.Color)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteColumn(c echo.Context) error {
	boardID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.svc.DeleteColumn(c.Request().Context(), boardID, c.Param("columnId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) AddChecklistItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	card, err := h.svc.AddChecklistItem(c.Request().Context(), id, req.Text)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *Handler) ToggleChecklistItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	card, err := h.svc.ToggleChecklistItem(c.Request().Context(), id, c.Param("itemId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *Handler) RemoveChecklistItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	card, err := h.svc.RemoveChecklistItem(c.Request().Context(), id, c.Param("itemId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, card)
}
