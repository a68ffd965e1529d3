package board

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caredesk/caredesk/internal/platform/auth"
	"github.com/caredesk/caredesk/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "physician", "nurse", "registrar", "technician"))
	g.GET("/boards", h.ListBoards)
	g.GET("/boards/:id", h.GetBoard)
	g.POST("/boards", h.CreateBoard)
	g.PUT("/boards/:id", h.UpdateBoard)
	g.DELETE("/boards/:id", h.DeleteBoard)
	g.POST("/boards/:id/columns", h.AddColumn)
	g.DELETE("/boards/:id/columns/:key", h.DeleteColumn)
	g.POST("/cards", h.CreateCard)
	g.GET("/cards/:id", h.GetCard)
	g.PUT("/cards/:id", h.UpdateCard)
	g.DELETE("/cards/:id", h.DeleteCard)
	g.POST("/cards/:id/move", h.MoveCard)
}

type createBoardRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Columns     []struct {
		Key   string `json:"key"`
		Title string `json:"title"`
	} `json:"columns"`
}

func (h *Handler) CreateBoard(c echo.Context) error {
	var req createBoardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b := &Board{Name: req.Name, Description: req.Description}
	var columns []*Column
	for _, col := range req.Columns {
		columns = append(columns, &Column{Key: col.Key, Title: col.Title})
	}
	created, err := h.svc.CreateBoard(c.Request().Context(), b, columns)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetBoard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	view, err := h.svc.GetBoard(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "board not found")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) ListBoards(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListBoards(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateBoard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	view, err := h.svc.GetBoard(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "board not found")
	}
	b := view.Board
	// Bind over the stored record so fields absent from the body keep their values.
	if err := c.Bind(b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b.ID = id
	updated, err := h.svc.UpdateBoard(c.Request().Context(), b)
	if err != nil {
		if errors.Is(err, ErrBoardNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "board not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteBoard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteBoard(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrBoardNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "board not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddColumn(c echo.Context) error {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var col Column
	if err := c.Bind(&col); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	col.BoardID = boardID
	created, err := h.svc.AddColumn(c.Request().Context(), &col)
	if err != nil {
		if errors.Is(err, ErrBoardNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "board not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) DeleteColumn(c echo.Context) error {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteColumn(c.Request().Context(), boardID, c.Param("key")); err != nil {
		if errors.Is(err, ErrColumnNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "column not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateCard(c echo.Context) error {
	var card Card
	if err := c.Bind(&card); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.CreateCard(c.Request().Context(), &card)
	if err != nil {
		if errors.Is(err, ErrBoardNotFound) || errors.Is(err, ErrColumnNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetCard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	card, err := h.svc.GetCard(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "card not found")
	}
	return c.JSON(http.StatusOK, card)
}

func (h *Handler) UpdateCard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var card Card
	if err := c.Bind(&card); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	card.ID = id
	updated, err := h.svc.UpdateCard(c.Request().Context(), &card)
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "card not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteCard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteCard(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "card not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type moveCardRequest struct {
	ToColumn string `json:"to_column"`
}

func (h *Handler) MoveCard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req moveCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	moved, err := h.svc.MoveCard(c.Request().Context(), id, req.ToColumn)
	if err != nil {
		if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrColumnNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, moved)
}
