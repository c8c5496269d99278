package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/service"
	"github.com/atlastravel/backend/internal/util"
)

type DestinationHandler struct {
	destinations *service.DestinationService
}

func RegisterDestinations(e *echo.Echo, auth *service.AuthService, destinations *service.DestinationService) {
	handler := &DestinationHandler{destinations: destinations}

	public := e.Group("/api/v1/destinations")
	public.GET("", handler.list)
	public.GET("/:id", handler.get)

	protected := e.Group("/api/v1/destinations", RequireAuth(auth))
	protected.POST("", handler.create)
	protected.PUT("/:id", handler.update)
	protected.PATCH("/:id", handler.update)
	protected.DELETE("/:id", handler.delete)
	protected.POST("/:id/image", handler.uploadImage)
}

func (h *DestinationHandler) list(c echo.Context) error {
	limit, offset := parsePagination(c, 20, 0)
	destinations, err := h.destinations.List(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list destinations"))
	}

	payload := make([]util.Envelope, 0, len(destinations))
	for i := range destinations {
		payload = append(payload, buildDestinationResponse(&destinations[i]))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"destinations": payload,
		"meta": util.Envelope{
			"limit":  limit,
			"offset": offset,
			"count":  len(payload),
		},
	})
}

func (h *DestinationHandler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid destination id"))
	}

	dest, err := h.destinations.Get(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("destination", buildDestinationResponse(dest)))
}

func (h *DestinationHandler) create(c echo.Context) error {
	var req struct {
		Name          string  `json:"name"`
		Description   string  `json:"description"`
		Location      string  `json:"location"`
		PricePerNight float64 `json:"price_per_night"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	dest, err := h.destinations.Create(c.Request().Context(), &domain.Destination{
		Name:          req.Name,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Data("destination", buildDestinationResponse(dest)))
}

func (h *DestinationHandler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid destination id"))
	}

	var req struct {
		Name          *string  `json:"name"`
		Description   *string  `json:"description"`
		Location      *string  `json:"location"`
		PricePerNight *float64 `json:"price_per_night"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	dest, err := h.destinations.Update(c.Request().Context(), id, domain.DestinationUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("destination", buildDestinationResponse(dest)))
}

func (h *DestinationHandler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid destination id"))
	}

	if err := h.destinations.Delete(c.Request().Context(), id); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DestinationHandler) uploadImage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid destination id"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("file upload required"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read upload"))
	}
	defer src.Close()

	dest, err := h.destinations.UploadImage(c.Request().Context(), id, service.DestinationImageUpload{
		Reader:      src,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("destination", buildDestinationResponse(dest)))
}

func (h *DestinationHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrDestinationNotFound):
		return c.JSON(http.StatusNotFound, util.Error("destination not found"))
	case errors.Is(err, service.ErrDestinationValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("internal error"))
	}
}

func buildDestinationResponse(dest *domain.Destination) util.Envelope {
	if dest == nil {
		return util.Envelope{}
	}
	resp := util.Envelope{
		"id":              dest.ID,
		"name":            dest.Name,
		"description":     dest.Description,
		"location":        dest.Location,
		"price_per_night": dest.PricePerNight,
		"created_at":      dest.CreatedAt,
		"updated_at":      dest.UpdatedAt,
	}
	if dest.ImageURL != nil {
		resp["image_url"] = *dest.ImageURL
	}
	return resp
}

func parsePagination(c echo.Context, defaultLimit, defaultOffset int) (int, int) {
	limit := defaultLimit
	offset := defaultOffset
	if v := strings.TrimSpace(c.QueryParam("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := strings.TrimSpace(c.QueryParam("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
