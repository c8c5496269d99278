package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/atlastravel/backend/internal/domain"
	"github.com/atlastravel/backend/internal/service"
	"github.com/atlastravel/backend/internal/util"
)

type ReviewHandler struct {
	reviews *service.ReviewService
}

func RegisterReviews(e *echo.Echo, auth *service.AuthService, reviews *service.ReviewService) {
	handler := &ReviewHandler{reviews: reviews}

	group := e.Group("/api/v1/reviews", RequireAuth(auth))
	group.POST("", handler.create)
	group.GET("", handler.list)
	group.GET("/:id", handler.get)
	group.PUT("/:id", handler.update)
	group.PATCH("/:id", handler.update)
	group.DELETE("/:id", handler.delete)
}

func (h *ReviewHandler) create(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req struct {
		DestinationID string `json:"destination_id"`
		Rating        int    `json:"rating"`
		Comment       string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	destID, err := uuid.Parse(req.DestinationID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("destination_id must be a valid UUID"))
	}

	review, err := h.reviews.Create(c.Request().Context(), &domain.Review{
		UserID:        user.ID,
		DestinationID: destID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Data("review", buildReviewResponse(review)))
}

func (h *ReviewHandler) list(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	limit, offset := parsePagination(c, 20, 0)
	reviews, err := h.reviews.ListByUser(c.Request().Context(), user.ID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list reviews"))
	}

	payload := make([]util.Envelope, 0, len(reviews))
	for i := range reviews {
		payload = append(payload, buildReviewResponse(&reviews[i]))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"reviews": payload,
		"meta": util.Envelope{
			"limit":  limit,
			"offset": offset,
			"count":  len(payload),
		},
	})
}

func (h *ReviewHandler) get(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid review id"))
	}

	review, err := h.reviews.Get(c.Request().Context(), id, user.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("review", buildReviewResponse(review)))
}

func (h *ReviewHandler) update(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid review id"))
	}

	var req struct {
		Rating  *int    `json:"rating"`
		Comment *string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	review, err := h.reviews.Update(c.Request().Context(), id, user.ID, domain.ReviewUpdate{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("review", buildReviewResponse(review)))
}

func (h *ReviewHandler) delete(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid review id"))
	}

	if err := h.reviews.Delete(c.Request().Context(), id, user.ID); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReviewHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrReviewNotFound):
		return c.JSON(http.StatusNotFound, util.Error("review not found"))
	case errors.Is(err, service.ErrDestinationNotFound):
		return c.JSON(http.StatusBadRequest, util.Error("destination not found"))
	case errors.Is(err, service.ErrReviewAlreadyExist):
		return c.JSON(http.StatusConflict, util.Error(err.Error()))
	case errors.Is(err, service.ErrReviewValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("internal error"))
	}
}

func buildReviewResponse(review *domain.Review) util.Envelope {
	if review == nil {
		return util.Envelope{}
	}
	return util.Envelope{
		"id":             review.ID,
		"user_id":        review.UserID,
		"destination_id": review.DestinationID,
		"rating":         review.Rating,
		"comment":        review.Comment,
		"created_at":     review.CreatedAt,
		"updated_at":     review.UpdatedAt,
	}
}
