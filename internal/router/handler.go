package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/aranyat/reviews-api/pkg/config"
	apperrors "github.com/aranyat/reviews-api/pkg/errors"
	"github.com/aranyat/reviews-api/pkg/global"
	"github.com/aranyat/reviews-api/pkg/models"
	"github.com/aranyat/reviews-api/pkg/reviews"
)

const genericErrorMessage = "Server error"

// ReviewService is the part of reviews.Service the handlers use.
type ReviewService interface {
	Submit(ctx context.Context, sub *models.Submission, requestID string) (*reviews.Result, error)
	List(ctx context.Context, productID models.ProductID) ([]json.RawMessage, error)
}

type Handler struct {
	reviews ReviewService
	cfg     config.ReviewsConfig
}

func NewHandler(svc ReviewService, cfg *config.ReviewsConfig) *Handler {
	return &Handler{reviews: svc, cfg: *cfg}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SubmitReview handles POST /reviews.
func (h *Handler) SubmitReview(c *gin.Context) {
	var sub models.Submission

	// An empty body reads as an empty submission so it fails on productId.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&sub); err != nil {
			h.fail(c, apperrors.NewInternalError("invalid request body", err))
			return
		}
	}

	result, err := h.reviews.Submit(c.Request.Context(), &sub, requestID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(result.Review))
}

// ListReviews handles GET /reviews/:productId.
func (h *Handler) ListReviews(c *gin.Context) {
	productID := models.ProductID(c.Param("productId"))

	collection, err := h.reviews.List(c.Request.Context(), productID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, global.ListResponse(collection))
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", requestID(c)).
			Str("path", c.Request.URL.Path).
			Msg("API /reviews error")
	}
	c.JSON(status, global.ErrorResponse(apperrors.PublicMessage(err, genericErrorMessage, h.cfg.ExposeErrors)))
}
