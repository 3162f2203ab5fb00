package handler

import (
	"net/http"

	"gamerx/internal/middleware"
	"gamerx/internal/model"
	"gamerx/internal/service"
	"gamerx/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Authenticator) {
	group := router.Group("/api/reviews")
	{
		group.GET("/product/:productId", h.ListByProduct)
		group.POST("/product/:productId", auth.Authenticate(), auth.Authorize(model.RoleUser, model.RoleAdmin), h.Create)
		group.DELETE("/:reviewId", auth.Authenticate(), auth.Authorize(model.RoleAdmin), h.Delete)
	}
}

// ListByProduct returns a product's reviews, newest first
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        productId  path      string  true  "Product ID"
// @Success      200        {object}  response.Response{data=[]repository.ReviewListing}
// @Router       /api/reviews/product/{productId} [get]
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}
	reviews, err := h.reviewService.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, reviews))
}

// Create posts a review as the caller
// @Summary      Post review
// @Tags         reviews
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        productId  path      string                 true  "Product ID"
// @Param        payload    body      service.ReviewRequest  true  "Rating 1-5 and comment"
// @Success      201        {object}  response.Response{data=model.Review}
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /api/reviews/product/{productId} [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return
	}
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}
	var req service.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	author := service.Reviewer{ID: claims.ID, Username: claims.Username}
	review, err := h.reviewService.Create(c.Request.Context(), author, productID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, review))
}

// Delete removes any review
// @Summary      Delete review
// @Tags         reviews
// @Security     BearerAuth
// @Produce      json
// @Param        reviewId  path      string  true  "Review ID"
// @Success      200       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /api/reviews/{reviewId} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	reviewID, ok := uuidParam(c, "reviewId")
	if !ok {
		return
	}
	if err := h.reviewService.Delete(c.Request.Context(), adminID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Review deleted successfully"))
}
