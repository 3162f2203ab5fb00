package handler

import (
	"net/http"

	"gamerx/internal/middleware"
	"gamerx/internal/model"
	"gamerx/internal/service"
	"gamerx/pkg/response"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Authenticator) {
	group := router.Group("/api/categories")
	group.GET("/list/all", h.ListNames)

	admin := group.Group("", auth.Authenticate(), auth.Authorize(model.RoleAdmin))
	{
		admin.GET("", h.ListOwned)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

// ListNames returns every category name in the catalog
// @Summary      List category names
// @Description  Distinct category names across all stores, ascending
// @Tags         categories
// @Produce      json
// @Success      200  {object}  response.Response{data=[]string}
// @Router       /api/categories/list/all [get]
func (h *CategoryHandler) ListNames(c *gin.Context) {
	names, err := h.categoryService.ListNames(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, names))
}

// ListOwned returns the caller's categories, newest first
// @Summary      List my categories
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Category}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/categories [get]
func (h *CategoryHandler) ListOwned(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	categories, err := h.categoryService.ListOwned(c.Request.Context(), adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

// Create adds a category to the caller's store
// @Summary      Create category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CategoryRequest  true  "Category"
// @Success      201      {object}  response.Response{data=model.Category}
// @Failure      400      {object}  response.Response
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), adminID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

// Update changes the provided fields of one of the caller's categories
// @Summary      Update category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Category ID"
// @Param        payload  body      service.CategoryRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.Category}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), adminID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

// Delete removes one of the caller's categories; its products become uncategorized
// @Summary      Delete category
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), adminID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Category deleted successfully"))
}
