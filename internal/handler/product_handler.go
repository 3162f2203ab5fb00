package handler

import (
	"net/http"

	"gamerx/internal/middleware"
	"gamerx/internal/model"
	"gamerx/internal/service"
	"gamerx/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Authenticator) {
	group := router.Group("/api/products")
	{
		group.GET("/list/all", h.ListAll)
		group.GET("/list/category/:categoryName", h.ListByCategoryName)
		group.GET("/featured/list", h.ListFeatured)
		group.GET("/details/:id", h.Details)
	}

	admin := group.Group("", auth.Authenticate(), auth.Authorize(model.RoleAdmin))
	{
		admin.GET("", h.ListOwned)
		admin.GET("/category/:categoryId", h.ListOwnedByCategory)
		admin.GET("/:id", h.GetOwned)
		admin.GET("/:id/stock-movements", h.StockMovements)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.PATCH("/:id/stock", h.SetStock)
		admin.PATCH("/:id/feature", h.SetFeatured)
		admin.DELETE("/:id", h.Delete)
	}
}

// ListAll returns every product with its category name
// @Summary      List all products
// @Tags         products
// @Produce      json
// @Success      200  {object}  response.Response{data=[]repository.ProductListing}
// @Router       /api/products/list/all [get]
func (h *ProductHandler) ListAll(c *gin.Context) {
	products, err := h.productService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// ListByCategoryName filters products by category name, ignoring case
// @Summary      List products by category name
// @Tags         products
// @Produce      json
// @Param        categoryName  path      string  true  "Category name"
// @Success      200           {object}  response.Response{data=[]repository.ProductListing}
// @Router       /api/products/list/category/{categoryName} [get]
func (h *ProductHandler) ListByCategoryName(c *gin.Context) {
	products, err := h.productService.ListByCategoryName(c.Request.Context(), c.Param("categoryName"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// ListFeatured returns featured products
// @Summary      List featured products
// @Tags         products
// @Produce      json
// @Param        admin_id   query     string  false  "Only products of this admin"
// @Param        min_price  query     number  false  "Minimum price"
// @Param        max_price  query     number  false  "Maximum price"
// @Param        min_stock  query     int     false  "Minimum stock"
// @Param        max_stock  query     int     false  "Maximum stock"
// @Success      200        {object}  response.Response{data=[]repository.ProductListing}
// @Failure      400        {object}  response.Response
// @Router       /api/products/featured/list [get]
func (h *ProductHandler) ListFeatured(c *gin.Context) {
	products, err := h.productService.ListFeatured(c.Request.Context(), service.FeaturedQuery{
		AdminID:  c.Query("admin_id"),
		MinPrice: c.Query("min_price"),
		MaxPrice: c.Query("max_price"),
		MinStock: c.Query("min_stock"),
		MaxStock: c.Query("max_stock"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// Details returns a product with its gallery
// @Summary      Product details
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.ProductDetails}
// @Failure      404  {object}  response.Response
// @Router       /api/products/details/{id} [get]
func (h *ProductHandler) Details(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.Details(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// ListOwned returns the caller's products
// @Summary      List my products
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]repository.ProductListing}
// @Router       /api/products [get]
func (h *ProductHandler) ListOwned(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	products, err := h.productService.ListOwned(c.Request.Context(), adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// ListOwnedByCategory returns the caller's products in one category
// @Summary      List my products in a category
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        categoryId  path      string  true  "Category ID"
// @Success      200         {object}  response.Response{data=[]repository.ProductListing}
// @Router       /api/products/category/{categoryId} [get]
func (h *ProductHandler) ListOwnedByCategory(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	categoryID, ok := uuidParam(c, "categoryId")
	if !ok {
		return
	}
	products, err := h.productService.ListOwnedByCategory(c.Request.Context(), adminID, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// GetOwned returns one of the caller's products
// @Summary      Get my product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.ProductDetails}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetOwned(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetOwned(c.Request.Context(), adminID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// StockMovements lists the stock history of one of the caller's products
// @Summary      Product stock history
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=[]model.StockMovement}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id}/stock-movements [get]
func (h *ProductHandler) StockMovements(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	movements, err := h.productService.StockMovements(c.Request.Context(), adminID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, movements))
}

// Create adds a product to one of the caller's categories
// @Summary      Create product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ProductRequest  true  "Product"
// @Success      201      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), adminID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// Update changes the provided fields of one of the caller's products
// @Summary      Update product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Product ID"
// @Param        payload  body      service.ProductRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), adminID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// SetStock overrides a product's stock
// @Summary      Set product stock
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Product ID"
// @Param        payload  body      service.StockRequest  true  "New stock"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/products/{id}/stock [patch]
func (h *ProductHandler) SetStock(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.StockRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.productService.SetStock(c.Request.Context(), adminID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// SetFeatured flags or unflags a product for the homepage
// @Summary      Toggle featured
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Product ID"
// @Param        payload  body      service.FeatureRequest  true  "Featured flag"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/products/{id}/feature [patch]
func (h *ProductHandler) SetFeatured(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req service.FeatureRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.productService.SetFeatured(c.Request.Context(), adminID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// Delete removes one of the caller's products from the catalog
// @Summary      Delete product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), adminID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Product deleted successfully"))
}
