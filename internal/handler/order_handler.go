package handler

import (
	"net/http"

	"gamerx/internal/middleware"
	"gamerx/internal/model"
	"gamerx/internal/service"
	"gamerx/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Authenticator) {
	signedIn := []gin.HandlerFunc{auth.Authenticate(), auth.Authorize(model.RoleUser, model.RoleAdmin)}

	group := router.Group("/api/orders", signedIn...)
	{
		group.POST("/create", h.Create)
		group.POST("/confirm-payment/:orderId", h.ConfirmPayment)
		group.GET("/history", h.History)
		group.GET("/:orderId", h.Get)
	}

	admin := router.Group("/api/orders/admin", auth.Authenticate(), auth.Authorize(model.RoleAdmin))
	{
		admin.GET("/all-orders", h.AdminList)
		admin.GET("/order-details/:orderId", h.AdminGet)
	}

	router.POST("/api/products/purchase/process", append(signedIn, h.Purchase)...)
}

// Create places a pending order from the cart
// @Summary      Create order
// @Description  Prices the cart from stored products and records a pending order and payment
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOrderRequest  true  "Cart"
// @Success      201      {object}  response.Response{data=service.CreateOrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/orders/create [post]
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.orderService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// ConfirmPayment settles a pending order
// @Summary      Confirm payment
// @Description  Checks the confirmation token, decrements stock and confirms the order
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        orderId  path      string                         true  "Order ID"
// @Param        payload  body      service.ConfirmPaymentRequest  true  "Confirmation token"
// @Success      200      {object}  response.Response{data=service.ConfirmPaymentResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/orders/confirm-payment/{orderId} [post]
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "orderId")
	if !ok {
		return
	}
	var req service.ConfirmPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.orderService.ConfirmPayment(c.Request.Context(), userID, orderID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	out := response.Success(http.StatusOK, res)
	out.Message = "Payment confirmed"
	c.JSON(http.StatusOK, out)
}

// Purchase buys the given items in one step
// @Summary      Buy now
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.PurchaseRequest  true  "Items"
// @Success      201      {object}  response.Response{data=service.PurchaseResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/products/purchase/process [post]
func (h *OrderHandler) Purchase(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.PurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.orderService.Purchase(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// History lists the caller's orders, newest first
// @Summary      Order history
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]repository.OrderSummary}
// @Router       /api/orders/history [get]
func (h *OrderHandler) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orders, err := h.orderService.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, orders))
}

// Get returns one of the caller's orders
// @Summary      Order details
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        orderId  path      string  true  "Order ID"
// @Success      200      {object}  response.Response{data=service.OrderDetails}
// @Failure      404      {object}  response.Response
// @Router       /api/orders/{orderId} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "orderId")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// AdminList returns every order with its customer
// @Summary      All orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]repository.OrderSummary}
// @Failure      403  {object}  response.Response
// @Router       /api/orders/admin/all-orders [get]
func (h *OrderHandler) AdminList(c *gin.Context) {
	orders, err := h.orderService.AdminList(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, orders))
}

// AdminGet returns any order with its customer
// @Summary      Order details (admin)
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        orderId  path      string  true  "Order ID"
// @Success      200      {object}  response.Response{data=service.OrderDetails}
// @Failure      404      {object}  response.Response
// @Router       /api/orders/admin/order-details/{orderId} [get]
func (h *OrderHandler) AdminGet(c *gin.Context) {
	orderID, ok := uuidParam(c, "orderId")
	if !ok {
		return
	}
	order, err := h.orderService.AdminGet(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
