package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/storefront/internal/core/domain"
	"github.com/minimarket/storefront/internal/core/ports"
)

type OrderHandler struct {
	service ports.CheckoutService
}

func NewOrderHandler(service ports.CheckoutService) *OrderHandler {
	return &OrderHandler{service: service}
}

type checkoutRequest struct {
	CartData string `json:"cart_data" form:"cart_data"`
}

type lineItemResponse struct {
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

type orderResponse struct {
	ID        int64              `json:"id"`
	Owner     string             `json:"owner"`
	Items     []lineItemResponse `json:"items"`
	Total     float64            `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
	Status    string             `json:"status"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
}

// Checkout turns a cart token into an order.
//
// @Summary      Checkout a cart
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      checkoutRequest  true  "Cart token"
// @Success      201   {object}  orderResponse
// @Failure      422   {object}  map[string]string
// @Router       /checkout [post]
func (h *OrderHandler) Checkout(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.service.Checkout(c.Request().Context(), identity, req.CartData)
	if err != nil {
		return err
	}

	if wantsJSON(c) {
		return c.JSON(http.StatusCreated, toOrderResponse(*order))
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/order/%d", order.ID))
}

// Get returns an order confirmation. Ownership is part of the lookup:
// another customer's order id answers 404, not 403.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  map[string]string
// @Router       /order/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.service.GetOrder(c.Request().Context(), identity.Username, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(*order))
}

// List returns the caller's order history.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderListResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListOrders(c.Request().Context(), identity.Username)
	if err != nil {
		return err
	}

	resp := orderListResponse{Orders: make([]orderResponse, 0, len(orders))}
	for _, order := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(order))
	}
	return c.JSON(http.StatusOK, resp)
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]lineItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, lineItemResponse{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       float64(item.UnitPriceCents) / 100,
			Total:       float64(item.TotalCents) / 100,
		})
	}
	return orderResponse{
		ID:        order.ID,
		Owner:     order.Owner,
		Items:     items,
		Total:     order.Total(),
		CreatedAt: order.CreatedAt,
		Status:    order.Status,
	}
}
