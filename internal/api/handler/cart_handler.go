package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/storefront/internal/core/domain"
	"github.com/minimarket/storefront/internal/core/ports"
)

// CartHandler serves the cart convenience endpoints. These endpoints
// answer 200 with success=false on expected failures — the cart is UI
// state and the caller retries; only unexpected faults become errors.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

type addToCartRequest struct {
	ProductID int64 `json:"product_id" form:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" form:"quantity" validate:"required,gt=0"`
}

type addToCartResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	CartItem string `json:"cart_item,omitempty"`
}

type buildCartRequest struct {
	CartItems []string `json:"cart_items"`
}

type buildCartResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	CartData string `json:"cart_data,omitempty"`
}

type decodeItemRequest struct {
	ItemData string `json:"item_data" validate:"required"`
}

type cartItemResponse struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
}

type decodeItemResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Item    *cartItemResponse `json:"item,omitempty"`
}

// Add checks availability and returns an opaque single-line cart token.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addToCartRequest  true  "Product and quantity"
// @Success      200   {object}  addToCartResponse
// @Router       /cart/add [post]
func (h *CartHandler) Add(c echo.Context) error {
	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, product, err := h.service.AddItem(c.Request().Context(), req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) || errors.Is(err, domain.ErrInsufficientStock) {
			return c.JSON(http.StatusOK, addToCartResponse{
				Success: false,
				Message: "Product not available or insufficient stock",
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, addToCartResponse{
		Success:  true,
		Message:  fmt.Sprintf("Added %s to cart!", product.Name),
		CartItem: token,
	})
}

// Build merges single-line tokens into one cart token.
//
// @Summary      Build a cart token from item tokens
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      buildCartRequest  true  "Item tokens"
// @Success      200   {object}  buildCartResponse
// @Router       /cart/build [post]
func (h *CartHandler) Build(c echo.Context) error {
	var req buildCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	cartData, err := h.service.BuildCart(c.Request().Context(), req.CartItems)
	if err != nil {
		return c.JSON(http.StatusOK, buildCartResponse{Success: false, Message: "error generating cart"})
	}
	return c.JSON(http.StatusOK, buildCartResponse{Success: true, CartData: cartData})
}

// Decode expands a single-line token for display.
//
// @Summary      Decode a cart item token
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      decodeItemRequest  true  "Item token"
// @Success      200   {object}  decodeItemResponse
// @Router       /cart/decode [post]
func (h *CartHandler) Decode(c echo.Context) error {
	var req decodeItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	item, err := h.service.DecodeItem(c.Request().Context(), req.ItemData)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCart) || errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusOK, decodeItemResponse{Success: false, Message: "error decoding item"})
		}
		return err
	}

	return c.JSON(http.StatusOK, decodeItemResponse{
		Success: true,
		Item: &cartItemResponse{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			Price:     float64(item.PriceCents) / 100,
		},
	})
}
