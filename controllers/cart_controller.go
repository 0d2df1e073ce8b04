package controllers

import (
	"net/http"

	apperrors "storefront-service/errors"
	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

// CartController handles HTTP requests for cart operations.
type CartController struct {
	cartService services.CartService
}

// NewCartController creates a new CartController.
func NewCartController(cartService services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// GetCart handles GET /api/cart.
func (cc *CartController) GetCart(c *gin.Context) {
	userID := middleware.ResolveUserID(c, c.Query("userId"))

	view, err := cc.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// AddItem handles POST /api/cart.
func (cc *CartController) AddItem(c *gin.Context) {
	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.InvalidInput("Invalid productId or quantity"))
		return
	}
	userID := middleware.ResolveUserID(c, req.UserID)

	view, err := cc.cartService.AddItem(c.Request.Context(), userID, req.ProductID, *req.Quantity)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondWithCart(c, http.StatusCreated, "Item added to cart", view)
}

// UpdateQuantity handles PUT /api/cart/:id.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	var req models.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.InvalidInput("Invalid quantity"))
		return
	}
	userID := middleware.ResolveUserID(c, c.Query("userId"))

	view, err := cc.cartService.UpdateQuantity(c.Request.Context(), userID, c.Param("id"), *req.Quantity)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondWithCart(c, http.StatusOK, "Cart updated", view)
}

// RemoveItem handles DELETE /api/cart/:id.
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID := middleware.ResolveUserID(c, c.Query("userId"))

	view, err := cc.cartService.RemoveItem(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondWithCart(c, http.StatusOK, "Item removed from cart", view)
}

// ClearCart handles DELETE /api/cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	userID := middleware.ResolveUserID(c, c.Query("userId"))

	view, err := cc.cartService.ClearCart(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondWithCart(c, http.StatusOK, "Cart cleared", view)
}

func respondWithCart(c *gin.Context, status int, message string, view *models.CartView) {
	c.JSON(status, gin.H{
		"message": message,
		"cart":    view.Items,
		"total":   view.Total,
	})
}
