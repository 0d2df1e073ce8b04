package controllers

import (
	"net/http"

	apperrors "storefront-service/errors"
	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

// CheckoutController handles POST /api/checkout.
type CheckoutController struct {
	checkoutService services.CheckoutService
}

func NewCheckoutController(checkoutService services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutService}
}

func (cc *CheckoutController) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.InvalidInput("Invalid checkout request"))
		return
	}

	receipt, err := cc.checkoutService.Checkout(c.Request.Context(), services.CheckoutInput{
		UserID: middleware.ResolveUserID(c, req.UserID),
		Items:  req.CartItems,
		Name:   req.Name,
		Email:  req.Email,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout successful",
		"receipt": receipt,
	})
}
