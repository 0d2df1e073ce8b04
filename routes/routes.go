package routes

import (
	"net/http"

	"storefront-service/controllers"

	"github.com/gin-gonic/gin"
)

const serviceName = "storefront-service"

// RegisterRoutes mounts the storefront API under /api plus the info and
// health endpoints.
func RegisterRoutes(
	r *gin.Engine,
	products *controllers.ProductController,
	cart *controllers.CartController,
	checkout *controllers.CheckoutController,
) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Storefront API is running"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": serviceName})
	})

	api := r.Group("/api")
	api.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Storefront API",
			"endpoints": gin.H{
				"products": "/api/products",
				"cart":     "/api/cart",
				"checkout": "/api/checkout",
			},
		})
	})

	productRoutes := api.Group("/products")
	productRoutes.GET("", products.ListProducts)
	productRoutes.GET("/:id", products.GetProduct)

	cartRoutes := api.Group("/cart")
	cartRoutes.GET("", cart.GetCart)
	cartRoutes.POST("", cart.AddItem)
	cartRoutes.DELETE("", cart.ClearCart)
	cartRoutes.PUT("/:id", cart.UpdateQuantity)
	cartRoutes.DELETE("/:id", cart.RemoveItem)

	api.POST("/checkout", checkout.Checkout)
}
