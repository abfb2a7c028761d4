package router

import (
	"net/http"

	"github.com/quickkart/quickkart/internal/config"
	"github.com/quickkart/quickkart/internal/http/handlers/public"
	"github.com/quickkart/quickkart/internal/http/response"
	"github.com/quickkart/quickkart/internal/logger"
	"github.com/quickkart/quickkart/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and all API routes.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(CORSMiddleware(cfg.CORS))

	publicHandler := public.NewHandler(c)

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/captcha/image", publicHandler.GetImageCaptcha)

		apiV1.POST("/auth/register", publicHandler.Register)
		apiV1.POST("/auth/login", publicHandler.Login)
		apiV1.POST("/auth/resend-verification", publicHandler.ResendVerification)
		// Mailed links open with GET; API clients may POST the same token.
		apiV1.GET("/auth/verify-email", publicHandler.VerifyEmail)
		apiV1.POST("/auth/verify-email", publicHandler.VerifyEmail)

		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.POST("/auth/logout", publicHandler.Logout)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items/:product_id", publicHandler.SetCartItemQuantity)
			user.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)

			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/by-order-no/:order_no", publicHandler.GetOrderByOrderNo)

			user.POST("/checkout/begin", publicHandler.BeginCheckout)
			user.POST("/checkout/contact", publicHandler.SubmitCheckoutContact)
			user.GET("/checkout/status", publicHandler.GetCheckoutStatus)
			user.POST("/checkout/abort", publicHandler.AbortCheckout)
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "route not found")
	})

	return r
}
