package httpserver

import (
	"log"

	catalogrepo "storefront-api/internal/repository/catalog"
	orderrepo "storefront-api/internal/repository/order"
	profilerepo "storefront-api/internal/repository/profile"
	authsvc "storefront-api/internal/service/auth"
	cartsvc "storefront-api/internal/service/cart"
	"storefront-api/internal/service/checkout"
	chatsvc "storefront-api/internal/service/chat"

	"storefront-api/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries everything the routes need.
type Deps struct {
	AuthSvc     *authsvc.Service
	CatalogRepo catalogrepo.Repository
	CartSvc     *cartsvc.Service
	Checkout    *checkout.Coordinator
	OrderRepo   orderrepo.Repository
	ChatSvc     *chatsvc.Service
	ChatHub     *chatsvc.Hub
	ProfileRepo profilerepo.Repository
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.POST("/auth/signup", signupHandler(deps.AuthSvc))
	router.POST("/auth/login", loginHandler(deps.AuthSvc))

	router.GET("/products", listProductsHandler(deps.CatalogRepo))
	router.GET("/products/:id", getProductHandler(deps.CatalogRepo))
	router.GET("/store-locations", storeLocationsHandler(deps.CatalogRepo))

	authed := router.Group("/", authMiddleware(deps.AuthSvc))
	{
		authed.POST("/auth/logout", logoutHandler(deps.AuthSvc))

		authed.GET("/cart", getCartHandler(deps.CartSvc))
		authed.GET("/cart/count", cartCountHandler(deps.CartSvc))
		authed.POST("/cart/items", addCartItemHandler(deps.CartSvc))
		authed.PATCH("/cart/items/:id", updateCartItemHandler(deps.CartSvc))
		authed.DELETE("/cart/items/:id", removeCartItemHandler(deps.CartSvc))
		authed.DELETE("/cart", clearCartHandler(deps.CartSvc))

		authed.POST("/checkout/payment-intent", paymentIntentHandler(deps.CartSvc, deps.Checkout))
		authed.POST("/orders", submitOrderHandler(deps.Checkout))
		authed.GET("/orders", listOrdersHandler(deps.OrderRepo))
		authed.GET("/orders/:id/items", orderDetailsHandler(deps.OrderRepo))

		authed.GET("/chat/conversations", conversationsHandler(deps.ChatSvc))
		authed.GET("/chat/:userId/messages", messageHistoryHandler(deps.ChatSvc))
		authed.POST("/chat/:userId/messages", sendMessageHandler(deps.ChatSvc))
		authed.GET("/chat/:userId/stream", chatStreamHandler(deps.ChatHub))

		authed.GET("/profile", getProfileHandler(deps.ProfileRepo))
		authed.PATCH("/profile", updateProfileHandler(deps.ProfileRepo))
		authed.GET("/notifications", notificationsHandler(deps.ProfileRepo))
		authed.POST("/notifications/:id/read", markNotificationHandler(deps.ProfileRepo))
	}

	return router
}
