// Package router assembles the gin engine: middleware, the route table and
// the swagger UI.
package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	// Registers the swagger docs served under /swagger.
	_ "socialportfolio/backend/docs"
	"socialportfolio/backend/internal/auth"
	"socialportfolio/backend/internal/handler"
)

// Options configures the engine.
type Options struct {
	// CORSOrigins lists the allowed origins. Empty or "*" allows any origin
	// without credentials.
	CORSOrigins []string
}

// New returns the engine serving every endpoint.
func New(h *handler.Handler, verifier auth.TokenVerifier, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), handler.RequestID(), corsMiddleware(opts.CORSOrigins))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Backend is running!")
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	requireAuth := auth.AuthMiddleware(verifier)

	// Auth routes
	router.POST("/signup", h.Signup)
	router.POST("/login", h.Login)

	// Own account (protected)
	me := router.Group("/me", requireAuth)
	{
		me.GET("", h.GetMe)
		me.DELETE("", h.DeleteMe)
	}

	// Public profiles
	users := router.Group("/users", auth.OptionalAuthMiddleware(verifier))
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUserByID)
	}

	// Connection routes (protected)
	connections := router.Group("/connections", requireAuth)
	{
		connections.POST("/request/:id", h.RequestConnection)
		connections.POST("/accept/:id", h.AcceptConnection)
		connections.POST("/reject/:id", h.RejectConnection)
		connections.POST("/cancel/:id", h.CancelRequest)
		connections.POST("/disconnect/:id", h.Disconnect)
	}

	// Likes
	router.POST("/like/:id", requireAuth, h.LikeProfile)
	router.POST("/unlike/:id", requireAuth, h.UnlikeProfile)
	router.GET("/likes/:id", h.GetLikesCount)

	// Notification routes (protected)
	notifications := router.Group("/notifications", requireAuth)
	{
		notifications.GET("", h.GetNotifications)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.POST("/read", h.MarkNotificationsRead)
		notifications.DELETE("/:id", h.DeleteNotification)
	}

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", handler.RequestIDHeader},
		ExposeHeaders: []string{handler.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
