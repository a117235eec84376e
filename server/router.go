package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"reddit-sync/domain/repository"
	"reddit-sync/infrastructure/realtime"
	httpHandler "reddit-sync/interfaces/http"
	"reddit-sync/interfaces/middleware"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	postHandler httpHandler.IPostHandler,
	oauthHandler httpHandler.IOAuthHandler,
	credentialHandler httpHandler.ICredentialHandler,
	hub *realtime.Hub,
	userRepository repository.IUser,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:4200", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)

	// Reddit sends the browser here after authorization; the state token is
	// the proof of a user-initiated flow, so no bearer token is required.
	router.GET("/api/oauth/reddit/callback", oauthHandler.Callback)

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository))

	api.GET("/apps", oauthHandler.Apps)
	api.POST("/oauth/reddit/connect", oauthHandler.Connect)
	api.POST("/oauth/reddit/callback", oauthHandler.Callback)

	api.GET("/accounts", credentialHandler.List)
	api.POST("/accounts/:id/test", credentialHandler.Test)
	api.POST("/accounts/:id/deactivate", credentialHandler.Deactivate)
	api.DELETE("/accounts/:id", credentialHandler.Delete)

	posts := api.Group("/posts")
	{
		posts.POST("", postHandler.Create)
		posts.GET("", postHandler.List)
		posts.GET("/status/:status", postHandler.List)
		if hub != nil {
			posts.GET("/stream", hub.Serve)
		}
		posts.GET("/:id", postHandler.Get)
		posts.PUT("/:id", postHandler.Update)
		posts.DELETE("/:id", postHandler.Delete)
		posts.POST("/:id/publish", postHandler.Publish)
		posts.POST("/:id/retry", postHandler.Retry)
		posts.POST("/:id/schedule", postHandler.Schedule)
	}

	return router
}
