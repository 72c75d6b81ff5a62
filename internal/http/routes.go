package http

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tazhibayda/social-service/internal/security"
)

type RouterOptions struct {
	CORSOrigin      string
	EnableSentry    bool
	RateLimitPerMin int
}

func NewRouter(h *Handler, jwks *security.Fetcher, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())
	if opts.EnableSentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if opts.CORSOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{opts.CORSOrigin},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/api/webhooks/identity", h.IdentityWebhook)

	rl := NewRateLimiter(opts.RateLimitPerMin, time.Minute)

	api := r.Group("/api/v1")

	// public reads
	public := api.Group("", RateLimit(rl))
	{
		public.GET("/posts", h.ListPosts)
		public.GET("/posts/:postId/comments", h.GetComments)
		public.GET("/posts/:postId/likes", h.ListLikes)
		public.GET("/users/profile/:userId", h.GetUser)
	}

	auth := api.Group("", AuthJWT(jwks), EnsureUser(h.Store, h.Presence))
	{
		auth.POST("/connections/sendRequest", h.SendRequest)
		auth.POST("/connections/acceptRequest", h.AcceptRequest)
		auth.POST("/connections/rejectRequest", h.RejectRequest)
		auth.POST("/connections/cancelRequest", h.CancelRequest)
		auth.DELETE("/connections/removeConnection", h.RemoveConnection)
		auth.GET("/connections/status/:otherId", h.ConnectionStatus)
		auth.GET("/connections/getPendingRequests", h.PendingRequests)
		auth.GET("/connections/getSentRequests", h.SentRequests)
		auth.GET("/connections/getMyConnections", h.MyConnections)
		auth.GET("/connections/counts", h.ConnectionCounts)

		auth.POST("/posts", h.CreatePost)
		auth.PUT("/posts/:postId", h.UpdatePost)
		auth.DELETE("/posts/:postId", h.DeletePost)

		auth.POST("/posts/:postId/comments", h.CreateComment)
		auth.PUT("/comments/:commentId", h.UpdateComment)
		auth.DELETE("/comments/:commentId", h.DeleteComment)

		auth.POST("/posts/:postId/like", h.LikePost)
		auth.DELETE("/posts/:postId/like", h.UnlikePost)

		auth.POST("/chat/messages", h.SendMessage)
		auth.GET("/chat/messages/:otherId", h.GetConversation)

		auth.GET("/users/me", h.Me)
		auth.PUT("/users/me", h.UpdateMe)

		auth.GET("/notifications", h.ListNotifications)

		auth.POST("/media/upload-url", h.UploadURL)
	}

	return r
}
