// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// authentication, idempotency, rate limiting, CORS, security headers and
// compression.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/friend-app/docs" // registers the OpenAPI document
	"github.com/tbourn/friend-app/internal/auth"
	"github.com/tbourn/friend-app/internal/config"
	"github.com/tbourn/friend-app/internal/http/handlers"
	"github.com/tbourn/friend-app/internal/http/middleware"
	"github.com/tbourn/friend-app/internal/services"
)

// maxBodyBytes caps every request body. Profile images (100 KiB) fit easily.
const maxBodyBytes = 1 << 20

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: access log with PII scrubbing, request-scoped logger
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Authenticate: resolve the caller from the bearer token
//  8. Idempotency validator (needs the caller; before the rate limiter)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS, security headers, gzip
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// Dependency injection: services ← db
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	userSvc := services.NewUserService(db, cfg.Auth.BcryptCost)
	if cfg.MaxImageBytes > 0 {
		userSvc.MaxImageBytes = cfg.MaxImageBytes
	}
	catalogSvc := services.NewCatalogService(db)
	adSvc := services.NewAdService(db, catalogSvc)
	threadSvc := services.NewThreadService(db)
	if cfg.MaxMessageRunes > 0 {
		threadSvc.MaxContentRunes = cfg.MaxMessageRunes
	}
	if cfg.IdempotencyTTL > 0 {
		threadSvc.IdempotencyTTL = cfg.IdempotencyTTL
	}

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{middleware.HeaderIdempotencyKey},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.Authenticate(issuer))
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, userID, threadID, key string, now time.Time) (bool, error) {
			return threadSvc.HasSendRecord(ctx, userID, threadID, key, now)
		},
	))
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	r.Use(corsMiddleware(cfg.CORS))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:           cfg.Security.EnableHSTS,
		HSTSMaxAge:           cfg.Security.HSTSMaxAge,
		NoStoreAuthenticated: true,
		EnablePolicy:         true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/metrics"}),
		gzip.WithExcludedPathsRegexs([]string{`/users/[^/]+/image$`}),
	))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(userSvc, issuer, catalogSvc, adSvc, threadSvc)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Public
		api.POST("/users", h.Register)
		api.POST("/sessions", h.Login)
		api.GET("/users/:id", h.GetUser)
		api.GET("/users/:id/image", h.GetImage)
		api.GET("/classes", h.ListClasses)
		api.GET("/ads", h.ListAds)
		api.GET("/ads/search", h.SearchAds)
		api.GET("/ads/:id", h.GetAd)
	}

	private := api.Group("", middleware.RequireAuth())
	{
		// Users
		private.PUT("/users/me", h.UpdateMe)
		private.PUT("/users/me/image", h.UploadImage)

		// Ads
		private.POST("/ads", h.CreateAd)
		private.PUT("/ads/:id", h.UpdateAd)
		private.DELETE("/ads/:id", h.DeleteAd)

		// Threads
		private.POST("/ads/:id/threads", h.StartThread)
		private.GET("/ads/:id/threads", h.AdThreads)
		private.GET("/threads", h.ListThreads)
		private.GET("/threads/unread", h.UnreadSummary)
		private.GET("/threads/:id/messages", h.ListMessages)
		private.POST("/threads/:id/messages", h.SendMessage)
		private.POST("/threads/:id/read", h.MarkRead)
	}
}

// corsMiddleware allows any origin when none are configured, otherwise only
// the listed ones. Credentials are never allowed; auth is a bearer header.
func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match", middleware.HeaderIdempotencyKey},
		ExposeHeaders: []string{"X-Request-ID", "ETag", "Location", handlers.HeaderIdempotentReplay},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(cc)
}

// limitBody caps the request body at maxBytes using http.MaxBytesReader;
// reads past the cap fail with *http.MaxBytesError.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
