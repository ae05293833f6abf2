package main

import (
	"context"
	"net/http"
	"time"

	"github.com/abhishek622/slotwise/pkg/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// routes builds the router. Background work started here stops when ctx is done.
func (app *application) routes(ctx context.Context) http.Handler {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// simple logger middleware that uses zap
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Sugar().Infow("http", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "duration", time.Since(start))
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     app.Config.GetCORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(app.RateLimitMiddleware(ctx))

	r.GET("/healthz", app.healthcheck)

	v1 := r.Group("/api/v1")

	protected := v1.Group("/")
	protected.Use(app.AuthMiddleware())
	{
		// negotiation routes
		protected.POST("/applications/:application_id/interview/slots", app.Handler.ProposeSlot)
		protected.POST("/applications/:application_id/interview/counter-proposals", app.Handler.CounterProposeSlot)
		protected.GET("/applications/:application_id/interview/slots", app.Handler.ListSlots)
		protected.POST("/slots/:slot_id/accept", app.Handler.AcceptSlot)
		protected.POST("/slots/:slot_id/reject", app.Handler.RejectSlot)
	}

	admin := v1.Group("/")
	admin.Use(app.AdminAuthMiddleware())
	{
		admin.PATCH("/interviews/:interview_id/status", app.Handler.CloseInterview)
	}

	return r
}

func (app *application) healthcheck(c *gin.Context) {
	status := gin.H{"env": app.Config.Env, "database": "ok"}
	if app.DB != nil {
		if err := app.DB.Ping(c.Request.Context()); err != nil {
			app.Logger.Sugar().Errorw("database ping failed", "err", err)
			status["database"] = "unavailable"
			response.Unavailable(c, status)
			return
		}
	}
	response.OK(c, status)
}
