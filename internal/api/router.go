// Package api exposes the budgeting operations as a JSON HTTP API.
package api

import (
	"net/http"
	"time"

	"fjacquet/bucket-ledger/internal/container"
	"fjacquet/bucket-ledger/internal/logging"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin engine with every API route
func SetupRouter(c *container.Container, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()
	r.Use(RequestLogger(c.GetLogger()), gin.Recovery())

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := NewHandler(c)
	api := r.Group("/api")
	api.GET("/overview", h.Overview)
	api.GET("/overview/xlsx", h.ExportXLSX)
	api.POST("/distribute", h.Distribute)
	api.POST("/recurring/materialize", h.Materialize)
	api.POST("/buckets", h.CreateBucket)
	api.PUT("/buckets/:id/config", h.ConfigureBucket)
	api.POST("/buckets/:id/close", h.CloseBucket)

	return r
}

// RequestLogger logs one entry per request through logger
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	logger = logging.ForComponent(logger, "api")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logging.Field{
			{Key: logging.FieldMethod, Value: c.Request.Method},
			{Key: logging.FieldPath, Value: c.Request.URL.Path},
			{Key: logging.FieldStatus, Value: c.Writer.Status()},
			{Key: logging.FieldDuration, Value: time.Since(start).String()},
		}
		if len(c.Errors) > 0 {
			logger.WithError(c.Errors.Last().Err).Error("Request failed", fields...)
			return
		}
		logger.Debug("Request served", fields...)
	}
}
