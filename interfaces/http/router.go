package httpiface

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SteveMet/eps-connect-demo/domain/quote"
)

// QuoteService generates one quote per call, writing SSE frames
// through the supplied writer.
type QuoteService interface {
	Generate(ctx context.Context, req *quote.Request, write quote.FrameWriter) error
	Simulated() bool
}

type Router struct {
	service     QuoteService
	corsOrigins []string
}

func NewRouter(service QuoteService, corsOrigins []string) *Router {
	return &Router{
		service:     service,
		corsOrigins: corsOrigins,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(r.corsMiddleware())

	// Health endpoints - no request ID needed for monitoring tools
	router.GET("/live", r.liveness)
	router.GET("/ready", r.readiness)
	router.GET("/health", r.healthCheck)

	api := router.Group("/")
	api.Use(r.requestIDMiddleware())
	api.POST("/quote/generate", r.generateQuote)

	return router
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqOrigin := c.GetHeader("Origin")
		if reqOrigin == "" {
			c.Header("Access-Control-Allow-Origin", strings.Join(r.corsOrigins, ", "))
		} else {
			allowOrigin := ""
			if len(r.corsOrigins) == 1 && r.corsOrigins[0] == "*" {
				allowOrigin = "*"
			} else {
				for _, allowed := range r.corsOrigins {
					if allowed == reqOrigin {
						allowOrigin = reqOrigin
						break
					}
				}
			}
			if allowOrigin != "" {
				c.Header("Access-Control-Allow-Origin", allowOrigin)
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestIDMiddleware tags every request with an ID for log
// correlation. Browser clients don't send one, so a missing header
// gets a generated UUID rather than a rejection.
func (r *Router) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		} else if _, err := uuid.Parse(requestID); err != nil {
			c.Header("X-Client-Request-ID", requestID)
			requestID = uuid.New().String()
		}

		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

func (r *Router) mode() string {
	if r.service.Simulated() {
		return "simulated"
	}
	return "live"
}

func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "print-quote-service",
		"version":   "1.0.0",
		"mode":      r.mode(),
	})
}

// liveness probe: process is up and serving HTTP
func (r *Router) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// readiness probe: the service has no external readiness dependencies;
// simulated mode is a valid serving state, not a degradation.
func (r *Router) readiness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"mode":      r.mode(),
	})
}

func (r *Router) generateQuote(c *gin.Context) {
	var req quote.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Error("Failed to bind quote request")
		c.JSON(http.StatusBadRequest, quote.ErrorResponse{Error: "Invalid request format"})
		return
	}

	if strings.TrimSpace(req.Request) == "" {
		c.JSON(http.StatusBadRequest, quote.ErrorResponse{Error: "Missing or invalid 'request' field"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, quote.ErrorResponse{Error: "Streaming not supported by server"})
		return
	}

	requestID, _ := c.Get("request_id")
	log := logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"urgency":    req.Urgency,
		"mode":       r.mode(),
	})
	log.Info("Quote generation started")

	writeFrame := func(frame any) error {
		data, err := json.Marshal(frame)
		if err != nil {
			return err
		}
		if _, err := c.Writer.Write([]byte("data: ")); err != nil {
			return err
		}
		if _, err := c.Writer.Write(data); err != nil {
			return err
		}
		if _, err := c.Writer.Write([]byte("\n\n")); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	// Failures past this point travel in-band as frames; the HTTP
	// status is already committed to 200.
	if err := r.service.Generate(c.Request.Context(), &req, writeFrame); err != nil {
		log.WithError(err).Error("Quote generation failed")
		return
	}
	log.Info("Quote generation completed")
}
