package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/reqtrace/internal/config"
	"github.com/vyrodovalexey/reqtrace/internal/middleware"
	"github.com/vyrodovalexey/reqtrace/internal/observability"
)

// healthPath is served without tracing or request logging.
const healthPath = "/healthz"

// application holds all application components.
type application struct {
	server *http.Server
	tracer *observability.Tracer
	config *config.Config
}

// newApplication wires the tracer, propagator, middleware chain and router.
func newApplication(ctx context.Context, cfg *config.Config, logger observability.Logger) (*application, error) {
	tracer, err := observability.NewTracer(ctx, cfg.TracerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	propagator := observability.NewPropagator(
		observability.NewTextMapPropagator(cfg.Tracing.PropagatorConfig()),
	)

	handler := buildHandler(newRouter(), cfg, logger, tracer, propagator)

	return &application{
		server: &http.Server{
			Addr:         cfg.Server.Address,
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
			WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		},
		tracer: tracer,
		config: cfg,
	}, nil
}

// buildHandler builds the middleware chain around the router.
func buildHandler(
	router http.Handler,
	cfg *config.Config,
	logger observability.Logger,
	tracer *observability.Tracer,
	propagator *observability.Propagator,
) http.Handler {
	skipPaths := append([]string{healthPath}, cfg.RequestLogging.SkipPaths...)

	h := middleware.Recovery(logger)(router)
	h = middleware.Logging(logger,
		middleware.WithTracerProvider(tracer.Provider()),
		middleware.WithPropagator(propagator),
		middleware.WithTracerName(cfg.Service.Name),
		middleware.WithSkipPaths(skipPaths...),
		middleware.WithCredentialHeader(cfg.RequestLogging.CredentialHeader),
	)(h)
	h = middleware.RequestID()(h)

	return h
}

// newRouter creates the gin engine serving the demo routes.
func newRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.GET(healthPath, handleHealth)
	r.POST("/echo", handleEcho)
	r.GET("/status/:code", handleStatus)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}

// handleHealth reports liveness.
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleEcho responds with the request body and content type.
func handleEcho(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contentType := c.ContentType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, body)
}

// handleStatus responds with the status code given in the path.
func handleStatus(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < http.StatusOK || code > 999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status code must be between 200 and 999"})
		return
	}
	c.Status(code)
}
