package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// NewRouter builds the gin engine with recovery and all routes.
func NewRouter(h *Handler, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(ErrorHandler())

	router.GET("/", h.Index)
	router.GET("/health", h.Health)
	router.GET("/predict", h.Predict)
	router.GET("/forecast", h.Forecast)
	router.GET("/actual", h.Actual)
	router.GET("/predictions", h.Predictions)

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	})
	return router
}

// WithCORS wraps handler so browsers on allowedOrigins may call it.
func WithCORS(handler http.Handler, allowedOrigins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Prediction-ID"},
		MaxAge:         600,
	}).Handler(handler)
}

// NewServer returns an http.Server serving the CORS-wrapped router on addr.
// writeTimeout should exceed the per-request pipeline timeout.
func NewServer(addr string, router http.Handler, allowedOrigins []string, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           WithCORS(router, allowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
	}
}
