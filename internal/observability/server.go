package observability

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the diagnostics router: /health and /metrics.
func NewRouter(started time.Time) *gin.Engine {
	RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), accessLog(Component("diagnostics")))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"since":   started.UTC().Format(time.RFC3339),
			"service": "conectapro",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

// ServeDiagnostics runs the diagnostics endpoint until ctx is done. An empty
// addr disables it.
func ServeDiagnostics(ctx context.Context, addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(time.Now()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger := Component("diagnostics")
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logger.Info().Str("addr", addr).Msg("diagnostics listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
