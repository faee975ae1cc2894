package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/adventapp/advent-server/internal/api"
	"github.com/adventapp/advent-server/internal/auth"
	"github.com/adventapp/advent-server/internal/config"
	"github.com/adventapp/advent-server/internal/logger"
	"github.com/adventapp/advent-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	limiter *api.RateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	h.limiter.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)

	authService := do.MustInvoke[*service.AuthService](i)
	calendarService := do.MustInvoke[*service.CalendarService](i)
	doorService := do.MustInvoke[*service.DoorService](i)

	loginLimiter := api.NewRateLimiter(cfg.Auth.LoginRatePerMinute, time.Minute, cfg.Auth.LoginRatePerMinute)

	handler := api.NewServer(
		authService,
		calendarService,
		doorService,
		tokenService,
		loginLimiter,
		cfg.Server.CORSOrigins,
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv, limiter: loginLimiter}, nil
}
