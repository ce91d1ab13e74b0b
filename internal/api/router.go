package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "adpulse/internal/api/context"
	"adpulse/internal/api/handlers"
	"adpulse/internal/api/middleware"
	"adpulse/internal/pkg/errors"
	"adpulse/internal/platform/auth"
)

type Dependencies struct {
	AuthHandler    *handlers.AuthHandler
	AccountHandler *handlers.AccountHandler
	WebhookHandler *handlers.WebhookHandler
	OrderHandler   *handlers.OrderHandler
	MetricHandler  *handlers.MetricHandler
	InsightHandler *handlers.InsightHandler
	LogHandler     *handlers.LogHandler
	PixelHandler   *handlers.PixelHandler
	HealthHandler  *handlers.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.GET("/health", wrap(deps.HealthHandler.Check))

	// Vendor webhook endpoints. The handlers own method dispatch so that
	// preflights, stray GET requests and real deliveries all go through the
	// same CORS and audit path.
	for _, method := range []string{http.MethodPost, http.MethodOptions, http.MethodGet} {
		router.Handle(method, "/ticto-webhook", wrap(deps.WebhookHandler.Ticto))
		router.Handle(method, "/cartpanda-webhook", wrap(deps.WebhookHandler.CartPanda))
	}

	// Pixel serving and collection
	router.GET("/px/:pixel_id", wrap(deps.PixelHandler.Script))
	router.POST("/collect",
		chain(deps.PixelHandler.Collect, middleware.RateLimit("collect")))
	router.OPTIONS("/collect", wrap(deps.PixelHandler.Collect))

	// Authentication routes
	router.POST("/api/v1/auth/login",
		chain(deps.AuthHandler.Login, middleware.RateLimit("api_write")))
	router.POST("/api/v1/auth/refresh", wrap(deps.AuthHandler.Refresh))

	authMid := deps.AuthMiddleware

	router.GET("/api/v1/auth/me",
		chain(deps.AuthHandler.Me, authMid.Handle))
	router.POST("/api/v1/users",
		chain(deps.AuthHandler.CreateUser, authMid.Handle, requireRole("admin", "owner")))

	// Vendor account management
	router.POST("/api/v1/accounts",
		chain(deps.AccountHandler.Create, authMid.Handle, requireRole("admin", "owner")))
	router.GET("/api/v1/accounts",
		chain(deps.AccountHandler.List, authMid.Handle))
	router.GET("/api/v1/accounts/:account_id",
		chain(deps.AccountHandler.Get, authMid.Handle))
	router.PATCH("/api/v1/accounts/:account_id",
		chain(deps.AccountHandler.Update, authMid.Handle, requireRole("admin", "owner")))
	router.DELETE("/api/v1/accounts/:account_id",
		chain(deps.AccountHandler.Delete, authMid.Handle, requireRole("admin", "owner")))

	// Orders
	router.GET("/api/v1/orders",
		chain(deps.OrderHandler.List, authMid.Handle))
	router.GET("/api/v1/orders/:order_id",
		chain(deps.OrderHandler.Get, authMid.Handle))
	router.GET("/api/v1/analytics/summary",
		chain(deps.OrderHandler.Summary, authMid.Handle))
	router.GET("/api/v1/analytics/daily",
		chain(deps.OrderHandler.Daily, authMid.Handle))

	// Metric definitions and evaluation
	router.GET("/api/v1/metrics",
		chain(deps.MetricHandler.List, authMid.Handle))
	router.POST("/api/v1/metrics",
		chain(deps.MetricHandler.Create, authMid.Handle, requireRole("admin", "owner")))
	router.PATCH("/api/v1/metrics/:metric_id",
		chain(deps.MetricHandler.Update, authMid.Handle, requireRole("admin", "owner")))
	router.DELETE("/api/v1/metrics/:metric_id",
		chain(deps.MetricHandler.Delete, authMid.Handle, requireRole("admin", "owner")))
	router.GET("/api/v1/campaigns/:campaign_id/metrics",
		chain(deps.MetricHandler.Values, authMid.Handle))

	// Campaign insight imports
	router.POST("/api/v1/insights/import",
		chain(deps.InsightHandler.Import, authMid.Handle, requireRole("admin", "owner")))

	// Webhook audit log
	router.GET("/api/v1/webhook-logs",
		chain(deps.LogHandler.List, authMid.Handle))

	// Pixels
	router.POST("/api/v1/pixels",
		chain(deps.PixelHandler.Create, authMid.Handle, requireRole("admin", "owner")))
	router.GET("/api/v1/pixels",
		chain(deps.PixelHandler.List, authMid.Handle))
	router.DELETE("/api/v1/pixels/:pixel_id",
		chain(deps.PixelHandler.Delete, authMid.Handle, requireRole("admin", "owner")))
	router.GET("/api/v1/pixels/:pixel_id/funnel",
		chain(deps.PixelHandler.Funnel, authMid.Handle))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

func requireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
				return
			}

			next(w, r)
		}
	}
}
