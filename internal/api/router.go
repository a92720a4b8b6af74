package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "boardly/internal/api/context"
	"boardly/internal/api/handlers"
	"boardly/internal/api/middleware"
	"boardly/internal/pkg/errors"
	"boardly/internal/platform/auth"
)

type Dependencies struct {
	AuthHandler     *handlers.AuthHandler
	BoardHandler    *handlers.BoardHandler
	ListHandler     *handlers.ListHandler
	TaskHandler     *handlers.TaskHandler
	WebhookHandler  *handlers.WebhookHandler
	ActivityHandler *handlers.ActivityHandler
	HealthHandler   *handlers.HealthHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.GET("/healthz", wrap(deps.HealthHandler.Handle))

	// Authentication
	router.POST("/api/v1/auth/signup", wrap(deps.AuthHandler.Signup))
	router.POST("/api/v1/auth/login", wrap(deps.AuthHandler.Login))

	authMid := deps.AuthMiddleware

	// Boards
	router.POST("/api/v1/boards", chain(deps.BoardHandler.Create, authMid.Handle))
	router.GET("/api/v1/boards", chain(deps.BoardHandler.List, authMid.Handle))
	router.GET("/api/v1/boards/:board_id", chain(deps.BoardHandler.Get, authMid.Handle))
	router.PATCH("/api/v1/boards/:board_id", chain(deps.BoardHandler.Update, authMid.Handle))
	router.DELETE("/api/v1/boards/:board_id", chain(deps.BoardHandler.Delete, authMid.Handle))

	// Lists
	router.POST("/api/v1/boards/:board_id/lists", chain(deps.ListHandler.Create, authMid.Handle))
	router.GET("/api/v1/boards/:board_id/lists", chain(deps.ListHandler.ListByBoard, authMid.Handle))
	router.POST("/api/v1/boards/:board_id/lists/reorder", chain(deps.ListHandler.Reorder, authMid.Handle))
	router.PATCH("/api/v1/lists/:list_id", chain(deps.ListHandler.Update, authMid.Handle))
	router.DELETE("/api/v1/lists/:list_id", chain(deps.ListHandler.Delete, authMid.Handle))

	// Tasks
	router.POST("/api/v1/lists/:list_id/tasks", chain(deps.TaskHandler.Create, authMid.Handle))
	router.GET("/api/v1/lists/:list_id/tasks", chain(deps.TaskHandler.ListByList, authMid.Handle))
	router.POST("/api/v1/lists/:list_id/tasks/reorder", chain(deps.TaskHandler.Reorder, authMid.Handle))
	router.PATCH("/api/v1/tasks/:task_id", chain(deps.TaskHandler.Update, authMid.Handle))
	router.DELETE("/api/v1/tasks/:task_id", chain(deps.TaskHandler.Delete, authMid.Handle))
	router.POST("/api/v1/tasks/:task_id/move", chain(deps.TaskHandler.Move, authMid.Handle))

	// Webhook subscriptions, board admins only
	router.POST("/api/v1/boards/:board_id/webhooks",
		chain(deps.WebhookHandler.Create, authMid.Handle, requireRole("admin", "owner")))
	router.GET("/api/v1/boards/:board_id/webhooks",
		chain(deps.WebhookHandler.List, authMid.Handle, requireRole("admin", "owner")))
	router.PATCH("/api/v1/webhooks/:webhook_id",
		chain(deps.WebhookHandler.Update, authMid.Handle, requireRole("admin", "owner")))
	router.DELETE("/api/v1/webhooks/:webhook_id",
		chain(deps.WebhookHandler.Delete, authMid.Handle, requireRole("admin", "owner")))

	// Activity feed
	router.GET("/api/v1/boards/:board_id/activity", chain(deps.ActivityHandler.List, authMid.Handle))

	return router
}

// chain applies middlewares right to left around a handler.
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// wrap converts http.HandlerFunc to httprouter.Handle, stashing the route
// params in the request context.
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

func requireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims)
			if !ok {
				errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing credentials", nil)
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next(w, r)
					return
				}
			}
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
		}
	}
}
