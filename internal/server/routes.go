package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/corkboard/internal/api/v1"
	"github.com/gosuda/corkboard/internal/auth"
	"github.com/gosuda/corkboard/internal/hub"
	"github.com/gosuda/corkboard/internal/store/postgres"
	redisstore "github.com/gosuda/corkboard/internal/store/redis"
)

func registerAuthRoutes(api huma.API, authSvc *auth.Service) {
	v1.RegisterAuthRoutes(api, authSvc)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, h *hub.Hub, access *redisstore.AccessCache) {
	v1.RegisterBoardRoutes(api, store)
	v1.RegisterItemRoutes(api, store, h)
	v1.RegisterCommentRoutes(api, store, h)
	v1.RegisterTemplateRoutes(api, store)
	v1.RegisterShareRoutes(api, store, access)
	v1.RegisterAuditRoutes(api, store)
}

func registerWSRoutes(r chi.Router, h *hub.Hub) {
	r.Get("/stream", h.ServeStream)
}
