// Credential portal core API.
//
// GET    /healthz                                      # Liveness (public)
// POST   /api/items                                    # Create vault item (auth)
// GET    /api/items                                    # List accessible items (auth)
// GET    /api/items/{id}                               # Get item (auth)
// PUT    /api/items/{id}                               # Update item (auth)
// DELETE /api/items/{id}                               # Delete item, owner only (auth)
// PUT    /api/items/{id}/grants                        # Grant/update access (auth)
// DELETE /api/items/{id}/grants/{grantee_type}/{grantee_id}  # Revoke access (auth)
// GET    /api/items/{id}/history                       # Audit trail (auth)
// /api/folders, /api/groups, /api/platforms            # See per-package ops

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	folderAPI "credvault/internal/app/server/api/http/folder"
	groupAPI "credvault/internal/app/server/api/http/group"
	healthAPI "credvault/internal/app/server/api/http/health"
	itemAPI "credvault/internal/app/server/api/http/item"
	"credvault/internal/app/server/api/http/middleware"
	"credvault/internal/app/server/api/http/middleware/auth"
	"credvault/internal/app/server/api/http/middleware/logger"
	"credvault/internal/app/server/api/http/middleware/origin"
	platformAPI "credvault/internal/app/server/api/http/platform"
	"credvault/internal/crypto"
	"credvault/internal/domain/access"
	"credvault/internal/domain/audit"
	"credvault/internal/domain/folder"
	"credvault/internal/domain/group"
	"credvault/internal/domain/platform"
	"credvault/internal/domain/session"
	"credvault/internal/domain/vault"
	"credvault/internal/infrastructure/storage/postgres"
)

type Handlers struct {
	Health   *healthAPI.Handler
	Item     *itemAPI.Handler
	Folder   *folderAPI.Handler
	Group    *groupAPI.Handler
	Platform *platformAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.
func New(storage *postgres.Storage, codec *crypto.Codec, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Credvault API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, codec, log)
	h.Health.SetupRoutes(API)
	h.Item.SetupRoutes(API)
	h.Folder.SetupRoutes(API)
	h.Group.SetupRoutes(API)
	h.Platform.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, codec *crypto.Codec, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	auditRepo := postgres.NewAuditRepository(storage, log)
	auditService := audit.NewService(auditRepo, log)

	grantRepo := postgres.NewGrantRepository(storage, log)
	resolver := access.NewService(grantRepo, log)

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage, log)
	groupRepo := postgres.NewGroupRepository(storage, log)
	itemRepo := postgres.NewItemRepository(storage, log)
	vaultService := vault.NewService(itemRepo, resolver, codec, auditService, userRepo, groupRepo, storage, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(origin.Middleware())
	middlewares.Add(loggerMW.Middleware())
	itemHandler := itemAPI.NewHandler(vaultService, log, middlewares.GetAllAndClear())

	folderRepo := postgres.NewFolderRepository(storage, log)
	folderService := folder.NewService(folderRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	folderHandler := folderAPI.NewHandler(folderService, log, middlewares.GetAllAndClear())

	groupService := group.NewService(groupRepo, userRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	groupHandler := groupAPI.NewHandler(groupService, log, middlewares.GetAllAndClear())

	platformRepo := postgres.NewPlatformRepository(storage, log)
	platformService := platform.NewService(platformRepo, codec, auditService, storage, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(origin.Middleware())
	middlewares.Add(loggerMW.Middleware())
	platformHandler := platformAPI.NewHandler(platformService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:   healthHandler,
		Item:     itemHandler,
		Folder:   folderHandler,
		Group:    groupHandler,
		Platform: platformHandler,
	}
}
