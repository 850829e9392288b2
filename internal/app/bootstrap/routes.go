// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminfeature "github.com/dissyboard/dissyboard/internal/app/features/admin"
	authdiscordfeature "github.com/dissyboard/dissyboard/internal/app/features/authdiscord"
	errorsfeature "github.com/dissyboard/dissyboard/internal/app/features/errors"
	healthfeature "github.com/dissyboard/dissyboard/internal/app/features/health"
	homefeature "github.com/dissyboard/dissyboard/internal/app/features/home"
	listingsfeature "github.com/dissyboard/dissyboard/internal/app/features/listings"
	logoutfeature "github.com/dissyboard/dissyboard/internal/app/features/logout"
	userinfofeature "github.com/dissyboard/dissyboard/internal/app/features/userinfo"
	"github.com/dissyboard/dissyboard/internal/app/moderation"
	"github.com/dissyboard/dissyboard/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, store setup, and any Startup hooks
// have completed. Dissyboard initializes the template engine, applies
// session middleware, and mounts feature routers for the public list, the
// submission flow, Discord sign-in, and the moderation panel.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// The moderation engine owns every listing state change.
	engine := moderation.New(deps.Listings, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Listings, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Uploaded listing images
	r.Handle(appCfg.UploadURL+"/*", fileserver.Handler(appCfg.UploadURL, appCfg.UploadPath))

	// Landing page with the public server list
	homeHandler := homefeature.NewHandler(engine, errLog, appCfg.AdminID, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Listings API and submission flow
	listingsHandler := listingsfeature.NewHandler(engine, deps.Uploads, errLog, appCfg.AdminID, logger)
	listingsfeature.MountRoutes(r, listingsHandler)

	// Authentication
	authHandler := authdiscordfeature.NewHandler(sessionMgr, deps.OAuthState,
		appCfg.DiscordClientID, appCfg.DiscordClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/discord", authdiscordfeature.Routes(authHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Session identity API
	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Moderation panel
	adminHandler := adminfeature.NewHandler(engine, errLog, appCfg.AdminID, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler))

	return r, nil
}
