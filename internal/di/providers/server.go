package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/librarysites/librarysites-server/internal/api"
	"github.com/librarysites/librarysites-server/internal/config"
	"github.com/librarysites/librarysites-server/internal/hostname"
	"github.com/librarysites/librarysites-server/internal/logger"
	"github.com/librarysites/librarysites-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideResolver provides the hostname resolver backed by the store's
// custom domain mappings.
func ProvideResolver(i do.Injector) (*hostname.Resolver, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return hostname.NewResolver(
		cfg.Tenancy.RootDomain,
		cfg.Tenancy.PreviewSuffixes,
		storeHandle.Store,
		log.WithComponent("hostname").Logger,
	), nil
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	resolver := do.MustInvoke[*hostname.Resolver](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:       do.MustInvoke[*service.AuthService](i),
		Sessions:   do.MustInvoke[*service.SessionService](i),
		Subdomains: do.MustInvoke[*service.SubdomainService](i),
		Libraries:  do.MustInvoke[*service.LibraryService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, resolver, api.Options{
		Production:         cfg.App.IsProduction(),
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RootDomain:         cfg.Tenancy.RootDomain,
		DefaultProductID:   cfg.Tenancy.DefaultProductID,
	}, log.Logger)

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
			log.WithError(err).Error("HTTP server error")
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "root_domain", cfg.Tenancy.RootDomain)

	return &HTTPServerHandle{Server: srv}, nil
}
