// cmd/web/router.go
//
// Router assembly.
//
// Root middleware runs for every request, matched or not:
//
//	RequestID → RealIP → access log → Recoverer → security headers →
//	force-HTTPS → marketing redirects
//
// Pages live in one group behind request info, the visitor-session store,
// and the route guard.  The not-found handler runs the same chain so
// anonymous visitors of unknown paths are sent to login like everywhere
// else.
package main

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trueartists/account-web/internal/component"
	"github.com/trueartists/account-web/internal/config"
	"github.com/trueartists/account-web/internal/guard"
	"github.com/trueartists/account-web/internal/logger"
	"github.com/trueartists/account-web/internal/middleware"
	"github.com/trueartists/account-web/internal/requestinfo"
	"github.com/trueartists/account-web/internal/routing"
	"github.com/trueartists/account-web/web"
)

func newRouter(cfg *config.Config, env *component.Env, enricher *requestinfo.Enricher) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		logger.Requests(env.Log),
		chimw.Recoverer,
		middleware.Security(middleware.SecurityOptions{HSTS: cfg.HTTP.HSTS}),
		middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS),
		routing.Redirects(routing.MarketingRules(cfg.Site.PublicPageBaseURL)),
	)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, err
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	pages := chi.Chain(enricher.Middleware, env.Sessions.Middleware, guard.Middleware(env.Guard))

	var mountErr error
	r.Group(func(g chi.Router) {
		g.Use(pages...)
		mountErr = component.Mount(g, env)
	})
	if mountErr != nil {
		return nil, mountErr
	}

	r.NotFound(pages.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		env.Render(w, req, http.StatusNotFound, "not_found", env.Page(req, "Not found"))
	}).ServeHTTP)
	return r, nil
}
