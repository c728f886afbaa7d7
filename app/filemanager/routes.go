package filemanager

import (
	"net/http"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/core/health"
	"github.com/dmitrymomot/bucketdesk/core/logger"
	"github.com/dmitrymomot/bucketdesk/core/response"
	"github.com/dmitrymomot/bucketdesk/core/router"
)

func (a *App) registerRoutes() {
	h := &handlers{svc: a.service, cfg: a.config}
	r := a.router

	r.Get("/api/files/list", h.listFiles)
	r.Get("/api/files/get", h.getFile)
	r.Post("/api/files/upload", h.uploadFile)
	r.Delete("/api/files/delete", h.deleteFile)
	r.Get("/api/files/folders", h.listFolders)
	r.Get("/api/files/search", h.searchFiles)
	r.Get("/api/config", h.clientConfig)

	r.Post("/api/files/multipart/init", h.initMultipart)
	r.Post("/api/files/multipart/upload", h.uploadPart)
	r.Post("/api/files/multipart/complete", h.completeMultipart)
	r.Post("/api/files/multipart/abort", h.abortMultipart)

	r.Get("/dev/health", health.Liveness[*router.Context])
	r.Get("/dev/ready", health.Readiness[*router.Context](a.logger.With(logger.Component("health")),
		health.Check{Name: "bucket", Fn: a.service.Ping},
	))
	r.Get("/dev/routes", a.devRoutes)
	r.Get("/dev/metrics", fromHTTPHandler(a.metrics.Handler()))
}

func (a *App) devRoutes(ctx *router.Context) handler.Response {
	return response.Success(a.router.Routes())
}

// fromHTTPHandler adapts a plain http.Handler into a route handler.
func fromHTTPHandler(h http.Handler) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			h.ServeHTTP(w, r)
			return nil
		}
	}
}
