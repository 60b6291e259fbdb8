// internal/server/router.go
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"remotehire/internal/common/logger"
	"remotehire/internal/common/observability"
)

// RouterDependencies wires the HTTP surface together.
type RouterDependencies struct {
	Handlers       *Handlers
	Auth           *AuthMiddleware
	Limiter        *RedisLimiter
	RateLimit      int
	RateWindow     time.Duration
	Obs            *observability.Observability
	Log            logger.Logger
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

type Router struct {
	deps RouterDependencies
}

func NewRouter(deps RouterDependencies) http.Handler {
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = 1 << 20
	}
	if deps.RateWindow <= 0 {
		deps.RateWindow = time.Minute
	}
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := chain(r.baseHandler(),
		recoverPanic(r.deps.Log),
		bodyLimit(r.deps.MaxBodyBytes),
		requestMetrics(r.deps.Obs),
		requestTimeout(r.deps.RequestTimeout),
	)
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			promhttp.Handler().ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/api/applications":
			r.public(http.HandlerFunc(r.deps.Handlers.SubmitApplication)).ServeHTTP(w, req)
			return
		case req.Method == http.MethodGet && path == "/api/status":
			r.public(http.HandlerFunc(r.deps.Handlers.GetStatus)).ServeHTTP(w, req)
			return
		}

		if strings.HasPrefix(path, "/api/admin/") {
			protected := r.deps.Auth.Authenticate(http.HandlerFunc(r.handleAdmin))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) public(next http.Handler) http.Handler {
	return rateLimit(r.deps.Limiter, r.deps.RateLimit, r.deps.RateWindow)(next)
}

func (r *Router) handleAdmin(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodPost && path == "/api/admin/status-update":
		r.deps.Handlers.UpdateStatus(w, req)
	case req.Method == http.MethodPost && path == "/api/admin/applications":
		r.deps.Handlers.ManualLog(w, req)
	case req.Method == http.MethodGet && path == "/api/admin/applications":
		r.deps.Handlers.ListApplications(w, req)
	case req.Method == http.MethodPost && path == "/api/admin/notes":
		r.deps.Handlers.UpdateNotes(w, req)
	case req.Method == http.MethodPost && path == "/api/admin/delete":
		r.deps.Handlers.DeleteRecord(w, req)
	case req.Method == http.MethodPost && path == "/api/admin/bulk-delete":
		r.deps.Handlers.BulkDelete(w, req)
	case req.Method == http.MethodPost && path == "/api/admin/self-destruct":
		r.deps.Handlers.SelfDestruct(w, req)
	default:
		http.NotFound(w, req)
	}
}
