package contentd

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const uploadsPrefix = "/uploads"

// Handler returns the HTTP handler serving the whole API.
func (a *App) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(a.instrument, a.requireToken)

	router.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	router.HandleFunc("/api/health", a.handleHealth).Methods(http.MethodGet)

	router.HandleFunc(constants.ProductPath, a.handleListProducts).Methods(http.MethodGet)
	router.HandleFunc(constants.ProductPath, a.handleCreateProduct).Methods(http.MethodPost)
	router.HandleFunc(constants.ProductPath+"/{id}", a.handleGetProduct).Methods(http.MethodGet)
	router.HandleFunc(constants.ProductPath+"/{id}", a.handleUpdateProduct).Methods(http.MethodPut)
	router.HandleFunc(constants.ProductPath+"/{id}", a.handleDeleteProduct).Methods(http.MethodDelete)

	router.HandleFunc(constants.ProjectsPath, a.handleListProjects).Methods(http.MethodGet)
	router.HandleFunc(constants.ProjectsPath, a.handleSaveProject).Methods(http.MethodPost)
	router.HandleFunc(constants.ProjectsPath+"/{slug}", a.handleGetProject).Methods(http.MethodGet)
	router.HandleFunc(constants.ProjectsPath+"/{slug}", a.handleDeleteProject).Methods(http.MethodDelete)

	router.HandleFunc(constants.BlogPath, a.handleListBlogPosts).Methods(http.MethodGet)
	router.HandleFunc(constants.BlogPath, a.handleCreateBlogPost).Methods(http.MethodPost)
	router.HandleFunc(constants.BlogPath, a.handleUpdateBlogPost).Methods(http.MethodPut)
	router.HandleFunc(constants.BlogPath+"/{id}", a.handleGetBlogPost).Methods(http.MethodGet)

	router.HandleFunc(constants.UploadPath, a.handleUpload).Methods(http.MethodPost)
	router.Handle(constants.EventsPath, a.hub).Methods(http.MethodGet)

	router.HandleFunc("/api/admin/read-only", a.handleGetReadOnly).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/read-only", a.handleSetReadOnly).Methods(http.MethodPut)

	if a.config.Storage == StorageLocal {
		fs := http.StripPrefix(uploadsPrefix+"/", http.FileServer(http.Dir(a.config.UploadDir)))
		router.PathPrefix(uploadsPrefix + "/").Handler(fs).Methods(http.MethodGet, http.MethodHead)
	}

	return router
}

// requireToken rejects writes without the admin bearer token when one is
// configured.
func (a *App) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := a.config.AdminToken
		if token == "" || r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		got := r.Header.Get("Authorization")
		if subtle.ConstantTimeCompare([]byte(got), []byte("Bearer "+token)) != 1 {
			respondError(w, http.StatusUnauthorized, "missing or invalid admin token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// instrument records request metrics and logs every request.
func (a *App) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		elapsed := time.Since(start)
		a.metrics.RecordRequest(route, r.Method, strconv.Itoa(rec.status), elapsed)
		a.logger.Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", rec.status).
			Dur("duration", elapsed).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack lets the events feed upgrade through the recorder.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
