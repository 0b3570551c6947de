package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cloudevolvers/go-contentstore/internal/content"
	"github.com/cloudevolvers/go-contentstore/internal/logging"
	"github.com/cloudevolvers/go-contentstore/internal/settings"
	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

// DefaultBasePath is where Register mounts the API when no base path is set.
const DefaultBasePath = "/api"

var (
	ErrRouterRequired = errors.New("http: router is required")
	ErrAPINil         = errors.New("http: api is nil")
)

// API serves the content collections and the homepage settings.
type API struct {
	basePath        string
	defaultLanguage string
	languages       []string
	logger          interfaces.Logger

	posts    *content.Service[*content.Post]
	services *content.Service[*content.ServiceOffering]
	showcase *content.Service[*content.ShowcaseItem]
	settings *settings.Service
	renderer interfaces.MarkdownRenderer
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance. Collections without a service are not
// mounted.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath:        DefaultBasePath,
		defaultLanguage: content.DefaultLanguage,
		logger:          logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithLanguages sets the default language and the languages requests may
// select through Accept-Language.
func WithLanguages(defaultLanguage string, supported ...string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(defaultLanguage); trimmed != "" {
			api.defaultLanguage = trimmed
		}
		api.languages = append([]string(nil), supported...)
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// WithPostService wires the blog collection.
func WithPostService(service *content.Service[*content.Post]) Option {
	return func(api *API) {
		api.posts = service
	}
}

// WithOfferingService wires the services collection.
func WithOfferingService(service *content.Service[*content.ServiceOffering]) Option {
	return func(api *API) {
		api.services = service
	}
}

// WithShowcaseService wires the showcase collection.
func WithShowcaseService(service *content.Service[*content.ShowcaseItem]) Option {
	return func(api *API) {
		api.showcase = service
	}
}

// WithSettingsService wires the homepage settings.
func WithSettingsService(service *settings.Service) Option {
	return func(api *API) {
		api.settings = service
	}
}

// WithRenderer enables ?render=html on blog posts.
func WithRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(api *API) {
		api.renderer = renderer
	}
}

// Register attaches the API routes to r under the base path.
func (api *API) Register(r chi.Router) error {
	if r == nil {
		return ErrRouterRequired
	}
	if api == nil {
		return ErrAPINil
	}

	base := joinPath(api.basePath, "")
	r.Route(base, func(r chi.Router) {
		if api.posts != nil {
			blog := &collectionRoutes[*content.Post]{
				api:      api,
				service:  api.posts,
				plural:   "posts",
				singular: "post",
				decorate: api.renderPost,
			}
			r.Route("/"+api.posts.Kind().Name, blog.mount)
		}
		if api.services != nil {
			offerings := &collectionRoutes[*content.ServiceOffering]{
				api:      api,
				service:  api.services,
				plural:   "services",
				singular: "service",
			}
			r.Route("/"+api.services.Kind().Name, offerings.mount)
		}
		if api.showcase != nil {
			items := &collectionRoutes[*content.ShowcaseItem]{
				api:         api,
				service:     api.showcase,
				plural:      "items",
				singular:    "item",
				placeholder: showcasePlaceholder,
			}
			r.Route("/"+api.showcase.Kind().Name, items.mount)
		}
		if api.settings != nil {
			r.Route("/settings/homepage", api.mountSettings)
		}
	})
	return nil
}

// Router returns a standalone chi router serving the API and /healthz.
func (api *API) Router() (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(api.requestLogging)
	r.Get("/healthz", handleHealth)
	if err := api.Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
}

func (api *API) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ctx := r.Context()
		if id := middleware.GetReqID(ctx); id != "" {
			ctx = logging.ContextWithFields(ctx, map[string]any{"request_id": id})
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(ww, r)

		logging.FromContext(ctx, api.logger).Info("http.request.completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
}

// writeError renders err. Internal failures are logged and answered with a
// generic message.
func (api *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context(), api.logger).Error("http.request.failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, payload)
}
