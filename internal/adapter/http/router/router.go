package router

import (
	"net/http"

	"github.com/PartyAppOfficial/Partyapp/internal/adapter/http/handler"
	"github.com/PartyAppOfficial/Partyapp/internal/adapter/http/middleware"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Registration *handler.RegistrationHandler
	Geo          *handler.GeoHandler
	Contact      *handler.ContactHandler
	WS           *handler.WSHandler
}

type Options struct {
	Sessions    middleware.SessionResolver
	CookieName  string
	CORSOrigins []string
	StaticDir   string
	Metrics     *metrics.MetricsManager
	ServiceName string
}

func New(h Handlers, opts Options, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log, opts.Metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(opts.CORSOrigins))
	r.Use(middleware.SessionAuth(opts.Sessions, opts.CookieName, log))

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Get("/ws", h.WS.Serve)

	r.Route("/api", func(api chi.Router) {
		SetupAuthRoutes(api, h.Auth)
		SetupRegistrationRoutes(api, h.Registration)
		SetupGeoRoutes(api, h.Geo)
		api.Post("/contact", h.Contact.Submit)
	})

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}

	return otelhttp.NewHandler(r, opts.ServiceName)
}

func SetupAuthRoutes(r chi.Router, h *handler.AuthHandler) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/signup", h.Signup)
	r.Get("/auth/session", h.Session)

	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.RequireSession)

		authRouter.Post("/auth/logout", h.Logout)
		authRouter.Put("/auth/profile", h.UpdateProfile)
	})
}

// SetupRegistrationRoutes leaves the submit route open to guests: the
// registration flow answers them with the login prompt.
func SetupRegistrationRoutes(r chi.Router, h *handler.RegistrationHandler) {
	r.Post("/businesses", h.Register)
	r.Post("/media/validate", h.CheckMedia)
}

func SetupGeoRoutes(r chi.Router, h *handler.GeoHandler) {
	r.Get("/geo/config", h.Config)
	r.Get("/geo/autocomplete", h.Autocomplete)
	r.Post("/geo/init", h.Init)
	r.Post("/geo/reset", h.Reset)
	r.Post("/geo/move", h.Move)
	r.Post("/geo/place", h.Place)
	r.Post("/geo/address", h.Address)
}
