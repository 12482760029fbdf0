package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/tennis-history/docs"
	"github.com/Dosada05/tennis-history/handlers"
	"github.com/Dosada05/tennis-history/middleware"
	"github.com/Dosada05/tennis-history/models"
)

// Options настраивает общий стек middleware.
type Options struct {
	Logger         *slog.Logger
	JWTSecret      string
	AllowedOrigins []string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
}

type Handlers struct {
	Player     *handlers.PlayerHandler
	Stats      *handlers.StatsHandler
	Country    *handlers.CountryHandler
	Tournament *handlers.TournamentHandler
	H2H        *handlers.H2HHandler
	Event      *handlers.EventHandler
	Entry      *handlers.EntryHandler
	Integrity  *handlers.IntegrityHandler
}

// editorsOnly закрывает группу маршрутов: запись только для редакторов.
func editorsOnly(r chi.Router, opts Options) {
	r.Use(middleware.Authenticate(opts.JWTSecret))
	r.Use(middleware.Authorize(models.RoleEditor, models.RoleAdmin))
	r.Use(middleware.Audit(opts.Logger))
}

func SetupRoutes(router chi.Router, opts Options, h Handlers) {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(timeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Request-Id", "Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", h.Integrity.Health)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimit > 0 && opts.RateWindow > 0 {
			r.Use(middleware.RateLimit(opts.RateLimit, opts.RateWindow))
		}

		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.Player.ListPlayers)
			r.Get("/groups", h.Player.GroupPlayers)
			r.Route("/{playerID}", func(r chi.Router) {
				r.Get("/", h.Player.GetPlayerByID)
				r.Get("/country", h.Player.GetCountryAt)
				r.Get("/winloss", h.Stats.GetWinLoss)
				r.Get("/titles", h.Stats.GetTitles)
				r.Get("/wl-index", h.Stats.GetWLIndex)
				r.Get("/serve-return", h.Stats.GetServeReturn)
				r.Get("/opponents", h.Stats.GetTopOpponents)
				r.Get("/activity", h.Stats.GetActivity)
			})
		})

		r.Get("/countries", h.Country.ListCountries)
		r.Get("/tournaments", h.Tournament.ListTournaments)

		r.Route("/h2h", func(r chi.Router) {
			r.Get("/players", h.H2H.GetPlayers)
			r.Get("/matches", h.H2H.GetMatches)
			r.Get("/grid", h.H2H.GetGrid)
		})

		r.Route("/events/{eventID}", func(r chi.Router) {
			r.Get("/entries", h.Event.GetEntries)
			r.Get("/seeds", h.Event.GetSeeds)
			r.Get("/entry-info", h.Event.GetEntryInfo)

			r.Group(func(r chi.Router) {
				editorsOnly(r, opts)
				r.Post("/entry-info/sync", h.Event.SyncEntryInfo)
				r.Post("/points", h.Event.RecomputePoints)
			})
		})

		r.Get("/integrity", h.Integrity.Scan)

		r.Group(func(r chi.Router) {
			editorsOnly(r, opts)

			r.Post("/entries", h.Entry.CreateEntry)
			r.Put("/entries", h.Entry.UpdateEntry)
			r.Post("/entry-info", h.Entry.CreateEntryInfo)
			r.Put("/entry-info", h.Entry.UpdateEntryInfo)
			r.Post("/seeds", h.Entry.CreateSeed)
			r.Put("/seeds", h.Entry.UpdateSeed)

			r.With(middleware.Authorize(models.RoleAdmin)).Post("/integrity/reports", h.Integrity.Publish)
		})
	})
}
