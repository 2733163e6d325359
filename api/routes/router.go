package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osgiliath-dev/tradepost/api/controllers"
	"github.com/osgiliath-dev/tradepost/api/middleware"
	"github.com/osgiliath-dev/tradepost/internal/inventory"
	"github.com/osgiliath-dev/tradepost/internal/offers"
	"github.com/osgiliath-dev/tradepost/internal/users"
	"github.com/osgiliath-dev/tradepost/pkg/config"
	"github.com/osgiliath-dev/tradepost/pkg/logger"
	"github.com/osgiliath-dev/tradepost/pkg/metrics"
	pkgredis "github.com/osgiliath-dev/tradepost/pkg/redis"
)

// RouterParams bundles the router's collaborators. MetricsHandler serves the
// /metrics scrape endpoint; IdempotencyStore may be nil, in which case replay
// protection is disabled.
type RouterParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               controllers.Pinger
	IdempotencyStore pkgredis.IdempotencyStore
	HTTPMetrics      *metrics.HTTPMetrics
	MetricsHandler   http.Handler

	UsersService     users.Service
	InventoryService inventory.Service
	OffersService    offers.Service
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(p.Config.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.DB, p.Logger))
	})

	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(p.IdempotencyStore, p.Logger))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.UserList(p.UsersService, p.Logger))
			r.Post("/", controllers.UserCreate(p.UsersService, p.Logger))
			r.Route("/{userId}", func(r chi.Router) {
				r.Get("/", controllers.UserGet(p.UsersService, p.Logger))
				r.Get("/inventory", controllers.UserInventory(p.UsersService, p.InventoryService, p.Logger))
				r.Get("/offers", controllers.UserOffers(p.OffersService, p.Logger))
			})
		})

		r.Get("/inventory", controllers.InventoryAll(p.UsersService, p.InventoryService, p.Logger))

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", controllers.OfferList(p.OffersService, p.Logger))
			r.Post("/", controllers.OfferPropose(p.OffersService, p.Logger))
			r.Route("/{offerId}", func(r chi.Router) {
				r.Get("/", controllers.OfferGet(p.OffersService, p.Logger))
				r.Post("/respond", controllers.OfferRespond(p.UsersService, p.OffersService, p.Logger))
			})
		})
	})

	return r
}
