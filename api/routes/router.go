package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/lensfinderz-backend/api/controllers"
	offercontrollers "github.com/angelmondragon/lensfinderz-backend/api/controllers/offers"
	"github.com/angelmondragon/lensfinderz-backend/api/middleware"
	"github.com/angelmondragon/lensfinderz-backend/internal/offers"
	"github.com/angelmondragon/lensfinderz-backend/pkg/config"
	"github.com/angelmondragon/lensfinderz-backend/pkg/db"
	"github.com/angelmondragon/lensfinderz-backend/pkg/logger"
	"github.com/angelmondragon/lensfinderz-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	pubsubP controllers.Pinger,
	gatherer prometheus.Gatherer,
	offersService offers.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	deps := map[string]controllers.Pinger{"db": dbP}
	if redisClient != nil {
		deps["redis"] = redisClient
	}
	if pubsubP != nil {
		deps["pubsub"] = pubsubP
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	offersPolicy := middleware.NewRateLimitPolicy(
		"offers",
		cfg.Offers.RateLimitWindow,
		cfg.Offers.RateLimitPerIP,
		cfg.Offers.RateLimitPerOrg,
	)

	r.Route("/api/v1/offers", func(r chi.Router) {
		r.Use(middleware.OrganizationContext(logg))
		if redisClient != nil {
			r.Use(middleware.RateLimit(offersPolicy, redisClient, logg))
		}
		r.Post("/calculate", offercontrollers.Calculate(offersService, logg))
		r.Get("/rules", offercontrollers.ListRules(offersService, logg))
	})

	return r
}
