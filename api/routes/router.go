package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixelcrate/gameshelf-backend/api/controllers"
	"github.com/pixelcrate/gameshelf-backend/api/middleware"
	"github.com/pixelcrate/gameshelf-backend/internal/catalog"
	"github.com/pixelcrate/gameshelf-backend/internal/identity"
	"github.com/pixelcrate/gameshelf-backend/internal/sessions"
	"github.com/pixelcrate/gameshelf-backend/internal/wishlist"
	"github.com/pixelcrate/gameshelf-backend/pkg/config"
	"github.com/pixelcrate/gameshelf-backend/pkg/db"
	"github.com/pixelcrate/gameshelf-backend/pkg/logger"
	pkgmetrics "github.com/pixelcrate/gameshelf-backend/pkg/metrics"
	"github.com/pixelcrate/gameshelf-backend/pkg/redis"
)

type sessionManager interface {
	sessions.CurrentUserResolver
	Bind(ctx context.Context, userID int64) (string, error)
	Unbind(ctx context.Context, token string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionMgr sessionManager,
	catalogService catalog.Service,
	identityService identity.Service,
	wishlistService wishlist.Service,
	httpMetrics *pkgmetrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, sessionMgr, identityService, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
				Post("/login", controllers.AuthLogin(identityService, sessionMgr, cfg.Session, logg))
			r.Post("/logout", controllers.AuthLogout(sessionMgr, cfg.Session, logg))
		})

		r.Get("/games", controllers.GamesList(catalogService, logg))
		r.Get("/games/{gameID}", controllers.GameDetail(catalogService, logg))
		r.Get("/me", controllers.Me(identityService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(logg))

			r.Get("/wishlist", controllers.WishlistList(wishlistService, logg))
			r.Post("/games/{gameID}/wishlist/toggle", controllers.WishlistToggle(wishlistService, logg))
		})
	})

	return r
}
