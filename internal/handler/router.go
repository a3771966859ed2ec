package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gtanav/assistant/backend/internal/catalog"
	"github.com/gtanav/assistant/backend/internal/config"
	"github.com/gtanav/assistant/backend/internal/handler/chat"
	"github.com/gtanav/assistant/backend/internal/handler/directory"
	"github.com/gtanav/assistant/backend/internal/handler/links"
	"github.com/gtanav/assistant/backend/internal/handler/navigation"
	"github.com/gtanav/assistant/backend/internal/handler/profile"
	"github.com/gtanav/assistant/backend/internal/handler/settings"
	"github.com/gtanav/assistant/backend/internal/handler/stream"
	"github.com/gtanav/assistant/backend/internal/handler/voice"
	middlewarePkg "github.com/gtanav/assistant/backend/internal/middleware"
	profileModel "github.com/gtanav/assistant/backend/internal/model/profile"
	chatService "github.com/gtanav/assistant/backend/internal/service/chat"
	navService "github.com/gtanav/assistant/backend/internal/service/navigation"
	settingsService "github.com/gtanav/assistant/backend/internal/service/settings"
	"github.com/gtanav/assistant/backend/pkg/utils"
)

// Deps bundles what the router needs.
type Deps struct {
	Config    *config.Config
	Catalog   *catalog.Catalog
	Profiles  profileModel.Store
	Chat      *chatService.Service
	Simulator *navService.Simulator
	Events    *navigation.Events
	Settings  *settingsService.Store
	Logger    *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(d.Config.Server.CORSOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		if d.Config.RateLimit.Enabled() {
			limiter := middlewarePkg.NewRateLimiter(d.Config.RateLimit.RPS, d.Config.RateLimit.Burst)
			api.Use(limiter.Handler)
		}

		profile.New(d.Profiles).RegisterRoutes(api)
		chat.New(d.Chat, d.Profiles, logger).RegisterRoutes(api)
		stream.New(d.Chat, logger).RegisterRoutes(api)
		voice.NewWebSocketHandler(d.Chat, d.Settings, logger).RegisterRoutes(api)
		navigation.New(d.Catalog, d.Simulator, d.Chat, d.Events, logger).RegisterRoutes(api)
		directory.New(d.Catalog).RegisterRoutes(api)
		settings.New(d.Settings, d.Chat).RegisterRoutes(api)
		links.New().RegisterRoutes(api)
	})

	return r
}
