package navigation

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gtanav/assistant/backend/internal/catalog"
	"github.com/gtanav/assistant/backend/internal/model/chat"
	navservice "github.com/gtanav/assistant/backend/internal/service/navigation"
	"github.com/gtanav/assistant/backend/pkg/utils"
)

// Sessions resolves chat sessions; navigation runs hang off them.
type Sessions interface {
	GetSession(ctx context.Context, sessionID string) (chat.Session, error)
}

// Handler 导航相关的HTTP处理器
type Handler struct {
	catalog   *catalog.Catalog
	simulator *navservice.Simulator
	sessions  Sessions
	events    *Events
	logger    *zap.Logger
}

// New 创建导航处理器
func New(c *catalog.Catalog, simulator *navservice.Simulator, sessions Sessions, events *Events, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog:   c,
		simulator: simulator,
		sessions:  sessions,
		events:    events,
		logger:    logger.Named("navigation"),
	}
}

// RegisterRoutes 注册导航路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/navigation", func(nav chi.Router) {
		nav.Get("/routes", h.handleRoutes)
		nav.Get("/steps", h.handleSteps)
		nav.Get("/toll", h.handleToll)

		nav.Route("/{sessionID}", func(s chi.Router) {
			s.Use(h.requireSession)
			s.Get("/", h.handleStatus)
			s.Post("/start", h.handleStart)
			s.Post("/stop", h.handleStop)
			if h.events != nil {
				s.Get("/events", h.events.srv.ServeHTTP)
			}
		})
	})
}

func (h *Handler) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.catalog.Routes)
}

func (h *Handler) handleSteps(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.catalog.Steps)
}

func (h *Handler) handleToll(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.catalog.Toll)
}

type startRequest struct {
	RouteID string `json:"routeId" validate:"max=64"`
}

// handleStart 开始（或重新开始）模拟导航，未指定路线时使用推荐路线
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload startRequest
	if r.ContentLength != 0 {
		if err := utils.DecodeJSON(w, r, &payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if payload.RouteID == "" {
		payload.RouteID = h.catalog.RecommendedRoute().ID
	}

	status, err := h.simulator.Start(sessionIDFrom(r), payload.RouteID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, navservice.ErrRouteNotFound) || errors.Is(err, navservice.ErrSessionRequired) {
			code = http.StatusBadRequest
		}
		utils.RespondError(w, code, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, status)
}

func (h *Handler) handleStop(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.simulator.Stop(sessionIDFrom(r)))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.simulator.Status(sessionIDFrom(r)))
}

func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.sessions.GetSession(r.Context(), sessionIDFrom(r)); err != nil {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionIDFrom(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}
