package directory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gtanav/assistant/backend/internal/catalog"
	"github.com/gtanav/assistant/backend/internal/model/directory"
	"github.com/gtanav/assistant/backend/pkg/utils"
)

// noToolsMessage is shown when a tools search matches nothing.
const noToolsMessage = "No tools found"

// Handler 目录数据（工具、城市服务、探索页）的HTTP处理器
type Handler struct {
	catalog *catalog.Catalog
}

// New 创建目录处理器
func New(c *catalog.Catalog) *Handler {
	return &Handler{catalog: c}
}

// RegisterRoutes 注册目录路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/tools", h.handleTools)
	r.Get("/services", h.handleServices)
	r.Get("/explore", h.handleExplore)
}

// ToolsResponse 工具搜索结果
type ToolsResponse struct {
	Query      string                   `json:"query,omitempty"`
	Categories []directory.ToolCategory `json:"categories"`
	Empty      bool                     `json:"empty"`
	Message    string                   `json:"message,omitempty"`
}

// ExploreResponse 探索页数据
type ExploreResponse struct {
	Categories []directory.PlaceCategory `json:"categories"`
	Featured   []directory.Place         `json:"featured"`
	Weather    directory.Weather         `json:"weather"`
}

func (h *Handler) handleTools(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	categories := directory.FilterTools(h.catalog.ToolCategories, query)

	resp := ToolsResponse{Query: query, Categories: categories}
	if len(categories) == 0 {
		resp.Empty = true
		resp.Message = noToolsMessage
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleServices(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.catalog.QuickServices)
}

func (h *Handler) handleExplore(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, ExploreResponse{
		Categories: h.catalog.PlaceCategories,
		Featured:   directory.FeaturedPlaces(h.catalog.Places),
		Weather:    h.catalog.Weather,
	})
}
