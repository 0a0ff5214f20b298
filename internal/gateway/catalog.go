// catalog.go

package gateway

import (
	"net/http"
	"strings"

	"github.com/jacl-coder/EndAxis-Server/internal/catalog"
)

// CatalogHandler 角色库处理器
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler 创建角色库处理器
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// RegisterHandlers 注册HTTP处理器
func (h *CatalogHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/api/characters", h.handleRoster)
	mux.HandleFunc("/api/characters/", h.handleCharacterDetail)
	mux.HandleFunc("/api/icons", h.handleIcons)
	mux.HandleFunc("/api/constants", h.handleConstants)
}

// handleRoster 查询角色列表
func (h *CatalogHandler) handleRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}
	if h.catalog.IsLoading() {
		writeError(w, "角色数据加载中", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, APIResponse{Success: true, Data: h.catalog.Roster()})
}

// handleCharacterDetail 查询单个角色
func (h *CatalogHandler) handleCharacterDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}

	charID := strings.TrimPrefix(r.URL.Path, "/api/characters/")
	if charID == "" || strings.Contains(charID, "/") {
		writeError(w, "无效的角色ID", http.StatusBadRequest)
		return
	}

	record := h.catalog.Character(charID)
	if record == nil {
		writeError(w, "角色不存在", http.StatusNotFound)
		return
	}
	writeJSON(w, APIResponse{Success: true, Data: record})
}

// handleIcons 查询图标库
func (h *CatalogHandler) handleIcons(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, APIResponse{Success: true, Data: h.catalog.Icons()})
}

// handleConstants 查询系统常量
func (h *CatalogHandler) handleConstants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, APIResponse{Success: true, Data: h.catalog.Constants()})
}
