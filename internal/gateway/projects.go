// projects.go

package gateway

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jacl-coder/EndAxis-Server/internal/project"
)

// ProjectHandler 工程库处理器
type ProjectHandler struct{}

// NewProjectHandler 创建工程库处理器
func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{}
}

// RegisterHandlers 注册HTTP处理器
func (h *ProjectHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/api/projects", h.handleProjects)
	mux.HandleFunc("/api/projects/", h.handleProjectDetail)
}

// SaveProjectRequest 保存工程请求
type SaveProjectRequest struct {
	Name string          `json:"name"`
	Blob json.RawMessage `json:"blob"`
}

// handleProjects 处理工程列表与新建保存
func (h *ProjectHandler) handleProjects(w http.ResponseWriter, r *http.Request) {
	_, userID, err := ValidateToken(bearerToken(r))
	if err != nil {
		writeError(w, "未授权", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		projects, err := project.ListProjects(userID)
		if err != nil {
			log.Printf("查询工程列表失败: %v", err)
			writeError(w, "查询工程列表失败", http.StatusInternalServerError)
			return
		}
		writeJSON(w, APIResponse{Success: true, Data: projects})

	case http.MethodPost:
		var req SaveProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "无效的请求格式", http.StatusBadRequest)
			return
		}
		if req.Name == "" || len(req.Blob) == 0 {
			writeError(w, "工程名称和数据不能为空", http.StatusBadRequest)
			return
		}
		id, err := project.SaveProject(userID, req.Name, req.Blob)
		if err != nil {
			log.Printf("保存工程失败: %v", err)
			writeError(w, "保存工程失败", http.StatusInternalServerError)
			return
		}
		writeJSON(w, APIResponse{Success: true, Message: "保存成功", Data: map[string]string{"id": id}})

	default:
		writeError(w, "不支持的方法", http.StatusMethodNotAllowed)
	}
}

// handleProjectDetail 处理单个工程的读取、更新、删除与导出
func (h *ProjectHandler) handleProjectDetail(w http.ResponseWriter, r *http.Request) {
	_, userID, err := ValidateToken(bearerToken(r))
	if err != nil {
		writeError(w, "未授权", http.StatusUnauthorized)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/projects/")
	projectID := rest
	export := false
	if strings.HasSuffix(rest, "/export") {
		projectID = strings.TrimSuffix(rest, "/export")
		export = true
	}
	if projectID == "" || strings.Contains(projectID, "/") {
		writeError(w, "无效的工程ID", http.StatusBadRequest)
		return
	}

	if export {
		if r.Method != http.MethodGet {
			writeError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
			return
		}
		h.exportProject(w, projectID, userID)
		return
	}

	switch r.Method {
	case http.MethodGet:
		stored, err := project.LoadProject(projectID, userID)
		if err != nil {
			writeError(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, APIResponse{Success: true, Data: stored})

	case http.MethodPut:
		var req SaveProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "无效的请求格式", http.StatusBadRequest)
			return
		}
		if len(req.Blob) == 0 {
			writeError(w, "工程数据不能为空", http.StatusBadRequest)
			return
		}
		if err := project.UpdateProject(projectID, userID, req.Blob); err != nil {
			writeError(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, APIResponse{Success: true, Message: "更新成功"})

	case http.MethodDelete:
		if err := project.DeleteProject(projectID, userID); err != nil {
			writeError(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, APIResponse{Success: true, Message: "删除成功"})

	default:
		writeError(w, "不支持的方法", http.StatusMethodNotAllowed)
	}
}

// exportProject 以附件形式下载工程数据
func (h *ProjectHandler) exportProject(w http.ResponseWriter, projectID string, userID int64) {
	stored, err := project.LoadProject(projectID, userID)
	if err != nil {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	filename := project.ExportFileName(time.Now())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if _, err := w.Write(stored.Blob); err != nil {
		log.Printf("写出工程文件失败: %v", err)
	}
}
