// gateway.go

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jacl-coder/EndAxis-Server/config"
	"github.com/jacl-coder/EndAxis-Server/internal/catalog"
)

// Gateway HTTP API网关
type Gateway struct {
	config     *config.Config
	catalog    *catalog.Catalog
	httpServer *http.Server
	isRunning  bool
}

// NewGateway 创建新的网关
func NewGateway(cfg *config.Config, cat *catalog.Catalog) *Gateway {
	return &Gateway{
		config:  cfg,
		catalog: cat,
	}
}

// Start 启动网关
func (g *Gateway) Start() error {
	if g.isRunning {
		return fmt.Errorf("网关已经在运行")
	}

	mux := http.NewServeMux()
	NewAuthHandler().RegisterHandlers(mux)
	NewCatalogHandler(g.catalog).RegisterHandlers(mux)
	NewProjectHandler().RegisterHandlers(mux)

	var handler http.Handler = mux
	handler = NewRateLimiter(120).Middleware(handler)
	handler = NewCORSMiddleware().Middleware(handler)
	handler = NewLoggingMiddleware().Middleware(handler)

	g.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", g.config.Server.GatewayPort),
		Handler: handler,
	}

	go func() {
		log.Printf("API网关启动，监听端口: %d", g.config.Server.GatewayPort)
		if err := g.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务器错误: %v", err)
		}
	}()

	g.isRunning = true
	return nil
}

// Stop 停止网关
func (g *Gateway) Stop() error {
	if !g.isRunning {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("关闭HTTP服务器失败: %w", err)
	}
	g.isRunning = false
	log.Println("API网关已停止")
	return nil
}

// APIResponse 统一响应格式
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// writeJSON 写出JSON响应
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("写出响应失败: %v", err)
	}
}

// writeError 写出错误响应
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(APIResponse{Success: false, Message: message}); err != nil {
		log.Printf("写出响应失败: %v", err)
	}
}
