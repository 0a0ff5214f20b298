// server.go

package session

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jacl-coder/EndAxis-Server/config"
	"github.com/jacl-coder/EndAxis-Server/internal/catalog"
	"github.com/jacl-coder/EndAxis-Server/internal/project"
	"github.com/jacl-coder/EndAxis-Server/internal/timeline"
)

// SessionServer 编辑会话服务器
// 每个连接持有一份独立的时间轴文档，操作在会话协程内串行执行
type SessionServer struct {
	config   *config.Config
	catalog  *catalog.Catalog
	sessions map[string]*Session
	mutex    sync.RWMutex

	httpServer *http.Server
	shutdown   chan struct{}
	isRunning  bool
}

// Session 一个编辑会话
type Session struct {
	ID         string
	Owner      string
	OwnerID    int64
	LastActive time.Time

	doc       *timeline.Document
	autosaver *project.Autosaver
	server    *SessionServer
	revision  int

	// 通信通道
	Send chan []byte

	// mu 保护 IsAlive 与 Send 通道的关闭时序
	mu      sync.Mutex
	IsAlive bool
}

// NewSessionServer 创建编辑会话服务器
func NewSessionServer(cfg *config.Config, cat *catalog.Catalog) *SessionServer {
	return &SessionServer{
		config:   cfg,
		catalog:  cat,
		sessions: make(map[string]*Session),
		shutdown: make(chan struct{}),
	}
}

// Start 启动会话服务器
func (s *SessionServer) Start() error {
	if s.isRunning {
		return fmt.Errorf("服务器已经在运行")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/editor", s.handleWSConnection)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Server.SessionPort),
		Handler: mux,
	}

	go func() {
		log.Printf("编辑会话服务器启动，监听端口: %d", s.config.Server.SessionPort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务器错误: %v", err)
		}
	}()

	s.isRunning = true
	return nil
}

// Stop 停止会话服务器
func (s *SessionServer) Stop() error {
	if !s.isRunning {
		return nil
	}
	close(s.shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("关闭HTTP服务器失败: %w", err)
	}

	s.mutex.Lock()
	remaining := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		remaining = append(remaining, sess)
	}
	s.mutex.Unlock()
	for _, sess := range remaining {
		s.closeSession(sess)
	}

	s.isRunning = false
	log.Println("编辑会话服务器已停止")
	return nil
}

// SessionCount 当前会话数量
func (s *SessionServer) SessionCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.sessions)
}
