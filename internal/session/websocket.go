// websocket.go

package session

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jacl-coder/EndAxis-Server/internal/gateway"
	"github.com/jacl-coder/EndAxis-Server/internal/project"
	"github.com/jacl-coder/EndAxis-Server/internal/timeline"
)

const (
	// 写入超时时间
	writeWait = 10 * time.Second

	// 读取超时时间
	pongWait = 60 * time.Second

	// 发送 ping 的间隔时间
	pingPeriod = (pongWait * 9) / 10

	// 最大消息大小
	maxMessageSize = 512 * 1024 // 512KB
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 允许所有跨域请求
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message 消息结构
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// handleWSConnection 处理WebSocket连接
func (s *SessionServer) handleWSConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	owner, ownerID, err := gateway.ValidateToken(token)
	if err != nil {
		http.Error(w, "未授权", http.StatusUnauthorized)
		return
	}

	if s.config.Server.MaxSessions > 0 && s.SessionCount() >= s.config.Server.MaxSessions {
		http.Error(w, "会话数量已达上限", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket升级失败: %v", err)
		return
	}

	sess := &Session{
		ID:         uuid.New().String(),
		Owner:      owner,
		OwnerID:    ownerID,
		LastActive: time.Now(),
		doc:        timeline.NewDocument(s.catalog.Constants()),
		autosaver:  project.NewAutosaver(owner),
		server:     s,
		Send:       make(chan []byte, 256),
		IsAlive:    true,
	}

	// 恢复自动保存的文档；成功与否都订阅后续自动保存与曲线推送
	if sess.autosaver.Load(sess.doc) {
		log.Printf("会话 %s 已恢复自动保存的工程", sess.ID)
	}
	sess.doc.Subscribe(func(doc *timeline.Document) {
		sess.autosaver.Save(doc)
		sess.pushCurves()
	})

	s.mutex.Lock()
	s.sessions[sess.ID] = sess
	s.mutex.Unlock()

	log.Printf("用户 %s 已连接，会话 %s", owner, sess.ID)

	// 初始状态与曲线先入队再启动读协程，文档访问始终留在读协程内
	sess.sendState()
	sess.pushCurves()

	go s.readPump(conn, sess)
	go s.writePump(conn, sess)
}

// readPump 从WebSocket读取数据
// 操作在本协程内串行执行，保证文档修改的原子性
func (s *SessionServer) readPump(conn *websocket.Conn, sess *Session) {
	defer func() {
		s.closeSession(sess)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket错误: %v", err)
			}
			break
		}

		sess.LastActive = time.Now()
		sess.handleMessage(message)
	}
}

// writePump 向WebSocket写入数据
func (s *SessionServer) writePump(conn *websocket.Conn, sess *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-sess.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道已关闭
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// 添加队列中的其他消息
			n := len(sess.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-sess.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeSession 关闭编辑会话
// Send 通道只在这里关闭，重复调用是安全的
func (s *SessionServer) closeSession(sess *Session) {
	s.mutex.Lock()
	if _, ok := s.sessions[sess.ID]; !ok {
		s.mutex.Unlock()
		return
	}
	delete(s.sessions, sess.ID)
	s.mutex.Unlock()

	sess.mu.Lock()
	sess.IsAlive = false
	close(sess.Send)
	sess.mu.Unlock()

	log.Printf("会话 %s 已断开", sess.ID)
}

// send 向会话发送消息
func (sess *Session) send(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("序列化消息失败: %v", err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.IsAlive {
		return
	}

	select {
	case sess.Send <- data:
		// 消息已发送到通道
	default:
		// 通道已满，丢弃本条推送
		log.Printf("会话 %s 发送通道已满，消息被丢弃", sess.ID)
	}
}
