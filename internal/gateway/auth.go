// auth.go

package gateway

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jacl-coder/EndAxis-Server/config"
	"github.com/jacl-coder/EndAxis-Server/pkg/db"
)

// tokenTTL 令牌有效期
const tokenTTL = 24 * time.Hour

// Claims JWT载荷
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// AuthHandler 认证处理器
type AuthHandler struct{}

// NewAuthHandler 创建认证处理器
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Token    string `json:"token,omitempty"`
	UserID   int64  `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

// RegisterHandlers 注册HTTP处理器
func (h *AuthHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/auth/login", h.handleLogin)
	mux.HandleFunc("/auth/register", h.handleRegister)
	mux.HandleFunc("/auth/validate", h.handleValidate)
}

// handleLogin 处理登录请求
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "无效的请求格式", http.StatusBadRequest)
		return
	}

	userID, err := h.validateCredentials(req.Username, req.Password)
	if err != nil {
		writeJSON(w, AuthResponse{Success: false, Message: "用户名或密码错误"})
		return
	}

	token, err := IssueToken(req.Username, userID)
	if err != nil {
		http.Error(w, "生成令牌失败", http.StatusInternalServerError)
		return
	}

	writeJSON(w, AuthResponse{
		Success:  true,
		Message:  "登录成功",
		Token:    token,
		UserID:   userID,
		Username: req.Username,
	})
}

// handleRegister 处理注册请求
func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "无效的请求格式", http.StatusBadRequest)
		return
	}
	if req.Username == "" || len(req.Password) < 6 {
		writeJSON(w, AuthResponse{Success: false, Message: "用户名不能为空且密码至少6位"})
		return
	}

	userID, err := h.createUser(req.Username, req.Password)
	if err != nil {
		writeJSON(w, AuthResponse{Success: false, Message: err.Error()})
		return
	}

	token, err := IssueToken(req.Username, userID)
	if err != nil {
		http.Error(w, "生成令牌失败", http.StatusInternalServerError)
		return
	}

	writeJSON(w, AuthResponse{
		Success:  true,
		Message:  "注册成功",
		Token:    token,
		UserID:   userID,
		Username: req.Username,
	})
}

// handleValidate 校验令牌有效性
func (h *AuthHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	username, userID, err := ValidateToken(bearerToken(r))
	if err != nil {
		writeJSON(w, AuthResponse{Success: false, Message: "令牌无效"})
		return
	}
	writeJSON(w, AuthResponse{Success: true, Message: "令牌有效", UserID: userID, Username: username})
}

// validateCredentials 验证用户名和密码
func (h *AuthHandler) validateCredentials(username, password string) (int64, error) {
	hashedPassword := hashPassword(password)

	var userID int64
	err := db.DB.QueryRow("SELECT id FROM users WHERE username = $1 AND password = $2", username, hashedPassword).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("用户名或密码错误")
		}
		return 0, fmt.Errorf("数据库查询错误: %w", err)
	}
	return userID, nil
}

// createUser 创建用户
func (h *AuthHandler) createUser(username, password string) (int64, error) {
	var count int
	err := db.DB.QueryRow("SELECT COUNT(*) FROM users WHERE username = $1", username).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("数据库查询错误: %w", err)
	}
	if count > 0 {
		return 0, fmt.Errorf("用户名已存在")
	}

	var userID int64
	err = db.DB.QueryRow(
		"INSERT INTO users (username, password, created_at, updated_at) VALUES ($1, $2, NOW(), NOW()) RETURNING id",
		username, hashPassword(password),
	).Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("创建用户失败: %w", err)
	}
	return userID, nil
}

// IssueToken 签发JWT令牌
func IssueToken(username string, userID int64) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ValidateToken 解析并校验JWT令牌，返回用户名和用户ID
func ValidateToken(tokenString string) (string, int64, error) {
	if tokenString == "" {
		return "", 0, fmt.Errorf("缺少令牌")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("不支持的签名算法: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return "", 0, fmt.Errorf("令牌无效: %w", err)
	}
	if !token.Valid {
		return "", 0, fmt.Errorf("令牌无效")
	}
	return claims.Subject, claims.UserID, nil
}

// jwtSecret 读取签名密钥
func jwtSecret() []byte {
	secret := config.GlobalConfig.Server.JWTSecret
	if secret == "" {
		secret = "endaxis-dev-secret"
	}
	return []byte(secret)
}

// bearerToken 从请求头提取令牌
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// hashPassword 计算密码哈希
// 实际部署应换用 bcrypt 一类的慢哈希
func hashPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return hex.EncodeToString(hash[:])
}
