// autosave.go

package project

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jacl-coder/EndAxis-Server/internal/timeline"
	"github.com/jacl-coder/EndAxis-Server/pkg/db"
)

// autosaveKeyPrefix 自动保存的固定存储键前缀
const autosaveKeyPrefix = "endaxis:autosave:"

// autosaveTimeout 单次自动保存的上限耗时
const autosaveTimeout = 3 * time.Second

// Autosaver 基于Redis的自动保存适配器
// 尽力而为：失败仅记录日志，绝不阻塞或打断后续编辑
type Autosaver struct {
	owner string
}

// NewAutosaver 创建指定会话归属的自动保存器
func NewAutosaver(owner string) *Autosaver {
	return &Autosaver{owner: owner}
}

func (a *Autosaver) key() string {
	return autosaveKeyPrefix + a.owner
}

// Save 将文档写入存储键
func (a *Autosaver) Save(doc *timeline.Document) {
	if db.RedisClient == nil {
		return
	}
	data, err := json.Marshal(ExportBlob(doc))
	if err != nil {
		log.Printf("自动保存序列化失败: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(db.Ctx, autosaveTimeout)
	defer cancel()
	if err := db.RedisClient.Set(ctx, a.key(), data, 0).Err(); err != nil {
		log.Printf("自动保存写入失败: %v", err)
	}
}

// Load 尝试从存储键恢复文档
// 有合法工程数据时整体替换文档并返回 true，否则文档保持原样
func (a *Autosaver) Load(doc *timeline.Document) bool {
	if db.RedisClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(db.Ctx, autosaveTimeout)
	defer cancel()

	data, err := db.RedisClient.Get(ctx, a.key()).Bytes()
	if err != nil {
		return false
	}
	if err := ImportBlob(doc, data); err != nil {
		log.Printf("自动保存数据无效，忽略: %v", err)
		return false
	}
	return true
}

// Clear 删除存储键（重置操作）
func (a *Autosaver) Clear() {
	if db.RedisClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(db.Ctx, autosaveTimeout)
	defer cancel()
	if err := db.RedisClient.Del(ctx, a.key()).Err(); err != nil {
		log.Printf("清除自动保存失败: %v", err)
	}
}
