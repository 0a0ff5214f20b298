// catalog.go

package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"github.com/jacl-coder/EndAxis-Server/internal/models"
	"github.com/jacl-coder/EndAxis-Server/pkg/db"
)

// GameData gamedata.json 的顶层结构
type GameData struct {
	CharacterRoster []*models.CharacterRecord `json:"characterRoster"`
	IconDatabase    map[string]string         `json:"ICON_DATABASE"`
	SystemConstants *RawConstants             `json:"SYSTEM_CONSTANTS"`
}

// RawConstants gamedata.json 中的可选常量覆盖
type RawConstants struct {
	MaxSP              *float64 `json:"MAX_SP"`
	SPRegenPerSec      *float64 `json:"SP_REGEN_PER_SEC"`
	SkillSPCostDefault *float64 `json:"SKILL_SP_COST_DEFAULT"`
}

// Catalog 干员数据库
type Catalog struct {
	mu        sync.RWMutex
	roster    []*models.CharacterRecord
	icons     map[string]string
	constants models.SystemConstants
	loading   bool
}

// New 创建干员数据库，constants 为配置提供的默认常量
func New(constants models.SystemConstants) *Catalog {
	return &Catalog{
		icons:     map[string]string{},
		constants: constants,
	}
}

// LoadFile 从 gamedata.json 加载干员数据
// 加载失败时保持空数据库并返回错误
func (c *Catalog) LoadFile(path string) error {
	c.setLoading(true)
	defer c.setLoading(false)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("无法加载 %s: %w", path, err)
	}
	return c.apply(data)
}

// LoadDB 从数据库加载干员数据（gamedata.json 缺失时的备用来源）
func (c *Catalog) LoadDB() error {
	c.setLoading(true)
	defer c.setLoading(false)

	rows, err := db.DB.Query("SELECT data FROM endaxis_characters")
	if err != nil {
		return fmt.Errorf("查询干员数据失败: %w", err)
	}
	defer rows.Close()

	var roster []*models.CharacterRecord
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("读取干员记录失败: %w", err)
		}
		var record models.CharacterRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			log.Printf("干员记录解析失败，已跳过: %v", err)
			continue
		}
		roster = append(roster, &record)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("遍历干员数据失败: %w", err)
	}

	c.mu.Lock()
	c.roster = sortRoster(roster)
	c.mu.Unlock()
	return nil
}

// apply 解析数据并替换内存状态
func (c *Catalog) apply(data []byte) error {
	var gd GameData
	if err := json.Unmarshal(data, &gd); err != nil {
		return fmt.Errorf("gamedata 格式无效: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.roster = sortRoster(gd.CharacterRoster)
	if gd.IconDatabase != nil {
		c.icons = gd.IconDatabase
	}
	if gd.SystemConstants != nil {
		if gd.SystemConstants.MaxSP != nil {
			c.constants.MaxSP = *gd.SystemConstants.MaxSP
		}
		if gd.SystemConstants.SPRegenPerSec != nil {
			c.constants.SPRegenRate = *gd.SystemConstants.SPRegenPerSec
		}
		if gd.SystemConstants.SkillSPCostDefault != nil {
			c.constants.SkillSPCostDefault = *gd.SystemConstants.SkillSPCostDefault
		}
	}
	return nil
}

// sortRoster 按稀有度降序排序（同稀有度保持源顺序）
func sortRoster(roster []*models.CharacterRecord) []*models.CharacterRecord {
	sorted := append([]*models.CharacterRecord(nil), roster...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rarity > sorted[j].Rarity
	})
	return sorted
}

// setLoading 更新加载状态
func (c *Catalog) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

// IsLoading 返回是否正在加载
func (c *Catalog) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Roster 返回当前干员列表
func (c *Catalog) Roster() []*models.CharacterRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roster
}

// Icons 返回图标映射表
func (c *Catalog) Icons() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.icons
}

// Constants 返回生效的模拟常量
func (c *Catalog) Constants() models.SystemConstants {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.constants
}

// Character 按 id 查找干员记录，不存在时返回 nil
func (c *Catalog) Character(id string) *models.CharacterRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, record := range c.roster {
		if record.ID == id {
			return record
		}
	}
	return nil
}
