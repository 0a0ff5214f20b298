// timeline.go

package models

// Action 已放置在轨道上的技能实例（模板快照 + 放置信息）
type Action struct {
	SkillTemplate

	InstanceID string  `json:"instanceId"`
	StartTime  float64 `json:"startTime"`
}

// Track 时间轴轨道，id 为空字符串表示未绑定干员
type Track struct {
	ID           string    `json:"id"`
	Actions      []*Action `json:"actions"`
	InitialGauge float64   `json:"initialGauge"`

	// MaxGaugeOverride 大于 0 时覆盖默认充能上限
	MaxGaugeOverride float64 `json:"maxGaugeOverride"`
}

// Connection 动作间的连携关系
// EffectIndex 为 nil 表示指向动作本体，否则为异常效果的展平下标
type Connection struct {
	ID              string `json:"id"`
	From            string `json:"from"`
	To              string `json:"to"`
	FromEffectIndex *int   `json:"fromEffectIndex"`
	ToEffectIndex   *int   `json:"toEffectIndex"`
}

// SameEndpoints 判断两条连线的四元组是否完全一致
func (c *Connection) SameEndpoints(from, to string, fromIdx, toIdx *int) bool {
	return c.From == from && c.To == to && indexEqual(c.FromEffectIndex, fromIdx) && indexEqual(c.ToEffectIndex, toIdx)
}

func indexEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ProjectBlob 工程导出/导入数据
type ProjectBlob struct {
	Version            string                `json:"version"`
	Timestamp          int64                 `json:"timestamp"`
	Tracks             []*Track              `json:"tracks"`
	Connections        []*Connection         `json:"connections"`
	CharacterOverrides map[string]SkillPatch `json:"characterOverrides"`
	SystemConstants    *SystemConstants      `json:"systemConstants,omitempty"`
}

// BlobVersion 当前工程文件版本号
const BlobVersion = "2.0.0"
