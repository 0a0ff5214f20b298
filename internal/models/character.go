// character.go

package models

import "encoding/json"

// CharacterRecord 干员原始记录
// 逐技能数值以 "{suffix}_duration" 一类的动态键存放，
// 解码时同时保留原始键值表，供技能库解析器按后缀读取
type CharacterRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Element string `json:"element"`
	Rarity  int    `json:"rarity"`
	Avatar  string `json:"avatar"`

	// AcceptTeamGauge 为 nil 表示未显式配置（默认接受团队充能）
	AcceptTeamGauge *bool `json:"accept_team_gauge"`

	// Variants 自定义变体技能列表
	Variants []VariantRecord `json:"variants"`

	fields map[string]json.RawMessage
}

// UnmarshalJSON 解码固定字段并保留原始键值表
func (c *CharacterRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.fields = raw

	decode := func(key string, dst interface{}) {
		if v, ok := raw[key]; ok {
			// 类型不符时保留零值
			_ = json.Unmarshal(v, dst)
		}
	}
	decode("id", &c.ID)
	decode("name", &c.Name)
	decode("element", &c.Element)
	decode("rarity", &c.Rarity)
	decode("avatar", &c.Avatar)
	decode("variants", &c.Variants)

	if v, ok := raw["accept_team_gauge"]; ok {
		var b bool
		if json.Unmarshal(v, &b) == nil {
			c.AcceptTeamGauge = &b
		}
	}
	return nil
}

// Float 按键读取数值字段
func (c *CharacterRecord) Float(key string) (float64, bool) {
	v, ok := c.fields[key]
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		return 0, false
	}
	return f, true
}

// Text 按键读取字符串字段
func (c *CharacterRecord) Text(key string) (string, bool) {
	v, ok := c.fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

// Strings 按键读取字符串列表，缺失时返回空列表
func (c *CharacterRecord) Strings(key string) []string {
	v, ok := c.fields[key]
	if !ok {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(v, &list); err != nil || list == nil {
		return []string{}
	}
	return list
}

// Anomalies 按键读取异常效果矩阵，缺失时返回空矩阵
func (c *CharacterRecord) Anomalies(key string) [][]Effect {
	v, ok := c.fields[key]
	if !ok {
		return [][]Effect{}
	}
	var rows [][]Effect
	if err := json.Unmarshal(v, &rows); err != nil || rows == nil {
		return [][]Effect{}
	}
	return rows
}

// Delays 按键读取行延迟列表，缺失时返回空列表
func (c *CharacterRecord) Delays(key string) []float64 {
	v, ok := c.fields[key]
	if !ok {
		return []float64{}
	}
	var list []float64
	if err := json.Unmarshal(v, &list); err != nil || list == nil {
		return []float64{}
	}
	return list
}

// SystemConstants 模拟引擎全局常量
type SystemConstants struct {
	MaxSP              float64 `json:"maxSp"`
	InitialSP          float64 `json:"initialSp"`
	SPRegenRate        float64 `json:"spRegenRate"`
	SkillSPCostDefault float64 `json:"skillSpCostDefault"`
	MaxStagger         float64 `json:"maxStagger"`
}
