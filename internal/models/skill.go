// skill.go

package models

// SkillType 技能类型
type SkillType string

const (
	// AttackSkill 重击
	AttackSkill SkillType = "attack"
	// ExecutionSkill 处决
	ExecutionSkill SkillType = "execution"
	// CombatSkill 战技
	CombatSkill SkillType = "skill"
	// LinkSkill 连携
	LinkSkill SkillType = "link"
	// UltimateSkill 终结技
	UltimateSkill SkillType = "ultimate"
	// VariantSkill 自定义变体技能
	VariantSkill SkillType = "variant"
)

// StandardSuffixes 五种标准技能的固定顺序
var StandardSuffixes = []SkillType{AttackSkill, ExecutionSkill, CombatSkill, LinkSkill, UltimateSkill}

// Effect 异常效果子事件（技能结算过程中的一次定时触发）
type Effect struct {
	Stagger  float64 `json:"stagger,omitempty"`
	SP       float64 `json:"sp,omitempty"`
	Duration float64 `json:"duration"`
}

// SkillTemplate 标准化技能模板
// Element 为 nil 表示无属性（连携技固定无属性）
type SkillTemplate struct {
	ID               string     `json:"id"`
	Type             SkillType  `json:"type"`
	Name             string     `json:"name"`
	Element          *string    `json:"element"`
	Duration         float64    `json:"duration"`
	Cooldown         float64    `json:"cooldown"`
	SPCost           float64    `json:"spCost"`
	SPGain           float64    `json:"spGain"`
	GaugeCost        float64    `json:"gaugeCost"`
	GaugeGain        float64    `json:"gaugeGain"`
	Stagger          float64    `json:"stagger"`
	TeamGaugeGain    float64    `json:"teamGaugeGain"`
	AllowedTypes     []string   `json:"allowedTypes"`
	PhysicalAnomaly  [][]Effect `json:"physicalAnomaly"`
	AnomalyRowDelays []float64  `json:"anomalyRowDelays"`
}

// CloneAnomaly 深拷贝异常效果矩阵
func CloneAnomaly(rows [][]Effect) [][]Effect {
	if rows == nil {
		return [][]Effect{}
	}
	cloned := make([][]Effect, len(rows))
	for i, row := range rows {
		cloned[i] = make([]Effect, len(row))
		copy(cloned[i], row)
	}
	return cloned
}

// SkillPatch 技能属性补丁（全局覆盖与实例编辑共用）
// nil 字段表示未设置；StartTime 仅对已放置的动作有意义
type SkillPatch struct {
	Name             *string    `json:"name,omitempty"`
	Type             *SkillType `json:"type,omitempty"`
	Element          *string    `json:"element,omitempty"`
	Duration         *float64   `json:"duration,omitempty"`
	Cooldown         *float64   `json:"cooldown,omitempty"`
	SPCost           *float64   `json:"spCost,omitempty"`
	SPGain           *float64   `json:"spGain,omitempty"`
	GaugeCost        *float64   `json:"gaugeCost,omitempty"`
	GaugeGain        *float64   `json:"gaugeGain,omitempty"`
	Stagger          *float64   `json:"stagger,omitempty"`
	TeamGaugeGain    *float64   `json:"teamGaugeGain,omitempty"`
	AllowedTypes     []string   `json:"allowedTypes,omitempty"`
	PhysicalAnomaly  [][]Effect `json:"physicalAnomaly,omitempty"`
	AnomalyRowDelays []float64  `json:"anomalyRowDelays,omitempty"`
	StartTime        *float64   `json:"startTime,omitempty"`
}

// ApplyTo 将补丁中已设置的字段写入模板
func (p *SkillPatch) ApplyTo(t *SkillTemplate) {
	if p == nil {
		return
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Element != nil {
		t.Element = p.Element
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.Cooldown != nil {
		t.Cooldown = *p.Cooldown
	}
	if p.SPCost != nil {
		t.SPCost = *p.SPCost
	}
	if p.SPGain != nil {
		t.SPGain = *p.SPGain
	}
	if p.GaugeCost != nil {
		t.GaugeCost = *p.GaugeCost
	}
	if p.GaugeGain != nil {
		t.GaugeGain = *p.GaugeGain
	}
	if p.Stagger != nil {
		t.Stagger = *p.Stagger
	}
	if p.TeamGaugeGain != nil {
		t.TeamGaugeGain = *p.TeamGaugeGain
	}
	if p.AllowedTypes != nil {
		t.AllowedTypes = append([]string(nil), p.AllowedTypes...)
	}
	if p.PhysicalAnomaly != nil {
		t.PhysicalAnomaly = CloneAnomaly(p.PhysicalAnomaly)
	}
	if p.AnomalyRowDelays != nil {
		t.AnomalyRowDelays = append([]float64(nil), p.AnomalyRowDelays...)
	}
}

// Merge 将另一补丁中已设置的字段并入本补丁
func (p *SkillPatch) Merge(other SkillPatch) {
	if other.Name != nil {
		p.Name = other.Name
	}
	if other.Type != nil {
		p.Type = other.Type
	}
	if other.Element != nil {
		p.Element = other.Element
	}
	if other.Duration != nil {
		p.Duration = other.Duration
	}
	if other.Cooldown != nil {
		p.Cooldown = other.Cooldown
	}
	if other.SPCost != nil {
		p.SPCost = other.SPCost
	}
	if other.SPGain != nil {
		p.SPGain = other.SPGain
	}
	if other.GaugeCost != nil {
		p.GaugeCost = other.GaugeCost
	}
	if other.GaugeGain != nil {
		p.GaugeGain = other.GaugeGain
	}
	if other.Stagger != nil {
		p.Stagger = other.Stagger
	}
	if other.TeamGaugeGain != nil {
		p.TeamGaugeGain = other.TeamGaugeGain
	}
	if other.AllowedTypes != nil {
		p.AllowedTypes = other.AllowedTypes
	}
	if other.PhysicalAnomaly != nil {
		p.PhysicalAnomaly = other.PhysicalAnomaly
	}
	if other.AnomalyRowDelays != nil {
		p.AnomalyRowDelays = other.AnomalyRowDelays
	}
	if other.StartTime != nil {
		p.StartTime = other.StartTime
	}
}

// VariantRecord 角色自定义变体技能原始记录
type VariantRecord struct {
	ID string `json:"id"`
	SkillPatch
}
