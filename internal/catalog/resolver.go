// resolver.go

package catalog

import (
	"fmt"

	"github.com/jacl-coder/EndAxis-Server/internal/models"
)

// 标准技能的显示名称
var skillNames = map[models.SkillType]string{
	models.AttackSkill:    "重击",
	models.ExecutionSkill: "处决",
	models.CombatSkill:    "战技",
	models.LinkSkill:      "连携",
	models.UltimateSkill:  "终结技",
}

// ResolveSkills 生成指定干员的技能库列表
// 顺序固定：重击、处决、战技、连携、终结技，随后按源顺序追加变体技能
// 纯函数，不修改任何输入
func ResolveSkills(record *models.CharacterRecord, overrides map[string]models.SkillPatch, constants models.SystemConstants) []models.SkillTemplate {
	if record == nil {
		return nil
	}

	skills := make([]models.SkillTemplate, 0, len(models.StandardSuffixes)+len(record.Variants))
	for _, suffix := range models.StandardSuffixes {
		skills = append(skills, resolveStandard(record, suffix, overrides, constants))
	}
	for _, variant := range record.Variants {
		skills = append(skills, resolveVariant(record, variant, overrides))
	}
	return skills
}

// resolveStandard 解析一种标准技能
func resolveStandard(record *models.CharacterRecord, suffix models.SkillType, overrides map[string]models.SkillPatch, constants models.SystemConstants) models.SkillTemplate {
	key := func(field string) string { return fmt.Sprintf("%s_%s", suffix, field) }
	globalID := fmt.Sprintf("%s_%s", record.ID, suffix)

	// === 属性继承逻辑 ===
	derivedElement := record.Element
	if derivedElement == "" {
		derivedElement = "physical"
	}
	// 1. 优先读取技能独立配置
	if el, ok := record.Text(key("element")); ok {
		derivedElement = el
	}
	// 2. 特殊类型强制规则
	var element *string
	switch suffix {
	case models.AttackSkill, models.ExecutionSkill:
		element = strPtr("physical")
	case models.LinkSkill:
		element = nil
	default:
		element = strPtr(derivedElement)
	}

	// === 数值读取 ===
	tpl := models.SkillTemplate{
		ID:               globalID,
		Type:             suffix,
		Name:             skillNames[suffix],
		Element:          element,
		Duration:         num(record, key("duration"), 1),
		Cooldown:         num(record, key("cooldown"), 0),
		SPCost:           num(record, key("spCost"), 0),
		SPGain:           num(record, key("spGain"), 0),
		GaugeCost:        num(record, key("gaugeCost"), 0),
		GaugeGain:        num(record, key("gaugeGain"), 0),
		Stagger:          num(record, key("stagger"), 0),
		TeamGaugeGain:    num(record, key("teamGaugeGain"), 0),
		AllowedTypes:     record.Strings(key("allowed_types")),
		PhysicalAnomaly:  record.Anomalies(key("anomalies")),
		AnomalyRowDelays: record.Delays(key("anomaly_delays")),
	}

	switch suffix {
	case models.CombatSkill:
		// 战技耗蓝默认取全局常量而非字面值
		tpl.SPCost = num(record, "skill_spCost", constants.SkillSPCostDefault)
		// 兼容旧字段 skill_spReply
		tpl.SPGain = num(record, "skill_spGain", num(record, "skill_spReply", 0))
	case models.UltimateSkill:
		tpl.GaugeCost = num(record, "ultimate_gaugeMax", 1000)
		tpl.SPGain = num(record, "ultimate_spGain", num(record, "ultimate_spReply", 0))
		tpl.GaugeGain = num(record, "ultimate_gaugeReply", 0)
	}

	// 全局覆盖最后生效
	if override, ok := overrides[globalID]; ok {
		override.ApplyTo(&tpl)
	}
	tpl.ID = globalID
	return tpl
}

// resolveVariant 解析变体技能：内置默认值 → 原始记录 → 全局覆盖
func resolveVariant(record *models.CharacterRecord, variant models.VariantRecord, overrides map[string]models.SkillPatch) models.SkillTemplate {
	globalID := fmt.Sprintf("%s_variant_%s", record.ID, variant.ID)

	element := record.Element
	if element == "" {
		element = "physical"
	}
	tpl := models.SkillTemplate{
		ID:               globalID,
		Type:             models.VariantSkill,
		Name:             variant.ID,
		Element:          strPtr(element),
		Duration:         1,
		AllowedTypes:     []string{},
		PhysicalAnomaly:  [][]models.Effect{},
		AnomalyRowDelays: []float64{},
	}

	variant.SkillPatch.ApplyTo(&tpl)
	if override, ok := overrides[globalID]; ok {
		override.ApplyTo(&tpl)
	}
	// id 始终为计算出的全局 id，不受原始记录影响
	tpl.ID = globalID
	return tpl
}

// num 读取数值字段，零值与缺失时返回 fallback
func num(record *models.CharacterRecord, key string, fallback float64) float64 {
	if v, ok := record.Float(key); ok && v != 0 {
		return v
	}
	return fallback
}

func strPtr(s string) *string { return &s }
