package catalog

import (
	"encoding/json"
	"testing"

	"github.com/jacl-coder/EndAxis-Server/internal/models"
)

func mustRecord(t *testing.T, raw string) *models.CharacterRecord {
	t.Helper()
	var record models.CharacterRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		t.Fatalf("解析干员记录失败: %v", err)
	}
	return &record
}

func testConstants() models.SystemConstants {
	return models.SystemConstants{
		MaxSP:              300,
		InitialSP:          200,
		SPRegenRate:        8,
		SkillSPCostDefault: 100,
		MaxStagger:         100,
	}
}

func skillByID(t *testing.T, skills []models.SkillTemplate, id string) models.SkillTemplate {
	t.Helper()
	for _, s := range skills {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("技能 %s 不存在: %+v", id, skills)
	return models.SkillTemplate{}
}

func TestResolveSkillsStandardOrder(t *testing.T) {
	t.Parallel()

	record := mustRecord(t, `{"id":"alice","name":"Alice","element":"fire"}`)
	skills := ResolveSkills(record, nil, testConstants())

	wantIDs := []string{"alice_attack", "alice_execution", "alice_skill", "alice_link", "alice_ultimate"}
	if len(skills) != len(wantIDs) {
		t.Fatalf("技能数 = %d, want %d", len(skills), len(wantIDs))
	}
	for i, id := range wantIDs {
		if skills[i].ID != id {
			t.Errorf("skills[%d].ID = %q, want %q", i, skills[i].ID, id)
		}
	}
}

func TestResolveSkillsElementRules(t *testing.T) {
	t.Parallel()

	record := mustRecord(t, `{
		"id": "alice",
		"element": "fire",
		"attack_element": "ice",
		"skill_element": "ice"
	}`)
	skills := ResolveSkills(record, nil, testConstants())

	// 重击、处决强制物理，独立配置不生效
	attack := skillByID(t, skills, "alice_attack")
	if attack.Element == nil || *attack.Element != "physical" {
		t.Errorf("重击属性 = %v, want physical", attack.Element)
	}
	execution := skillByID(t, skills, "alice_execution")
	if execution.Element == nil || *execution.Element != "physical" {
		t.Errorf("处决属性 = %v, want physical", execution.Element)
	}

	// 连携固定无属性
	link := skillByID(t, skills, "alice_link")
	if link.Element != nil {
		t.Errorf("连携属性 = %v, want nil", *link.Element)
	}

	// 战技优先取独立配置
	skill := skillByID(t, skills, "alice_skill")
	if skill.Element == nil || *skill.Element != "ice" {
		t.Errorf("战技属性 = %v, want ice", skill.Element)
	}

	// 终结技继承干员属性
	ultimate := skillByID(t, skills, "alice_ultimate")
	if ultimate.Element == nil || *ultimate.Element != "fire" {
		t.Errorf("终结技属性 = %v, want fire", ultimate.Element)
	}
}

func TestResolveSkillsElementDefaultsToPhysical(t *testing.T) {
	t.Parallel()

	record := mustRecord(t, `{"id":"alice"}`)
	skills := ResolveSkills(record, nil, testConstants())

	ultimate := skillByID(t, skills, "alice_ultimate")
	if ultimate.Element == nil || *ultimate.Element != "physical" {
		t.Errorf("无属性干员的终结技属性 = %v, want physical", ultimate.Element)
	}
}

func TestResolveSkillsCombatSkillDefaults(t *testing.T) {
	t.Parallel()

	// spCost 缺失与为 0 都取全局默认
	for _, raw := range []string{
		`{"id":"alice"}`,
		`{"id":"alice","skill_spCost":0}`,
	} {
		record := mustRecord(t, raw)
		skills := ResolveSkills(record, nil, testConstants())
		skill := skillByID(t, skills, "alice_skill")
		if skill.SPCost != 100 {
			t.Errorf("记录 %s: 战技耗蓝 = %v, want 100", raw, skill.SPCost)
		}
	}

	record := mustRecord(t, `{"id":"alice","skill_spCost":35}`)
	skills := ResolveSkills(record, nil, testConstants())
	if skill := skillByID(t, skills, "alice_skill"); skill.SPCost != 35 {
		t.Errorf("战技耗蓝 = %v, want 35", skill.SPCost)
	}
}

func TestResolveSkillsLegacyFields(t *testing.T) {
	t.Parallel()

	record := mustRecord(t, `{
		"id": "alice",
		"skill_spReply": 12,
		"ultimate_spReply": 25,
		"ultimate_gaugeReply": 30,
		"ultimate_gaugeMax": 90
	}`)
	skills := ResolveSkills(record, nil, testConstants())

	skill := skillByID(t, skills, "alice_skill")
	if skill.SPGain != 12 {
		t.Errorf("战技回蓝 = %v, want 12（兼容 skill_spReply）", skill.SPGain)
	}

	ultimate := skillByID(t, skills, "alice_ultimate")
	if ultimate.SPGain != 25 {
		t.Errorf("终结技回蓝 = %v, want 25（兼容 ultimate_spReply）", ultimate.SPGain)
	}
	if ultimate.GaugeGain != 30 {
		t.Errorf("终结技充能回复 = %v, want 30", ultimate.GaugeGain)
	}
	if ultimate.GaugeCost != 90 {
		t.Errorf("终结技充能消耗 = %v, want 90（取 ultimate_gaugeMax）", ultimate.GaugeCost)
	}
}

func TestResolveSkillsUltimateGaugeDefault(t *testing.T) {
	t.Parallel()

	record := mustRecord(t, `{"id":"alice"}`)
	skills := ResolveSkills(record, nil, testConstants())
	if ultimate := skillByID(t, skills, "alice_ultimate"); ultimate.GaugeCost != 1000 {
		t.Errorf("终结技充能消耗 = %v, want 1000", ultimate.GaugeCost)
	}
}

func TestResolveSkillsOverrideAppliedLast(t *testing.T) {
	t.Parallel()

	record := mustRecord(t, `{"id":"alice","attack_duration":2}`)
	duration := 5.0
	name := "改名重击"
	overrides := map[string]models.SkillPatch{
		"alice_attack": {Duration: &duration, Name: &name},
	}
	skills := ResolveSkills(record, overrides, testConstants())

	attack := skillByID(t, skills, "alice_attack")
	if attack.Duration != 5 {
		t.Errorf("重击持续时间 = %v, want 5", attack.Duration)
	}
	if attack.Name != "改名重击" {
		t.Errorf("重击名称 = %q, want %q", attack.Name, "改名重击")
	}
	// id 不受覆盖影响
	if attack.ID != "alice_attack" {
		t.Errorf("重击 id = %q, want alice_attack", attack.ID)
	}
}

func TestResolveSkillsVariantMerge(t *testing.T) {
	t.Parallel()

	record := mustRecord(t, `{
		"id": "alice",
		"element": "fire",
		"variants": [
			{"id": "combo", "duration": 2, "spGain": 15}
		]
	}`)
	gain := 40.0
	overrides := map[string]models.SkillPatch{
		"alice_variant_combo": {SPGain: &gain},
	}
	skills := ResolveSkills(record, overrides, testConstants())

	if len(skills) != 6 {
		t.Fatalf("技能数 = %d, want 6", len(skills))
	}
	variant := skillByID(t, skills, "alice_variant_combo")
	if variant.Type != models.VariantSkill {
		t.Errorf("变体类型 = %v, want %v", variant.Type, models.VariantSkill)
	}
	if variant.Duration != 2 {
		t.Errorf("变体持续时间 = %v, want 2（取原始记录）", variant.Duration)
	}
	if variant.SPGain != 40 {
		t.Errorf("变体回蓝 = %v, want 40（全局覆盖最后生效）", variant.SPGain)
	}
	if variant.Element == nil || *variant.Element != "fire" {
		t.Errorf("变体属性 = %v, want fire（继承干员）", variant.Element)
	}
	if variant.Name != "combo" {
		t.Errorf("变体名称 = %q, want combo", variant.Name)
	}
}

func TestResolveSkillsNilRecord(t *testing.T) {
	t.Parallel()

	if skills := ResolveSkills(nil, nil, testConstants()); skills != nil {
		t.Errorf("nil 记录应返回 nil, got %+v", skills)
	}
}

func TestResolveSkillsPure(t *testing.T) {
	t.Parallel()

	record := mustRecord(t, `{"id":"alice","skill_anomalies":[[{"sp":5,"duration":1}]]}`)
	skills := ResolveSkills(record, nil, testConstants())

	// 修改解析结果不影响再次解析
	skills[2].PhysicalAnomaly[0][0].SP = 99
	again := ResolveSkills(record, nil, testConstants())
	if again[2].PhysicalAnomaly[0][0].SP != 5 {
		t.Errorf("解析结果被共享修改污染: %v", again[2].PhysicalAnomaly[0][0].SP)
	}
}
