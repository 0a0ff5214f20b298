// gauge.go

package sim

import (
	"github.com/jacl-coder/EndAxis-Server/internal/models"
)

// defaultGaugeMax 充能上限兜底值
const defaultGaugeMax = 100.0

// GaugeCap 解析轨道的充能上限
// 优先级：轨道覆盖值 → 终结技全局覆盖的 gaugeCost → 干员原始 ultimate_gaugeMax → 100
func GaugeCap(track *models.Track, record *models.CharacterRecord, overrides map[string]models.SkillPatch) float64 {
	if track.MaxGaugeOverride > 0 {
		return track.MaxGaugeOverride
	}
	if track.ID != "" {
		if override, ok := overrides[track.ID+"_ultimate"]; ok && override.GaugeCost != nil && *override.GaugeCost != 0 {
			return *override.GaugeCost
		}
	}
	if record != nil {
		if v, ok := record.Float("ultimate_gaugeMax"); ok && v != 0 {
			return v
		}
	}
	return defaultGaugeMax
}

// GaugeCurve 计算单条轨道的充能曲线（纯离散，无持续漂移）
// 本轨道动作：开始时刻扣除 gaugeCost，结束时刻获得 gaugeGain；
// 其他轨道动作：结束时刻提供 teamGaugeGain，
// 但干员显式配置 accept_team_gauge=false 时不接受团队充能
func GaugeCurve(tracks []*models.Track, trackIndex int, record *models.CharacterRecord, overrides map[string]models.SkillPatch) []Point {
	if trackIndex < 0 || trackIndex >= len(tracks) {
		return nil
	}
	track := tracks[trackIndex]
	gaugeMax := GaugeCap(track, record, overrides)
	acceptTeam := record == nil || record.AcceptTeamGauge == nil || *record.AcceptTeamGauge

	var events []event
	for i, other := range tracks {
		for _, action := range other.Actions {
			if i == trackIndex {
				if action.GaugeCost > 0 {
					events = append(events, event{time: action.StartTime, delta: -action.GaugeCost, kind: eventDelta})
				}
				if action.GaugeGain > 0 {
					events = append(events, event{time: action.StartTime + action.Duration, delta: action.GaugeGain, kind: eventDelta})
				}
				continue
			}
			if acceptTeam && action.TeamGaugeGain > 0 {
				events = append(events, event{time: action.StartTime + action.Duration, delta: action.TeamGaugeGain, kind: eventDelta})
			}
		}
	}
	sortEvents(events)

	current := track.InitialGauge
	if current > gaugeMax {
		current = gaugeMax
	}
	if current < 0 {
		current = 0
	}
	points := []Point{{Time: 0, Value: current}}

	for _, ev := range events {
		if ev.time > TotalDuration {
			continue
		}
		points = append(points, Point{Time: ev.time, Value: current})
		current += ev.delta
		if current > gaugeMax {
			current = gaugeMax
		}
		if current < 0 {
			current = 0
		}
		points = append(points, Point{Time: ev.time, Value: current})
	}
	points = append(points, Point{Time: TotalDuration, Value: current})
	return points
}
