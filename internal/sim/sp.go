// sp.go

package sim

import (
	"math"

	"github.com/jacl-coder/EndAxis-Server/internal/models"
)

// castLockWindow 战技施放期间停止 SP 回复的固定窗口（秒）
// 与技能实际持续时间无关
const castLockWindow = 0.5

// SPCurve 计算全队 SP 曲线（离散事件模拟）
// 以 spRegenRate 持续回复；战技施放窗口内回复停止（窗口可叠加）；
// 耗蓝在动作开始时刻扣除，回蓝在动作结束时刻结算，
// 异常效果的 sp 按行延迟与前序效果持续时间的累计偏移结算；
// 曲线封顶于 maxSp，封顶瞬间输出精确边界采样点
func SPCurve(tracks []*models.Track, constants models.SystemConstants) []Point {
	var events []event
	for _, track := range tracks {
		for _, action := range track.Actions {
			if action.SPCost > 0 {
				events = append(events, event{time: action.StartTime, delta: -action.SPCost, kind: eventDelta})
			}
			if action.SPGain > 0 {
				events = append(events, event{time: action.StartTime + action.Duration, delta: action.SPGain, kind: eventDelta})
			}
			eachAnomalyEffect(action, func(at float64, effect models.Effect) {
				if effect.SP > 0 {
					events = append(events, event{time: at, delta: effect.SP, kind: eventDelta})
				}
			})
			if action.Type == models.CombatSkill {
				events = append(events, event{time: action.StartTime, kind: eventLockStart})
				events = append(events, event{time: action.StartTime + castLockWindow, kind: eventLockEnd})
			}
		}
	}
	sortEvents(events)

	maxSP := constants.MaxSP
	rate := constants.SPRegenRate
	current := math.Min(constants.InitialSP, maxSP)
	currentTime := 0.0
	lockCount := 0
	points := []Point{{Time: 0, Value: current}}

	// advance 推进时间到 target，途中应用持续回复
	advance := func(target float64) {
		diff := target - currentTime
		if diff <= 0 {
			return
		}
		if lockCount > 0 || rate <= 0 || current >= maxSP {
			currentTime = target
			points = append(points, Point{Time: currentTime, Value: current})
			return
		}
		projected := current + diff*rate
		if projected >= maxSP {
			// 中途封顶：先记录到达上限的精确时刻
			timeToMax := (maxSP - current) / rate
			points = append(points, Point{Time: currentTime + timeToMax, Value: maxSP})
			current = maxSP
			currentTime = target
			points = append(points, Point{Time: currentTime, Value: maxSP})
		} else {
			current = projected
			currentTime = target
			points = append(points, Point{Time: currentTime, Value: current})
		}
	}

	for _, ev := range events {
		if ev.time > TotalDuration {
			continue
		}
		advance(ev.time)
		switch ev.kind {
		case eventLockStart:
			lockCount++
		case eventLockEnd:
			if lockCount > 0 {
				lockCount--
			}
		case eventDelta:
			current += ev.delta
			if current > maxSP {
				current = maxSP
			}
			points = append(points, Point{Time: currentTime, Value: current})
		}
	}
	if currentTime < TotalDuration {
		advance(TotalDuration)
	}
	return points
}
