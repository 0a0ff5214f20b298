// stagger.go

package sim

import (
	"github.com/jacl-coder/EndAxis-Server/internal/models"
)

// staggerLockWindow 削韧条触顶后的锁定时长（秒）
const staggerLockWindow = 10.0

// Lock 削韧锁定区间 [Start, End)
type Lock struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// StaggerCurve 计算全队削韧曲线（纯离散）
// 动作自身的 stagger 在结束时刻结算，异常效果的 stagger 按与
// SP 模拟相同的累计偏移结算；累计值触顶时立即归零并开启 10 秒
// 锁定区间，严格落在锁定区间内部的削韧变动被直接丢弃
func StaggerCurve(tracks []*models.Track, maxStagger float64) ([]Point, []Lock) {
	var events []event
	for _, track := range tracks {
		for _, action := range track.Actions {
			if action.Stagger != 0 {
				events = append(events, event{time: action.StartTime + action.Duration, delta: action.Stagger, kind: eventDelta})
			}
			eachAnomalyEffect(action, func(at float64, effect models.Effect) {
				if effect.Stagger != 0 {
					events = append(events, event{time: at, delta: effect.Stagger, kind: eventDelta})
				}
			})
		}
	}
	sortEvents(events)

	current := 0.0
	points := []Point{{Time: 0, Value: 0}}
	locks := []Lock{}

	suppressed := func(t float64) bool {
		for _, lock := range locks {
			if t > lock.Start && t < lock.End {
				return true
			}
		}
		return false
	}

	for _, ev := range events {
		if ev.time > TotalDuration {
			continue
		}
		if suppressed(ev.time) {
			continue
		}
		points = append(points, Point{Time: ev.time, Value: current})
		current += ev.delta
		if current < 0 {
			current = 0
		}
		if maxStagger > 0 && current >= maxStagger {
			// 触顶：归零并开启锁定
			current = 0
			locks = append(locks, Lock{Start: ev.time, End: ev.time + staggerLockWindow})
		}
		points = append(points, Point{Time: ev.time, Value: current})
	}
	points = append(points, Point{Time: TotalDuration, Value: current})
	return points, locks
}
