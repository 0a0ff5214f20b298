// events.go

package sim

import (
	"sort"

	"github.com/jacl-coder/EndAxis-Server/internal/models"
)

// TotalDuration 模拟时间范围上限（秒）
const TotalDuration = 120.0

// Point 曲线采样点
type Point struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// eventKind 离散事件类型
type eventKind int

const (
	eventDelta eventKind = iota
	eventLockStart
	eventLockEnd
)

// event 一次离散资源变动
type event struct {
	time  float64
	delta float64
	kind  eventKind
}

// sortEvents 按时间升序稳定排序（同刻事件保持收集顺序）
func sortEvents(events []event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].time < events[j].time
	})
}

// eachAnomalyEffect 按结算时刻遍历动作的异常效果子事件
// 偏移为单一累计值：每行先加该行延迟，行内效果依次触发，
// 每个效果触发后以自身持续时间推进偏移
func eachAnomalyEffect(action *models.Action, fn func(at float64, effect models.Effect)) {
	offset := 0.0
	for i, row := range action.PhysicalAnomaly {
		if i < len(action.AnomalyRowDelays) {
			offset += action.AnomalyRowDelays[i]
		}
		for _, effect := range row {
			fn(action.StartTime+offset, effect)
			offset += effect.Duration
		}
	}
}
