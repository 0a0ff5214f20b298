package sim

import (
	"math"
	"testing"

	"github.com/jacl-coder/EndAxis-Server/internal/models"
)

func simConstants() models.SystemConstants {
	return models.SystemConstants{
		MaxSP:              300,
		InitialSP:          200,
		SPRegenRate:        8,
		SkillSPCostDefault: 100,
		MaxStagger:         100,
	}
}

func singleTrack(actions ...*models.Action) []*models.Track {
	return []*models.Track{{ID: "alice", Actions: actions}}
}

func action(kind models.SkillType, start, duration float64) *models.Action {
	return &models.Action{
		SkillTemplate: models.SkillTemplate{Type: kind, Duration: duration},
		InstanceID:    "inst_" + string(kind),
		StartTime:     start,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// findPoint 返回曲线在指定时刻的最后一个采样值
func findPoint(points []Point, at float64) (float64, bool) {
	found := false
	value := 0.0
	for _, p := range points {
		if approx(p.Time, at) {
			value = p.Value
			found = true
		}
	}
	return value, found
}

func TestSPCurveRegenToCapBoundary(t *testing.T) {
	t.Parallel()

	points := SPCurve(singleTrack(), simConstants())

	want := []Point{{Time: 0, Value: 200}, {Time: 12.5, Value: 300}, {Time: 120, Value: 300}}
	if len(points) != len(want) {
		t.Fatalf("采样点数 = %d, want %d: %+v", len(points), len(want), points)
	}
	for i := range want {
		if !approx(points[i].Time, want[i].Time) || !approx(points[i].Value, want[i].Value) {
			t.Errorf("points[%d] = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestSPCurveCostAndGain(t *testing.T) {
	t.Parallel()

	a := action(models.UltimateSkill, 5, 2)
	a.SPCost = 80
	a.SPGain = 30
	points := SPCurve(singleTrack(a), simConstants())

	// t=5: 回复到 240 后扣 80
	if v, ok := findPoint(points, 5); !ok || !approx(v, 160) {
		t.Errorf("t=5 采样 = %v (ok=%v), want 160", v, ok)
	}
	// t=7: 回复到 176 后加 30
	if v, ok := findPoint(points, 7); !ok || !approx(v, 206) {
		t.Errorf("t=7 采样 = %v (ok=%v), want 206", v, ok)
	}
}

func TestSPCurveCastLockFreezesRegen(t *testing.T) {
	t.Parallel()

	a := action(models.CombatSkill, 0, 3)
	a.SPCost = 100
	points := SPCurve(singleTrack(a), simConstants())

	// 施放窗口内回复停止：t=0.5 时仍为 100
	if v, ok := findPoint(points, 0.5); !ok || !approx(v, 100) {
		t.Errorf("t=0.5 采样 = %v (ok=%v), want 100", v, ok)
	}
	// 锁定推迟了到达上限的时刻：100→300 需 25 秒，自 0.5 起算
	if v, ok := findPoint(points, 25.5); !ok || !approx(v, 300) {
		t.Errorf("t=25.5 采样 = %v (ok=%v), want 300", v, ok)
	}
}

func TestSPCurveLockWindowIsFixed(t *testing.T) {
	t.Parallel()

	// 战技持续 3 秒，但锁定窗口固定 0.5 秒
	a := action(models.CombatSkill, 0, 3)
	points := SPCurve(singleTrack(a), simConstants())

	if v, ok := findPoint(points, 0.5); !ok || !approx(v, 200) {
		t.Fatalf("t=0.5 采样 = %v (ok=%v), want 200", v, ok)
	}
	// 0.5 秒后回复恢复：200→300 需 12.5 秒
	if v, ok := findPoint(points, 13); !ok || !approx(v, 300) {
		t.Errorf("t=13 采样 = %v (ok=%v), want 300", v, ok)
	}
}

func TestSPCurveNestedLocks(t *testing.T) {
	t.Parallel()

	// 两个战技施放窗口交叠，锁定计数叠加
	a := action(models.CombatSkill, 0, 1)
	b := action(models.CombatSkill, 0.2, 1)
	b.InstanceID = "inst_b"
	points := SPCurve(singleTrack(a, b), simConstants())

	// 0.5 时第一个窗口结束，第二个仍锁定
	if v, ok := findPoint(points, 0.5); !ok || !approx(v, 200) {
		t.Errorf("t=0.5 采样 = %v (ok=%v), want 200", v, ok)
	}
	if v, ok := findPoint(points, 0.7); !ok || !approx(v, 200) {
		t.Errorf("t=0.7 采样 = %v (ok=%v), want 200", v, ok)
	}
}

func TestSPCurveAnomalyTiming(t *testing.T) {
	t.Parallel()

	// 行延迟 [1, 0.5]，每个效果以自身持续时间推进偏移：
	// 第一行效果 @11、@12，第二行效果 @13.5
	a := action(models.UltimateSkill, 10, 1)
	a.PhysicalAnomaly = [][]models.Effect{
		{{SP: 5, Duration: 1}, {SP: 5, Duration: 1}},
		{{SP: 5, Duration: 1}},
	}
	a.AnomalyRowDelays = []float64{1, 0.5}

	constants := simConstants()
	constants.SPRegenRate = 0
	constants.InitialSP = 0
	points := SPCurve(singleTrack(a), constants)

	cases := []struct{ at, want float64 }{
		{11, 5},
		{12, 10},
		{13.5, 15},
	}
	for _, c := range cases {
		if v, ok := findPoint(points, c.at); !ok || !approx(v, c.want) {
			t.Errorf("t=%v 采样 = %v (ok=%v), want %v", c.at, v, ok, c.want)
		}
	}
}

func TestSPCurveDeltaCappedAtMax(t *testing.T) {
	t.Parallel()

	a := action(models.UltimateSkill, 1, 1)
	a.SPGain = 500
	constants := simConstants()
	constants.SPRegenRate = 0
	points := SPCurve(singleTrack(a), constants)

	if v, ok := findPoint(points, 2); !ok || !approx(v, 300) {
		t.Errorf("t=2 采样 = %v (ok=%v), want 300（封顶）", v, ok)
	}
}

func TestSPCurveInitialClampedToMax(t *testing.T) {
	t.Parallel()

	constants := simConstants()
	constants.InitialSP = 999
	points := SPCurve(singleTrack(), constants)

	if !approx(points[0].Value, 300) {
		t.Errorf("初始采样 = %v, want 300", points[0].Value)
	}
}

func TestSPCurveSkipsEventsBeyondHorizon(t *testing.T) {
	t.Parallel()

	a := action(models.UltimateSkill, 150, 1)
	a.SPCost = 50
	points := SPCurve(singleTrack(a), simConstants())

	last := points[len(points)-1]
	if !approx(last.Time, TotalDuration) {
		t.Errorf("最后采样时刻 = %v, want %v", last.Time, TotalDuration)
	}
	if !approx(last.Value, 300) {
		t.Errorf("超出时间范围的事件不应生效, got %v", last.Value)
	}
}
