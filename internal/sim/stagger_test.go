package sim

import (
	"testing"

	"github.com/jacl-coder/EndAxis-Server/internal/models"
)

func staggerAction(start, duration, stagger float64) *models.Action {
	a := action(models.CombatSkill, start, duration)
	a.Stagger = stagger
	return a
}

func TestStaggerCurveAccumulates(t *testing.T) {
	t.Parallel()

	tracks := singleTrack(
		staggerAction(0, 1, 30),
		staggerAction(4, 1, 20),
	)
	points, locks := StaggerCurve(tracks, 100)

	if v, ok := findPoint(points, 1); !ok || !approx(v, 30) {
		t.Errorf("t=1 采样 = %v (ok=%v), want 30", v, ok)
	}
	if v, ok := findPoint(points, 5); !ok || !approx(v, 50) {
		t.Errorf("t=5 采样 = %v (ok=%v), want 50", v, ok)
	}
	if len(locks) != 0 {
		t.Errorf("未触顶不应有锁定区间: %+v", locks)
	}
}

func TestStaggerCurveResetsAtCap(t *testing.T) {
	t.Parallel()

	tracks := singleTrack(
		staggerAction(0, 1, 60),
		staggerAction(1, 1, 50),
	)
	points, locks := StaggerCurve(tracks, 100)

	// t=2 触顶 110 ≥ 100：归零并锁定 [2, 12)
	if v, ok := findPoint(points, 2); !ok || !approx(v, 0) {
		t.Errorf("t=2 采样 = %v (ok=%v), want 0（触顶归零）", v, ok)
	}
	if len(locks) != 1 {
		t.Fatalf("锁定区间数 = %d, want 1: %+v", len(locks), locks)
	}
	if !approx(locks[0].Start, 2) || !approx(locks[0].End, 12) {
		t.Errorf("锁定区间 = %+v, want [2, 12)", locks[0])
	}
}

func TestStaggerCurveSuppressesInsideLock(t *testing.T) {
	t.Parallel()

	tracks := singleTrack(
		staggerAction(0, 1, 100), // t=1 触顶，锁定 [1, 11)
		staggerAction(4, 1, 40),  // t=5 落在锁定区间内部，被丢弃
		staggerAction(10, 1, 25), // t=11 恰在边界，正常生效
	)
	points, locks := StaggerCurve(tracks, 100)

	if len(locks) != 1 {
		t.Fatalf("锁定区间数 = %d, want 1: %+v", len(locks), locks)
	}
	if v, ok := findPoint(points, 5); ok && !approx(v, 0) {
		t.Errorf("t=5 采样 = %v, want 0（锁定区间内变动被丢弃）", v)
	}
	if v, ok := findPoint(points, 11); !ok || !approx(v, 25) {
		t.Errorf("t=11 采样 = %v (ok=%v), want 25（边界不受锁定）", v, ok)
	}
}

func TestStaggerCurveFloorsAtZero(t *testing.T) {
	t.Parallel()

	tracks := singleTrack(staggerAction(0, 1, -40))
	points, _ := StaggerCurve(tracks, 100)

	if v, ok := findPoint(points, 1); !ok || !approx(v, 0) {
		t.Errorf("t=1 采样 = %v (ok=%v), want 0", v, ok)
	}
}

func TestStaggerCurveAnomalyEffects(t *testing.T) {
	t.Parallel()

	a := staggerAction(0, 1, 0)
	a.PhysicalAnomaly = [][]models.Effect{{{Stagger: 35, Duration: 1}}}
	a.AnomalyRowDelays = []float64{2}
	points, _ := StaggerCurve(singleTrack(a), 100)

	if v, ok := findPoint(points, 2); !ok || !approx(v, 35) {
		t.Errorf("t=2 采样 = %v (ok=%v), want 35", v, ok)
	}
}

func TestStaggerCurveNoCapWhenDisabled(t *testing.T) {
	t.Parallel()

	// maxStagger 为 0 时不触顶不锁定
	tracks := singleTrack(staggerAction(0, 1, 500))
	points, locks := StaggerCurve(tracks, 0)

	if v, ok := findPoint(points, 1); !ok || !approx(v, 500) {
		t.Errorf("t=1 采样 = %v (ok=%v), want 500", v, ok)
	}
	if len(locks) != 0 {
		t.Errorf("锁定区间数 = %d, want 0", len(locks))
	}
}
