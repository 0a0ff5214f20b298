package timeline

import (
	"testing"

	"github.com/jacl-coder/EndAxis-Server/internal/models"
)

func TestPasteWithoutCursorUsesFixedOffset(t *testing.T) {
	t.Parallel()

	d := newBoundDoc(t)
	a := place(t, d, "alice", tpl("alice_skill", models.CombatSkill), 3)
	d.SelectAction(a)
	d.CopySelection()
	d.PasteSelection()

	actions := d.Tracks[0].Actions
	if len(actions) != 2 {
		t.Fatalf("动作数 = %d, want 2", len(actions))
	}
	// 未设置游标时整体右移固定偏移
	if actions[1].StartTime != 3+pasteFallbackOffset {
		t.Errorf("粘贴后 StartTime = %v, want %v", actions[1].StartTime, 3+pasteFallbackOffset)
	}
	if actions[1].InstanceID == a {
		t.Error("粘贴的动作应有新的实例 id")
	}
}

func TestPasteAtCursorPreservesRelativeTiming(t *testing.T) {
	t.Parallel()

	d := newBoundDoc(t)
	a := place(t, d, "alice", tpl("alice_skill", models.CombatSkill), 3)
	b := place(t, d, "alice", tpl("alice_attack", models.AttackSkill), 5)

	d.SetMultiSelection([]string{a, b})
	d.CopySelection()
	d.SetCursorTime(10)
	d.PasteSelection()

	actions := d.Tracks[0].Actions
	if len(actions) != 4 {
		t.Fatalf("动作数 = %d, want 4", len(actions))
	}
	// 最早动作落在游标处，组内相对间距保持
	if actions[2].StartTime != 10 || actions[3].StartTime != 12 {
		t.Errorf("粘贴后开始时间 = [%v, %v], want [10, 12]", actions[2].StartTime, actions[3].StartTime)
	}
}

func TestPasteRemapsConnections(t *testing.T) {
	t.Parallel()

	d := newBoundDoc(t)
	a := place(t, d, "alice", tpl("alice_skill", models.CombatSkill), 0)
	b := place(t, d, "alice", tpl("alice_attack", models.AttackSkill), 3)

	d.SelectAction(a)
	d.StartLinking(nil)
	d.ConfirmLinking(b, nil)

	d.SetMultiSelection([]string{a, b})
	d.CopySelection()
	d.PasteSelection()

	if len(d.Connections) != 2 {
		t.Fatalf("连线数 = %d, want 2", len(d.Connections))
	}
	pasted := d.Connections[1]
	if pasted.From == a || pasted.To == b {
		t.Error("粘贴的连线应指向新实例而非原实例")
	}
	if pasted.ID == d.Connections[0].ID {
		t.Error("粘贴的连线应有新的 id")
	}

	// 粘贴出的动作成为新的选中集合
	sel := d.Selection()
	if sel.Kind != SelectMulti || len(sel.Multi) != 2 {
		t.Fatalf("粘贴后选中 = %+v", sel)
	}
	for _, id := range sel.Multi {
		if id == a || id == b {
			t.Errorf("选中集合包含原实例 %s", id)
		}
	}
}

func TestCopySkipsConnectionsLeavingSelection(t *testing.T) {
	t.Parallel()

	d := newBoundDoc(t)
	a := place(t, d, "alice", tpl("alice_skill", models.CombatSkill), 0)
	b := place(t, d, "alice", tpl("alice_attack", models.AttackSkill), 3)

	d.SelectAction(a)
	d.StartLinking(nil)
	d.ConfirmLinking(b, nil)

	// 仅复制连线的一端
	d.SetMultiSelection([]string{a})
	d.CopySelection()
	d.PasteSelection()

	if len(d.Connections) != 1 {
		t.Errorf("连线数 = %d, want 1（半截连线不随复制）", len(d.Connections))
	}
}

func TestPasteClampsAtZero(t *testing.T) {
	t.Parallel()

	d := newBoundDoc(t)
	a := place(t, d, "alice", tpl("alice_skill", models.CombatSkill), 1)
	b := place(t, d, "alice", tpl("alice_attack", models.AttackSkill), 6)

	d.SetMultiSelection([]string{a, b})
	d.CopySelection()
	d.SetCursorTime(0)
	d.PasteSelection()

	actions := d.Tracks[0].Actions
	if len(actions) != 4 {
		t.Fatalf("动作数 = %d, want 4", len(actions))
	}
	if actions[0].StartTime != 0 {
		t.Errorf("最早粘贴动作 StartTime = %v, want 0", actions[0].StartTime)
	}
}

func TestPasteEmptyClipboard(t *testing.T) {
	t.Parallel()

	d := newBoundDoc(t)
	depth := d.history.Len()
	d.PasteSelection()
	if d.history.Len() != depth {
		t.Error("空剪贴板粘贴不应提交历史")
	}
}

func TestClipboardSurvivesSourceRemoval(t *testing.T) {
	t.Parallel()

	d := newBoundDoc(t)
	a := place(t, d, "alice", tpl("alice_skill", models.CombatSkill), 2)
	d.SelectAction(a)
	d.CopySelection()

	d.RemoveAction(a)
	d.PasteSelection()

	if len(d.Tracks[0].Actions) != 1 {
		t.Fatalf("动作数 = %d, want 1", len(d.Tracks[0].Actions))
	}
	if d.Tracks[0].Actions[0].StartTime != 2+pasteFallbackOffset {
		t.Errorf("StartTime = %v, want %v", d.Tracks[0].Actions[0].StartTime, 2+pasteFallbackOffset)
	}
}
