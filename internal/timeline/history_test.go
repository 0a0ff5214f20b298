package timeline

import (
	"fmt"
	"testing"
)

func snap(i int) []byte {
	return []byte(fmt.Sprintf("state-%d", i))
}

func TestHistoryUndoRedo(t *testing.T) {
	t.Parallel()

	h := NewHistory(snap(0))
	h.Commit(snap(1))
	h.Commit(snap(2))

	if got := string(h.Undo()); got != "state-1" {
		t.Errorf("Undo() = %q, want %q", got, "state-1")
	}
	if got := string(h.Undo()); got != "state-0" {
		t.Errorf("Undo() = %q, want %q", got, "state-0")
	}
	if got := h.Undo(); got != nil {
		t.Errorf("Undo() 越过最旧快照应返回 nil, got %q", got)
	}
	if got := string(h.Redo()); got != "state-1" {
		t.Errorf("Redo() = %q, want %q", got, "state-1")
	}
	if got := string(h.Redo()); got != "state-2" {
		t.Errorf("Redo() = %q, want %q", got, "state-2")
	}
	if got := h.Redo(); got != nil {
		t.Errorf("Redo() 越过最新快照应返回 nil, got %q", got)
	}
}

func TestHistoryCommitTruncatesRedoTail(t *testing.T) {
	t.Parallel()

	h := NewHistory(snap(0))
	h.Commit(snap(1))
	h.Commit(snap(2))
	h.Undo()
	h.Commit(snap(3))

	// 重做尾部 state-2 已被截断
	if got := h.Redo(); got != nil {
		t.Fatalf("截断后 Redo() = %q, want nil", got)
	}
	if got := string(h.Undo()); got != "state-1" {
		t.Errorf("Undo() = %q, want %q", got, "state-1")
	}
}

func TestHistoryEvictsOldestAtCap(t *testing.T) {
	t.Parallel()

	h := NewHistory(snap(0))
	for i := 1; i <= maxHistory+10; i++ {
		h.Commit(snap(i))
	}

	if h.Len() != maxHistory {
		t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	// 淘汰不移动游标：最多撤销 maxHistory-1 步
	steps := 0
	for h.Undo() != nil {
		steps++
	}
	if steps != maxHistory-1 {
		t.Errorf("可撤销步数 = %d, want %d", steps, maxHistory-1)
	}

	// 淘汰后最旧的快照是被保留的那一份
	for h.Redo() != nil {
	}
	oldest := h.snapshots[0]
	if string(oldest) != "state-11" {
		t.Errorf("最旧快照 = %q, want %q", oldest, "state-11")
	}
}

func TestHistoryReset(t *testing.T) {
	t.Parallel()

	h := NewHistory(snap(0))
	h.Commit(snap(1))
	h.Reset(snap(9))

	if h.Len() != 1 {
		t.Errorf("Reset 后 Len() = %d, want 1", h.Len())
	}
	if got := h.Undo(); got != nil {
		t.Errorf("Reset 后 Undo() = %q, want nil", got)
	}
}
