// history.go

package timeline

// maxHistory 历史快照上限
const maxHistory = 50

// History 基于全量快照的撤销/重做管理器
// cursor 恒指向当前状态对应的快照
type History struct {
	snapshots [][]byte
	cursor    int
}

// NewHistory 以初始状态快照创建历史管理器
func NewHistory(initial []byte) *History {
	return &History{snapshots: [][]byte{initial}}
}

// Commit 截断重做尾部并压入新快照
// 超出上限时淘汰最旧的快照且不移动游标（游标保持指向最新）
func (h *History) Commit(state []byte) {
	h.snapshots = append(h.snapshots[:h.cursor+1], state)
	if len(h.snapshots) > maxHistory {
		h.snapshots = h.snapshots[1:]
	} else {
		h.cursor++
	}
}

// Undo 后退一步，已在最旧快照时返回 nil
func (h *History) Undo() []byte {
	if h.cursor <= 0 {
		return nil
	}
	h.cursor--
	return h.snapshots[h.cursor]
}

// Redo 前进一步，已在最新快照时返回 nil
func (h *History) Redo() []byte {
	if h.cursor >= len(h.snapshots)-1 {
		return nil
	}
	h.cursor++
	return h.snapshots[h.cursor]
}

// Reset 清空历史并以给定快照重新开始
func (h *History) Reset(initial []byte) {
	h.snapshots = [][]byte{initial}
	h.cursor = 0
}

// Len 当前快照数量
func (h *History) Len() int {
	return len(h.snapshots)
}
