// clipboard.go

package timeline

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"
	"github.com/jacl-coder/EndAxis-Server/internal/models"
)

// pasteFallbackOffset 未设置时间游标时粘贴的固定右移量
const pasteFallbackOffset = 2.0

// clipboardEntry 复制的动作及其所属轨道下标
type clipboardEntry struct {
	trackIndex int
	action     models.Action
}

// clipboard 剪贴板：动作快照、两端都在选区内的连线、最早开始时间
type clipboard struct {
	entries  []clipboardEntry
	conns    []models.Connection
	baseTime float64
}

// CopySelection 复制当前选中的动作
// 仅两端都被选中的连线会随动作一起复制
func (d *Document) CopySelection() {
	ids := d.selectedActionIDs()
	if len(ids) == 0 {
		return
	}
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	cb := clipboard{baseTime: math.Inf(1)}
	for trackIndex, track := range d.Tracks {
		for _, action := range track.Actions {
			if !selected[action.InstanceID] {
				continue
			}
			cb.entries = append(cb.entries, clipboardEntry{
				trackIndex: trackIndex,
				action:     deepCopyAction(action),
			})
			if action.StartTime < cb.baseTime {
				cb.baseTime = action.StartTime
			}
		}
	}
	if len(cb.entries) == 0 {
		return
	}
	for _, conn := range d.Connections {
		if selected[conn.From] && selected[conn.To] {
			cb.conns = append(cb.conns, deepCopyConnection(conn))
		}
	}
	d.clipboard = cb
}

// PasteSelection 在时间游标处粘贴剪贴板内容
// 游标未设置时整体右移固定偏移；两端重映射失败的连线被丢弃；
// 粘贴出的动作成为新的选中集合，整个操作只提交一次历史
func (d *Document) PasteSelection() {
	if len(d.clipboard.entries) == 0 {
		return
	}
	timeDelta := pasteFallbackOffset
	if d.CursorTime >= 0 {
		timeDelta = d.CursorTime - d.clipboard.baseTime
	}

	idMap := make(map[string]string, len(d.clipboard.entries))
	newIDs := make([]string, 0, len(d.clipboard.entries))
	touched := map[int]bool{}
	for _, entry := range d.clipboard.entries {
		if entry.trackIndex < 0 || entry.trackIndex >= len(d.Tracks) {
			continue
		}
		pasted := deepCopyAction(&entry.action)
		oldID := pasted.InstanceID
		pasted.InstanceID = "inst_" + uuid.New().String()
		pasted.StartTime = math.Max(0, entry.action.StartTime+timeDelta)

		track := d.Tracks[entry.trackIndex]
		track.Actions = append(track.Actions, &pasted)
		touched[entry.trackIndex] = true
		idMap[oldID] = pasted.InstanceID
		newIDs = append(newIDs, pasted.InstanceID)
	}
	if len(newIDs) == 0 {
		return
	}
	for idx := range touched {
		sortTrack(d.Tracks[idx])
	}

	for _, conn := range d.clipboard.conns {
		from, okFrom := idMap[conn.From]
		to, okTo := idMap[conn.To]
		if !okFrom || !okTo {
			continue
		}
		pasted := deepCopyConnection(&conn)
		pasted.ID = "conn_" + uuid.New().String()
		pasted.From = from
		pasted.To = to
		d.Connections = append(d.Connections, &pasted)
	}

	d.SetMultiSelection(newIDs)
	d.commit()
}

// deepCopyAction 经序列化往返得到完全独立的动作副本
func deepCopyAction(action *models.Action) models.Action {
	data, _ := json.Marshal(action)
	var copied models.Action
	_ = json.Unmarshal(data, &copied)
	return copied
}

// deepCopyConnection 深拷贝连线（效果下标指针独立）
func deepCopyConnection(conn *models.Connection) models.Connection {
	copied := *conn
	if conn.FromEffectIndex != nil {
		v := *conn.FromEffectIndex
		copied.FromEffectIndex = &v
	}
	if conn.ToEffectIndex != nil {
		v := *conn.ToEffectIndex
		copied.ToEffectIndex = &v
	}
	return copied
}
