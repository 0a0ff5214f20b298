// document.go

package timeline

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/jacl-coder/EndAxis-Server/internal/models"
)

// TrackCount 固定轨道数量
const TrackCount = 4

// Observer 文档变更回调，在每次提交后调用一次
type Observer func(*Document)

// Document 时间轴文档：轨道、连线、全局覆盖与编辑状态的唯一持有者
// 所有修改操作串行执行，每个逻辑操作恰好提交一次历史
type Document struct {
	Tracks      []*models.Track
	Connections []*models.Connection
	Overrides   map[string]models.SkillPatch
	Constants   models.SystemConstants

	// ActiveTrackID 当前激活轨道绑定的干员 id
	ActiveTrackID string

	// CursorTime 粘贴用的时间游标，负值表示未设置
	CursorTime float64

	selection Selection
	linking   linkingState
	clipboard clipboard
	history   *History
	observers []Observer
}

// documentState 历史快照与自动保存共用的序列化状态
type documentState struct {
	Tracks             []*models.Track              `json:"tracks"`
	Connections        []*models.Connection         `json:"connections"`
	CharacterOverrides map[string]models.SkillPatch `json:"characterOverrides"`
	SystemConstants    models.SystemConstants       `json:"systemConstants"`
}

// NewDocument 创建空文档（四条未绑定轨道）并以初始状态播种历史
func NewDocument(constants models.SystemConstants) *Document {
	d := &Document{
		Tracks:      emptyTracks(),
		Connections: []*models.Connection{},
		Overrides:   map[string]models.SkillPatch{},
		Constants:   constants,
		CursorTime:  -1,
	}
	d.history = NewHistory(d.encodeState())
	return d
}

func emptyTracks() []*models.Track {
	tracks := make([]*models.Track, TrackCount)
	for i := range tracks {
		tracks[i] = &models.Track{Actions: []*models.Action{}}
	}
	return tracks
}

// Subscribe 注册变更观察者（自动保存、会话推送）
func (d *Document) Subscribe(fn Observer) {
	d.observers = append(d.observers, fn)
}

// commit 提交一次历史快照并通知观察者
func (d *Document) commit() {
	d.history.Commit(d.encodeState())
	d.notify()
}

func (d *Document) notify() {
	for _, fn := range d.observers {
		fn(d)
	}
}

// encodeState 序列化当前可模拟状态
func (d *Document) encodeState() []byte {
	data, err := json.Marshal(documentState{
		Tracks:             d.Tracks,
		Connections:        d.Connections,
		CharacterOverrides: d.Overrides,
		SystemConstants:    d.Constants,
	})
	if err != nil {
		// 状态全部由可序列化类型构成，此处失败属于程序错误
		log.Printf("序列化文档状态失败: %v", err)
		return []byte("{}")
	}
	return data
}

// restoreState 用快照整体替换当前状态并清空选中
func (d *Document) restoreState(data []byte) {
	var state documentState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("还原文档状态失败: %v", err)
		return
	}
	d.Tracks = state.Tracks
	if d.Tracks == nil {
		d.Tracks = emptyTracks()
	}
	d.Connections = state.Connections
	if d.Connections == nil {
		d.Connections = []*models.Connection{}
	}
	d.Overrides = state.CharacterOverrides
	if d.Overrides == nil {
		d.Overrides = map[string]models.SkillPatch{}
	}
	d.Constants = state.SystemConstants
	d.ClearSelection()
	d.resetLinking()
}

// Undo 撤销一步
func (d *Document) Undo() bool {
	data := d.history.Undo()
	if data == nil {
		return false
	}
	d.restoreState(data)
	d.notify()
	return true
}

// Redo 重做一步
func (d *Document) Redo() bool {
	data := d.history.Redo()
	if data == nil {
		return false
	}
	d.restoreState(data)
	d.notify()
	return true
}

// Snapshot 返回当前状态快照（供自动保存与导出）
func (d *Document) Snapshot() []byte {
	return d.encodeState()
}

// findAction 查找动作所在轨道下标及引用
func (d *Document) findAction(instanceID string) (int, *models.Action) {
	for i, track := range d.Tracks {
		for _, action := range track.Actions {
			if action.InstanceID == instanceID {
				return i, action
			}
		}
	}
	return -1, nil
}

// trackByID 按干员 id 查找轨道
func (d *Document) trackByID(id string) *models.Track {
	if id == "" {
		return nil
	}
	for _, track := range d.Tracks {
		if track.ID == id {
			return track
		}
	}
	return nil
}

// sortTrack 按开始时间升序排序
func sortTrack(track *models.Track) {
	sort.SliceStable(track.Actions, func(i, j int) bool {
		return track.Actions[i].StartTime < track.Actions[j].StartTime
	})
}

// cloneAction 深拷贝模板为新的动作实例
func cloneAction(tpl models.SkillTemplate, startTime float64) *models.Action {
	tpl.PhysicalAnomaly = models.CloneAnomaly(tpl.PhysicalAnomaly)
	tpl.AllowedTypes = append([]string(nil), tpl.AllowedTypes...)
	tpl.AnomalyRowDelays = append([]float64(nil), tpl.AnomalyRowDelays...)
	return &models.Action{
		SkillTemplate: tpl,
		InstanceID:    "inst_" + uuid.New().String(),
		StartTime:     startTime,
	}
}

// PlaceAction 将技能模板放置到指定干员的轨道上
// 轨道不存在时静默忽略
func (d *Document) PlaceAction(trackID string, tpl models.SkillTemplate, startTime float64) {
	track := d.trackByID(trackID)
	if track == nil {
		return
	}
	track.Actions = append(track.Actions, cloneAction(tpl, startTime))
	sortTrack(track)
	d.commit()
}

// RemoveAction 删除动作并级联删除引用它的连线
// 未找到时不提交历史
func (d *Document) RemoveAction(instanceID string) {
	if instanceID == "" {
		return
	}
	removed := false
	for _, track := range d.Tracks {
		for i, action := range track.Actions {
			if action.InstanceID == instanceID {
				track.Actions = append(track.Actions[:i], track.Actions[i+1:]...)
				removed = true
				break
			}
		}
		if removed {
			break
		}
	}
	if !removed {
		return
	}
	d.dropConnectionsOf(map[string]bool{instanceID: true})
	d.dropFromSelection(instanceID)
	d.commit()
}

// dropConnectionsOf 删除任一端点落在给定集合内的连线
func (d *Document) dropConnectionsOf(ids map[string]bool) {
	kept := d.Connections[:0]
	for _, conn := range d.Connections {
		if ids[conn.From] || ids[conn.To] {
			if d.selection.Kind == SelectConnection && d.selection.ConnectionID == conn.ID {
				d.ClearSelection()
			}
			continue
		}
		kept = append(kept, conn)
	}
	d.Connections = kept
}

// UpdateAction 合并补丁到指定动作
func (d *Document) UpdateAction(instanceID string, patch models.SkillPatch) {
	idx, action := d.findAction(instanceID)
	if action == nil {
		return
	}
	patch.ApplyTo(&action.SkillTemplate)
	if patch.StartTime != nil {
		action.StartTime = math.Max(0, *patch.StartTime)
		sortTrack(d.Tracks[idx])
	}
	d.commit()
}

// UpdateLibrarySkill 更新全局技能覆盖并同步所有已放置的同类动作
func (d *Document) UpdateLibrarySkill(templateID string, patch models.SkillPatch) {
	override := d.Overrides[templateID]
	override.Merge(patch)
	d.Overrides[templateID] = override

	for _, track := range d.Tracks {
		for _, action := range track.Actions {
			if action.ID == templateID {
				patch.ApplyTo(&action.SkillTemplate)
			}
		}
	}
	d.commit()
}

// ChangeTrackOperator 更换轨道绑定的干员
// 目标干员已在其他轨道时返回冲突错误且不做任何修改
func (d *Document) ChangeTrackOperator(trackIndex int, oldID, newID string) error {
	if trackIndex < 0 || trackIndex >= len(d.Tracks) {
		return fmt.Errorf("轨道下标无效: %d", trackIndex)
	}
	for i, track := range d.Tracks {
		if i != trackIndex && track.ID != "" && track.ID == newID {
			return fmt.Errorf("该干员已在另一条轨道上")
		}
	}
	d.resetTrack(trackIndex, newID)
	if d.ActiveTrackID == oldID {
		d.ActiveTrackID = newID
	}
	d.commit()
	return nil
}

// ClearTrack 解绑轨道并清空其全部动作
func (d *Document) ClearTrack(trackIndex int) {
	if trackIndex < 0 || trackIndex >= len(d.Tracks) {
		return
	}
	if d.ActiveTrackID != "" && d.ActiveTrackID == d.Tracks[trackIndex].ID {
		d.ActiveTrackID = ""
	}
	d.resetTrack(trackIndex, "")
	d.commit()
}

// resetTrack 删除轨道全部动作及相关连线后重新绑定
func (d *Document) resetTrack(trackIndex int, newID string) {
	track := d.Tracks[trackIndex]
	removedIDs := make(map[string]bool, len(track.Actions))
	for _, action := range track.Actions {
		removedIDs[action.InstanceID] = true
	}
	track.ID = newID
	track.Actions = []*models.Action{}
	if len(removedIDs) > 0 {
		d.dropConnectionsOf(removedIDs)
		for id := range removedIDs {
			d.dropFromSelection(id)
		}
	}
}

// FlattenIndex 将异常效果的 (行, 列) 换算为展平下标
// 每次调用重新计算，避免结构编辑后失效
func FlattenIndex(rows [][]models.Effect, rowIndex, colIndex int) int {
	flat := colIndex
	for i := 0; i < rowIndex && i < len(rows); i++ {
		flat += len(rows[i])
	}
	return flat
}

// RemoveAnomaly 删除动作的一个异常效果单元
// 引用该效果的连线被删除，同一动作上更大的效果下标整体前移一位
func (d *Document) RemoveAnomaly(instanceID string, rowIndex, colIndex int) {
	_, action := d.findAction(instanceID)
	if action == nil {
		return
	}
	rows := action.PhysicalAnomaly
	if rowIndex < 0 || rowIndex >= len(rows) || colIndex < 0 || colIndex >= len(rows[rowIndex]) {
		return
	}
	flat := FlattenIndex(rows, rowIndex, colIndex)

	// 删除指向该效果的连线，并为其余连线重编号
	kept := d.Connections[:0]
	for _, conn := range d.Connections {
		fromHit := conn.From == instanceID && conn.FromEffectIndex != nil && *conn.FromEffectIndex == flat
		toHit := conn.To == instanceID && conn.ToEffectIndex != nil && *conn.ToEffectIndex == flat
		if fromHit || toHit {
			if d.selection.Kind == SelectConnection && d.selection.ConnectionID == conn.ID {
				d.ClearSelection()
			}
			continue
		}
		if conn.From == instanceID && conn.FromEffectIndex != nil && *conn.FromEffectIndex > flat {
			*conn.FromEffectIndex--
		}
		if conn.To == instanceID && conn.ToEffectIndex != nil && *conn.ToEffectIndex > flat {
			*conn.ToEffectIndex--
		}
		kept = append(kept, conn)
	}
	d.Connections = kept

	// 移除单元，行变空时连同行与行延迟一并移除
	row := rows[rowIndex]
	rows[rowIndex] = append(row[:colIndex], row[colIndex+1:]...)
	if len(rows[rowIndex]) == 0 {
		action.PhysicalAnomaly = append(rows[:rowIndex], rows[rowIndex+1:]...)
		if rowIndex < len(action.AnomalyRowDelays) {
			action.AnomalyRowDelays = append(action.AnomalyRowDelays[:rowIndex], action.AnomalyRowDelays[rowIndex+1:]...)
		}
	}
	if d.selection.Kind == SelectAnomaly && d.selection.Anomaly.InstanceID == instanceID {
		d.ClearSelection()
	}
	d.commit()
}

// NudgeSelection 将选中的动作整体平移 delta 秒（0.1 秒对齐，不早于 0）
func (d *Document) NudgeSelection(delta float64) {
	ids := d.selectedActionIDs()
	if len(ids) == 0 {
		return
	}
	changed := false
	touched := map[int]bool{}
	for _, id := range ids {
		idx, action := d.findAction(id)
		if action == nil {
			continue
		}
		next := math.Round((action.StartTime+delta)*10) / 10
		if next < 0 {
			next = 0
		}
		if next != action.StartTime {
			action.StartTime = next
			changed = true
			touched[idx] = true
		}
	}
	if !changed {
		return
	}
	for idx := range touched {
		sortTrack(d.Tracks[idx])
	}
	d.commit()
}

// RemoveConnection 按 id 删除连线
func (d *Document) RemoveConnection(connID string) {
	for i, conn := range d.Connections {
		if conn.ID == connID {
			d.Connections = append(d.Connections[:i], d.Connections[i+1:]...)
			if d.selection.Kind == SelectConnection && d.selection.ConnectionID == connID {
				d.ClearSelection()
			}
			d.commit()
			return
		}
	}
}

// UpdateTrackMaxGauge 设置轨道充能上限覆盖
func (d *Document) UpdateTrackMaxGauge(trackID string, value float64) {
	track := d.trackByID(trackID)
	if track == nil {
		return
	}
	track.MaxGaugeOverride = value
	d.commit()
}

// UpdateTrackInitialGauge 设置轨道初始充能
func (d *Document) UpdateTrackInitialGauge(trackID string, value float64) {
	track := d.trackByID(trackID)
	if track == nil {
		return
	}
	track.InitialGauge = value
	d.commit()
}

// SetCursorTime 设置粘贴时间游标，负值表示清除
func (d *Document) SetCursorTime(t float64) {
	d.CursorTime = t
}

// ReplaceState 整体替换文档状态（工程导入/自动保存恢复）
// 清空选中并将历史重置为替换后状态的单一快照
func (d *Document) ReplaceState(tracks []*models.Track, connections []*models.Connection, overrides map[string]models.SkillPatch, constants *models.SystemConstants) {
	d.Tracks = tracks
	if d.Connections = connections; connections == nil {
		d.Connections = []*models.Connection{}
	}
	if d.Overrides = overrides; overrides == nil {
		d.Overrides = map[string]models.SkillPatch{}
	}
	if constants != nil {
		d.Constants = *constants
	}
	d.ClearSelection()
	d.resetLinking()
	d.history.Reset(d.encodeState())
	d.notify()
}

// Reset 恢复为四条空轨道的初始文档
func (d *Document) Reset() {
	d.ActiveTrackID = ""
	d.CursorTime = -1
	d.ReplaceState(emptyTracks(), nil, nil, nil)
}
