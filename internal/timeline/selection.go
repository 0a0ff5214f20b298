// selection.go

package timeline

import (
	"github.com/google/uuid"
	"github.com/jacl-coder/EndAxis-Server/internal/models"
)

// SelectionKind 选中类型
type SelectionKind int

const (
	// SelectNone 无选中
	SelectNone SelectionKind = iota
	// SelectAction 单个动作
	SelectAction
	// SelectMulti 多个动作
	SelectMulti
	// SelectConnection 单条连线
	SelectConnection
	// SelectAnomaly 单个异常效果单元
	SelectAnomaly
)

// AnomalyRef 异常效果单元的定位
type AnomalyRef struct {
	InstanceID string `json:"instanceId"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
}

// Selection 互斥的选中状态，任一时刻只有一种类型生效
type Selection struct {
	Kind         SelectionKind `json:"kind"`
	ActionID     string        `json:"actionId,omitempty"`
	Multi        []string      `json:"multi,omitempty"`
	ConnectionID string        `json:"connectionId,omitempty"`
	Anomaly      AnomalyRef    `json:"anomaly,omitempty"`
}

// linkingState 连线状态机：idle 或 linking(source, effectIndex)
type linkingState struct {
	active      bool
	sourceID    string
	effectIndex *int
}

// Selection 返回当前选中状态
func (d *Document) Selection() Selection {
	return d.selection
}

// ClearSelection 清空所有选中
func (d *Document) ClearSelection() {
	d.selection = Selection{}
}

// SelectAction 选中单个动作，重复选中同一动作时取消选中
func (d *Document) SelectAction(instanceID string) {
	if d.selection.Kind == SelectAction && d.selection.ActionID == instanceID {
		d.ClearSelection()
		return
	}
	d.selection = Selection{Kind: SelectAction, ActionID: instanceID}
}

// SelectConnection 选中单条连线
func (d *Document) SelectConnection(connID string) {
	d.selection = Selection{Kind: SelectConnection, ConnectionID: connID}
}

// SelectAnomaly 选中单个异常效果单元
func (d *Document) SelectAnomaly(instanceID string, row, col int) {
	d.selection = Selection{Kind: SelectAnomaly, Anomaly: AnomalyRef{InstanceID: instanceID, Row: row, Col: col}}
}

// SetMultiSelection 设置多选集合
// 空集合清空选中，单元素集合退化为单动作选中
func (d *Document) SetMultiSelection(ids []string) {
	switch len(ids) {
	case 0:
		d.ClearSelection()
	case 1:
		d.selection = Selection{Kind: SelectAction, ActionID: ids[0]}
	default:
		d.selection = Selection{Kind: SelectMulti, Multi: append([]string(nil), ids...)}
	}
}

// selectedActionIDs 返回选中的动作 id 列表（单选或多选）
func (d *Document) selectedActionIDs() []string {
	switch d.selection.Kind {
	case SelectAction:
		return []string{d.selection.ActionID}
	case SelectMulti:
		return d.selection.Multi
	}
	return nil
}

// dropFromSelection 将已删除的动作从选中状态中剔除
func (d *Document) dropFromSelection(instanceID string) {
	switch d.selection.Kind {
	case SelectAction:
		if d.selection.ActionID == instanceID {
			d.ClearSelection()
		}
	case SelectMulti:
		kept := d.selection.Multi[:0]
		for _, id := range d.selection.Multi {
			if id != instanceID {
				kept = append(kept, id)
			}
		}
		d.SetMultiSelection(kept)
	case SelectAnomaly:
		if d.selection.Anomaly.InstanceID == instanceID {
			d.ClearSelection()
		}
	}
	if d.linking.active && d.linking.sourceID == instanceID {
		d.resetLinking()
	}
}

// StartLinking 从当前选中的动作进入连线模式
// 已处于同源同效果下标的连线模式时再次调用视为取消
func (d *Document) StartLinking(effectIndex *int) {
	if d.selection.Kind != SelectAction {
		return
	}
	if d.linking.active && d.linking.sourceID == d.selection.ActionID && sameIndex(d.linking.effectIndex, effectIndex) {
		d.resetLinking()
		return
	}
	d.linking = linkingState{active: true, sourceID: d.selection.ActionID, effectIndex: effectIndex}
}

// IsLinking 返回是否处于连线模式及其源端
func (d *Document) IsLinking() (bool, string, *int) {
	return d.linking.active, d.linking.sourceID, d.linking.effectIndex
}

// ConfirmLinking 确认连线目标
// 自指规则：仅当两端都是效果且下标不同的同动作效果链允许成立，
// 其余自指（动作到自身、效果到自身动作本体、效果到自身）一律拒绝；
// 四元组完全重复的连线也被拒绝。无论成功与否都会退出连线模式
func (d *Document) ConfirmLinking(targetID string, targetEffectIndex *int) {
	if !d.linking.active || d.linking.sourceID == "" {
		d.resetLinking()
		return
	}
	source := d.linking.sourceID
	sourceIdx := d.linking.effectIndex
	d.resetLinking()

	if source == targetID {
		if sourceIdx == nil || targetEffectIndex == nil || *sourceIdx == *targetEffectIndex {
			return
		}
	}
	for _, conn := range d.Connections {
		if conn.SameEndpoints(source, targetID, sourceIdx, targetEffectIndex) {
			return
		}
	}
	d.Connections = append(d.Connections, &models.Connection{
		ID:              "conn_" + uuid.New().String(),
		From:            source,
		To:              targetID,
		FromEffectIndex: sourceIdx,
		ToEffectIndex:   targetEffectIndex,
	})
	d.commit()
}

// CancelLinking 无条件退出连线模式
func (d *Document) CancelLinking() {
	d.resetLinking()
}

func (d *Document) resetLinking() {
	d.linking = linkingState{}
}

// sameIndex 比较两个可空效果下标
func sameIndex(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
