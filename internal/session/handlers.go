// handlers.go

package session

import (
	"encoding/json"
	"log"
	"time"

	"github.com/jacl-coder/EndAxis-Server/internal/catalog"
	"github.com/jacl-coder/EndAxis-Server/internal/models"
	"github.com/jacl-coder/EndAxis-Server/internal/project"
	"github.com/jacl-coder/EndAxis-Server/internal/sim"
)

// timeNow 便于测试替换的时间源
var timeNow = time.Now

// 请求载荷

type placeActionPayload struct {
	TrackID   string  `json:"trackId"`
	SkillID   string  `json:"skillId"`
	StartTime float64 `json:"startTime"`
}

type instancePayload struct {
	InstanceID string `json:"instanceId"`
}

type updateActionPayload struct {
	InstanceID string            `json:"instanceId"`
	Patch      models.SkillPatch `json:"patch"`
}

type librarySkillPayload struct {
	SkillID string            `json:"skillId"`
	Patch   models.SkillPatch `json:"patch"`
}

type changeOperatorPayload struct {
	TrackIndex int    `json:"trackIndex"`
	OldID      string `json:"oldId"`
	NewID      string `json:"newId"`
}

type trackIndexPayload struct {
	TrackIndex int `json:"trackIndex"`
}

type anomalyPayload struct {
	InstanceID string `json:"instanceId"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
}

type nudgePayload struct {
	Delta float64 `json:"delta"`
}

type multiSelectPayload struct {
	IDs []string `json:"ids"`
}

type linkingPayload struct {
	EffectIndex *int `json:"effectIndex"`
}

type confirmLinkingPayload struct {
	TargetID          string `json:"targetId"`
	TargetEffectIndex *int   `json:"targetEffectIndex"`
}

type cursorPayload struct {
	Time float64 `json:"time"`
}

type trackGaugePayload struct {
	TrackID string  `json:"trackId"`
	Value   float64 `json:"value"`
}

type idPayload struct {
	ID string `json:"id"`
}

type importPayload struct {
	Data json.RawMessage `json:"data"`
}

type characterPayload struct {
	CharacterID string `json:"characterId"`
}

type saveProjectPayload struct {
	Name string `json:"name"`
}

// 推送载荷

type curvesPayload struct {
	Revision int           `json:"revision"`
	SP       []sim.Point   `json:"sp"`
	Gauges   [][]sim.Point `json:"gauges"`
	Stagger  staggerCurve  `json:"stagger"`
}

type staggerCurve struct {
	Points []sim.Point `json:"points"`
	Locks  []sim.Lock  `json:"locks"`
}

type statePayload struct {
	Tracks        []*models.Track              `json:"tracks"`
	Connections   []*models.Connection         `json:"connections"`
	Overrides     map[string]models.SkillPatch `json:"characterOverrides"`
	Constants     models.SystemConstants       `json:"systemConstants"`
	ActiveTrackID string                       `json:"activeTrackId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// handleMessage 处理会话消息并分发到文档操作
func (sess *Session) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("解析消息失败: %v", err)
		return
	}

	switch msg.Type {
	case "place_action":
		var p placeActionPayload
		if decode(msg.Payload, &p) {
			sess.handlePlaceAction(p)
		}
	case "remove_action":
		var p instancePayload
		if decode(msg.Payload, &p) {
			sess.doc.RemoveAction(p.InstanceID)
		}
	case "update_action":
		var p updateActionPayload
		if decode(msg.Payload, &p) {
			sess.doc.UpdateAction(p.InstanceID, p.Patch)
		}
	case "update_library_skill":
		var p librarySkillPayload
		if decode(msg.Payload, &p) {
			sess.doc.UpdateLibrarySkill(p.SkillID, p.Patch)
		}
	case "change_operator":
		var p changeOperatorPayload
		if decode(msg.Payload, &p) {
			if err := sess.doc.ChangeTrackOperator(p.TrackIndex, p.OldID, p.NewID); err != nil {
				sess.sendError(err.Error())
			}
		}
	case "clear_track":
		var p trackIndexPayload
		if decode(msg.Payload, &p) {
			sess.doc.ClearTrack(p.TrackIndex)
		}
	case "remove_anomaly":
		var p anomalyPayload
		if decode(msg.Payload, &p) {
			sess.doc.RemoveAnomaly(p.InstanceID, p.Row, p.Col)
		}
	case "nudge":
		var p nudgePayload
		if decode(msg.Payload, &p) {
			sess.doc.NudgeSelection(p.Delta)
		}
	case "select_action":
		var p instancePayload
		if decode(msg.Payload, &p) {
			sess.doc.SelectAction(p.InstanceID)
		}
	case "select_connection":
		var p idPayload
		if decode(msg.Payload, &p) {
			sess.doc.SelectConnection(p.ID)
		}
	case "select_anomaly":
		var p anomalyPayload
		if decode(msg.Payload, &p) {
			sess.doc.SelectAnomaly(p.InstanceID, p.Row, p.Col)
		}
	case "select_multi":
		var p multiSelectPayload
		if decode(msg.Payload, &p) {
			sess.doc.SetMultiSelection(p.IDs)
		}
	case "clear_selection":
		sess.doc.ClearSelection()
	case "start_linking":
		var p linkingPayload
		if decode(msg.Payload, &p) {
			sess.doc.StartLinking(p.EffectIndex)
		}
	case "confirm_linking":
		var p confirmLinkingPayload
		if decode(msg.Payload, &p) {
			sess.doc.ConfirmLinking(p.TargetID, p.TargetEffectIndex)
		}
	case "cancel_linking":
		sess.doc.CancelLinking()
	case "copy":
		sess.doc.CopySelection()
	case "paste":
		sess.doc.PasteSelection()
	case "set_cursor":
		var p cursorPayload
		if decode(msg.Payload, &p) {
			sess.doc.SetCursorTime(p.Time)
		}
	case "undo":
		sess.doc.Undo()
	case "redo":
		sess.doc.Redo()
	case "set_track_max_gauge":
		var p trackGaugePayload
		if decode(msg.Payload, &p) {
			sess.doc.UpdateTrackMaxGauge(p.TrackID, p.Value)
		}
	case "set_track_initial_gauge":
		var p trackGaugePayload
		if decode(msg.Payload, &p) {
			sess.doc.UpdateTrackInitialGauge(p.TrackID, p.Value)
		}
	case "remove_connection":
		var p idPayload
		if decode(msg.Payload, &p) {
			sess.doc.RemoveConnection(p.ID)
		}
	case "import":
		var p importPayload
		if decode(msg.Payload, &p) {
			if err := project.ImportBlob(sess.doc, p.Data); err != nil {
				sess.sendError(err.Error())
			}
		}
	case "export":
		sess.handleExport()
	case "reset":
		sess.doc.Reset()
		sess.autosaver.Clear()
	case "skill_library":
		var p characterPayload
		if decode(msg.Payload, &p) {
			sess.handleSkillLibrary(p.CharacterID)
		}
	case "save_project":
		var p saveProjectPayload
		if decode(msg.Payload, &p) {
			sess.handleSaveProject(p.Name)
		}
	case "get_state":
		sess.sendState()
	case "get_curves":
		sess.pushCurves()
	default:
		log.Printf("未知消息类型: %s", msg.Type)
	}
}

// decode 解码载荷，失败时记录日志
func decode(payload json.RawMessage, dst interface{}) bool {
	if err := json.Unmarshal(payload, dst); err != nil {
		log.Printf("解析载荷失败: %v", err)
		return false
	}
	return true
}

// handlePlaceAction 解析技能库并放置动作
func (sess *Session) handlePlaceAction(p placeActionPayload) {
	record := sess.server.catalog.Character(p.TrackID)
	if record == nil {
		return
	}
	for _, tpl := range catalog.ResolveSkills(record, sess.doc.Overrides, sess.doc.Constants) {
		if tpl.ID == p.SkillID {
			sess.doc.PlaceAction(p.TrackID, tpl, p.StartTime)
			return
		}
	}
}

// handleSkillLibrary 返回指定干员的技能库
func (sess *Session) handleSkillLibrary(characterID string) {
	record := sess.server.catalog.Character(characterID)
	if record == nil {
		sess.sendError("未知干员: " + characterID)
		return
	}
	skills := catalog.ResolveSkills(record, sess.doc.Overrides, sess.doc.Constants)
	payload, _ := json.Marshal(skills)
	sess.send(Message{Type: "skill_library", Payload: payload})
}

// handleExport 导出当前工程
func (sess *Session) handleExport() {
	blob := project.ExportBlob(sess.doc)
	payload, err := json.Marshal(map[string]interface{}{
		"fileName": project.ExportFileName(timeNow()),
		"blob":     blob,
	})
	if err != nil {
		sess.sendError("导出失败")
		return
	}
	sess.send(Message{Type: "export", Payload: payload})
}

// handleSaveProject 将当前工程保存到工程库
func (sess *Session) handleSaveProject(name string) {
	if name == "" {
		name = project.ExportFileName(timeNow())
	}
	blob, err := json.Marshal(project.ExportBlob(sess.doc))
	if err != nil {
		sess.sendError("序列化工程失败")
		return
	}
	id, err := project.SaveProject(sess.OwnerID, name, blob)
	if err != nil {
		log.Printf("保存工程失败: %v", err)
		sess.sendError("保存工程失败")
		return
	}
	payload, _ := json.Marshal(map[string]string{"id": id, "name": name})
	sess.send(Message{Type: "project_saved", Payload: payload})
}

// sendState 推送完整文档状态
func (sess *Session) sendState() {
	payload, err := json.Marshal(statePayload{
		Tracks:        sess.doc.Tracks,
		Connections:   sess.doc.Connections,
		Overrides:     sess.doc.Overrides,
		Constants:     sess.doc.Constants,
		ActiveTrackID: sess.doc.ActiveTrackID,
	})
	if err != nil {
		log.Printf("序列化文档状态失败: %v", err)
		return
	}
	sess.send(Message{Type: "state", Payload: payload})
}

// pushCurves 重算三条资源曲线并推送
func (sess *Session) pushCurves() {
	sess.revision++

	doc := sess.doc
	gauges := make([][]sim.Point, len(doc.Tracks))
	for i, track := range doc.Tracks {
		if track.ID == "" {
			gauges[i] = []sim.Point{}
			continue
		}
		record := sess.server.catalog.Character(track.ID)
		gauges[i] = sim.GaugeCurve(doc.Tracks, i, record, doc.Overrides)
	}
	points, locks := sim.StaggerCurve(doc.Tracks, doc.Constants.MaxStagger)

	payload, err := json.Marshal(curvesPayload{
		Revision: sess.revision,
		SP:       sim.SPCurve(doc.Tracks, doc.Constants),
		Gauges:   gauges,
		Stagger:  staggerCurve{Points: points, Locks: locks},
	})
	if err != nil {
		log.Printf("序列化曲线失败: %v", err)
		return
	}
	sess.send(Message{Type: "curves", Payload: payload})
}

// sendError 推送错误提示
func (sess *Session) sendError(message string) {
	payload, _ := json.Marshal(errorPayload{Message: message})
	sess.send(Message{Type: "error", Payload: payload})
}
