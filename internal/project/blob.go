// blob.go

package project

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jacl-coder/EndAxis-Server/internal/models"
	"github.com/jacl-coder/EndAxis-Server/internal/timeline"
)

// ExportBlob 生成当前文档的工程导出数据
func ExportBlob(doc *timeline.Document) *models.ProjectBlob {
	constants := doc.Constants
	return &models.ProjectBlob{
		Version:            models.BlobVersion,
		Timestamp:          time.Now().UnixMilli(),
		Tracks:             doc.Tracks,
		Connections:        doc.Connections,
		CharacterOverrides: doc.Overrides,
		SystemConstants:    &constants,
	}
}

// ExportFileName 工程下载文件名：endaxis_project_{ISO日期}.json
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("endaxis_project_%s.json", now.Format("2006-01-02"))
}

// ImportBlob 解析工程数据并整体替换文档状态
// tracks 缺失或不是数组时返回格式错误，文档保持原样
func ImportBlob(doc *timeline.Document, data []byte) error {
	var probe struct {
		Tracks json.RawMessage `json:"tracks"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("无效的项目文件: %w", err)
	}
	if len(probe.Tracks) == 0 || probe.Tracks[0] != '[' {
		return fmt.Errorf("无效的项目文件: 缺少 tracks 数据")
	}

	var blob models.ProjectBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return fmt.Errorf("无效的项目文件: %w", err)
	}
	for _, track := range blob.Tracks {
		if track.Actions == nil {
			track.Actions = []*models.Action{}
		}
	}
	doc.ReplaceState(blob.Tracks, blob.Connections, blob.CharacterOverrides, blob.SystemConstants)
	return nil
}
