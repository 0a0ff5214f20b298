package project

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/jacl-coder/EndAxis-Server/internal/models"
	"github.com/jacl-coder/EndAxis-Server/internal/timeline"
)

func testConstants() models.SystemConstants {
	return models.SystemConstants{
		MaxSP:              300,
		InitialSP:          200,
		SPRegenRate:        8,
		SkillSPCostDefault: 100,
		MaxStagger:         100,
	}
}

func TestExportFileName(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 15, 4, 5, 0, time.UTC)
	if got := ExportFileName(now); got != "endaxis_project_2026-08-31.json" {
		t.Errorf("ExportFileName() = %q, want endaxis_project_2026-08-31.json", got)
	}
}

func TestExportBlob(t *testing.T) {
	t.Parallel()

	doc := timeline.NewDocument(testConstants())
	if err := doc.ChangeTrackOperator(0, "", "alice"); err != nil {
		t.Fatalf("ChangeTrackOperator: %v", err)
	}

	blob := ExportBlob(doc)
	if blob.Version != models.BlobVersion {
		t.Errorf("Version = %q, want %q", blob.Version, models.BlobVersion)
	}
	if blob.Timestamp == 0 {
		t.Error("Timestamp 不应为 0")
	}
	if len(blob.Tracks) != timeline.TrackCount {
		t.Errorf("轨道数 = %d, want %d", len(blob.Tracks), timeline.TrackCount)
	}
	if blob.SystemConstants == nil || blob.SystemConstants.MaxSP != 300 {
		t.Errorf("SystemConstants = %+v", blob.SystemConstants)
	}
}

func TestImportBlobRoundTrip(t *testing.T) {
	t.Parallel()

	src := timeline.NewDocument(testConstants())
	if err := src.ChangeTrackOperator(0, "", "alice"); err != nil {
		t.Fatalf("ChangeTrackOperator: %v", err)
	}
	src.UpdateTrackInitialGauge("alice", 40)
	data, err := json.Marshal(ExportBlob(src))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	dst := timeline.NewDocument(testConstants())
	if err := ImportBlob(dst, data); err != nil {
		t.Fatalf("ImportBlob: %v", err)
	}
	if !bytes.Equal(dst.Snapshot(), src.Snapshot()) {
		t.Errorf("导入后状态与导出前不一致:\n got %s\nwant %s", dst.Snapshot(), src.Snapshot())
	}
	// 导入后历史重置，不能撤销回导入前
	if dst.Undo() {
		t.Error("导入后 Undo 应失败")
	}
}

func TestImportBlobRejectsMissingTracks(t *testing.T) {
	t.Parallel()

	doc := timeline.NewDocument(testConstants())
	if err := doc.ChangeTrackOperator(0, "", "alice"); err != nil {
		t.Fatalf("ChangeTrackOperator: %v", err)
	}
	before := doc.Snapshot()

	cases := []struct {
		name string
		data string
	}{
		{"缺少 tracks", `{"version":"2.0.0"}`},
		{"tracks 不是数组", `{"tracks":{"id":"x"}}`},
		{"非法 JSON", `{"tracks": [`},
	}
	for _, c := range cases {
		if err := ImportBlob(doc, []byte(c.data)); err == nil {
			t.Errorf("%s: 应返回错误", c.name)
		}
		// 拒绝导入时文档保持原样
		if got := doc.Snapshot(); !bytes.Equal(got, before) {
			t.Errorf("%s: 文档被意外修改", c.name)
		}
	}
}

func TestImportBlobNormalizesNilActions(t *testing.T) {
	t.Parallel()

	doc := timeline.NewDocument(testConstants())
	data := `{"tracks":[{"id":"alice"},{"id":""},{"id":""},{"id":""}]}`
	if err := ImportBlob(doc, []byte(data)); err != nil {
		t.Fatalf("ImportBlob: %v", err)
	}
	for i, track := range doc.Tracks {
		if track.Actions == nil {
			t.Errorf("轨道 %d 的动作列表应为空列表而非 nil", i)
		}
	}
}
