// store.go

package project

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jacl-coder/EndAxis-Server/pkg/db"
)

// StoredProject 工程库中的一条保存记录
type StoredProject struct {
	ID        string          `json:"id"`
	OwnerID   int64           `json:"owner_id"`
	Name      string          `json:"name"`
	Blob      json.RawMessage `json:"blob,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SaveProject 保存工程数据，返回新记录的 id
func SaveProject(ownerID int64, name string, blob []byte) (string, error) {
	id := uuid.New().String()
	_, err := db.DB.Exec(
		`INSERT INTO endaxis_projects (id, owner_id, name, blob) VALUES ($1, $2, $3, $4)`,
		id, ownerID, name, blob,
	)
	if err != nil {
		return "", fmt.Errorf("保存工程失败: %w", err)
	}
	return id, nil
}

// UpdateProject 覆盖保存已存在的工程
func UpdateProject(id string, ownerID int64, blob []byte) error {
	result, err := db.DB.Exec(
		`UPDATE endaxis_projects SET blob = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 AND owner_id = $3`,
		blob, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("更新工程失败: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("工程不存在: %s", id)
	}
	return nil
}

// LoadProject 按 id 读取工程
func LoadProject(id string, ownerID int64) (*StoredProject, error) {
	var p StoredProject
	var blob []byte
	err := db.DB.QueryRow(
		`SELECT id, owner_id, name, blob, created_at, updated_at FROM endaxis_projects WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &blob, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("工程不存在: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("读取工程失败: %w", err)
	}
	p.Blob = blob
	return &p, nil
}

// ListProjects 列出用户的全部工程（不含数据体）
func ListProjects(ownerID int64) ([]*StoredProject, error) {
	rows, err := db.DB.Query(
		`SELECT id, owner_id, name, created_at, updated_at FROM endaxis_projects WHERE owner_id = $1 ORDER BY updated_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("查询工程列表失败: %w", err)
	}
	defer rows.Close()

	var projects []*StoredProject
	for rows.Next() {
		var p StoredProject
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("读取工程列表失败: %w", err)
		}
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历工程列表失败: %w", err)
	}
	return projects, nil
}

// DeleteProject 删除工程
func DeleteProject(id string, ownerID int64) error {
	_, err := db.DB.Exec(`DELETE FROM endaxis_projects WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("删除工程失败: %w", err)
	}
	return nil
}
