// schema.go

package db

// 统一的数据库表结构定义

// CreateAllTablesSQL 创建所有表的SQL语句
const CreateAllTablesSQL = `
-- 用户表
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username VARCHAR(50) UNIQUE NOT NULL,
    password VARCHAR(100) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- 干员数据表（gamedata.json 的数据库副本，原始记录整体存为 JSONB）
CREATE TABLE IF NOT EXISTS endaxis_characters (
    id VARCHAR(50) PRIMARY KEY,
    name VARCHAR(50) NOT NULL,
    element VARCHAR(20),
    rarity INT DEFAULT 0,
    data JSONB NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- 工程库表（保存的时间轴工程，导出数据整体存为 JSONB）
CREATE TABLE IF NOT EXISTS endaxis_projects (
    id VARCHAR(50) PRIMARY KEY,
    owner_id BIGINT REFERENCES users(id) ON DELETE CASCADE,
    name VARCHAR(100) NOT NULL,
    blob JSONB NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- 创建索引以提高查询性能
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_endaxis_characters_rarity ON endaxis_characters(rarity);
CREATE INDEX IF NOT EXISTS idx_endaxis_projects_owner_id ON endaxis_projects(owner_id);
`

// InitAllTables 初始化所有数据库表
func InitAllTables() error {
	_, err := DB.Exec(CreateAllTablesSQL)
	if err != nil {
		return err
	}
	return nil
}
