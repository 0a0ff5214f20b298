package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jacl-coder/EndAxis-Server/config"
	_ "github.com/lib/pq"
)

var (
	// DB 全局数据库连接实例
	DB *sql.DB
)

// InitPostgres 初始化PostgreSQL连接
func InitPostgres() error {
	dsn := config.GlobalConfig.Database.GetDSN()
	var err error

	DB, err = sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 工程库读写走同一个连接池，编辑器场景下连接需求很小
	DB.SetMaxOpenConns(16)
	DB.SetMaxIdleConns(4)
	DB.SetConnMaxLifetime(30 * time.Minute)

	// 测试连接
	if err = DB.Ping(); err != nil {
		return fmt.Errorf("数据库Ping失败: %w", err)
	}

	log.Println("工程库PostgreSQL连接就绪")
	return nil
}

// Close 关闭数据库连接
func Close() {
	if DB != nil {
		DB.Close()
		log.Println("数据库连接已关闭")
	}
}
