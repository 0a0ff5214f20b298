// init_data.go

package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jacl-coder/EndAxis-Server/config"
	"github.com/jacl-coder/EndAxis-Server/internal/models"
	"github.com/jacl-coder/EndAxis-Server/pkg/db"
)

func main() {
	// 解析命令行参数
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	dataPath := flag.String("data", "", "角色数据文件路径（默认取配置中的 game_data_path）")
	dataType := flag.String("type", "all", "初始化数据类型 (characters, accounts, all)")
	flag.Parse()

	// 加载配置
	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化数据库连接
	if err := db.InitPostgres(); err != nil {
		log.Fatalf("初始化PostgreSQL失败: %v", err)
	}
	defer db.Close()

	// 初始化数据库表
	if err := db.InitAllTables(); err != nil {
		log.Fatalf("初始化数据库表失败: %v", err)
	}
	log.Println("✓ 数据库表初始化完成")

	path := *dataPath
	if path == "" {
		path = config.GlobalConfig.Server.GameDataPath
	}

	// 根据类型初始化数据
	switch *dataType {
	case "characters":
		if err := initCharacterData(path); err != nil {
			log.Fatalf("初始化角色数据失败: %v", err)
		}
		log.Println("✓ 角色数据初始化完成")
	case "accounts":
		if err := initTestAccounts(); err != nil {
			log.Fatalf("初始化测试账号失败: %v", err)
		}
		log.Println("✓ 测试账号初始化完成")
	case "all":
		log.Println("开始初始化所有数据...")

		if err := initCharacterData(path); err != nil {
			log.Fatalf("初始化角色数据失败: %v", err)
		}
		log.Println("✓ 角色数据初始化完成")

		if err := initTestAccounts(); err != nil {
			log.Fatalf("初始化测试账号失败: %v", err)
		}
		log.Println("✓ 测试账号初始化完成")
	default:
		log.Fatalf("未知的数据类型: %s", *dataType)
	}

	log.Println("数据初始化完成")
}

// gameDataFile 角色数据文件结构，只解到记录级别，原始 JSON 整体入库
type gameDataFile struct {
	CharacterRoster []json.RawMessage `json:"characterRoster"`
}

// initCharacterData 将角色数据文件导入数据库
func initCharacterData(path string) error {
	if path == "" {
		return fmt.Errorf("未指定角色数据文件")
	}
	log.Printf("正在导入角色数据: %s", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取数据文件失败: %w", err)
	}

	var file gameDataFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("解析数据文件失败: %w", err)
	}

	for _, rawRecord := range file.CharacterRoster {
		var record models.CharacterRecord
		if err := json.Unmarshal(rawRecord, &record); err != nil {
			return fmt.Errorf("解析角色记录失败: %w", err)
		}
		if record.ID == "" {
			log.Println("跳过缺少 id 的角色记录")
			continue
		}

		_, err := db.DB.Exec(`
			INSERT INTO endaxis_characters (id, name, element, rarity, data, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				element = EXCLUDED.element,
				rarity = EXCLUDED.rarity,
				data = EXCLUDED.data,
				updated_at = NOW()
		`, record.ID, record.Name, record.Element, record.Rarity, []byte(rawRecord))

		if err != nil {
			return fmt.Errorf("写入角色 %s 失败: %w", record.ID, err)
		}
		log.Printf("✓ 导入角色: %s (%s)", record.Name, record.ID)
	}

	return nil
}

// initTestAccounts 创建测试账号
func initTestAccounts() error {
	log.Println("正在初始化测试账号...")

	// 检查是否已有测试账号
	var count int
	err := db.DB.QueryRow("SELECT COUNT(*) FROM users WHERE username LIKE 'test%'").Scan(&count)
	if err != nil {
		return err
	}

	if count > 0 {
		log.Printf("已有 %d 个测试账号，跳过初始化", count)
		return nil
	}

	testAccounts := []struct {
		username string
		password string
	}{
		{username: "testuser1", password: "password123"},
		{username: "testuser2", password: "password123"},
	}

	for _, account := range testAccounts {
		_, err := db.DB.Exec(`
			INSERT INTO users (username, password, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
		`, account.username, hashPassword(account.password))

		if err != nil {
			return err
		}
		log.Printf("✓ 创建测试账号: %s", account.username)
	}

	return nil
}

// hashPassword 计算密码哈希，与网关登录逻辑保持一致
func hashPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return hex.EncodeToString(hash[:])
}
