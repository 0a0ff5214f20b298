// main.go

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacl-coder/EndAxis-Server/config"
	"github.com/jacl-coder/EndAxis-Server/internal/catalog"
	"github.com/jacl-coder/EndAxis-Server/internal/gateway"
	"github.com/jacl-coder/EndAxis-Server/internal/models"
	"github.com/jacl-coder/EndAxis-Server/internal/session"
	"github.com/jacl-coder/EndAxis-Server/pkg/db"
)

func main() {
	// 解析命令行参数
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	serviceType := flag.String("service", "all", "服务类型 (session, gateway, all)")
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

	// 初始化Redis连接
	if err := db.InitRedis(); err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}
	defer db.CloseRedis()

	// 加载角色数据，文件优先，数据库兜底
	cat := loadCatalog()

	// 根据服务类型启动不同的服务
	switch *serviceType {
	case "session":
		startSessionServer(cat)
	case "gateway":
		startGatewayServer(cat)
	case "all":
		startSessionServer(cat)
		startGatewayServer(cat)
	default:
		log.Fatalf("未知的服务类型: %s", *serviceType)
	}

	// 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("接收到关闭信号，正在关闭服务器...")

	log.Println("服务器已安全关闭")
}

// loadCatalog 加载角色与图标数据
func loadCatalog() *catalog.Catalog {
	cfg := &config.GlobalConfig
	constants := models.SystemConstants{
		MaxSP:              cfg.Simulation.MaxSP,
		InitialSP:          cfg.Simulation.InitialSP,
		SPRegenRate:        cfg.Simulation.SPRegenRate,
		SkillSPCostDefault: cfg.Simulation.SkillSPCostDefault,
		MaxStagger:         cfg.Simulation.MaxStagger,
	}

	cat := catalog.New(constants)
	path := cfg.Server.GameDataPath
	if path != "" {
		if err := cat.LoadFile(path); err == nil {
			log.Printf("角色数据已从文件加载: %s", path)
			return cat
		} else {
			log.Printf("从文件加载角色数据失败: %v，改用数据库", err)
		}
	}
	if err := cat.LoadDB(); err != nil {
		log.Printf("从数据库加载角色数据失败: %v", err)
	}
	return cat
}

// startSessionServer 启动编辑会话服务器
func startSessionServer(cat *catalog.Catalog) {
	server := session.NewSessionServer(&config.GlobalConfig, cat)

	if err := server.Start(); err != nil {
		log.Fatalf("启动会话服务器失败: %v", err)
	}

	log.Println("会话服务器已启动")
}

// startGatewayServer 启动网关服务器
func startGatewayServer(cat *catalog.Catalog) {
	gatewayServer := gateway.NewGateway(&config.GlobalConfig, cat)

	if err := gatewayServer.Start(); err != nil {
		log.Fatalf("启动网关服务失败: %v", err)
	}

	log.Println("网关服务已启动")
}
