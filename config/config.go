// config.go

package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config 服务器配置结构
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// ServerConfig 服务器基本配置
type ServerConfig struct {
	SessionPort  int    `mapstructure:"session_port"`
	GatewayPort  int    `mapstructure:"gateway_port"`
	Debug        bool   `mapstructure:"debug"`
	LogLevel     string `mapstructure:"log_level"`
	GameDataPath string `mapstructure:"game_data_path"`
	JWTSecret    string `mapstructure:"jwt_secret"`
	MaxSessions  int    `mapstructure:"max_sessions"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SimulationConfig 模拟引擎默认常量（可被 gamedata.json 的 SYSTEM_CONSTANTS 覆盖）
type SimulationConfig struct {
	MaxSP              float64 `mapstructure:"max_sp"`
	InitialSP          float64 `mapstructure:"initial_sp"`
	SPRegenRate        float64 `mapstructure:"sp_regen_rate"`
	SkillSPCostDefault float64 `mapstructure:"skill_sp_cost_default"`
	MaxStagger         float64 `mapstructure:"max_stagger"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig Config
)

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) error {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("无法读取配置文件: %w", err)
	}

	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		return fmt.Errorf("无法解析配置文件: %w", err)
	}

	return nil
}

// setDefaults 设置默认值
func setDefaults() {
	viper.SetDefault("server.session_port", 8081)
	viper.SetDefault("server.gateway_port", 8080)
	viper.SetDefault("server.game_data_path", "data/gamedata.json")
	viper.SetDefault("server.max_sessions", 256)
	viper.SetDefault("simulation.max_sp", 300)
	viper.SetDefault("simulation.initial_sp", 200)
	viper.SetDefault("simulation.sp_regen_rate", 8)
	viper.SetDefault("simulation.skill_sp_cost_default", 100)
	viper.SetDefault("simulation.max_stagger", 100)
}

// GetDSN 获取PostgreSQL连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GetRedisAddr 获取Redis连接地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
