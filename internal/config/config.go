package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Sync   SyncConfig   `toml:"sync"`
	Audit  AuditConfig  `toml:"audit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// SyncConfig 目录同步配置
type SyncConfig struct {
	SourcePath      string `toml:"source_path"`      // 订单目录 Excel 文件路径
	SheetName       string `toml:"sheet_name"`       // 工作表名（不区分大小写匹配）
	IntervalSeconds int    `toml:"interval_seconds"` // 同步间隔（秒）
}

// AuditConfig 审计日志配置
type AuditConfig struct {
	LogPath string `toml:"log_path"` // 验证审计 Excel 文件路径
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    5000,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Sync: SyncConfig{
			SourcePath:      "Data_order.xlsx",
			SheetName:       "data",
			IntervalSeconds: 60,
		},
		Audit: AuditConfig{
			LogPath: "VALIDATION.xlsx",
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下，不存在时使用默认配置
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	// 环境变量覆盖（用于本地运行 / 测试）
	if v := os.Getenv("VALIDO_SOURCE_XLSX"); v != "" {
		config.Sync.SourcePath = v
	}
	if v := os.Getenv("VALIDO_AUDIT_XLSX"); v != "" {
		config.Audit.LogPath = v
	}

	return config, nil
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在
// 相对路径基于可执行文件同目录解析
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, config.Data.DataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// ResolveDataPath 解析数据文件路径
// 绝对路径原样返回，相对路径基于数据目录
func ResolveDataPath(dataDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}
