package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// 环境变量
const (
	EnvOperationalWorkbook = "TFCKPI_OPERATIONAL_WORKBOOK"
	EnvFinancialWorkbook   = "TFCKPI_FINANCIAL_WORKBOOK"
	EnvDataDir             = "TFCKPI_DATA_DIR"
	EnvPort                = "TFCKPI_PORT"
)

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Sources SourcesConfig `toml:"sources"`
	Cache   CacheConfig   `toml:"cache"`
	Upload  UploadConfig  `toml:"upload"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"` // 工作簿兜底目录，同时存放审计库
}

// SourcesConfig 默认数据源（文件名或路径）
type SourcesConfig struct {
	Operational string `toml:"operational"`
	Financial   string `toml:"financial"`
}

// CacheConfig 数据源缓存配置
type CacheConfig struct {
	Enabled    bool `toml:"enabled"`
	MaxEntries int  `toml:"max_entries"`
}

// UploadConfig 上传配置
type UploadConfig struct {
	TTLMinutes int   `toml:"ttl_minutes"`
	MaxBytes   int64 `toml:"max_bytes"`
}

// TTL 上传内容保留时长
func (u UploadConfig) TTL() time.Duration {
	if u.TTLMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(u.TTLMinutes) * time.Minute
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	Found         bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Sources: SourcesConfig{
			Operational: "TFC_-2_6.xlsx",
			Financial:   "FinanceReport (3).xlsx",
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 16,
		},
		Upload: UploadConfig{
			TTLMinutes: 60,
			MaxBytes:   50 << 20,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}
	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return LoadConfigFrom(filepath.Join(exeDir, "config.toml"))
}

// LoadConfigFrom 从指定路径加载配置；文件不存在时使用默认配置。环境变量优先于文件。
func LoadConfigFrom(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: configPath}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		info.Found = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	applyEnv(config, &info)
	return config, info, nil
}

func applyEnv(config *AppConfig, info *LoadConfigInfo) {
	if v := strings.TrimSpace(os.Getenv(EnvOperationalWorkbook)); v != "" {
		config.Sources.Operational = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFinancialWorkbook)); v != "" {
		config.Sources.Financial = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		config.Data.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
			info.PortSpecified = true
		}
	}
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *AppConfig, configPath string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// ResolveDataDir 数据目录：绝对路径原样使用，相对路径以可执行文件目录为基准
func ResolveDataDir(config *AppConfig) string {
	dir := config.Data.DataDir
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, dir)
}

// EnsureDataDir 确保数据目录及子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	for _, subdir := range []string{"exports"} {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", err
		}
	}
	return dataDir, nil
}
