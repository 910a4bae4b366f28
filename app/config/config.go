package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Database DatabaseConfig `mapstructure:"database"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Search   SearchConfig   `mapstructure:"search"`
	Watcher  WatcherConfig  `mapstructure:"watcher"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

type ServerConfig struct {
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`      // json 或 text
	Output     string `mapstructure:"output"`      // stdout 或 file
	MaxSize    int    `mapstructure:"max_size"`    // 兆字节
	MaxBackups int    `mapstructure:"max_backups"` // 备份数量
	MaxAge     int    `mapstructure:"max_age"`     // 天数
	Compress   bool   `mapstructure:"compress"`    // 是否压缩旧文件
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`      // JWT 密钥
	ExpireTime int    `mapstructure:"expire_time"` // 过期时间（小时）
	Issuer     string `mapstructure:"issuer"`      // 签发者
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"` // SQLite 数据库文件路径
}

// AnalyzerConfig AI 视觉分析器配置
type AnalyzerConfig struct {
	Model        string  `mapstructure:"model"`          // 模型标识，如 gemini-2.0-flash-exp、qwen-vl-plus、mock
	APIKey       string  `mapstructure:"api_key"`        // API 密钥
	BaseURL      string  `mapstructure:"base_url"`       // 自定义 API 地址（自建或代理端点）
	Language     string  `mapstructure:"language"`       // 分析语言：en、zh、auto
	MaxImageEdge int     `mapstructure:"max_image_edge"` // 上传前图片长边像素上限
	InitialDelay float64 `mapstructure:"initial_delay"`  // 请求间初始延迟（秒）
}

// ScanConfig 扫描任务配置
type ScanConfig struct {
	Roots            []string `mapstructure:"roots"`              // 默认照片根目录（供目录监控和定时扫描使用）
	Recursive        bool     `mapstructure:"recursive"`          // 是否递归子目录
	SkipExisting     bool     `mapstructure:"skip_existing"`      // 是否跳过已分析且未变化的文件
	TaskHistoryLimit int      `mapstructure:"task_history_limit"` // 任务注册表保留的任务数上限
}

type SearchConfig struct {
	DefaultLimit int `mapstructure:"default_limit"` // 搜索默认返回数量
	CacheSeconds int `mapstructure:"cache_seconds"` // 统计信息缓存秒数
}

// WatcherConfig 目录监控配置
type WatcherConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	DebounceSeconds int  `mapstructure:"debounce_seconds"` // 事件合并窗口（秒）
}

// ScheduleConfig 定时扫描配置
type ScheduleConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"` // cron 表达式，如 "0 3 * * *"
}

func Load() *Config {
	setDefaults()

	// 读取配置
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("未找到配置文件，使用默认配置")
		} else {
			log.Fatalf("读取配置文件出错: %v", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("无法解码配置: %v", err)
	}

	// 验证配置
	if err := validateConfig(&config); err != nil {
		log.Fatalf("配置验证失败: %v", err)
	}

	return &config
}

// setDefaults 设置默认配置
func setDefaults() {
	viper.SetDefault("server.port", "8000")

	// 日志默认配置
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.max_size", 100)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age", 28)
	viper.SetDefault("log.compress", true)

	// JWT默认配置
	viper.SetDefault("jwt.secret", "your-secret-key-change-in-production")
	viper.SetDefault("jwt.expire_time", 24) // 24小时
	viper.SetDefault("jwt.issuer", "photo-hub")

	// 数据库默认配置
	viper.SetDefault("database.path", "data/photo-hub.db")

	// 分析器默认配置
	viper.SetDefault("analyzer.model", "mock")
	viper.SetDefault("analyzer.language", "auto")
	viper.SetDefault("analyzer.max_image_edge", 1568)
	viper.SetDefault("analyzer.initial_delay", 1.0)

	// 扫描默认配置
	viper.SetDefault("scan.recursive", true)
	viper.SetDefault("scan.skip_existing", true)
	viper.SetDefault("scan.task_history_limit", 50)

	// 搜索默认配置
	viper.SetDefault("search.default_limit", 20)
	viper.SetDefault("search.cache_seconds", 30)

	// 目录监控默认配置
	viper.SetDefault("watcher.enabled", false)
	viper.SetDefault("watcher.debounce_seconds", 10)

	// 定时扫描默认配置
	viper.SetDefault("schedule.enabled", false)
	viper.SetDefault("schedule.cron", "0 3 * * *")
}

// validateConfig 验证配置的有效性
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("服务器端口未设置")
	}
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT密钥未设置")
	}
	if config.Database.Path == "" {
		return fmt.Errorf("数据库路径未设置")
	}
	if config.Analyzer.Model == "" {
		return fmt.Errorf("分析器模型未设置")
	}
	if config.Search.DefaultLimit <= 0 {
		return fmt.Errorf("搜索默认返回数量必须大于 0")
	}
	if config.Scan.TaskHistoryLimit <= 0 {
		return fmt.Errorf("任务历史保留数量必须大于 0")
	}
	if config.Watcher.Enabled && len(config.Scan.Roots) == 0 {
		return fmt.Errorf("目录监控已启用但未配置 scan.roots")
	}
	if config.Schedule.Enabled && len(config.Scan.Roots) == 0 {
		return fmt.Errorf("定时扫描已启用但未配置 scan.roots")
	}
	return nil
}
