package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Link     LinkConfig     `mapstructure:"link"`
	Mail     MailConfig     `mapstructure:"mail"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string `mapstructure:"mode"`
	Address string `mapstructure:"address"`
	// BaseURL 是对外可达的服务地址，用于拼接下载链接
	BaseURL string     `mapstructure:"baseURL"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	Redis  RedisConfig  `mapstructure:"redis"`
	Sqlite SqliteConfig `mapstructure:"sqlite"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SqliteConfig 定义了台账数据库的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig 定义了对象存储后端及各个桶的配置
type StorageConfig struct {
	// Backend 可选 local / b2 / memory
	Backend string `mapstructure:"backend"`
	// LocalRoot 是local后端存放对象的根目录
	LocalRoot string `mapstructure:"localRoot"`

	// InboundBucket 存放投递进来的原始邮件
	InboundBucket string `mapstructure:"inboundBucket"`
	// StagingBucket 存放等待搬运的附件
	StagingBucket string `mapstructure:"stagingBucket"`
	// ArchiveBucket 存放匿名化后的归档文档
	ArchiveBucket string `mapstructure:"archiveBucket"`

	// StagingRetentionHours 是暂存对象的保留时长，超过后由janitor清理
	StagingRetentionHours int `mapstructure:"stagingRetentionHours"`

	B2 B2Config `mapstructure:"b2"`
}

// B2Config 定义了Backblaze B2后端的凭据
type B2Config struct {
	AccountID string `mapstructure:"accountId"`
	AppKey    string `mapstructure:"appKey"`
}

// LinkConfig 定义了下载链接的配置
type LinkConfig struct {
	// TTLSeconds 是预签名下载链接的有效期，默认3600秒
	TTLSeconds int `mapstructure:"ttlSeconds"`
}

// MailConfig 定义了通知邮件的配置
type MailConfig struct {
	// Sender 是经过验证的固定发件人身份
	Sender  string     `mapstructure:"sender"`
	Subject string     `mapstructure:"subject"`
	SMTP    SMTPConfig `mapstructure:"smtp"`
}

// SMTPConfig 定义了SMTP投递通道
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LinkTTL 返回下载链接有效期对应的Duration。
func (c *Config) LinkTTL() time.Duration {
	if c.Link.TTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.Link.TTLSeconds) * time.Second
}

// StagingRetention 返回暂存对象的保留时长。
func (c *Config) StagingRetention() time.Duration {
	if c.Storage.StagingRetentionHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Storage.StagingRetentionHours) * time.Hour
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 2. 添加配置文件搜索路径
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 3. 允许通过环境变量覆盖配置，例如 SERVER_ADDRESS=:9090
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 提供关键项的默认值，保证缺省配置也能把服务拉起来
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.baseURL", "http://localhost:8080")
	v.SetDefault("database.sqlite.path", "ledger.db")
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.localRoot", "./objects")
	v.SetDefault("storage.inboundBucket", "originemail")
	v.SetDefault("storage.stagingBucket", "forreceiving")
	v.SetDefault("storage.archiveBucket", "storeassignments")
	v.SetDefault("link.ttlSeconds", 3600)
	v.SetDefault("mail.subject", "Assignment Grading Report")

	// 5. 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	// 6. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	Cfg = &cfg
	return &cfg, nil
}
