// Package config 提供应用程序配置管理
// 基于viper实现，支持配置文件、环境变量和默认值三层覆盖
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/xuanbo/easyshare/internal/logger"
)

// Config 应用程序全局配置
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     logger.Config `mapstructure:"log"`
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	// Host 监听地址
	Host string `mapstructure:"host"`
	// Port 监听端口
	Port int `mapstructure:"port"`
	// ReadTimeout 读取超时（秒），0表示不限制（上传大文件时需要）
	ReadTimeout int `mapstructure:"read_timeout"`
	// WriteTimeout 写入超时（秒），0表示不限制（WebSocket长连接需要）
	WriteTimeout int `mapstructure:"write_timeout"`
	// EnableHTTPS 是否启用HTTPS
	EnableHTTPS bool `mapstructure:"enable_https"`
	// EnableHTTP2 是否启用HTTP/2（需要先启用HTTPS）
	EnableHTTP2 bool `mapstructure:"enable_http2"`
	// TLSCertFile TLS证书文件路径
	TLSCertFile string `mapstructure:"tls_cert_file"`
	// TLSKeyFile TLS私钥文件路径
	TLSKeyFile string `mapstructure:"tls_key_file"`
	// PublicBaseURL 对外访问地址（如 http://10.0.0.2:8080），为空时根据请求推断
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// StorageConfig 文件存储配置
type StorageConfig struct {
	// Dir 存储目录，启动时自动创建
	Dir string `mapstructure:"dir"`
	// MaxUploadSize 单次上传大小上限（字节），0表示不限制
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
}

// Addr 返回服务器监听地址
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load 加载配置
// 查找顺序: ./config.yaml > EASYSHARE_* 环境变量 > 默认值
// 配置文件不存在时使用默认值，不视为错误
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// 环境变量覆盖，如 EASYSHARE_SERVER_PORT=9090
	v.SetEnvPrefix("EASYSHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 0)
	v.SetDefault("server.write_timeout", 0)
	v.SetDefault("server.enable_https", false)
	v.SetDefault("server.enable_http2", false)
	v.SetDefault("server.public_base_url", "")

	v.SetDefault("storage.dir", "./uploads")
	// 默认不限制上传大小，与"大文件直传"的产品定位一致
	v.SetDefault("storage.max_upload_size", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.file_path", "logs/easyshare.log")
}

// Validate 校验配置合法性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("无效的端口号: %d", c.Server.Port)
	}
	if c.Storage.Dir == "" {
		return fmt.Errorf("存储目录不能为空")
	}
	if c.Server.EnableHTTPS {
		if c.Server.TLSCertFile == "" || c.Server.TLSKeyFile == "" {
			return fmt.Errorf("启用HTTPS时必须配置证书和私钥文件")
		}
	}
	if c.Server.EnableHTTP2 && !c.Server.EnableHTTPS {
		return fmt.Errorf("HTTP/2依赖HTTPS，请先启用HTTPS")
	}
	return nil
}
