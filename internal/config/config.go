package config

import "time"

// Config holds server configuration values.
type Config struct {
	TCPAddr         string        `mapstructure:"tcp_addr" yaml:"tcp_addr"`
	HTTPAddr        string        `mapstructure:"http_addr" yaml:"http_addr"`
	UploadDir       string        `mapstructure:"upload_dir" yaml:"upload_dir"`
	DatabasePath    string        `mapstructure:"database_path" yaml:"database_path"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile         string        `mapstructure:"log_file" yaml:"log_file"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		TCPAddr:         ":8888",
		HTTPAddr:        ":8080",
		UploadDir:       "uploads",
		DatabasePath:    "linechat.db",
		ShutdownTimeout: 5 * time.Second,
		LogLevel:        "info",
	}
}
