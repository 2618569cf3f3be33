package config

// ==================== 基础配置 ====================

// AppConfig 应用基础配置
type AppConfig struct {
	Env    string `yaml:"env" mapstructure:"env"`
	Name   string `yaml:"name" mapstructure:"name"`
	NodeID string `yaml:"node_id" mapstructure:"node_id"`
}

// LogConfig 日志配置
type LogConfig struct {
	Format       string `yaml:"format" mapstructure:"format"`
	Level        string `yaml:"level" mapstructure:"level"`
	ReportCaller bool   `yaml:"report_caller" mapstructure:"report_caller"`
	// File 非空时同时写入按天切割的日志文件
	File string `yaml:"file" mapstructure:"file"`
}

// ==================== 后端 API 配置 ====================

// APIConfig 日记后端连接配置
type APIConfig struct {
	BaseURL   string   `yaml:"base_url" mapstructure:"base_url"`
	Timeout   Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent string   `yaml:"user_agent" mapstructure:"user_agent"`
	// Language 错误提示语言 (ko | en)
	Language string `yaml:"language" mapstructure:"language"`
	// RetryUnsafe 允许对 POST 请求重试
	RetryUnsafe bool `yaml:"retry_unsafe" mapstructure:"retry_unsafe"`
}

// RetryConfig 重试策略配置
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	// BaseDelayMillis 为空时使用 1000ms，显式 0 表示不等待
	BaseDelayMillis *Millis `yaml:"base_delay_ms" mapstructure:"base_delay_ms"`
	MaxDelayMillis  Millis  `yaml:"max_delay_ms" mapstructure:"max_delay_ms"`
	// Exponential 为空时默认指数退避
	Exponential *bool `yaml:"exponential" mapstructure:"exponential"`
}

// TokenStoreConfig Token 存储配置
type TokenStoreConfig struct {
	// Backend memory | redis
	Backend string   `yaml:"backend" mapstructure:"backend"`
	Prefix  string   `yaml:"prefix" mapstructure:"prefix"`
	TTL     Duration `yaml:"ttl" mapstructure:"ttl"`
	// ClockSkew 提前这么多秒视为 Token 过期
	ClockSkew Duration `yaml:"clock_skew" mapstructure:"clock_skew"`
}

// ==================== 基础设施配置 ====================

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Db       int    `yaml:"db" mapstructure:"db"`
}

// KafkaConfig Kafka 配置 (错误上报)
type KafkaConfig struct {
	Enabled       bool     `yaml:"enabled" mapstructure:"enabled"`
	Brokers       []string `yaml:"brokers" mapstructure:"brokers"`
	Topic         string   `yaml:"topic" mapstructure:"topic"`
	ClientID      string   `yaml:"client_id" mapstructure:"client_id"`
	Username      string   `yaml:"username" mapstructure:"username"`
	Password      string   `yaml:"password" mapstructure:"password"`
	SASLMechanism string   `yaml:"sasl_mechanism" mapstructure:"sasl_mechanism"`
	TLSEnabled    bool     `yaml:"tls_enabled" mapstructure:"tls_enabled"`
}

// ==================== 可观测性配置 ====================

// TracingConfig 分布式追踪配置
type TracingConfig struct {
	Exporter     string            `yaml:"exporter" mapstructure:"exporter"`
	Endpoint     string            `yaml:"endpoint" mapstructure:"endpoint"`
	ServiceName  string            `yaml:"service_name" mapstructure:"service_name"`
	Insecure     bool              `yaml:"insecure" mapstructure:"insecure"`
	Headers      map[string]string `yaml:"headers" mapstructure:"headers"`
	SampleRatio  float64           `yaml:"sample_ratio" mapstructure:"sample_ratio"`
	ResourceTags map[string]string `yaml:"resource_tags" mapstructure:"resource_tags"`
}

// MetricsConfig 指标暴露配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr"`
}

// ==================== 客户端总配置 ====================

// ClientConfig diaryctl 使用的完整配置
type ClientConfig struct {
	App     AppConfig        `yaml:"app" mapstructure:"app"`
	Log     LogConfig        `yaml:"log" mapstructure:"log"`
	API     APIConfig        `yaml:"api" mapstructure:"api"`
	Retry   RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Token   TokenStoreConfig `yaml:"token" mapstructure:"token"`
	Redis   RedisConfig      `yaml:"redis" mapstructure:"redis"`
	Kafka   KafkaConfig      `yaml:"kafka" mapstructure:"kafka"`
	Tracing TracingConfig    `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
}
