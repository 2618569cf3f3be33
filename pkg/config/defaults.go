package config

import (
	"time"

	"github.com/Goden-Gun/diary-client/pkg/auth"
	"github.com/Goden-Gun/diary-client/pkg/codes"
	"github.com/Goden-Gun/diary-client/pkg/retry"
)

// ==================== LogConfig 默认值 ====================

// ApplyDefaults 应用日志配置默认值
func (l *LogConfig) ApplyDefaults() {
	if l.Format == "" {
		l.Format = "text"
	}
	if l.Level == "" {
		l.Level = "info"
	}
}

// ==================== APIConfig 默认值 ====================

// ApplyDefaults 应用后端 API 配置默认值
func (a *APIConfig) ApplyDefaults() {
	if a.BaseURL == "" {
		a.BaseURL = "http://localhost:8000"
	}
	if a.Timeout <= 0 {
		a.Timeout = 30
	}
	if a.UserAgent == "" {
		a.UserAgent = "diaryctl"
	}
	if a.Language == "" {
		a.Language = codes.DefaultLanguage
	}
}

// ==================== RetryConfig 默认值 ====================

// ApplyDefaults 应用重试配置默认值
func (r *RetryConfig) ApplyDefaults() {
	if r.MaxAttempts <= 0 {
		r.MaxAttempts = retry.DefaultMaxAttempts
	}
	if r.BaseDelayMillis == nil {
		base := Millis(retry.DefaultBaseDelay / time.Millisecond)
		r.BaseDelayMillis = &base
	} else if *r.BaseDelayMillis < 0 {
		zero := Millis(0)
		r.BaseDelayMillis = &zero
	}
	if r.MaxDelayMillis < 0 {
		r.MaxDelayMillis = 0
	}
	if r.Exponential == nil {
		exp := true
		r.Exponential = &exp
	}
}

// Options 转换为 retry.Option 列表
func (r RetryConfig) Options() []retry.Option {
	r.ApplyDefaults()
	return []retry.Option{
		retry.WithMaxAttempts(r.MaxAttempts),
		retry.WithBaseDelay(r.BaseDelayMillis.Duration()),
		retry.WithMaxDelay(r.MaxDelayMillis.Duration()),
		retry.WithExponentialBackoff(*r.Exponential),
	}
}

// ==================== TokenStoreConfig 默认值 ====================

// ApplyDefaults 应用 Token 存储配置默认值
func (t *TokenStoreConfig) ApplyDefaults() {
	if t.Backend == "" {
		t.Backend = "memory"
	}
	if t.Prefix == "" {
		t.Prefix = auth.DefaultPrefix
	}
	if t.TTL < 0 {
		t.TTL = 0
	}
	if t.ClockSkew < 0 {
		t.ClockSkew = 0
	}
}

// AuthConfig 转换为 auth.Config
func (t TokenStoreConfig) AuthConfig() auth.Config {
	cfg := auth.Config{Prefix: t.Prefix, TTL: t.TTL.Duration()}
	cfg.Defaults()
	return cfg
}

// ==================== KafkaConfig 默认值 ====================

// ApplyDefaults 应用 Kafka 配置默认值
func (k *KafkaConfig) ApplyDefaults() {
	if k.Topic == "" {
		k.Topic = "diary.client.errors"
	}
	if k.ClientID == "" {
		k.ClientID = "diaryctl"
	}
}

// ==================== MetricsConfig 默认值 ====================

// ApplyDefaults 应用 Metrics 配置默认值
func (m *MetricsConfig) ApplyDefaults() {
	if m.Addr == "" {
		m.Addr = ":9090"
	}
}

// ==================== TracingConfig 默认值 ====================

// ApplyDefaults 应用 Tracing 配置默认值
func (t *TracingConfig) ApplyDefaults() {
	if t.Exporter == "" {
		t.Exporter = "disabled"
	}
	if t.ServiceName == "" {
		t.ServiceName = "diaryctl"
	}
	if t.SampleRatio <= 0 {
		t.SampleRatio = 1.0
	}
}

// ==================== ClientConfig 默认值 ====================

// ApplyDefaults 应用全部默认值
func (c *ClientConfig) ApplyDefaults() {
	if c.App.Env == "" {
		c.App.Env = GetEnv()
	}
	if c.App.Name == "" {
		c.App.Name = "diaryctl"
	}
	if c.App.NodeID == "" {
		c.App.NodeID = GetNodeID("DIARY_NODE_ID")
	}
	c.Log.ApplyDefaults()
	c.API.ApplyDefaults()
	c.Retry.ApplyDefaults()
	c.Token.ApplyDefaults()
	c.Kafka.ApplyDefaults()
	c.Metrics.ApplyDefaults()
	c.Tracing.ApplyDefaults()
}
