package config

import "time"

// Duration 支持 YAML/JSON 反序列化，单位为秒
type Duration int64

// Duration 返回 time.Duration 值
func (d Duration) Duration() time.Duration {
	return time.Duration(d) * time.Second
}

// Seconds 返回秒数
func (d Duration) Seconds() int64 {
	return int64(d)
}

// Millis 单位为毫秒，用于重试退避等亚秒级配置
type Millis int64

// Duration 返回 time.Duration 值
func (m Millis) Duration() time.Duration {
	return time.Duration(m) * time.Millisecond
}
