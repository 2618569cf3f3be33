package config

import (
	"os"
	"strings"
)

// GetSecretOrEnv 从 Docker Secret 文件或环境变量读取敏感信息
// 优先级: {NAME}_FILE 指定的文件 > {NAME} 环境变量 > 默认值
//
// 示例:
//
//	password := GetSecretOrEnv("DIARY_PASSWORD", "")
//	// DIARY_PASSWORD_FILE=/run/secrets/diary-password 存在时读取文件内容
func GetSecretOrEnv(name string, defaultValue string) string {
	if filePath := os.Getenv(name + "_FILE"); filePath != "" {
		if data, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}

// MustGetSecret 读取必需的 Secret，找不到则 panic
func MustGetSecret(name string) string {
	value := GetSecretOrEnv(name, "")
	if value == "" {
		panic(&SecretNotFoundError{Name: name})
	}
	return value
}

// SecretDefinition Secret 定义
type SecretDefinition struct {
	Name     string  // Secret 名称 (如 KAFKA_PASSWORD)
	Target   *string // 目标字段指针
	Default  string  // 默认值
	Required bool    // 是否必需
}

// ApplySecrets 将 Secrets 写入目标字段
// 已有值的字段只在 Secret 存在时被覆盖
func ApplySecrets(secrets []SecretDefinition) error {
	for _, s := range secrets {
		def := s.Default
		if s.Target != nil && *s.Target != "" {
			def = *s.Target
		}
		value := GetSecretOrEnv(s.Name, def)
		if s.Required && value == "" {
			return &SecretNotFoundError{Name: s.Name}
		}
		if s.Target != nil {
			*s.Target = value
		}
	}
	return nil
}

// LoadConfigWithSecrets 加载配置并注入 Secrets
//
// 示例:
//
//	cfg := &ClientConfig{}
//	err := LoadConfigWithSecrets(cfg, []SecretDefinition{
//	    {Name: "REDIS_PASSWORD", Target: &cfg.Redis.Password},
//	    {Name: "KAFKA_PASSWORD", Target: &cfg.Kafka.Password},
//	})
func LoadConfigWithSecrets(cfg interface{}, secrets []SecretDefinition, opts ...LoadOptions) error {
	if err := LoadConfig(cfg, opts...); err != nil {
		return err
	}
	return ApplySecrets(secrets)
}

// SecretNotFoundError Secret 未找到错误
type SecretNotFoundError struct {
	Name string
}

func (e *SecretNotFoundError) Error() string {
	return "required secret not found: " + e.Name
}
