package bootstrap

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	log "github.com/sirupsen/logrus"

	"github.com/Goden-Gun/diary-client/pkg/config"
)

// LoggerOptions 日志初始化选项
type LoggerOptions struct {
	// AppName 写入每条日志的 app 字段
	AppName string
	// Output 控制台输出，默认 os.Stderr，stdout 留给命令结果
	Output io.Writer
	// MaxAge 日志文件保留时长，默认 7 天
	MaxAge time.Duration
	// Rotation 日志切割周期，默认 1 天
	Rotation time.Duration
}

// hostHook 为每条日志添加主机名和应用名
type hostHook struct {
	host string
	app  string
}

func (h *hostHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *hostHook) Fire(entry *log.Entry) error {
	entry.Data["host"] = h.host
	if h.app != "" {
		entry.Data["app"] = h.app
	}
	return nil
}

// detectHost 检测主机名，容器中即为容器ID
func detectHost() string {
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	if data, err := os.ReadFile("/etc/hostname"); err == nil {
		if hostname := strings.TrimSpace(string(data)); hostname != "" {
			return hostname
		}
	}
	return "unknown"
}

// InitLogger 使用默认选项初始化日志
func InitLogger(cfg config.LogConfig) error {
	return InitLoggerWithOptions(cfg, LoggerOptions{})
}

// InitLoggerWithOptions 初始化日志格式、级别和输出
// cfg.File 非空时同时写入按天切割的日志文件
func InitLoggerWithOptions(cfg config.LogConfig, opts LoggerOptions) error {
	switch cfg.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{})
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.File != "" {
		writer, err := rotatingWriter(cfg.File, opts)
		if err != nil {
			return err
		}
		out = io.MultiWriter(out, writer)
	}
	log.SetOutput(out)

	if lvl, err := log.ParseLevel(cfg.Level); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(log.InfoLevel)
		log.Warnf("invalid log level %q, fallback to info", cfg.Level)
	}

	log.SetReportCaller(cfg.ReportCaller)

	if opts.AppName != "" {
		log.AddHook(&hostHook{host: detectHost(), app: opts.AppName})
	}
	return nil
}

// rotatingWriter 创建切割日志，path 为 logs/diaryctl.log 时
// 实际文件为 logs/diaryctl.20240501.log，软链接为 logs/diaryctl.log
func rotatingWriter(path string, opts LoggerOptions) (io.Writer, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Errorf("创建日志目录失败: %v", err)
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if name == "" {
		name = "app"
	}

	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	rotation := opts.Rotation
	if rotation <= 0 {
		rotation = 24 * time.Hour
	}

	writer, err := rotatelogs.New(
		filepath.Join(dir, name+".%Y%m%d.log"),
		rotatelogs.WithLinkName(filepath.Join(dir, name+".log")),
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(rotation),
	)
	if err != nil {
		log.Errorf("设置日志输出失败: %v", err)
		return nil, err
	}
	return writer, nil
}
