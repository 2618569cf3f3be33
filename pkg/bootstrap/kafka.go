package bootstrap

import (
	log "github.com/sirupsen/logrus"

	"github.com/Goden-Gun/diary-client/pkg/config"
	"github.com/Goden-Gun/diary-client/pkg/report"
)

// InitReporter 初始化错误上报
// Kafka 未启用时返回 nil reporter，调用方无需判断
func InitReporter(cfg config.KafkaConfig, nodeID string, observer report.PublishObserver) (*report.Reporter, func() error, error) {
	if !cfg.Enabled {
		return nil, func() error { return nil }, nil
	}
	cfg.ApplyDefaults()
	manager, err := report.NewManager(cfg)
	if err != nil {
		log.Errorf("kafka初始化失败: %v", err)
		return nil, nil, err
	}
	if observer != nil {
		manager.SetPublishObserver(observer)
	}
	log.WithField("topic", cfg.Topic).Info("error reporter initialized")
	reporter := report.NewReporter(manager, cfg.Topic)
	reporter.SetNodeID(nodeID)
	return reporter, manager.Close, nil
}
