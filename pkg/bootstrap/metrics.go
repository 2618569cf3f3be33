package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Goden-Gun/diary-client/pkg/config"
	"github.com/Goden-Gun/diary-client/pkg/metrics"
)

// InitMetrics 创建指标收集器，启用时在 cfg.Addr 暴露 /metrics
func InitMetrics(cfg config.MetricsConfig) (*metrics.Collector, ShutdownFunc) {
	collector := metrics.NewCollector()
	if !cfg.Enabled {
		return collector, func(context.Context) error { return nil }
	}
	cfg.ApplyDefaults()

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server failed: %v", err)
		}
	}()
	log.WithField("addr", cfg.Addr).Info("metrics server started")
	return collector, srv.Shutdown
}
