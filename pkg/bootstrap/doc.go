// Package bootstrap wires the ambient infrastructure of diaryctl from a
// config.ClientConfig: logging with file rotation, the Redis-backed token
// store, OpenTelemetry tracing, the Kafka error reporter and the Prometheus
// metrics endpoint.
//
// Example usage:
//
//	cfg := &config.ClientConfig{}
//	if err := config.LoadConfig(cfg, config.LoadOptions{AllowNoConfig: true}); err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyDefaults()
//
//	if err := bootstrap.InitLogger(cfg.Log); err != nil {
//	    log.Fatal(err)
//	}
//	tokens, closeTokens, err := bootstrap.InitTokenStore(ctx, cfg.Token, cfg.Redis)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer closeTokens()
//
//	shutdown, err := bootstrap.InitTracing(ctx, cfg.Tracing)
//	if err != nil {
//	    log.Warn(err)
//	}
//	defer shutdown(ctx)
package bootstrap
