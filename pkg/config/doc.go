// Package config provides configuration types and loaders for the diary
// client and the diaryctl command.
//
// Usage:
//
//	import "github.com/Goden-Gun/diary-client/pkg/config"
//
//	cfg := &config.ClientConfig{}
//	if err := config.LoadConfig(cfg, config.LoadOptions{EnvPrefix: "DIARY", AllowNoConfig: true}); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	client, err := api.NewClient(api.Options{
//	    BaseURL: cfg.API.BaseURL,
//	    Timeout: cfg.API.Timeout.Duration(),
//	    Retry:   cfg.Retry.Options(),
//	})
package config
