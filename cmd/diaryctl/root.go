package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Goden-Gun/diary-client/pkg/api"
	"github.com/Goden-Gun/diary-client/pkg/apierr"
	"github.com/Goden-Gun/diary-client/pkg/bootstrap"
	"github.com/Goden-Gun/diary-client/pkg/codes"
	"github.com/Goden-Gun/diary-client/pkg/config"
	"github.com/Goden-Gun/diary-client/pkg/logger"
	"github.com/Goden-Gun/diary-client/pkg/metrics"
	"github.com/Goden-Gun/diary-client/pkg/retry"
)

const shutdownTimeout = 5 * time.Second

// app holds what the subcommands share once the root command has booted.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configFile string
	envPrefix  string
	baseURL    string
	language   string

	cfg     config.ClientConfig
	client  *api.Client
	metrics *metrics.Collector
	closers []func(context.Context) error
}

// run executes diaryctl and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	a.shutdown()
	if err != nil {
		fmt.Fprintln(stderr, a.render(err))
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "diaryctl",
		Short:         "Command line client for the diary backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "path to a config file (default ./configs/config_${APP_ENV}.yaml)")
	root.PersistentFlags().StringVar(&a.envPrefix, "env-prefix", "DIARY", "prefix of environment variable overrides")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "backend base url, overrides api.base_url")
	root.PersistentFlags().StringVar(&a.language, "lang", "", "language of error messages (ko | en)")

	root.AddCommand(
		a.pingCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.diariesCmd(),
		a.reportCmd(),
		a.calendarCmd(),
		a.transcribeCmd(),
		a.languagesCmd(),
		a.classifyCmd(),
	)
	return root
}

// boot loads configuration and wires the client. Commands that talk to the
// backend call it from PreRunE.
func (a *app) boot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := a.loadConfig(); err != nil {
		return err
	}
	cfg := &a.cfg

	if err := bootstrap.InitLoggerWithOptions(cfg.Log, bootstrap.LoggerOptions{AppName: cfg.App.Name, Output: a.stderr}); err != nil {
		return err
	}

	if cfg.App.NodeID != "" {
		if cfg.Tracing.ResourceTags == nil {
			cfg.Tracing.ResourceTags = map[string]string{}
		}
		cfg.Tracing.ResourceTags["service.instance.id"] = cfg.App.NodeID
	}
	shutdownTracing, err := bootstrap.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		logger.WithError(err).Warn("tracing disabled")
	} else {
		a.closers = append(a.closers, shutdownTracing)
	}

	collector, shutdownMetrics := bootstrap.InitMetrics(cfg.Metrics)
	a.metrics = collector
	a.closers = append(a.closers, shutdownMetrics)

	reporter, closeReporter, err := bootstrap.InitReporter(cfg.Kafka, cfg.App.NodeID, collector)
	if err != nil {
		logger.WithError(err).Warn("error reporting disabled")
	} else {
		a.closers = append(a.closers, func(context.Context) error { return closeReporter() })
	}

	tokens, closeTokens, err := bootstrap.InitTokenStore(ctx, cfg.Token, cfg.Redis)
	if err != nil {
		return fmt.Errorf("token store: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return closeTokens() })
	if token := config.GetSecretOrEnv(a.envPrefix+"_TOKEN", ""); token != "" {
		if err := tokens.Set(ctx, token); err != nil {
			return fmt.Errorf("seed token: %w", err)
		}
	}

	opts := api.Options{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout.Duration(),
		UserAgent:   cfg.API.UserAgent,
		Tokens:      tokens,
		ClockSkew:   cfg.Token.ClockSkew.Duration(),
		Retry:       append(cfg.Retry.Options(), retry.WithObserver(collector)),
		RetryUnsafe: cfg.API.RetryUnsafe,
		Logger:      apierr.NewLogrusLogger(logger.Component("api")),
		Observer:    collector,
	}
	if reporter != nil {
		opts.Reporter = reporter
	}
	a.client, err = api.NewClient(opts)
	return err
}

func (a *app) loadConfig() error {
	cfg := &a.cfg
	secrets := []config.SecretDefinition{
		{Name: "REDIS_PASSWORD", Target: &cfg.Redis.Password},
		{Name: "KAFKA_PASSWORD", Target: &cfg.Kafka.Password},
	}
	err := config.LoadConfigWithSecrets(cfg, secrets, config.LoadOptions{
		ConfigFile:    a.configFile,
		EnvPrefix:     a.envPrefix,
		AllowNoConfig: true,
	})
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.API.BaseURL = a.baseURL
	}
	if a.language != "" {
		cfg.API.Language = a.language
	}
	if cfg.App.Name == "" {
		cfg.App.Name = "diaryctl"
	}
	cfg.ApplyDefaults()
	return nil
}

func (a *app) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.WithError(err).Warn("shutdown failed")
		}
	}
	a.closers = nil
}

// render turns err into the line printed before exiting. Backend failures use
// the localized taxonomy message; anything else prints as is.
func (a *app) render(err error) string {
	ce := apierr.Classify(err)
	if ce.Kind == codes.Unknown && ce.StatusCode == 0 && !isBackendError(err) {
		return "error: " + err.Error()
	}
	lang := a.cfg.API.Language
	if a.language != "" {
		lang = a.language
	}
	msg := ce.Message
	if msg == "" || msg == codes.DefaultMessage(ce.Kind) {
		msg = codes.Localized(ce.Kind, lang)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", ce.Kind, msg)
	for _, field := range slices.Sorted(maps.Keys(ce.ValidationFields)) {
		fmt.Fprintf(&b, "\n  %s: %s", field, ce.ValidationFields[field])
	}
	if ce.RetryAfter > 0 {
		fmt.Fprintf(&b, "\n  retry after %s", ce.RetryAfter)
	}
	return b.String()
}

func isBackendError(err error) bool {
	var (
		resp      *apierr.ResponseError
		transport *apierr.TransportError
		timeout   *retry.TimeoutError
		ce        apierr.ClassifiedError
	)
	return errors.As(err, &resp) || errors.As(err, &transport) || errors.As(err, &timeout) || errors.As(err, &ce)
}
