// Package app wires configuration, logging and metrics around a scenario
// run.
package app

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	xrate "golang.org/x/time/rate"

	"github.com/code-payments/governance-client/pkg/governance/common"
	"github.com/code-payments/governance-client/pkg/governance/scenario"
	"github.com/code-payments/governance-client/pkg/governance/transaction"
	metrics_util "github.com/code-payments/governance-client/pkg/metrics"
	"github.com/code-payments/governance-client/pkg/rate"
	"github.com/code-payments/governance-client/pkg/solana"
)

const metricsShutdownTimeout = 10 * time.Second

var (
	configPath = flag.String("config", "config.yaml", "configuration file path")
	envPath    = flag.String("env", ".env", "optional dotenv file path")

	osSigCh = make(chan os.Signal, 1)
)

func init() {
	signal.Notify(osSigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
}

// Run executes one scenario lifecycle with configuration loaded from the
// command line flags, the environment and the optional config file. An OS
// signal cancels the run.
func Run(options ...Option) error {
	flag.Parse()

	logger := logrus.StandardLogger().WithField("type", "governance/app")

	config, err := LoadConfig(*envPath, *configPath)
	if err != nil {
		logger.WithError(err).Error("failed to load config")
		return err
	}

	// todo: Better abstraction so we're not directly tied to NR
	metricsProvider, err := NewMetricsProvider(config)
	if err != nil {
		logger.WithError(err).Error("error connecting to new relic")
		return err
	}
	if metricsProvider != nil {
		defer metricsProvider.Shutdown(metricsShutdownTimeout)
	}

	configureLogger(config, metricsProvider)

	opts := opts{
		params: scenario.DefaultParameters(),
	}
	for _, o := range options {
		o(&opts)
	}

	session, err := NewSession(config)
	if err != nil {
		logger.WithError(err).Error("failed to create session")
		return err
	}

	driver, err := scenario.NewDriver(
		session,
		transaction.NewAssembler(session.Client, transaction.WithEnvConfigs(), opts.assemblerOptions...),
		opts.params,
		scenario.WithEnvConfigs(),
	)
	if err != nil {
		logger.WithError(err).Error("invalid scenario parameters")
		return err
	}

	ctx, cancel := context.WithCancel(metrics_util.NewContext(context.Background(), metricsProvider))
	defer cancel()

	go func() {
		select {
		case <-osSigCh:
			logger.Info("interrupt received, cancelling run")
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.WithFields(logrus.Fields{
		"endpoint": config.RPCEndpoint,
		"payer":    session.Payer.PublicKey().ToBase58(),
	}).Info("starting scenario")

	state, err := driver.Run(ctx)
	if err != nil {
		logger.WithError(err).WithField("run_id", state.RunID).Error("scenario failed")
		return err
	}

	logger.WithFields(logrus.Fields{
		"run_id":       state.RunID,
		"transactions": len(state.Signatures),
		"redeemed":     state.Redeemed,
	}).Info("scenario completed")
	return nil
}

// LoadConfig loads the base config. Values in the dotenv file at envPath are
// applied to the environment without overriding variables already set, and
// the YAML file at configPath is read if it exists. Both files are optional.
func LoadConfig(envPath, configPath string) (BaseConfig, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return BaseConfig{}, errors.Wrapf(err, "failed to load %s", envPath)
		}
	}

	v := viper.New()
	bindEnv(v)

	// viper.ReadInConfig only returns ConfigFileNotFoundError if it has to search
	// for a default config file because one hasn't been explicitly set. That is,
	// if we explicitly set a config file, and it does not exist, viper will not
	// return a ConfigFileNotFoundError, so we check ourselves.
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return BaseConfig{}, errors.Wrapf(err, "failed to read %s", configPath)
			}
		} else if !os.IsNotExist(err) {
			return BaseConfig{}, errors.Wrap(err, "failed to check if config exists")
		}
	}

	config := defaultConfig
	if err := v.Unmarshal(&config); err != nil {
		return BaseConfig{}, errors.Wrap(err, "failed to unmarshal config")
	}

	if len(config.AppName) == 0 {
		return BaseConfig{}, errors.New("must specify an application name")
	}
	if len(config.RPCEndpoint) == 0 {
		return BaseConfig{}, errors.New("must specify an rpc endpoint")
	}
	if config.RPCRequestsPerSecond < 0 {
		return BaseConfig{}, errors.New("rpc requests per second cannot be negative")
	}

	return config, nil
}

// NewMetricsProvider connects to New Relic when a license key is configured,
// and returns nil otherwise.
func NewMetricsProvider(config BaseConfig) (*newrelic.Application, error) {
	if len(config.NewRelicLicenseKey) == 0 {
		return nil, nil
	}

	return newrelic.NewApplication(
		newrelic.ConfigFromEnvironment(),
		newrelic.ConfigAppName(config.AppName),
		newrelic.ConfigLicense(config.NewRelicLicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(true),
	)
}

// NewSession builds the RPC client, program deployments and payer described
// by config.
func NewSession(config BaseConfig) (*common.Session, error) {
	var clientOpts []solana.Option
	if config.RPCRequestsPerSecond > 0 {
		limiter := rate.NewLocalRateLimiter(xrate.Limit(config.RPCRequestsPerSecond))
		clientOpts = append(clientOpts, solana.WithRateLimiter(limiter))
	}

	var programs common.Programs
	var err error
	for _, p := range []struct {
		field string
		value string
		dst   **common.Account
	}{
		{"smart_wallet_program", config.SmartWalletProgram, &programs.SmartWallet},
		{"governor_program", config.GovernorProgram, &programs.Governor},
		{"locked_voter_program", config.LockedVoterProgram, &programs.LockedVoter},
	} {
		if p.value == "" {
			continue
		}

		*p.dst, err = common.NewAccountFromPublicKeyString(p.value)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", p.field)
		}
	}

	var payer *common.Account
	if config.PayerKeypairPath != "" {
		payer, err = common.NewAccountFromKeypairFile(config.PayerKeypairPath)
	} else {
		payer, err = common.NewRandomAccount()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load payer")
	}

	return common.NewSession(solana.New(config.RPCEndpoint, clientOpts...), payer, programs)
}

func configureLogger(config BaseConfig, metricsProvider *newrelic.Application) {
	if metricsProvider != nil {
		logrus.SetFormatter(metrics_util.NewLogFormatter(metricsProvider, &logrus.JSONFormatter{}))
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	logrus.SetOutput(os.Stdout)
}
