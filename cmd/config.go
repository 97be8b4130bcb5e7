package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	consts "github.com/khanhnv2901/bigip-recon/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/bigip-recon/internal/shared/errors"
)

const (
	defaultTimeoutSeconds = int(consts.DefaultProbeTimeout / time.Second)
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	envPrefix             = "BIGIP_RECON"
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Log  LogConfig
	Scan ScanRuntimeConfig
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string
	Format string
}

// ScanRuntimeConfig consolidates flag-driven settings for the scan command.
type ScanRuntimeConfig struct {
	InputPath       string
	OutputPath      string
	SubnetsPath     string
	Concurrency     int
	TimeoutSecs     int
	Nameservers     []string
	ProgressEnabled bool
}

type configOverrides struct {
	LogLevel    string
	LogFormat   string
	Concurrency *int
	TimeoutSecs *int
	Nameservers []string
	SubnetsPath string
	Progress    *bool
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Scan: ScanRuntimeConfig{
			Concurrency: consts.DefaultConcurrency,
			TimeoutSecs: defaultTimeoutSeconds,
			Nameservers: []string{},
		},
	}
}

// initConfig reads the config file and binds BIGIP_RECON_* environment variables.
// A missing default config file is not an error; a missing explicit one is.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".bigip-recon")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("%w: read config: %w", sharedErrors.ErrInvalidConfig, err)
	}
	return nil
}

func loadConfigOverrides() configOverrides {
	overrides := configOverrides{}

	if viper.IsSet("log_level") {
		overrides.LogLevel = viper.GetString("log_level")
	}

	if viper.IsSet("log_format") {
		overrides.LogFormat = viper.GetString("log_format")
	}

	if viper.IsSet("scan.concurrency") {
		val := viper.GetInt("scan.concurrency")
		overrides.Concurrency = &val
	}

	if viper.IsSet("scan.timeout_secs") {
		val := viper.GetInt("scan.timeout_secs")
		overrides.TimeoutSecs = &val
	}

	if viper.IsSet("scan.nameservers") {
		overrides.Nameservers = viper.GetStringSlice("scan.nameservers")
	}

	if viper.IsSet("scan.subnets") {
		overrides.SubnetsPath = viper.GetString("scan.subnets")
	}

	if viper.IsSet("scan.progress") {
		val := viper.GetBool("scan.progress")
		overrides.Progress = &val
	}

	return overrides
}

// applyConfigDefaults merges config file and environment values into the runtime
// config when the user did not explicitly set the corresponding flag.
func applyConfigDefaults(rootFlags, scanFlags *pflag.FlagSet) {
	overrides := loadConfigOverrides()

	if overrides.LogLevel != "" {
		applyStringDefault(rootFlags, "log-level", overrides.LogLevel, func(v string) {
			cliConfig.Log.Level = v
		})
	}

	if overrides.LogFormat != "" {
		applyStringDefault(rootFlags, "log-format", overrides.LogFormat, func(v string) {
			cliConfig.Log.Format = v
		})
	}

	if overrides.Concurrency != nil {
		applyIntDefault(scanFlags, "concurrency", *overrides.Concurrency, func(v int) {
			cliConfig.Scan.Concurrency = v
		})
	}

	if overrides.TimeoutSecs != nil {
		applyIntDefault(scanFlags, "timeout", *overrides.TimeoutSecs, func(v int) {
			cliConfig.Scan.TimeoutSecs = v
		})
	}

	if len(overrides.Nameservers) > 0 {
		applyStringSliceDefault(scanFlags, "nameservers", overrides.Nameservers, func(v []string) {
			cliConfig.Scan.Nameservers = v
		})
	}

	if overrides.SubnetsPath != "" {
		applyStringDefault(scanFlags, "subnets", overrides.SubnetsPath, func(v string) {
			cliConfig.Scan.SubnetsPath = v
		})
	}

	if overrides.Progress != nil {
		applyBoolDefault(scanFlags, "progress", *overrides.Progress, func(v bool) {
			cliConfig.Scan.ProgressEnabled = v
		})
	}
}

// Validate checks the scan settings before any network work starts.
func (c ScanRuntimeConfig) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return fmt.Errorf("%w: --input is required", sharedErrors.ErrInvalidConfig)
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("%w: --output is required", sharedErrors.ErrInvalidConfig)
	}
	if c.Concurrency <= 0 || c.Concurrency > consts.MaxConcurrency {
		return fmt.Errorf("%w: --concurrency must be between 1 and %d, got %d", sharedErrors.ErrInvalidConfig, consts.MaxConcurrency, c.Concurrency)
	}
	if c.TimeoutSecs <= 0 {
		return fmt.Errorf("%w: --timeout must be positive, got %d", sharedErrors.ErrInvalidConfig, c.TimeoutSecs)
	}

	dir := filepath.Dir(c.OutputPath)
	info, err := os.Stat(dir)
	if err != nil {
		return &FatalIOError{Op: "check output directory", Path: dir, Err: err}
	}
	if !info.IsDir() {
		return &FatalIOError{Op: "check output directory", Path: dir, Err: fmt.Errorf("not a directory")}
	}
	return nil
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyStringDefault(flags *pflag.FlagSet, name, value string, setter func(string)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyStringSliceDefault(flags *pflag.FlagSet, name string, value []string, setter func([]string)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(append([]string(nil), value...))
}
