package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/guimove/greendc/internal/config"
)

var (
	cfgFile string
	cfg     config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "greendc",
	Short: "Carbon-aware data center dispatch simulator",
	Long: `greendc simulates one day of a data center that runs on solar, wind, a
battery and the grid. Every hour a dispatch policy decides whether to process
all queued tasks, only as many as green energy allows, or hold them.

It runs single episodes, evaluates policies over many seeded episodes and
compares data center configurations by reward, carbon and throughput.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		return setupLogging()
	},
}

// Execute runs the root command. An interrupt cancels the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	defaults := config.Default()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: greendc.yaml)")
	pf.BoolVar(&verbose, "verbose", false, "enable debug logging (same as --log-level=debug)")

	// Global flags that map to config
	pf.String("log-level", defaults.Logging.Level, "log level: trace, debug, info, warn, error")
	pf.String("log-format", defaults.Logging.Format, "log format: text or json")
	pf.Uint64("seed", defaults.Simulation.Seed, "random seed of the first episode")
	pf.StringP("output", "o", defaults.Output.Format, "output format: table, json, markdown, csv")
	pf.String("profile", "", "per-hour weather profile (YAML or JSON)")
	pf.String("metrics-file", "", "write Prometheus text metrics to this file")

	bindFlags()
}

// bindFlags maps the persistent flags onto config keys.
func bindFlags() {
	pf := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", pf.Lookup("log-format"))
	_ = viper.BindPFlag("simulation.seed", pf.Lookup("seed"))
	_ = viper.BindPFlag("output.format", pf.Lookup("output"))
	_ = viper.BindPFlag("weather.profile", pf.Lookup("profile"))
	_ = viper.BindPFlag("metrics.textfile_path", pf.Lookup("metrics-file"))
}

func loadConfig() error {
	// Start with defaults
	cfg = config.Default()
	if err := registerDefaults(cfg); err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("greendc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.greendc")
	}

	// Environment variable overrides, e.g. GREENDC_SIMULATION_SEED
	viper.SetEnvPrefix("GREENDC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (not an error if missing)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	return cfg.Validate()
}

// registerDefaults makes every config key known to viper so environment
// variables can override keys that no file or flag sets. Config fields must
// not be omitempty in YAML or their keys are never registered.
func registerDefaults(c config.Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decoding defaults: %w", err)
	}
	setDefaults("", tree)
	return nil
}

func setDefaults(prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			setDefaults(key, sub)
			continue
		}
		viper.SetDefault(key, v)
	}
}

func setupLogging() error {
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	if cfg.Logging.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
