package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "bigip-recon",
	Short:         "Bulk detection of hosts fronted by F5 BigIP load balancers",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		applyConfigDefaults(cmd.Root().PersistentFlags(), scanCmd.Flags())

		logger, err := newLogger(cliConfig.Log)
		if err != nil {
			return err
		}

		storeAppContext(cmd, &AppContext{
			Logger: logger,
			Config: cliConfig,
		})

		logger.Debug("configuration loaded",
			zap.String("config_file", viper.ConfigFileUsed()),
			zap.String("log_level", cliConfig.Log.Level),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = getAppContext(cmd).Logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorError("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bigip-recon.yaml)")
	rootCmd.PersistentFlags().StringVar(&cliConfig.Log.Level, "log-level", defaultLogLevel, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&cliConfig.Log.Format, "log-format", defaultLogFormat, "log encoding: console or json")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}
