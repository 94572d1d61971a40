// Package cmd holds the camp-builder command line.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/askiada/camp-builder/internal/config"
	"github.com/askiada/camp-builder/internal/log"
	"github.com/askiada/camp-builder/internal/tools"
)

type app struct {
	version    string
	viper      *viper.Viper
	configFile string
	envFiles   []string

	cfg    *config.Config
	logger *zap.Logger
}

// RootCommand builds the camp-builder command and its subcommands.
func RootCommand(version string) *cobra.Command {
	a := &app{version: version, viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "camp-builder",
		Short:         "Build CAMP pipeline configurations conversationally",
		Long:          "camp-builder generates CAMP pipeline step configurations and orchestrations. It serves its tools over MCP stdio and HTTP, or runs them from the command line.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	rootCmd.SetVersionTemplate("camp-builder v{{.Version}}\n")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml, json or toml)")
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "env files to load (default .env)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: json or console")
	flags.String("id-source", "", "pipeline step id source: uuid, xid or sequence")
	_ = a.viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.viper.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
	_ = a.viper.BindPFlag(config.KeyIDSource, flags.Lookup("id-source"))

	rootCmd.AddCommand(a.serveCmd())
	rootCmd.AddCommand(a.callCmd())
	rootCmd.AddCommand(a.toolsCmd())

	return rootCmd
}

func (a *app) init() error {
	err := config.LoadDotEnv(a.envFiles...)
	if err != nil {
		return err
	}

	cfg, err := config.Load(a.viper, a.configFile)
	if err != nil {
		return err
	}

	logger, err := log.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	return nil
}

func (a *app) dispatcher() *tools.Dispatcher {
	return tools.NewDispatcher(
		tools.WithLogger(a.logger),
		tools.WithAssembleOptions(a.cfg.AssembleOptions()...),
	)
}
