package main

import (
	"context"
	"os"

	_ "feasibility_analysis/docs"
	"feasibility_analysis/internal/config"
	"feasibility_analysis/internal/logger"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// @title                       Feasibility Analysis API
// @version                     1.0
// @description                 Classifies hourly climate data into evaporative and desiccant cooling modes.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

var (
	cfgPath string
	cfg     *config.Config
	appLog  *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "feasibility",
	Short:         "Evaporative and desiccant cooling feasibility analysis",
	Long:          "Partitions hourly climate data into HVAC operating modes on the psychrometric chart and recommends the least equipped mode reaching the comfort threshold.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c
		appLog = logger.Init(cfg.Log.Level, cfg.Log.Format)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLog != nil {
			_ = appLog.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default: configs/config.yml when present)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Get(logger.ErrorLevel).Errorw("command failed", "err", eris.ToString(err, false))
		os.Exit(1)
	}
}
