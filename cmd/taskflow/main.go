package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kubev2v/taskflow/internal/config"
	"github.com/kubev2v/taskflow/internal/log"
	"github.com/kubev2v/taskflow/pkg/cancellation"
	"github.com/kubev2v/taskflow/pkg/pool"
	"github.com/kubev2v/taskflow/pkg/tasks"
)

var version = "v0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "taskflow",
		Short:         "Continuation-task engine demo",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")

	run := &cobra.Command{
		Use:   "run",
		Short: "Run a demo continuation chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if v := viper.GetInt("engine.num_workers"); v > 0 {
				cfg.Engine.NumWorkers = v
			}
			logger, err := log.InitLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			return runDemo(cfg)
		},
	}
	run.Flags().Int("workers", 0, "override the number of pool workers")
	_ = viper.BindPFlag("engine.num_workers", run.Flags().Lookup("workers"))

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	root.AddCommand(run, versionCmd)
	return root
}

func runDemo(cfg *config.Configuration) error {
	p := pool.New(cfg.Engine.NumWorkers)
	p.Start()
	defer p.Close()

	cs := cancellation.NewSource()

	first := tasks.New(p, func() error {
		zap.S().Infow("first task running")
		time.Sleep(200 * time.Millisecond)
		return nil
	}, cs.Token())

	second := first.ContinueWith(func() error {
		zap.S().Infow("second task running")
		time.Sleep(100 * time.Millisecond)
		return nil
	})

	third := second.ContinueWith(tasks.RetryWork(func() error {
		zap.S().Infow("third task running")
		return nil
	}, 3))

	if !third.Future().WaitFor(10 * time.Second) {
		return fmt.Errorf("demo chain did not finish in time")
	}
	if err := third.Future().Outcome(); err != nil {
		return fmt.Errorf("demo chain failed: %w", err)
	}

	for _, err := range p.PopErrors() {
		zap.S().Warnw("work unit failed", "error", err)
	}
	zap.S().Infow("demo chain finished")
	return nil
}
