// Command schoolsched runs the scheduling engine against a set of data
// files and writes the resulting schedule as JSON, following the
// teacher's cmd/api-gateway wiring order: load configuration, build the
// logger, then construct the dependent services.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/schoolsched/schoolsched/pkg/config"
	"github.com/schoolsched/schoolsched/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	root := newRootCommand(cfg, log)
	if err := root.Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
