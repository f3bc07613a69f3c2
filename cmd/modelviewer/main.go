// Package main is the entry point for the modelkit viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/modelkit/internal/config"
	"github.com/Faultbox/modelkit/internal/logger"
	"github.com/Faultbox/modelkit/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if args := config.Args(); len(args) > 0 {
		cfg.Model.Path = args[0]
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== modelkit viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if cfg.Model.Path != "" {
		if err := v.Load(cfg.Model.Path); err != nil {
			logger.Error("failed to load model", zap.String("path", cfg.Model.Path), zap.Error(err))
		}
	} else {
		logger.Info("no model given; drop a .gltf or .glb file on the window")
	}

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
