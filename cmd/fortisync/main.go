/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/carverauto/fortisync/pkg/config"
	"github.com/carverauto/fortisync/pkg/logger"
	"github.com/carverauto/fortisync/pkg/sync"
)

const (
	exitOK      = 0
	exitFatal   = 1
	exitPartial = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "/etc/fortisync/fortisync.json", "Path to config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfgLoader := config.NewConfig()

	var cfg sync.Config

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		log.Printf("Failed to load config: %v", err)
		return exitFatal
	}

	logConfig := logger.Config{Level: "info", Debug: *debug}

	appLogger, err := logger.New(logConfig)
	if err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return exitFatal
	}

	service := sync.NewService(&cfg, appLogger)

	result, err := service.Run(ctx)
	if err != nil {
		appLogger.Error().Err(err).Msg("Run failed")
		return exitFatal
	}

	path, err := service.Export(result)
	if err != nil {
		appLogger.Error().Err(err).Msg("Export failed")
		return exitFatal
	}

	for _, skipped := range result.Summary.SkippedScopes {
		appLogger.Warn().
			Str("scope", skipped.Scope).
			Str("reason", skipped.Reason).
			Msg("Scope skipped")
	}

	appLogger.Info().
		Str("run_id", result.Summary.RunID).
		Str("path", path).
		Int("rows", result.Summary.Rows).
		Msg("Export complete")

	if result.Summary.Partial() {
		return exitPartial
	}

	return exitOK
}
