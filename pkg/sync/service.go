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

// Package sync assembles the export pipeline: it fans out to the
// configured source integrations, flattens and maps what they return
// into canonical rows, and writes one CSV per run.
package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/fortisync/pkg/export"
	"github.com/carverauto/fortisync/pkg/logger"
	"github.com/carverauto/fortisync/pkg/models"
	"github.com/carverauto/fortisync/pkg/sync/integrations/forticloud"
	"github.com/carverauto/fortisync/pkg/sync/integrations/fortimanager"
	"github.com/carverauto/fortisync/pkg/sync/integrations/topdesk"
	"github.com/carverauto/fortisync/pkg/unify"
)

// Service runs one export across all configured sources.
type Service struct {
	config    *Config
	logger    logger.Logger
	clock     Clock
	factories map[string]IntegrationFactory
}

// SkippedScope records one scope the run gave up on.
type SkippedScope struct {
	Scope  string `json:"scope"`
	Reason string `json:"reason"`
}

// Summary describes what one run produced.
type Summary struct {
	RunID         string         `json:"run_id"`
	Sources       int            `json:"sources"`
	Scopes        int            `json:"scopes"`
	Records       int            `json:"records"`
	Rows          int            `json:"rows"`
	SkippedScopes []SkippedScope `json:"skipped_scopes,omitempty"`
}

// Partial reports whether any scope was skipped.
func (s *Summary) Partial() bool {
	return len(s.SkippedScopes) > 0
}

// RunResult is the output of one run: the canonical rows in export order
// plus the bookkeeping that decides the process exit status.
type RunResult struct {
	Summary Summary
	Rows    []unify.Row
}

// NewService creates an export service with the built-in integrations.
func NewService(config *Config, log logger.Logger) *Service {
	s := &Service{
		config: config,
		logger: log.WithComponent("sync"),
		clock:  realClock{},
	}

	s.factories = map[string]IntegrationFactory{
		"forticloud": func(cfg *models.SourceConfig) (Integration, error) {
			integration := forticloud.NewIntegration(cfg, log)
			if len(config.Patterns) > 0 {
				integration.Patterns = config.Patterns
			}

			return integration, nil
		},
		"fortimanager": func(cfg *models.SourceConfig) (Integration, error) {
			return fortimanager.NewIntegration(cfg, log)
		},
		"topdesk": func(cfg *models.SourceConfig) (Integration, error) {
			return topdesk.NewIntegration(cfg, log)
		},
	}

	return s
}

// Run executes the pipeline once. Source names are processed in sorted
// order so repeated runs export rows deterministically. A failed scope
// is recorded and skipped; an integration-level failure aborts the run.
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.New().String()
	now := s.clock.Now()

	log := s.logger.With().Str("run_id", runID).Logger()

	names := make([]string, 0, len(s.config.Sources))
	for name := range s.config.Sources {
		names = append(names, name)
	}

	sort.Strings(names)

	result := &RunResult{Summary: Summary{RunID: runID, Sources: len(names)}}

	for _, name := range names {
		srcConfig := s.config.Sources[name]

		factory, ok := s.factories[srcConfig.Type]
		if !ok {
			return nil, fmt.Errorf("%w: %s: %s", errUnknownSourceType, name, srcConfig.Type)
		}

		integration, err := factory(srcConfig)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", name, err)
		}

		log.Info().Str("source", name).Str("type", srcConfig.Type).Msg("Fetching source")

		scopes, err := integration.Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", name, err)
		}

		if err := s.collect(result, scopes, now); err != nil {
			return nil, fmt.Errorf("source %s: %w", name, err)
		}
	}

	log.Info().
		Int("scopes", result.Summary.Scopes).
		Int("records", result.Summary.Records).
		Int("rows", result.Summary.Rows).
		Int("skipped_scopes", len(result.Summary.SkippedScopes)).
		Msg("Run complete")

	return result, nil
}

// collect folds one source's scope results into the run: skipped scopes
// into the summary, fetched records through flattening and mapping into
// rows.
func (s *Service) collect(result *RunResult, scopes []models.ScopeResult, now time.Time) error {
	for idx := range scopes {
		scope := &scopes[idx]
		result.Summary.Scopes++

		if scope.Err != nil {
			result.Summary.SkippedScopes = append(result.Summary.SkippedScopes, SkippedScope{
				Scope:  scope.Scope.String(),
				Reason: scope.Err.Error(),
			})

			continue
		}

		for r := range scope.Records {
			rec := &scope.Records[r]
			result.Summary.Records++

			for _, pair := range unify.Flatten(rec) {
				row, err := unify.MapRow(pair, now)
				if err != nil {
					return fmt.Errorf("map record %s: %w", rec.Serial, err)
				}

				result.Rows = append(result.Rows, row)
				result.Summary.Rows++
			}
		}
	}

	return nil
}

// Export writes the run's rows as one timestamped CSV and returns its
// path.
func (s *Service) Export(result *RunResult) (string, error) {
	path := filepath.Join(s.config.OutputDir, export.Filename(s.config.FilePrefix, s.clock.Now()))

	if err := export.WriteFile(path, result.Rows); err != nil {
		return "", err
	}

	s.logger.Info().Str("path", path).Int("rows", result.Summary.Rows).Msg("Wrote export")

	return path, nil
}
