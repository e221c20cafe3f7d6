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

//go:generate mockgen -destination=mock_sync.go -package=sync github.com/carverauto/fortisync/pkg/sync Integration,Clock

package sync

import (
	"context"
	"time"

	"github.com/carverauto/fortisync/pkg/models"
)

// Integration fetches raw device records from one external source. A
// returned error is fatal for the whole run (bad credentials, dead
// endpoint); recoverable failures are carried per scope instead.
type Integration interface {
	Fetch(ctx context.Context) ([]models.ScopeResult, error)
}

// IntegrationFactory creates an integration from one source config.
type IntegrationFactory func(config *models.SourceConfig) (Integration, error)

// Clock abstracts wall-clock time so coverage-status cutoffs and export
// filenames are deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
