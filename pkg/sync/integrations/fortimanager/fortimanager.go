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

// Package fortimanager pulls managed firewalls out of a FortiManager
// instance over its JSON-RPC API, expands their HA clusters, and reaches
// through the manager's proxy endpoint for the switches and access
// points each firewall controls.
package fortimanager

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/carverauto/fortisync/pkg/logger"
	"github.com/carverauto/fortisync/pkg/models"
)

// NewIntegration creates a new FortiManager integration instance.
func NewIntegration(config *models.SourceConfig, log logger.Logger) (*Integration, error) {
	apiKey := config.Credentials["apikey"]
	if apiKey == "" {
		return nil, errMissingAPIKey
	}

	timeout := time.Duration(config.RequestTimeout)
	if timeout == 0 {
		// Proxied fan-out queries wait on every targeted firewall.
		timeout = 120 * time.Second
	}

	httpClient := &http.Client{Timeout: timeout}
	if config.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // explicit opt-in for lab managers
		}
	}

	return &Integration{
		Config: config,
		HTTP:   httpClient,
		APIKey: apiKey,
		Logger: log.WithComponent("fortimanager"),
	}, nil
}

// Fetch lists the managed firewalls, then queries each connected one for
// its subordinate switches and access points. The initial device listing
// is fatal; everything after degrades per scope.
func (i *Integration) Fetch(ctx context.Context) ([]models.ScopeResult, error) {
	devices, err := i.listDevices(ctx)
	if err != nil {
		return nil, err
	}

	i.Logger.Info().Int("devices", len(devices)).Msg("Listed managed devices")

	families := i.Config.Families
	if len(families) == 0 {
		families = models.AllFamilies()
	}

	var results []models.ScopeResult

	for _, family := range families {
		switch family {
		case models.FamilyFortiGate:
			results = append(results, i.firewallScope(devices))
		case models.FamilyFortiSwitch, models.FamilyFortiAP:
			subResults, err := i.fetchSubDevices(ctx, devices, family)
			if err != nil {
				scope := models.Scope{Kind: models.ScopeManagedDevice, ID: "all", Family: family}
				i.Logger.Warn().Err(err).Str("scope", scope.String()).Msg("Skipping scope")
				results = append(results, models.ScopeResult{Scope: scope, Err: err})

				continue
			}

			results = append(results, subResults...)
		default:
			return nil, fmt.Errorf("%w: unsupported family %s", errRPCStatus, family)
		}
	}

	return results, nil
}

// firewallScope converts the full device listing into the single
// firewall scope.
func (i *Integration) firewallScope(devices []managedDevice) models.ScopeResult {
	scope := models.Scope{
		Kind:   models.ScopeManagedDevice,
		ID:     "all",
		Label:  "managed firewalls",
		Family: models.FamilyFortiGate,
	}

	records := make([]models.RawDeviceRecord, 0, len(devices))

	for idx := range devices {
		rec := i.deviceToRecord(&devices[idx])
		rec.Scope = scope
		records = append(records, rec)
	}

	i.Logger.Debug().Str("scope", scope.String()).Int("records", len(records)).Msg("Fetched scope")

	return models.ScopeResult{Scope: scope, Records: records}
}
