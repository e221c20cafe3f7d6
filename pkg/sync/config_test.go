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

package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fortisync/pkg/models"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "no sources",
			config:  Config{},
			wantErr: errMissingSources,
		},
		{
			name: "missing endpoint",
			config: Config{
				Sources: map[string]*models.SourceConfig{
					"fc": {Type: "forticloud"},
				},
			},
			wantErr: errMissingFields,
		},
		{
			name: "nil source",
			config: Config{
				Sources: map[string]*models.SourceConfig{"fc": nil},
			},
			wantErr: errMissingFields,
		},
		{
			name: "unknown type",
			config: Config{
				Sources: map[string]*models.SourceConfig{
					"x": {Type: "carrier-pigeon", Endpoint: "https://example.com"},
				},
			},
			wantErr: errUnknownSourceType,
		},
		{
			name: "valid",
			config: Config{
				Sources: map[string]*models.SourceConfig{
					"fc": {Type: "forticloud", Endpoint: "https://support.example.com"},
					"fm": {Type: "fortimanager", Endpoint: "https://fmg.example.com"},
					"td": {Type: "topdesk", Endpoint: "https://td.example.com"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestConfigValidateAppliesDefaults(t *testing.T) {
	cfg := Config{
		Sources: map[string]*models.SourceConfig{
			"fc": {Type: "forticloud", Endpoint: "https://support.example.com"},
		},
	}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "inventory", cfg.FilePrefix)
}
