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

package models

// SourceConfig describes one upstream inventory system.
type SourceConfig struct {
	Type               string            `json:"type"`     // "forticloud", "fortimanager", "topdesk"
	Endpoint           string            `json:"endpoint"` // API base URL
	AuthEndpoint       string            `json:"auth_endpoint,omitempty"`
	Credentials        map[string]string `json:"credentials"` // e.g. {"username": ..., "password": ...}
	InsecureSkipVerify bool              `json:"insecure_skip_verify"`

	// Families selects which device families this source exports. When
	// empty, every family the source supports is exported.
	Families []DeviceFamily `json:"families,omitempty"`

	// Templates maps a device family to the upstream template/resource
	// name for sources that query by template (TopDesk).
	Templates map[DeviceFamily]string `json:"templates,omitempty"`

	// PageSize is the requested page size for list endpoints. The
	// upstream may cap it lower; pagination always advances by the number
	// of records actually returned.
	PageSize int `json:"page_size,omitempty"`

	// RequestTimeout bounds each HTTP request. Defaults to 30s.
	RequestTimeout Duration `json:"request_timeout,omitempty"`
}
