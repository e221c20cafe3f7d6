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

// Package unify flattens raw device records and projects them into the
// fixed unified schema shared by all source systems.
package unify

// columns is the canonical output schema: every row carries exactly these
// fields in exactly this order, regardless of source system or device
// family. Outputs from different sources are diffable and joinable by
// column position, so the list only ever grows at the end.
var columns = []string{
	// Core identification
	"Serial Number",
	"Device Name",
	"Hostname",
	"Model",
	"Description",
	"Asset Type",
	"Source System",

	// Network and connection
	"Management IP",
	"Connection Status",
	"Management Mode",
	"Firmware Version",

	// Organization and location
	"Company",
	"Organizational Unit",
	"Branch",
	"Location",
	"Folder Path",
	"Folder ID",
	"Vendor",

	// Contract
	"Contract Number",
	"Contract SKU",
	"Contract Type",
	"Contract Summary",
	"Contract Start Date",
	"Contract Expiration Date",
	"Contract Status",
	"Contract Support Type",
	"Contract Archived",

	// Entitlement
	"Entitlement Level",
	"Entitlement Type",
	"Entitlement Start Date",
	"Entitlement End Date",

	// Lifecycle and status
	"Status",
	"Is Decommissioned",
	"Archived",
	"Registration Date",
	"Product EoR",
	"Product EoS",
	"Last Updated",

	// Account
	"Account ID",
	"Account Email",
	"Account OU ID",

	// High availability
	"HA Mode",
	"HA Cluster Name",
	"HA Role",
	"HA Member Status",
	"HA Priority",
	"Max VDOMs",

	// Parent device tracking
	"Parent FortiGate",
	"Parent FortiGate Serial",
	"Parent FortiGate Platform",
	"Parent FortiGate IP",

	// Switch-specific
	"Device Type",
	"Max PoE Budget",
	"Join Time",

	// Access-point-specific
	"Board MAC",
	"Admin Status",
	"Client Count",
	"Mesh Uplink",
	"WTP Mode",
	"VDOM",
}

// Columns returns the unified schema's column names in output order.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)

	return out
}

// Row is one unified output row. Every column in Columns is present,
// with "" as the explicit empty marker for fields the originating source
// does not populate.
type Row map[string]string
