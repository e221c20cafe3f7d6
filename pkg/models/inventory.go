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

// Package models holds the shared data model for the inventory pipeline:
// scopes, raw device records and their nested sub-records, and the
// account directory built during discovery.
package models

import "fmt"

// SourceTag identifies the system a record was fetched from. It is the
// discriminator the field mapper keys its extraction-rule tables on.
type SourceTag string

const (
	SourceFortiCloud   SourceTag = "FortiCloud"
	SourceFortiManager SourceTag = "FortiManager"
	SourceTopDesk      SourceTag = "TopDesk"
)

// DeviceFamily classifies a device for filtering and for serial-pattern
// selection during multi-pattern queries.
type DeviceFamily string

const (
	FamilyFortiGate   DeviceFamily = "fortigate"
	FamilyFortiSwitch DeviceFamily = "fortiswitch"
	FamilyFortiAP     DeviceFamily = "fortiap"
)

// AllFamilies lists every known device family in export order.
func AllFamilies() []DeviceFamily {
	return []DeviceFamily{FamilyFortiGate, FamilyFortiSwitch, FamilyFortiAP}
}

// ScopeKind distinguishes the two discovery hierarchies.
type ScopeKind string

const (
	// ScopeAccount is a cloud-registry account discovered via the
	// organizational-unit hierarchy.
	ScopeAccount ScopeKind = "account"
	// ScopeManagedDevice is a parent device whose subordinate devices are
	// reached through a proxied query.
	ScopeManagedDevice ScopeKind = "managed-device"
	// ScopeTemplate is an asset-management template (asset class) queried
	// as one paginated listing.
	ScopeTemplate ScopeKind = "template"
)

// Scope is one addressable query context under which device records are
// retrieved. Scopes are created during discovery and are immutable.
type Scope struct {
	Kind   ScopeKind    `json:"kind"`
	ID     string       `json:"id"`
	Label  string       `json:"label,omitempty"`
	Family DeviceFamily `json:"family,omitempty"`
}

func (s Scope) String() string {
	if s.Family != "" {
		return fmt.Sprintf("%s/%s/%s", s.Kind, s.ID, s.Family)
	}

	return fmt.Sprintf("%s/%s", s.Kind, s.ID)
}

// ScopeResult carries the raw records fetched for one scope, or the error
// that caused the scope to be skipped. A skipped scope never aborts the
// run; the pipeline records it and continues.
type ScopeResult struct {
	Scope   Scope
	Records []RawDeviceRecord
	Err     error
}

// AccountMeta is the organization metadata joined into rows by account ID.
type AccountMeta struct {
	ID      int64  `json:"id"`
	Company string `json:"company"`
	Email   string `json:"email"`
	OUID    int64  `json:"ou_id"`
	OUName  string `json:"ou_name"`
}

// AccountDirectory maps account ID to metadata. It is built once per run
// by hierarchy discovery and read-only afterwards. An account reachable
// from two organizational units is recorded once; the metadata of the
// unit visited last wins.
type AccountDirectory map[int64]AccountMeta

// Contract is one support-contract term attached to a device. Dates are
// kept in the upstream representation; normalization happens at mapping.
type Contract struct {
	Number      string `json:"number"`
	SKU         string `json:"sku,omitempty"`
	Type        string `json:"type,omitempty"`
	Summary     string `json:"summary,omitempty"`
	SupportType string `json:"support_type,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Status      string `json:"status,omitempty"` // upstream literal, if any
	Archived    bool   `json:"archived,omitempty"`
}

// Entitlement is one support-coverage entitlement attached to a device.
type Entitlement struct {
	Level     string `json:"level"`
	Type      string `json:"type"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// ClusterMember is one peer of a high-availability group. It carries its
// own identity and health distinct from the parent record's.
type ClusterMember struct {
	Serial   string `json:"serial"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// ParentLink identifies the managing device of a subordinate device
// (a switch or access point owned by a firewall).
type ParentLink struct {
	Name     string `json:"name"`
	Serial   string `json:"serial,omitempty"`
	Platform string `json:"platform,omitempty"`
	IP       string `json:"ip,omitempty"`
}

// RawDeviceRecord is the source-specific, still-nested representation of
// one device. Serial is unique within one scope's result set; the same
// serial may reappear across scopes or across the patterns of a
// multi-pattern query, which is what deduplication removes.
//
// Fields holds source-specific scalars under their wire names, untouched.
// Only the field mapper's per-source rule tables read them.
type RawDeviceRecord struct {
	Source SourceTag    `json:"source"`
	Family DeviceFamily `json:"family"`
	Scope  Scope        `json:"scope"`

	Serial string `json:"serial"`
	Model  string `json:"model"`
	Name   string `json:"name"`

	Fields map[string]string `json:"fields,omitempty"`

	Account *AccountMeta `json:"account,omitempty"`
	Parent  *ParentLink  `json:"parent,omitempty"`

	Contracts    []Contract      `json:"contracts,omitempty"`
	Entitlements []Entitlement   `json:"entitlements,omitempty"`
	Members      []ClusterMember `json:"members,omitempty"`
}

// Field returns the source-specific scalar stored under key, or "".
func (r *RawDeviceRecord) Field(key string) string {
	if r.Fields == nil {
		return ""
	}

	return r.Fields[key]
}
