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

package unify

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carverauto/fortisync/pkg/models"
)

var errUnknownSource = errors.New("no mapping table for source")

// Rule extracts one unified column's value from a flattened pair. Rules
// are pure; normalization helpers keep the output format uniform across
// sources.
type Rule func(p Pair, now time.Time) string

type ruleTable map[string]Rule

// tables holds one extraction-rule table per source tag. A column with no
// rule for the record's source maps to the empty marker; nothing else in
// the pipeline reads source-specific fields.
var tables = map[models.SourceTag]ruleTable{
	models.SourceFortiCloud:   buildTable(fortiCloudRules()),
	models.SourceFortiManager: buildTable(fortiManagerRules()),
	models.SourceTopDesk:      buildTable(topDeskRules()),
}

// MapRow projects one flattened pair into a fully populated unified row.
// Every column in Columns is present; unmapped ones carry "".
func MapRow(p Pair, now time.Time) (Row, error) {
	table, ok := tables[p.Record.Source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnknownSource, p.Record.Source)
	}

	row := make(Row, len(columns))

	for _, col := range columns {
		var v string

		if rule := table[col]; rule != nil {
			v = rule(p, now)
		}

		row[col] = strings.TrimSpace(v)
	}

	return row, nil
}

// buildTable merges the rules shared by all sources with one source's
// overrides. Shared rules cover identity, sub-item expansion, and parent
// tracking; everything else is per-source.
func buildTable(overrides ruleTable) ruleTable {
	t := make(ruleTable, len(columns))

	for col, r := range sharedRules() {
		t[col] = r
	}

	for col, r := range overrides {
		t[col] = r
	}

	return t
}

func sharedRules() ruleTable {
	return ruleTable{
		// A cluster-member row describes the member, not the cluster
		// primary the record was fetched under.
		"Serial Number": func(p Pair, _ time.Time) string {
			if m := p.Sub.Member; m != nil {
				return m.Serial
			}

			return p.Record.Serial
		},
		"Device Name": func(p Pair, _ time.Time) string {
			if m := p.Sub.Member; m != nil {
				return m.Name
			}

			return p.Record.Name
		},
		"Model": func(p Pair, _ time.Time) string { return p.Record.Model },
		"Asset Type": func(p Pair, _ time.Time) string {
			return assetType(p.Record.Family)
		},
		"Source System": func(p Pair, _ time.Time) string {
			return string(p.Record.Source)
		},

		"Contract Number": contractField(func(c *models.Contract) string { return c.Number }),
		"Contract SKU":    contractField(func(c *models.Contract) string { return c.SKU }),
		"Contract Type":   contractField(func(c *models.Contract) string { return c.Type }),
		"Contract Summary": contractField(func(c *models.Contract) string {
			return c.Summary
		}),
		"Contract Start Date": contractField(func(c *models.Contract) string {
			return Date(c.StartDate)
		}),
		"Contract Expiration Date": contractField(func(c *models.Contract) string {
			return Date(c.EndDate)
		}),
		// Computed from the end date at mapping time. Sources disagree on
		// pre-computed status literals, so they are never copied.
		"Contract Status": func(p Pair, now time.Time) string {
			switch {
			case p.Sub.Contract != nil:
				return CoverageStatus(p.Sub.Contract.EndDate, now)
			case p.Sub.Entitlement != nil:
				return CoverageStatus(p.Sub.Entitlement.EndDate, now)
			default:
				return ""
			}
		},
		"Contract Support Type": contractField(func(c *models.Contract) string {
			return c.SupportType
		}),
		"Contract Archived": func(p Pair, _ time.Time) string {
			if c := p.Sub.Contract; c != nil {
				return YesNo(c.Archived)
			}

			return ""
		},

		"Entitlement Level": entitlementField(func(e *models.Entitlement) string { return e.Level }),
		"Entitlement Type":  entitlementField(func(e *models.Entitlement) string { return e.Type }),
		"Entitlement Start Date": entitlementField(func(e *models.Entitlement) string {
			return Date(e.StartDate)
		}),
		"Entitlement End Date": entitlementField(func(e *models.Entitlement) string {
			return Date(e.EndDate)
		}),

		"HA Role":          memberField(func(m *models.ClusterMember) string { return m.Role }),
		"HA Member Status": memberField(func(m *models.ClusterMember) string { return m.Status }),
		"HA Priority":      memberField(func(m *models.ClusterMember) string { return m.Priority }),

		"Parent FortiGate":          parentField(func(pl *models.ParentLink) string { return pl.Name }),
		"Parent FortiGate Serial":   parentField(func(pl *models.ParentLink) string { return pl.Serial }),
		"Parent FortiGate Platform": parentField(func(pl *models.ParentLink) string { return pl.Platform }),
		"Parent FortiGate IP":       parentField(func(pl *models.ParentLink) string { return pl.IP }),
	}
}

func fortiCloudRules() ruleTable {
	return ruleTable{
		"Device Name": func(p Pair, _ time.Time) string {
			if m := p.Sub.Member; m != nil {
				return m.Name
			}

			if p.Record.Name != "" {
				return p.Record.Name
			}

			return p.Record.Field("description")
		},
		"Description":       recordField("description"),
		"Connection Status": recordField("status"),

		"Company": accountField(func(a *models.AccountMeta) string { return a.Company }),
		"Organizational Unit": accountField(func(a *models.AccountMeta) string {
			return a.OUName
		}),
		"Folder Path": recordField("folderPath"),
		"Folder ID":   recordField("folderId"),
		"Vendor":      constant("Fortinet"),

		"Status": recordField("status"),
		"Is Decommissioned": func(p Pair, _ time.Time) string {
			return Bool(p.Record.Field("isDecommissioned"))
		},
		"Archived": func(p Pair, _ time.Time) string {
			return Bool(p.Record.Field("isDecommissioned"))
		},
		"Registration Date": dateField("registrationDate"),
		"Product EoR":       dateField("productModelEoR"),
		"Product EoS":       dateField("productModelEoS"),
		"Last Updated":      dateField("registrationDate"),

		"Account ID": accountField(func(a *models.AccountMeta) string { return Int(a.ID) }),
		"Account Email": accountField(func(a *models.AccountMeta) string {
			return a.Email
		}),
		"Account OU ID": accountField(func(a *models.AccountMeta) string { return Int(a.OUID) }),
	}
}

func fortiManagerRules() ruleTable {
	return ruleTable{
		"Hostname": func(p Pair, _ time.Time) string {
			if h := p.Record.Field("hostname"); h != "" {
				return h
			}

			return p.Record.Name
		},
		"Description":       recordField("desc"),
		"Management IP":     recordField("ip"),
		"Connection Status": recordField("conn_status"),
		"Management Mode":   recordField("mgmt_mode"),
		"Firmware Version":  recordField("firmware"),

		"Company":             recordField("company"),
		"Organizational Unit": recordField("adom"),
		"Location":            recordField("location"),
		"Vendor":              constant("Fortinet"),

		"Status":            recordField("conn_status"),
		"Is Decommissioned": constant("No"),
		"Archived":          constant("No"),
		"Last Updated":      dateField("last_checked"),

		"HA Mode":         recordField("ha_mode"),
		"HA Cluster Name": recordField("ha_group_name"),
		"Max VDOMs":       recordField("maxvdom"),

		"Device Type":    recordField("device_type"),
		"Max PoE Budget": recordField("max_poe_budget"),
		"Join Time":      recordField("join_time"),

		"Board MAC":    recordField("board_mac"),
		"Admin Status": recordField("admin_status"),
		"Client Count": recordField("client_count"),
		"Mesh Uplink":  recordField("mesh_uplink"),
		"WTP Mode":     recordField("wtp_mode"),
		"VDOM":         recordField("vdom"),
	}
}

func topDeskRules() ruleTable {
	return ruleTable{
		"Hostname": func(p Pair, _ time.Time) string {
			if h := p.Record.Field("host-name"); h != "" {
				return h
			}

			return p.Record.Name
		},
		"Description":       recordField("summary"),
		"Management IP":     recordField("ip-address"),
		"Connection Status": recordField("status"),
		"Firmware Version":  recordField("software-versie"),

		"Branch":   recordField("branch"),
		"Location": recordField("location"),
		"Vendor": func(p Pair, _ time.Time) string {
			if v := p.Record.Field("vendor"); v != "" {
				return v
			}

			return "Fortinet"
		},

		"Status": recordField("status"),
		"Archived": func(p Pair, _ time.Time) string {
			return Bool(p.Record.Field("archived"))
		},
		"Registration Date": dateField("creationDate"),
		"Last Updated":      dateField("modificationDate"),
	}
}

func assetType(family models.DeviceFamily) string {
	switch family {
	case models.FamilyFortiGate:
		return "Firewall"
	case models.FamilyFortiSwitch:
		return "Switch"
	case models.FamilyFortiAP:
		return "Access Point"
	default:
		return ""
	}
}

func constant(v string) Rule {
	return func(Pair, time.Time) string { return v }
}

func recordField(key string) Rule {
	return func(p Pair, _ time.Time) string { return p.Record.Field(key) }
}

func dateField(key string) Rule {
	return func(p Pair, _ time.Time) string { return Date(p.Record.Field(key)) }
}

func contractField(get func(*models.Contract) string) Rule {
	return func(p Pair, _ time.Time) string {
		if c := p.Sub.Contract; c != nil {
			return get(c)
		}

		return ""
	}
}

func entitlementField(get func(*models.Entitlement) string) Rule {
	return func(p Pair, _ time.Time) string {
		if e := p.Sub.Entitlement; e != nil {
			return get(e)
		}

		return ""
	}
}

func memberField(get func(*models.ClusterMember) string) Rule {
	return func(p Pair, _ time.Time) string {
		if m := p.Sub.Member; m != nil {
			return get(m)
		}

		return ""
	}
}

func parentField(get func(*models.ParentLink) string) Rule {
	return func(p Pair, _ time.Time) string {
		if pl := p.Record.Parent; pl != nil {
			return get(pl)
		}

		return ""
	}
}

func accountField(get func(*models.AccountMeta) string) Rule {
	return func(p Pair, _ time.Time) string {
		if a := p.Record.Account; a != nil {
			return get(a)
		}

		return ""
	}
}
