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

package fortimanager

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/carverauto/fortisync/pkg/models"
)

// Numeric enums the device manager reports. Unknown values fall through
// to the zero label.
var (
	connStatusLabels = map[int]string{0: "Unknown", 1: "Connected", 2: "Disconnected"}
	mgmtModeLabels   = map[int]string{0: "Unreg", 1: "FMGFAZ", 2: "FMGFAI", 3: "Normal"}
	haModeLabels     = map[int]string{0: "Standalone", 1: "Active-Active", 2: "Active-Passive", 3: "Cluster"}
	haRoleLabels     = map[int]string{0: "Secondary", 1: "Primary", 2: "Standalone"}
	haStatusLabels   = map[int]string{0: "Offline", 1: "Online", 2: "Unknown"}
)

func connStatusLabel(v int) string {
	if s, ok := connStatusLabels[v]; ok {
		return s
	}

	return "Unknown"
}

func haModeLabel(v int) string {
	if s, ok := haModeLabels[v]; ok {
		return s
	}

	return "Standalone"
}

// listDevices retrieves every managed firewall with its HA members
// embedded.
func (i *Integration) listDevices(ctx context.Context) ([]managedDevice, error) {
	loadsub := 1

	result, err := i.exec(ctx, "get", rpcParam{
		URL:     devicePath,
		Option:  []string{"extra info"},
		LoadSub: &loadsub,
	})
	if err != nil {
		return nil, fmt.Errorf("list managed devices: %w", err)
	}

	var devices []managedDevice

	if len(result.Data) > 0 {
		if err := json.Unmarshal(result.Data, &devices); err != nil {
			return nil, fmt.Errorf("decode managed devices: %w", err)
		}
	}

	return devices, nil
}

// deviceToRecord maps one managed firewall to a raw record. HA members
// become cluster-member sub-items, so clusters flatten to one row per
// peer downstream.
func (i *Integration) deviceToRecord(d *managedDevice) models.RawDeviceRecord {
	firmware := ""
	if d.OSVer != 0 {
		firmware = fmt.Sprintf("%d.%d.%d-build%d", d.OSVer, d.MR, d.Patch, d.Build)
	}

	desc := d.Description
	if desc == "" && d.Platform != "" {
		desc = d.Platform + " Firewall"
	}

	company := d.MetaFields.Company
	if company == "" {
		company = d.ExtraInfo.ADOM
	}

	lastChecked := ""
	if d.LastChecked != 0 {
		lastChecked = time.Unix(d.LastChecked, 0).UTC().Format("2006-01-02 15:04:05")
	}

	maxVDOM := ""
	if d.MaxVDOM != 0 {
		maxVDOM = strconv.Itoa(d.MaxVDOM)
	}

	rec := models.RawDeviceRecord{
		Source: models.SourceFortiManager,
		Family: models.FamilyFortiGate,
		Serial: d.Serial,
		Model:  d.Platform,
		Name:   d.Name,
		Fields: map[string]string{
			"hostname":      d.Hostname,
			"desc":          desc,
			"ip":            d.IP,
			"conn_status":   connStatusLabel(d.ConnStatus),
			"mgmt_mode":     mgmtModeLabels[d.MgmtMode],
			"firmware":      firmware,
			"company":       company,
			"adom":          d.ExtraInfo.ADOM,
			"ha_mode":       haModeLabel(d.HAMode),
			"ha_group_name": d.HAGroupName,
			"maxvdom":       maxVDOM,
			"last_checked":  lastChecked,
		},
	}

	// Standalone units carry no members and flatten to a single row.
	if d.HAMode != 0 {
		for _, m := range d.HASlave {
			priority := ""
			if m.Priority != 0 {
				priority = strconv.Itoa(m.Priority)
			}

			rec.Members = append(rec.Members, models.ClusterMember{
				Serial:   m.Serial,
				Name:     m.Name,
				Role:     haRoleLabels[m.Role],
				Status:   haStatusLabels[m.Status],
				Priority: priority,
			})
		}
	}

	return rec
}
