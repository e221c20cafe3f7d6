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
	"strings"
	"time"

	"github.com/carverauto/fortisync/pkg/models"
)

// fetchSubDevices queries every connected firewall for the subordinate
// devices of one family through the manager's proxy endpoint. Each
// queried firewall becomes its own scope: a proxied failure skips only
// that firewall, and a disconnected firewall is an explicit empty scope
// rather than a query at all.
func (i *Integration) fetchSubDevices(ctx context.Context, parents []managedDevice, family models.DeviceFamily) ([]models.ScopeResult, error) {
	resource := switchResource
	if family == models.FamilyFortiAP {
		resource = apResource
	}

	byName := make(map[string]*managedDevice, len(parents))
	targets := make([]string, 0, len(parents))
	queried := make([]*managedDevice, 0, len(parents))

	var results []models.ScopeResult

	for idx := range parents {
		p := &parents[idx]
		if p.Name == "" {
			continue
		}

		byName[p.Name] = p

		if p.ConnStatus != 1 {
			results = append(results, models.ScopeResult{Scope: i.parentScope(p, family)})
			continue
		}

		adom := p.ExtraInfo.ADOM
		if adom == "" {
			adom = "root"
		}

		queried = append(queried, p)
		targets = append(targets, fmt.Sprintf("adom/%s/device/%s", adom, p.Name))
	}

	if len(targets) == 0 {
		return results, nil
	}

	result, err := i.exec(ctx, "exec", rpcParam{
		URL: proxyPath,
		Data: proxyData{
			Action:   "get",
			Resource: resource,
			Target:   targets,
			Timeout:  proxyTimeoutSeconds,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("proxy query %s: %w", resource, err)
	}

	var replies []proxyTarget

	if len(result.Data) > 0 {
		if err := json.Unmarshal(result.Data, &replies); err != nil {
			return nil, fmt.Errorf("decode proxy replies: %w", err)
		}
	}

	answered := make(map[string]bool, len(replies))

	for idx := range replies {
		reply := &replies[idx]

		parent := byName[targetDeviceName(reply.Target)]
		if parent == nil {
			i.Logger.Warn().Str("target", reply.Target).Msg("Proxy reply for unknown target")
			continue
		}

		answered[parent.Name] = true

		scope := i.parentScope(parent, family)

		records, err := i.decodeReply(reply, parent, family)
		if err != nil {
			i.Logger.Warn().Err(err).Str("scope", scope.String()).Msg("Skipping scope")
			results = append(results, models.ScopeResult{Scope: scope, Err: err})

			continue
		}

		for r := range records {
			records[r].Scope = scope
		}

		results = append(results, models.ScopeResult{Scope: scope, Records: records})
	}

	// A queried firewall the proxy never answered for would otherwise
	// vanish from the run summary.
	for _, p := range queried {
		if answered[p.Name] {
			continue
		}

		scope := i.parentScope(p, family)
		err := fmt.Errorf("%w: %s", errMissingProxyReply, p.Name)

		i.Logger.Warn().Err(err).Str("scope", scope.String()).Msg("Skipping scope")
		results = append(results, models.ScopeResult{Scope: scope, Err: err})
	}

	return results, nil
}

func (i *Integration) parentScope(p *managedDevice, family models.DeviceFamily) models.Scope {
	return models.Scope{
		Kind:   models.ScopeManagedDevice,
		ID:     p.Name,
		Label:  p.ExtraInfo.ADOM,
		Family: family,
	}
}

// targetDeviceName strips the adom/<name>/device/ prefix of a proxy
// target identifier.
func targetDeviceName(target string) string {
	if idx := strings.LastIndex(target, "/"); idx >= 0 {
		return target[idx+1:]
	}

	return target
}

func (i *Integration) decodeReply(reply *proxyTarget, parent *managedDevice, family models.DeviceFamily) ([]models.RawDeviceRecord, error) {
	if reply.Status.Code != 0 {
		return nil, fmt.Errorf("%w: target %s: code %d: %s",
			errRPCStatus, reply.Target, reply.Status.Code, reply.Status.Message)
	}

	if reply.Response.Status != "success" {
		return nil, fmt.Errorf("%w: target %s: device query returned %q",
			errRPCStatus, reply.Target, reply.Response.Status)
	}

	if len(reply.Response.Results) == 0 {
		return nil, nil
	}

	vdom := reply.Response.VDOM
	if vdom == "" {
		vdom = "root"
	}

	if family == models.FamilyFortiAP {
		var aps []managedAP

		if err := json.Unmarshal(reply.Response.Results, &aps); err != nil {
			return nil, fmt.Errorf("decode access points: %w", err)
		}

		records := make([]models.RawDeviceRecord, 0, len(aps))
		for idx := range aps {
			records = append(records, i.apToRecord(&aps[idx], parent, vdom))
		}

		return records, nil
	}

	var switches []managedSwitch

	if err := json.Unmarshal(reply.Response.Results, &switches); err != nil {
		return nil, fmt.Errorf("decode switches: %w", err)
	}

	records := make([]models.RawDeviceRecord, 0, len(switches))
	for idx := range switches {
		records = append(records, i.switchToRecord(&switches[idx], parent, vdom))
	}

	return records, nil
}

func (i *Integration) switchToRecord(s *managedSwitch, parent *managedDevice, vdom string) models.RawDeviceRecord {
	connStatus := s.State
	if s.State == "Authorized" {
		connStatus = "Connected"
	}

	model := s.Platform
	if code := firmwareModelCode(s.OSVersion); code != "" {
		model = "FortiSwitch-" + code
	}

	desc := s.Description
	if desc == "" && model != "" {
		desc = model + " Switch"
	}

	hostname := s.Name
	if hostname == "" {
		hostname = s.SwitchID
	}

	deviceType := s.DeviceType
	if deviceType == "" {
		deviceType = "physical"
	}

	poeBudget := ""
	if s.MaxPoEBudget != 0 {
		poeBudget = strconv.Itoa(s.MaxPoEBudget)
	}

	return models.RawDeviceRecord{
		Source: models.SourceFortiManager,
		Family: models.FamilyFortiSwitch,
		Serial: s.SwitchID,
		Model:  model,
		Name:   s.Name,
		Parent: parentLink(parent),
		Fields: map[string]string{
			"hostname":       hostname,
			"desc":           desc,
			"ip":             parent.IP,
			"conn_status":    connStatus,
			"firmware":       s.OSVersion,
			"company":        parent.ExtraInfo.ADOM,
			"adom":           parent.ExtraInfo.ADOM,
			"last_checked":   time.Now().UTC().Format("2006-01-02 15:04:05"),
			"device_type":    deviceType,
			"max_poe_budget": poeBudget,
			"join_time":      s.JoinTime,
			"vdom":           vdom,
		},
	}
}

func (i *Integration) apToRecord(ap *managedAP, parent *managedDevice, vdom string) models.RawDeviceRecord {
	hostname := ap.WTPName
	if hostname == "" {
		hostname = ap.WTPID
	}

	model := firmwareModelCode(ap.OSVersion)

	desc := ""
	if model != "" {
		desc = model + " Access Point"
	}

	clientCount := ""
	if ap.ClientCount != 0 {
		clientCount = strconv.Itoa(ap.ClientCount)
	}

	return models.RawDeviceRecord{
		Source: models.SourceFortiManager,
		Family: models.FamilyFortiAP,
		Serial: ap.WTPID,
		Model:  model,
		Name:   ap.WTPName,
		Parent: parentLink(parent),
		Fields: map[string]string{
			"hostname":     hostname,
			"desc":         desc,
			"ip":           ap.IPAddress,
			"conn_status":  ap.ConnectionState,
			"firmware":     ap.OSVersion,
			"company":      parent.ExtraInfo.ADOM,
			"adom":         parent.ExtraInfo.ADOM,
			"location":     ap.Location,
			"last_checked": time.Now().UTC().Format("2006-01-02 15:04:05"),
			"board_mac":    ap.BoardMAC,
			"admin_status": ap.AdminStatus,
			"client_count": clientCount,
			"mesh_uplink":  ap.MeshUplink,
			"wtp_mode":     ap.WTPMode,
			"vdom":         vdom,
		},
	}
}

func parentLink(parent *managedDevice) *models.ParentLink {
	return &models.ParentLink{
		Name:     parent.Name,
		Serial:   parent.Serial,
		Platform: parent.Platform,
		IP:       parent.IP,
	}
}

// firmwareModelCode pulls the model code off a firmware string such as
// "S224EN-v7.4.5-build880".
func firmwareModelCode(firmware string) string {
	idx := strings.Index(firmware, "-")
	if idx <= 0 {
		return ""
	}

	code := firmware[:idx]
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return ""
		}
	}

	return code
}
