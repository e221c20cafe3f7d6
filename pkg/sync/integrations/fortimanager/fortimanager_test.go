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
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fortisync/pkg/logger"
	"github.com/carverauto/fortisync/pkg/models"
)

type managerFixture struct {
	mu sync.Mutex

	devices       []managedDevice
	proxyReplies  []proxyTarget
	rateLimitOnce bool

	proxyTargets []string
}

func (f *managerFixture) handler(t *testing.T) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		require.Equal(t, rpcPath, r.URL.Path)
		require.Equal(t, "Bearer test-apikey", r.Header.Get("Authorization"))

		if f.rateLimitOnce {
			f.rateLimitOnce = false
			http.Error(w, "slow down", http.StatusTooManyRequests)

			return
		}

		var req struct {
			Method string `json:"method"`
			Params []struct {
				URL     string    `json:"url"`
				LoadSub *int      `json:"loadsub"`
				Data    proxyData `json:"data"`
			} `json:"params"`
		}

		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Params, 1)

		switch req.Params[0].URL {
		case devicePath:
			require.Equal(t, "get", req.Method)
			require.NotNil(t, req.Params[0].LoadSub)
			require.Equal(t, 1, *req.Params[0].LoadSub)

			writeRPCResult(t, w, devicePath, f.devices)
		case proxyPath:
			require.Equal(t, "exec", req.Method)
			require.Equal(t, "get", req.Params[0].Data.Action)

			f.proxyTargets = append(f.proxyTargets, req.Params[0].Data.Target...)

			writeRPCResult(t, w, proxyPath, f.proxyReplies)
		default:
			t.Errorf("unexpected rpc url %q", req.Params[0].URL)
			http.NotFound(w, r)
		}
	}
}

func writeRPCResult(t *testing.T, w http.ResponseWriter, url string, data interface{}) {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	resp := rpcResponse{ID: 1, Result: []rpcResult{{URL: url, Data: raw}}}
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func newTestIntegration(serverURL string, families ...models.DeviceFamily) *Integration {
	return &Integration{
		Config: &models.SourceConfig{
			Type:     "fortimanager",
			Endpoint: serverURL,
			Families: families,
		},
		HTTP:   http.DefaultClient,
		APIKey: "test-apikey",
		Logger: logger.NewTestLogger(),
	}
}

func firewallFixture() *managerFixture {
	return &managerFixture{
		devices: []managedDevice{
			{
				Name:        "fw-cluster",
				Serial:      "FGT60F0000000001",
				Hostname:    "fw-cluster-a",
				Platform:    "FortiGate-60F",
				IP:          "10.0.0.1",
				ConnStatus:  1,
				MgmtMode:    3,
				OSVer:       7,
				MR:          4,
				Patch:       5,
				Build:       2463,
				HAMode:      2,
				HAGroupName: "branch-ha",
				HASlave: []haMember{
					{Serial: "FGT60F0000000001", Name: "fw-cluster-a", Role: 1, Status: 1, Priority: 200},
					{Serial: "FGT60F0000000002", Name: "fw-cluster-b", Role: 0, Status: 1, Priority: 100},
				},
				LastChecked: 1760000000,
				MaxVDOM:     10,
				ExtraInfo:   extraInfo{ADOM: "prod"},
				MetaFields:  metaFields{Company: "Acme BV"},
			},
			{
				Name:       "fw-edge",
				Serial:     "FGT40F0000000003",
				Platform:   "FortiGate-40F",
				IP:         "10.0.0.2",
				ConnStatus: 2,
				MgmtMode:   1,
				HAMode:     0,
				// Stale member data on a standalone unit must not
				// produce cluster rows.
				HASlave:   []haMember{{Serial: "FGT40F0000000003", Name: "fw-edge", Role: 2, Status: 1}},
				ExtraInfo: extraInfo{ADOM: "branch"},
			},
		},
	}
}

func TestFetchFirewallsDecodesDeviceManagerEnums(t *testing.T) {
	f := firewallFixture()

	server := httptest.NewServer(f.handler(t))
	t.Cleanup(server.Close)

	integ := newTestIntegration(server.URL, models.FamilyFortiGate)

	results, err := integ.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	assert.Equal(t, "managed-device/all/fortigate", results[0].Scope.String())
	require.Len(t, results[0].Records, 2)

	cluster := results[0].Records[0]
	assert.Equal(t, "FGT60F0000000001", cluster.Serial)
	assert.Equal(t, "Connected", cluster.Field("conn_status"))
	assert.Equal(t, "Normal", cluster.Field("mgmt_mode"))
	assert.Equal(t, "Active-Passive", cluster.Field("ha_mode"))
	assert.Equal(t, "7.4.5-build2463", cluster.Field("firmware"))
	assert.Equal(t, "Acme BV", cluster.Field("company"))
	assert.Equal(t, "prod", cluster.Field("adom"))
	assert.Equal(t, "10", cluster.Field("maxvdom"))
	assert.Equal(t, "2025-10-09 08:53:20", cluster.Field("last_checked"))

	require.Len(t, cluster.Members, 2)
	assert.Equal(t, "Primary", cluster.Members[0].Role)
	assert.Equal(t, "Online", cluster.Members[0].Status)
	assert.Equal(t, "200", cluster.Members[0].Priority)
	assert.Equal(t, "Secondary", cluster.Members[1].Role)

	edge := results[0].Records[1]
	assert.Equal(t, "Disconnected", edge.Field("conn_status"))
	assert.Equal(t, "FMGFAZ", edge.Field("mgmt_mode"))
	assert.Equal(t, "Standalone", edge.Field("ha_mode"))
	assert.Equal(t, "FortiGate-40F Firewall", edge.Field("desc"))
	assert.Equal(t, "branch", edge.Field("company"), "company falls back to the adom")
	assert.Empty(t, edge.Field("firmware"), "unreported firmware stays empty")
	assert.Empty(t, edge.Members, "standalone units carry no cluster members")
}

func TestFetchSwitchesQueriesOnlyConnectedFirewalls(t *testing.T) {
	f := firewallFixture()
	f.proxyReplies = []proxyTarget{
		{
			Target: "adom/prod/device/fw-cluster",
			Response: proxyResponse{
				Status: "success",
				VDOM:   "root",
				Results: mustMarshal(t, []managedSwitch{
					{
						SwitchID:     "S224EN0000000001",
						Name:         "core-switch",
						State:        "Authorized",
						OSVersion:    "S224EN-v7.4.5-build880",
						Platform:     "FortiSwitch-224E-POE",
						MaxPoEBudget: 370,
						JoinTime:     "Mon Oct  6 09:00:00 2025",
					},
				}),
			},
		},
	}

	server := httptest.NewServer(f.handler(t))
	t.Cleanup(server.Close)

	integ := newTestIntegration(server.URL, models.FamilyFortiSwitch)

	results, err := integ.Fetch(context.Background())
	require.NoError(t, err)

	// The disconnected firewall yields an explicit empty scope and is
	// never targeted through the proxy.
	assert.Equal(t, []string{"adom/prod/device/fw-cluster"}, f.proxyTargets)
	require.Len(t, results, 2)

	var empty, populated *models.ScopeResult

	for idx := range results {
		if results[idx].Scope.ID == "fw-edge" {
			empty = &results[idx]
		} else {
			populated = &results[idx]
		}
	}

	require.NotNil(t, empty)
	assert.NoError(t, empty.Err)
	assert.Empty(t, empty.Records)

	require.NotNil(t, populated)
	require.NoError(t, populated.Err)
	require.Len(t, populated.Records, 1)

	sw := populated.Records[0]
	assert.Equal(t, "S224EN0000000001", sw.Serial)
	assert.Equal(t, "FortiSwitch-S224EN", sw.Model, "model code comes off the firmware string")
	assert.Equal(t, "Connected", sw.Field("conn_status"))
	assert.Equal(t, "10.0.0.1", sw.Field("ip"), "switches report through their parent's address")
	assert.Equal(t, "370", sw.Field("max_poe_budget"))
	assert.Equal(t, "root", sw.Field("vdom"))

	require.NotNil(t, sw.Parent)
	assert.Equal(t, "fw-cluster", sw.Parent.Name)
	assert.Equal(t, "FGT60F0000000001", sw.Parent.Serial)
}

func TestFetchSubDevicesFailedTargetSkipsOnlyThatFirewall(t *testing.T) {
	f := firewallFixture()
	f.devices[1].ConnStatus = 1 // both firewalls queried
	f.proxyReplies = []proxyTarget{
		{
			Target: "adom/prod/device/fw-cluster",
			Status: rpcStatus{Code: -11, Message: "no permission"},
		},
		{
			Target: "adom/branch/device/fw-edge",
			Response: proxyResponse{
				Status:  "success",
				Results: mustMarshal(t, []managedSwitch{{SwitchID: "S124EN0000000009", State: "Authorized"}}),
			},
		},
	}

	server := httptest.NewServer(f.handler(t))
	t.Cleanup(server.Close)

	integ := newTestIntegration(server.URL, models.FamilyFortiSwitch)

	results, err := integ.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "fw-cluster", results[0].Scope.ID)
	assert.ErrorIs(t, results[0].Err, errRPCStatus)

	assert.Equal(t, "fw-edge", results[1].Scope.ID)
	require.NoError(t, results[1].Err)
	assert.Len(t, results[1].Records, 1)
}

func TestFetchSubDevicesUnansweredTargetCountsAsSkip(t *testing.T) {
	f := firewallFixture()
	f.devices[1].ConnStatus = 1 // both firewalls queried
	// The proxy only answers for one of the two targets.
	f.proxyReplies = []proxyTarget{
		{
			Target: "adom/branch/device/fw-edge",
			Response: proxyResponse{
				Status:  "success",
				Results: mustMarshal(t, []managedSwitch{{SwitchID: "S124EN0000000009", State: "Authorized"}}),
			},
		},
	}

	server := httptest.NewServer(f.handler(t))
	t.Cleanup(server.Close)

	integ := newTestIntegration(server.URL, models.FamilyFortiSwitch)

	results, err := integ.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "fw-edge", results[0].Scope.ID)
	require.NoError(t, results[0].Err)
	assert.Len(t, results[0].Records, 1)

	assert.Equal(t, "fw-cluster", results[1].Scope.ID)
	assert.ErrorIs(t, results[1].Err, errMissingProxyReply)
	assert.Empty(t, results[1].Records)
}

func TestFetchAccessPoints(t *testing.T) {
	f := firewallFixture()
	f.proxyReplies = []proxyTarget{
		{
			Target: "adom/prod/device/fw-cluster",
			Response: proxyResponse{
				Status: "success",
				Results: mustMarshal(t, []managedAP{
					{
						WTPID:           "FP231F0000000001",
						WTPName:         "lobby-ap",
						WTPMode:         "normal",
						BoardMAC:        "00:11:22:33:44:55",
						IPAddress:       "10.0.5.20",
						ConnectionState: "Connected",
						AdminStatus:     "enable",
						Location:        "Lobby",
						OSVersion:       "FP231F-v7.4.4-build690",
						ClientCount:     12,
					},
				}),
			},
		},
	}

	server := httptest.NewServer(f.handler(t))
	t.Cleanup(server.Close)

	integ := newTestIntegration(server.URL, models.FamilyFortiAP)

	results, err := integ.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	var populated *models.ScopeResult

	for idx := range results {
		if len(results[idx].Records) > 0 {
			populated = &results[idx]
		}
	}

	require.NotNil(t, populated)

	ap := populated.Records[0]
	assert.Equal(t, "FP231F0000000001", ap.Serial)
	assert.Equal(t, "FP231F", ap.Model)
	assert.Equal(t, "lobby-ap", ap.Field("hostname"))
	assert.Equal(t, "FP231F Access Point", ap.Field("desc"))
	assert.Equal(t, "10.0.5.20", ap.Field("ip"))
	assert.Equal(t, "12", ap.Field("client_count"))
	assert.Equal(t, "Lobby", ap.Field("location"))
	require.NotNil(t, ap.Parent)
	assert.Equal(t, "fw-cluster", ap.Parent.Name)
}

func TestFetchRetriesOnceOnRateLimit(t *testing.T) {
	f := firewallFixture()
	f.rateLimitOnce = true

	server := httptest.NewServer(f.handler(t))
	t.Cleanup(server.Close)

	integ := newTestIntegration(server.URL, models.FamilyFortiGate)

	results, err := integ.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Len(t, results[0].Records, 2)
}

func TestNewIntegrationRequiresAPIKey(t *testing.T) {
	_, err := NewIntegration(&models.SourceConfig{
		Type:        "fortimanager",
		Endpoint:    "https://fmg.example",
		Credentials: map[string]string{},
	}, logger.NewTestLogger())
	assert.ErrorIs(t, err, errMissingAPIKey)
}

func TestFirmwareModelCode(t *testing.T) {
	tests := []struct {
		firmware string
		want     string
	}{
		{"S224EN-v7.4.5-build880", "S224EN"},
		{"FP231F-v7.4.4-build690", "FP231F"},
		{"v7.4.5-build880", ""},
		{"", ""},
		{"-v7.0.0", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, firmwareModelCode(tt.firmware), tt.firmware)
	}
}

func mustMarshal(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	return raw
}
