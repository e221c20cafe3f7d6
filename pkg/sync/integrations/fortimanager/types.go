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
	"encoding/json"

	"github.com/carverauto/fortisync/pkg/logger"
	"github.com/carverauto/fortisync/pkg/models"
)

const (
	rpcPath    = "/jsonrpc"
	devicePath = "/dvmdb/device"
	proxyPath  = "/sys/proxy/json"

	switchResource = "/api/v2/monitor/switch-controller/managed-switch/status"
	apResource     = "/api/v2/monitor/wifi/managed_ap"

	proxyTimeoutSeconds = 90
)

// Integration manages the FortiManager device-manager integration.
type Integration struct {
	Config *models.SourceConfig
	HTTP   HTTPClient
	APIKey string
	Logger logger.Logger
}

// rpcRequest is the JSON-RPC envelope. FortiManager takes an array of
// param objects but replies per element, so requests here always carry
// exactly one.
type rpcRequest struct {
	ID     int        `json:"id"`
	Method string     `json:"method"`
	Params []rpcParam `json:"params"`
}

type rpcParam struct {
	URL     string      `json:"url"`
	Fields  []string    `json:"fields,omitempty"`
	Option  []string    `json:"option,omitempty"`
	LoadSub *int        `json:"loadsub,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type proxyData struct {
	Action   string   `json:"action"`
	Resource string   `json:"resource"`
	Target   []string `json:"target"`
	Timeout  int      `json:"timeout"`
}

type rpcResponse struct {
	ID     int         `json:"id"`
	Result []rpcResult `json:"result"`
}

type rpcResult struct {
	Status rpcStatus       `json:"status"`
	URL    string          `json:"url"`
	Data   json.RawMessage `json:"data"`
}

type rpcStatus struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// managedDevice is one /dvmdb/device entry. With loadsub enabled the
// entry embeds its HA members under ha_slave.
type managedDevice struct {
	Name        string     `json:"name"`
	Serial      string     `json:"sn"`
	Hostname    string     `json:"hostname"`
	Platform    string     `json:"platform_str"`
	Description string     `json:"desc"`
	IP          string     `json:"ip"`
	ConnStatus  int        `json:"conn_status"`
	MgmtMode    int        `json:"mgmt_mode"`
	OSVer       int        `json:"os_ver"`
	MR          int        `json:"mr"`
	Patch       int        `json:"patch"`
	Build       int        `json:"build"`
	HAMode      int        `json:"ha_mode"`
	HAGroupName string     `json:"ha_group_name"`
	HASlave     []haMember `json:"ha_slave"`
	LastChecked int64      `json:"last_checked"`
	MaxVDOM     int        `json:"maxvdom"`
	ExtraInfo   extraInfo  `json:"extra info"`
	MetaFields  metaFields `json:"meta fields"`
}

type haMember struct {
	Serial   string `json:"sn"`
	Name     string `json:"name"`
	Role     int    `json:"role"`
	Status   int    `json:"status"`
	Priority int    `json:"prio"`
}

type extraInfo struct {
	ADOM string `json:"adom"`
}

type metaFields struct {
	Company string `json:"Company/Organization"`
}

// proxyTarget is one per-FortiGate reply inside a /sys/proxy/json result.
type proxyTarget struct {
	Target   string        `json:"target"`
	Status   rpcStatus     `json:"status"`
	Response proxyResponse `json:"response"`
}

type proxyResponse struct {
	Status  string          `json:"status"`
	VDOM    string          `json:"vdom"`
	Results json.RawMessage `json:"results"`
}

// managedSwitch is one switch-controller status entry from a FortiGate.
type managedSwitch struct {
	SwitchID     string `json:"switch_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	State        string `json:"state"`
	OSVersion    string `json:"os_version"`
	Platform     string `json:"platform"`
	DeviceType   string `json:"type"`
	MaxPoEBudget int    `json:"max_poe_budget"`
	JoinTime     string `json:"join_time"`
}

// managedAP is one managed_ap monitor entry from a FortiGate.
type managedAP struct {
	WTPID           string `json:"wtp_id"`
	WTPName         string `json:"wtp_name"`
	WTPMode         string `json:"wtp_mode"`
	BoardMAC        string `json:"board_mac"`
	IPAddress       string `json:"ip_address"`
	ConnectionState string `json:"connection_state"`
	AdminStatus     string `json:"admin_status"`
	Location        string `json:"location"`
	OSVersion       string `json:"os_version"`
	ClientCount     int    `json:"client_count"`
	MeshUplink      string `json:"mesh_uplink"`
}
