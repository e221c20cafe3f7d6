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

package topdesk

import (
	"github.com/carverauto/fortisync/pkg/logger"
	"github.com/carverauto/fortisync/pkg/models"
)

const (
	assetsPath     = "/tas/api/assetmgmt/assets"
	assetLinksPath = "/tas/api/assetmgmt/assetLinks"

	// acceptAssetsV2 selects the response shape the list endpoint uses for
	// templated field selection; single-asset and link endpoints speak
	// plain JSON.
	acceptAssetsV2 = "application/x.topdesk-am-assets-v2+json"
	acceptJSON     = "application/json"

	// listFields is the field selection requested per asset. Several are
	// deployment-defined free fields with Dutch names.
	listFields = "name,@type,@@summary,@assignments,@status,modificationDate,creationDate," +
		"serienummer,model,ip-address,host-name,software-versie,vendor,environment-1,aanschafdatum"
)

// Integration manages the TopDesk asset-management integration.
type Integration struct {
	Config   *models.SourceConfig
	HTTP     HTTPClient
	Username string
	Password string
	PageSize int
	Logger   logger.Logger
}

// assetPage is one page of the template-filtered asset listing.
type assetPage struct {
	DataSet []tdAsset `json:"dataSet"`
}

type tdAsset struct {
	UnID             string        `json:"unid"`
	Name             string        `json:"name"`
	Type             tdType        `json:"@type"`
	Summary          string        `json:"@@summary"`
	Assignments      tdAssignments `json:"@assignments"`
	Status           string        `json:"@status"`
	Archived         bool          `json:"archived"`
	ModificationDate string        `json:"modificationDate"`
	CreationDate     string        `json:"creationDate"`
	SerialNumber     string        `json:"serienummer"`
	Model            string        `json:"model"`
	IPAddress        string        `json:"ip-address"`
	HostName         string        `json:"host-name"`
	Firmware         string        `json:"software-versie"`
	Vendor           string        `json:"vendor"`
	Environment      string        `json:"environment-1"`
	PurchaseDate     string        `json:"aanschafdatum"`
}

type tdType struct {
	Name string `json:"name"`
}

type tdAssignments struct {
	Locations []tdLocation `json:"locations"`
}

type tdLocation struct {
	Branch   tdNamed  `json:"branch"`
	Location *tdNamed `json:"location"`
}

type tdNamed struct {
	Name string `json:"name"`
}

// assetLink is one entry of an asset's linked-asset listing; support
// contracts are modeled as linked assets.
type assetLink struct {
	AssetID  string `json:"assetId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Summary  string `json:"summary"`
	Status   string `json:"status"`
	Archived bool   `json:"archived"`
}

// assetDetail is a single-asset fetch; validity dates live in the
// deployment-defined free fields of the data object.
type assetDetail struct {
	Data assetDetailData `json:"data"`
}

type assetDetailData struct {
	PurchaseDate   string `json:"aanschafdatum"`
	ExpirationDate string `json:"vervaldatum"`
}
