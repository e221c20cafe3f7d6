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

package forticloud

import (
	"github.com/carverauto/fortisync/pkg/logger"
	"github.com/carverauto/fortisync/pkg/models"
)

// Service identities the registry hands out separate bearer tokens for.
const (
	clientOrganization    = "organization"
	clientIAM             = "iam"
	clientAssetManagement = "assetmanagement"
)

const (
	unitsPath    = "/organization/v1/units/list"
	accountsPath = "/iam/v1/accounts/list"
	productsPath = "/registration/v3/products/list"
)

// statusNoRecords is the registry's "no records found" status; it is a
// legitimate empty result, not an error.
const statusNoRecords = 1008

// Integration manages the FortiCloud asset-registry integration.
type Integration struct {
	Config   *models.SourceConfig
	HTTP     HTTPClient
	Tokens   TokenProvider
	Patterns models.SerialPatterns
	PageSize int
	Logger   logger.Logger
}

// accessTokenResponse is the OAuth password-grant response.
type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type unitsResponse struct {
	Status            int    `json:"status"`
	Message           string `json:"message"`
	OrganizationUnits struct {
		OrgID    int64     `json:"orgId"`
		Name     string    `json:"name"`
		OrgUnits []orgUnit `json:"orgUnits"`
	} `json:"organizationUnits"`
}

type orgUnit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type accountsResponse struct {
	Status   int       `json:"status"`
	Message  string    `json:"message"`
	Accounts []account `json:"accounts"`
}

type account struct {
	ID       int64  `json:"id"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	ParentID int64  `json:"parentId"`
}

// productsResponse is one page of an asset search. A nil assets list is
// the same as an empty one: some registry deployments omit the container
// when there is no data.
type productsResponse struct {
	Status    int     `json:"status"`
	Message   string  `json:"message"`
	Assets    []asset `json:"assets"`
	MorePages bool    `json:"morePages"`
}

type asset struct {
	SerialNumber     string             `json:"serialNumber"`
	ProductModel     string             `json:"productModel"`
	Description      string             `json:"description"`
	Status           string             `json:"status"`
	RegistrationDate string             `json:"registrationDate"`
	ProductModelEoR  string             `json:"productModelEoR"`
	ProductModelEoS  string             `json:"productModelEoS"`
	IsDecommissioned bool               `json:"isDecommissioned"`
	FolderPath       string             `json:"folderPath"`
	FolderID         int64              `json:"folderId"`
	AccountID        int64              `json:"accountId"`
	Contracts        []assetContract    `json:"contracts"`
	Entitlements     []assetEntitlement `json:"entitlements"`
}

type assetContract struct {
	ContractNumber string         `json:"contractNumber"`
	SKU            string         `json:"sku"`
	Terms          []contractTerm `json:"terms"`
}

type contractTerm struct {
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	SupportType string `json:"supportType"`
}

type assetEntitlement struct {
	LevelDesc string `json:"levelDesc"`
	TypeDesc  string `json:"typeDesc"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}
