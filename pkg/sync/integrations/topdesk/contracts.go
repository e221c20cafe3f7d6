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
	"context"
	"net/url"
	"strings"

	"github.com/carverauto/fortisync/pkg/models"
)

// fetchContracts resolves an asset's linked support contracts. The link
// listing only names them; validity dates require one detail fetch per
// contract.
func (i *Integration) fetchContracts(ctx context.Context, assetID string) ([]models.Contract, error) {
	if assetID == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("sourceId", assetID)

	var links []assetLink

	if err := i.getJSON(ctx, assetLinksPath, acceptJSON, params, &links); err != nil {
		return nil, err
	}

	var contracts []models.Contract

	for idx := range links {
		link := &links[idx]

		if !isContractLink(link.Type) {
			continue
		}

		contract := models.Contract{
			Number:   link.Name,
			Type:     link.Type,
			Summary:  link.Summary,
			Status:   link.Status,
			Archived: link.Archived,
		}

		// A failed detail fetch keeps the contract, just undated.
		var detail assetDetail

		if err := i.getJSON(ctx, assetsPath+"/"+link.AssetID, acceptJSON, nil, &detail); err != nil {
			i.Logger.Debug().Err(err).Str("contract", link.Name).Msg("Contract detail fetch failed")
		} else {
			contract.StartDate = detail.Data.PurchaseDate
			contract.EndDate = detail.Data.ExpirationDate
		}

		contracts = append(contracts, contract)
	}

	return contracts, nil
}

func isContractLink(linkType string) bool {
	lower := strings.ToLower(linkType)

	return strings.Contains(lower, "support") ||
		strings.Contains(lower, "contract") ||
		strings.Contains(lower, "license")
}
