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
	"context"
	"fmt"
	"strings"

	"github.com/carverauto/fortisync/pkg/models"
	"github.com/carverauto/fortisync/pkg/pager"
)

// fetchScope retrieves every device of one family registered to one
// account. The registry only matches serial prefixes, and some families
// span several prefixes, so every configured pattern is queried and the
// union deduplicated by serial number (first occurrence wins). Model
// prefixes then drop assets another family's serial happens to match.
func (i *Integration) fetchScope(ctx context.Context, acct models.AccountMeta, family models.DeviceFamily) ([]models.RawDeviceRecord, error) {
	patterns, ok := i.Patterns[family]
	if !ok || len(patterns) == 0 {
		return nil, fmt.Errorf("%w: no serial patterns for family %s", errAPIStatus, family)
	}

	seen := make(map[string]bool)

	var records []models.RawDeviceRecord

	for _, pattern := range patterns {
		assets, err := i.searchAssets(ctx, acct.ID, pattern)
		if err != nil {
			return nil, fmt.Errorf("search pattern %q: %w", pattern, err)
		}

		for idx := range assets {
			a := &assets[idx]

			if a.SerialNumber == "" || seen[a.SerialNumber] {
				continue
			}

			if !matchesFamily(a.ProductModel, family) {
				continue
			}

			seen[a.SerialNumber] = true

			records = append(records, i.assetToRecord(a, acct, family))
		}
	}

	return records, nil
}

// searchAssets pages through one serial-pattern search for one account.
// The registry pages by number, not offset, and may cap the effective
// page size below the request, so the page counter is tracked per call
// rather than derived from the offset: deriving it would re-request the
// same page whenever a capped page leaves the offset short of a full
// requested page.
func (i *Integration) searchAssets(ctx context.Context, accountID int64, pattern string) ([]asset, error) {
	page := 0

	return pager.All(ctx, i.PageSize, func(ctx context.Context, _, size int) ([]asset, bool, error) {
		page++

		payload := map[string]interface{}{
			"accountId":    accountID,
			"serialNumber": pattern,
			"pageNumber":   page,
			"pageSize":     size,
		}

		var resp productsResponse

		if err := i.postJSON(ctx, clientAssetManagement, productsPath, payload, &resp); err != nil {
			return nil, false, err
		}

		switch {
		case resp.Status == statusNoRecords:
			return nil, false, nil
		case resp.Status != 0:
			return nil, false, fmt.Errorf("%w: products/list status %d: %s", errAPIStatus, resp.Status, resp.Message)
		}

		return resp.Assets, resp.MorePages, nil
	})
}

func matchesFamily(model string, family models.DeviceFamily) bool {
	for _, prefix := range models.ModelPrefixes(family) {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}

	return false
}

func (i *Integration) assetToRecord(a *asset, acct models.AccountMeta, family models.DeviceFamily) models.RawDeviceRecord {
	rec := models.RawDeviceRecord{
		Source: models.SourceFortiCloud,
		Family: family,
		Serial: a.SerialNumber,
		Model:  a.ProductModel,
		Name:   a.Description,
		Account: &models.AccountMeta{
			ID:      acct.ID,
			Company: acct.Company,
			Email:   acct.Email,
			OUID:    acct.OUID,
			OUName:  acct.OUName,
		},
		Fields: map[string]string{
			"description":      a.Description,
			"status":           a.Status,
			"registrationDate": a.RegistrationDate,
			"productModelEoR":  a.ProductModelEoR,
			"productModelEoS":  a.ProductModelEoS,
			"isDecommissioned": boolString(a.IsDecommissioned),
			"folderPath":       a.FolderPath,
			"folderId":         fmt.Sprintf("%d", a.FolderID),
		},
	}

	for _, c := range a.Contracts {
		if len(c.Terms) == 0 {
			rec.Contracts = append(rec.Contracts, models.Contract{
				Number: c.ContractNumber,
				SKU:    c.SKU,
			})

			continue
		}

		// One logical contract per term: each term carries its own
		// support type and validity window.
		for _, term := range c.Terms {
			rec.Contracts = append(rec.Contracts, models.Contract{
				Number:      c.ContractNumber,
				SKU:         c.SKU,
				SupportType: term.SupportType,
				StartDate:   term.StartDate,
				EndDate:     term.EndDate,
			})
		}
	}

	for _, e := range a.Entitlements {
		rec.Entitlements = append(rec.Entitlements, models.Entitlement{
			Level:     e.LevelDesc,
			Type:      e.TypeDesc,
			StartDate: e.StartDate,
			EndDate:   e.EndDate,
		})
	}

	return rec
}

func boolString(b bool) string {
	if b {
		return "true"
	}

	return "false"
}
