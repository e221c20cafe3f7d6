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

	"github.com/carverauto/fortisync/pkg/models"
)

// DiscoverAccounts walks the organization graph: the root organization
// plus every organizational unit under it, then the accounts registered
// in each. An account reachable through several units keeps the metadata
// of the unit seen last.
func (i *Integration) DiscoverAccounts(ctx context.Context) (models.AccountDirectory, error) {
	var units unitsResponse

	if err := i.postJSON(ctx, clientOrganization, unitsPath, map[string]interface{}{}, &units); err != nil {
		return nil, fmt.Errorf("list organizational units: %w", err)
	}

	if units.Status != 0 {
		return nil, fmt.Errorf("%w: units/list status %d: %s", errAPIStatus, units.Status, units.Message)
	}

	scopes := []orgUnit{{ID: units.OrganizationUnits.OrgID, Name: units.OrganizationUnits.Name}}
	scopes = append(scopes, units.OrganizationUnits.OrgUnits...)

	directory := make(models.AccountDirectory)

	for _, unit := range scopes {
		accounts, err := i.listAccounts(ctx, unit.ID)
		if err != nil {
			return nil, fmt.Errorf("list accounts for unit %d (%s): %w", unit.ID, unit.Name, err)
		}

		for _, acct := range accounts {
			directory[acct.ID] = models.AccountMeta{
				ID:      acct.ID,
				Company: acct.Company,
				Email:   acct.Email,
				OUID:    unit.ID,
				OUName:  unit.Name,
			}
		}
	}

	if len(directory) == 0 {
		return nil, errNoAccounts
	}

	i.Logger.Info().
		Int("units", len(scopes)).
		Int("accounts", len(directory)).
		Msg("Discovered FortiCloud accounts")

	return directory, nil
}

func (i *Integration) listAccounts(ctx context.Context, unitID int64) ([]account, error) {
	var resp accountsResponse

	payload := map[string]interface{}{"organizationUnitId": unitID}

	if err := i.postJSON(ctx, clientIAM, accountsPath, payload, &resp); err != nil {
		return nil, err
	}

	switch {
	case resp.Status == statusNoRecords:
		return nil, nil
	case resp.Status != 0:
		return nil, fmt.Errorf("%w: accounts/list status %d: %s", errAPIStatus, resp.Status, resp.Message)
	}

	return resp.Accounts, nil
}
